package recordings

import (
	"net/url"
	"strings"
)

// objectMarker precedes the escaped object path in download locators, e.g.
// https://host/v0/b/<bucket>/o/recordings%2Fa.m4a?alt=media&token=...
const objectMarker = "/o/"

// ObjectPath recovers the object-store path embedded in a download locator.
// It returns "" when the locator carries no path.
func ObjectPath(downloadURL string) string {
	i := strings.Index(downloadURL, objectMarker)
	if i < 0 {
		return ""
	}
	raw := downloadURL[i+len(objectMarker):]
	if q := strings.IndexByte(raw, '?'); q >= 0 {
		raw = raw[:q]
	}
	if raw == "" {
		return ""
	}
	p, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return p
}
