// Package objectstore holds call audio blobs. Recordings reference blobs by the
// path embedded in their download locator.
package objectstore

import "errors"

var ErrNotFound = errors.New("objectstore: object not found")

// Info describes a stored object.
type Info struct {
	Size        int64
	ContentType string
}
