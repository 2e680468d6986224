package docstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentFieldsDecodeLeniently(t *testing.T) {
	d := Document{ID: "r1", Data: map[string]any{
		"duration":   json.Number("60"),
		"fileSize":   "2048",
		"recordedAt": float64(1700000000123),
		"broken":     "abc",
		"negative":   json.Number("-5"),
		"photoURL":   nil,
		"name":       "Kim",
	}}

	assert.Equal(t, int64(60), d.Int64("duration"))
	assert.Equal(t, int64(2048), d.Int64("fileSize"))
	assert.Equal(t, int64(1700000000123), d.Int64("recordedAt"))
	assert.Equal(t, int64(0), d.Int64("broken"))
	assert.Equal(t, int64(0), d.Int64("missing"))
	assert.Equal(t, int64(-5), d.Int64("negative"))
	assert.Equal(t, int64(0), d.Count("negative"))

	assert.Equal(t, "Kim", d.String("name"))
	assert.Equal(t, "", d.String("missing"))
	assert.Nil(t, d.OptionalString("photoURL"))
	if p := d.OptionalString("name"); assert.NotNil(t, p) {
		assert.Equal(t, "Kim", *p)
	}
}

func TestCollectionRejectsUnsafeNames(t *testing.T) {
	s := New(nil)
	_, err := s.Collection("recordings; DROP TABLE users")
	assert.ErrorIs(t, err, ErrInvalidCollection)

	c, err := s.Collection("recordings")
	assert.NoError(t, err)
	assert.Equal(t, "recordings", c.Name())
}
