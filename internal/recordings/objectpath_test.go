package recordings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectPath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"escaped with query", "https://storage.example.com/v0/b/app/o/recordings%2F2024%2Fa.m4a?alt=media&token=t", "recordings/2024/a.m4a"},
		{"no query", "https://storage.example.com/v0/b/app/o/a.m4a", "a.m4a"},
		{"no marker", "https://cdn.example.com/a.m4a", ""},
		{"empty path", "https://storage.example.com/v0/b/app/o/?alt=media", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ObjectPath(tc.in))
		})
	}
}
