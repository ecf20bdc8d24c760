package testbed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagarc03/testbed"
)

func TestIsValidAssetPath(t *testing.T) {
	invalidUTF8 := string([]byte{'a', 0xff, 'b'})

	tt := []struct {
		Name string
		Path string
		Want bool
	}{
		// Basics
		{Name: "empty path", Path: "", Want: false},
		{Name: "absolute path", Path: "/etc/passwd", Want: false},
		{Name: "trailing slash", Path: "img/", Want: true},
		{Name: "double slash", Path: "img//sand.jpg", Want: true},

		// Traversal
		{Name: "parent segment", Path: "../secret", Want: false},
		{Name: "nested parent segment", Path: "img/../../etc/passwd", Want: false},
		{Name: "parent at end", Path: "img/..", Want: false},
		{Name: "dot segment", Path: "img/./sand.jpg", Want: true},
		{Name: "parent staying inside root", Path: "img/../hello.txt", Want: true},
		{Name: "dot only", Path: ".", Want: false},
		{Name: "parent only", Path: "..", Want: false},
		{Name: "climbs out and back", Path: "img/../../root/img/sand.jpg", Want: false},
		{Name: "backslash traversal", Path: `..\..\etc\passwd`, Want: false},

		// Control chars / NUL
		{Name: "contains NUL", Path: "img\x00/sand.jpg", Want: false},
		{Name: "contains DEL", Path: "img\x7f/sand.jpg", Want: false},
		{Name: "contains newline", Path: "img\n/sand.jpg", Want: false},

		// UTF-8 validity
		{Name: "invalid utf8", Path: invalidUTF8, Want: false},

		// Valid examples
		{Name: "single file", Path: "index.css", Want: true},
		{Name: "nested file", Path: "img/sand.jpg", Want: true},
		{Name: "dots inside name", Path: "archive..tar.gz", Want: true},
		{Name: "hidden file", Path: ".well-known/security.txt", Want: true},
		{Name: "space in name", Path: "img/white sand.jpg", Want: true},
		{Name: "unicode name", Path: "img/sable-é.jpg", Want: true},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, testbed.IsValidAssetPath(tc.Path), "path %q", tc.Path)
		})
	}
}

func TestCleanAssetPath(t *testing.T) {
	tt := []struct {
		Name   string
		Path   string
		Want   string
		WantOK bool
	}{
		{Name: "already clean", Path: "img/sand.jpg", Want: "img/sand.jpg", WantOK: true},
		{Name: "parent inside root", Path: "img/../hello.txt", Want: "hello.txt", WantOK: true},
		{Name: "dot segment", Path: "img/./sand.jpg", Want: "img/sand.jpg", WantOK: true},
		{Name: "double slash", Path: "img//sand.jpg", Want: "img/sand.jpg", WantOK: true},
		{Name: "trailing slash", Path: "img/", Want: "img", WantOK: true},
		{Name: "resolves to root", Path: "img/..", WantOK: false},
		{Name: "escapes root", Path: "img/../../etc/passwd", WantOK: false},
		{Name: "absolute", Path: "/img/sand.jpg", WantOK: false},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			got, ok := testbed.CleanAssetPath(tc.Path)
			assert.Equal(t, tc.WantOK, ok)
			assert.Equal(t, tc.Want, got)
		})
	}
}
