package base64_test

import (
	"testing"

	"rolloff/shared/base64"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "png", input: "data:image/png;base64," + pixel, want: "image/png"},
		{name: "upper case type", input: "data:IMAGE/JPEG;base64,/9j/", want: "image/jpeg"},
		{name: "empty", input: "", want: ""},
		{name: "no data prefix", input: "image/png;base64," + pixel, want: ""},
		{name: "not base64 encoded", input: "data:image/png," + pixel, want: ""},
		{name: "missing type", input: "data:;base64," + pixel, want: ""},
		{name: "only prefix", input: "data:", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base64.GetContentType(tt.input))
		})
	}
}

func TestDecode(t *testing.T) {
	contentType, data, err := base64.Decode("data:text/plain;base64,SGVsbG8gV29ybGQ=")

	require.NoError(t, err)
	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, "Hello World", string(data))

	for _, input := range []string{
		"",
		"SGVsbG8gV29ybGQ=",
		"data:image/png;base64,!!!not-base64",
		"data:image/png;base64,",
	} {
		_, _, err := base64.Decode(input)
		assert.ErrorIs(t, err, base64.ErrInvalidDataURL, input)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"image/png":           "png",
		"image/jpeg":          "jpg",
		"image/jpg":           "jpg",
		"text/x-unknown-kind": "bin",
		"garbage":             "bin",
	}

	for contentType, want := range tests {
		assert.Equal(t, want, base64.Extension(contentType), contentType)
	}
}
