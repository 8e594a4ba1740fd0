// Package base64 reads the data URLs that browsers send for uploaded images.
package base64

import (
	stdBase64 "encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
)

const (
	dataURLPrefix    = "data:"
	dataURLSeparator = ";base64,"
)

var ErrInvalidDataURL = errors.New("invalid base64 data url")

// split returns the media type and payload of "data:<type>;base64,<payload>".
func split(file string) (string, string, bool) {
	rest, ok := strings.CutPrefix(file, dataURLPrefix)
	if !ok {
		return "", "", false
	}

	mediaType, payload, ok := strings.Cut(rest, dataURLSeparator)
	if !ok || mediaType == "" || strings.ContainsAny(mediaType, ",") {
		return "", "", false
	}

	return strings.ToLower(mediaType), payload, true
}

// GetContentType returns the media type of a base64 data URL, or "" when file is not one.
func GetContentType(file string) string {
	mediaType, _, _ := split(file)

	return mediaType
}

// Decode returns the media type and decoded bytes of a base64 data URL.
func Decode(file string) (contentType string, data []byte, err error) {
	contentType, payload, ok := split(file)
	if !ok {
		return "", nil, ErrInvalidDataURL
	}

	data, err = stdBase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: empty payload", ErrInvalidDataURL)
	}

	return contentType, data, nil
}

// Extension picks the file extension stored objects get for contentType.
func Extension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	}

	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}

	return "bin"
}
