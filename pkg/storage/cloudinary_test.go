package storage

import (
	"context"
	"strings"
	"testing"

	"anoa.com/skillnest/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPublicID(t *testing.T) {
	tests := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/skillnest/avatars/abc.webp": "skillnest/avatars/abc",
		"https://res.cloudinary.com/demo/image/upload/skillnest/thumbs/x.png":           "skillnest/thumbs/x",
		"https://res.cloudinary.com/demo/image/upload/video-intro.jpg":                  "video-intro",
		"https://example.com/not/cloudinary.png":                                        "",
		"::bad-url":                                                                     "",
	}

	for in, want := range tests {
		assert.Equal(t, want, extractPublicID(in), in)
	}
}

func TestNewCloudinaryStorageRequiresCredentials(t *testing.T) {
	_, err := NewCloudinaryStorage(Config{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestUploadImageRejectsUnsupportedType(t *testing.T) {
	s, err := NewCloudinaryStorage(Config{CloudName: "demo", APIKey: "key", APISecret: "secret"})
	require.NoError(t, err)

	_, err = s.UploadImage(context.Background(), strings.NewReader("%PDF"), "avatars", "cv.pdf")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}
