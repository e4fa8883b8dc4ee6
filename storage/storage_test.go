package storage

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURLJoinsKey(t *testing.T) {
	for _, raw := range []string{"https://cdn.playsplit.app", "https://cdn.playsplit.app/"} {
		base, err := url.Parse(strings.TrimSuffix(raw, "/") + "/")
		require.NoError(t, err)

		got := publicURL(base, "/avatars/u1/a.png")
		assert.Equal(t, "https://cdn.playsplit.app/avatars/u1/a.png", got)
		assert.Equal(t, "avatars/u1/a.png", keyFromURL(base, got))
	}
}

func TestKeyFromForeignURL(t *testing.T) {
	base, _ := url.Parse("https://cdn.playsplit.app/")
	assert.Empty(t, keyFromURL(base, "https://lh3.googleusercontent.com/a/photo.jpg"))
	assert.Empty(t, publicURL(base, ""))
}

func TestDetectImageType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	ct, ext, err := DetectImageType(png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", ext)

	_, _, err = DetectImageType([]byte("%PDF-1.7"))
	assert.ErrorIs(t, err, ErrUnsupportedImageType)
}

func TestAvatarKey(t *testing.T) {
	key := AvatarKey("u1", ".jpg")
	assert.True(t, strings.HasPrefix(key, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, AvatarKey("u1", ".jpg"))
}
