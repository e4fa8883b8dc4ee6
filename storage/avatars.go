package storage

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const MaxAvatarSize = 5 << 20 // 5MB

var ErrUnsupportedImageType = errors.New("unsupported image type: only jpeg, png and webp are allowed")

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// DetectImageType sniffs the content type from the first bytes of the file.
func DetectImageType(head []byte) (contentType, ext string, err error) {
	contentType = http.DetectContentType(head)
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", "", ErrUnsupportedImageType
	}
	return contentType, ext, nil
}

// AvatarKey строит ключ объекта: avatars/<userID>/<uuid><ext>.
func AvatarKey(userID, ext string) string {
	return fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)
}
