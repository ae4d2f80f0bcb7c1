package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImageUploadBytes is the largest photo accepted on any form.
const MaxImageUploadBytes = 2 << 20

var (
	ErrImageEmpty       = errors.New("image is empty")
	ErrImageTooLarge    = errors.New("image exceeds 2 MB")
	ErrImageUnsupported = errors.New("unsupported image type")
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ValidateImageUpload checks size and detected content type and returns the
// MIME type. The client-declared type is ignored.
func ValidateImageUpload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrImageEmpty
	}
	if len(data) > MaxImageUploadBytes {
		return "", ErrImageTooLarge
	}
	mt := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrImageUnsupported, mt.String())
}

// ImageDataURI validates data and encodes it as a base64 data URI suitable
// for an <img> preview.
func ImageDataURI(data []byte) (string, error) {
	mime, err := ValidateImageUpload(data)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ImagePreview decodes a validated image and returns a PNG thumbnail whose
// longest side is at most maxSide pixels.
func ImagePreview(data []byte, maxSide int) ([]byte, error) {
	if _, err := ValidateImageUpload(data); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	thumb := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
