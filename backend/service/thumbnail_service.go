package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"pixvault/backend/model"

	"github.com/disintegration/imaging"
)

var (
	// ErrUnsupportedFormat: the stored extension is not in the supported set.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrDecodeFailed: the stored bytes are not a decodable image.
	ErrDecodeFailed = errors.New("failed to decode image")
)

var imagingFormats = map[string]imaging.Format{
	"png":  imaging.PNG,
	"jpeg": imaging.JPEG,
}

// RenderThumbnail decodes the source and re-encodes it scaled to
// targetHeight, preserving aspect ratio and the source format family.
// A targetHeight at or above the source height yields the image at its
// native size: thumbnails are never upscaled. That policy lives here and
// nowhere else. Returns the encoded bytes and the format name used for
// the Content-Type header.
func RenderThumbnail(src io.Reader, storedName string, targetHeight int) ([]byte, string, error) {
	if targetHeight < 1 {
		return nil, "", fmt.Errorf("target height must be positive, got %d", targetHeight)
	}
	format, ok := model.ImageFormatForName(storedName)
	if !ok {
		return nil, "", ErrUnsupportedFormat
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, "", ErrDecodeFailed
	}

	if sourceHeight := img.Bounds().Dy(); targetHeight < sourceHeight {
		// Width 0 lets imaging keep the aspect ratio.
		img = imaging.Resize(img, 0, targetHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imagingFormats[format]); err != nil {
		return nil, "", fmt.Errorf("encode %s thumbnail: %w", format, err)
	}
	return buf.Bytes(), format, nil
}
