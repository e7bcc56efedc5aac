package service

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
)

// encodeTestImage produces an encoded image of the given size in the
// format implied by the file name.
func encodeTestImage(t *testing.T, name string, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	format := imaging.JPEG
	if strings.HasSuffix(name, ".png") {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	assert.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestRenderThumbnail_ScalesDownKeepingAspect(t *testing.T) {
	src := encodeTestImage(t, "photo.jpg", 400, 300)

	data, format, err := RenderThumbnail(bytes.NewReader(src), "photo.jpg", 150)
	assert.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	w, h := decodedSize(t, data)
	assert.Equal(t, 150, h)
	assert.Equal(t, 200, w)
}

func TestRenderThumbnail_NeverUpscales(t *testing.T) {
	src := encodeTestImage(t, "photo.jpg", 120, 90)

	// Asking for more height than the source has just yields the native size.
	data, _, err := RenderThumbnail(bytes.NewReader(src), "photo.jpg", 500)
	assert.NoError(t, err)
	w, h := decodedSize(t, data)
	assert.Equal(t, 90, h)
	assert.Equal(t, 120, w)

	// A target equal to the source height is also left alone.
	data, _, err = RenderThumbnail(bytes.NewReader(encodeTestImage(t, "photo.jpg", 120, 90)), "photo.jpg", 90)
	assert.NoError(t, err)
	_, h = decodedSize(t, data)
	assert.Equal(t, 90, h)
}

func TestRenderThumbnail_PreservesFormat(t *testing.T) {
	src := encodeTestImage(t, "icon.png", 64, 64)

	data, format, err := RenderThumbnail(bytes.NewReader(src), "icon.png", 32)
	assert.NoError(t, err)
	assert.Equal(t, "png", format)

	_, decoded, err := image.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, "png", decoded)
}

func TestRenderThumbnail_RejectsUnsupportedExtension(t *testing.T) {
	src := encodeTestImage(t, "photo.jpg", 10, 10)

	_, _, err := RenderThumbnail(bytes.NewReader(src), "photo.gif", 5)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = RenderThumbnail(bytes.NewReader(src), "noextension", 5)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderThumbnail_RejectsUndecodableBytes(t *testing.T) {
	_, _, err := RenderThumbnail(strings.NewReader("not an image at all"), "photo.jpg", 5)
	assert.ErrorIs(t, err, ErrDecodeFailed)
}

func TestRenderThumbnail_RejectsNonPositiveHeight(t *testing.T) {
	src := encodeTestImage(t, "photo.jpg", 10, 10)
	_, _, err := RenderThumbnail(bytes.NewReader(src), "photo.jpg", 0)
	assert.Error(t, err)
}
