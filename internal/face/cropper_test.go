package face

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochan17/recruitment-app/internal/entity"
)

// gradient fills a w x h image where each pixel encodes its own coordinates.
func gradient(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x >> 8), A: 255})
		}
	}
	return m
}

func pngBytes(t *testing.T, m image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
	return buf.Bytes()
}

func decode(t *testing.T, b []byte) image.Image {
	t.Helper()
	m, _, err := image.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return m
}

func TestDeriveFace_CentersOn512(t *testing.T) {
	src := gradient(512, 512)
	c := NewCenterCropper(0)

	fc, err := c.DeriveFace(context.Background(), entity.ExtractedImage{Name: "output-0.png", Data: pngBytes(t, src)})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(128, 128, 384, 384), fc.Region)
	assert.Equal(t, "face_output-0.png", fc.Name)
	assert.Equal(t, "output-0.png", fc.SourceName)
	assert.Equal(t, 256, fc.Width)
	assert.Equal(t, 256, fc.Height)

	out := decode(t, fc.Data)
	require.Equal(t, image.Rect(0, 0, 256, 256), out.Bounds())
	// top-left of the crop is source pixel (128,128)
	assert.Equal(t, src.At(128, 128), color.NRGBAModel.Convert(out.At(0, 0)))
	assert.Equal(t, src.At(383, 383), color.NRGBAModel.Convert(out.At(255, 255)))
}

func TestCenterRegion(t *testing.T) {
	tests := []struct {
		name   string
		bounds image.Rectangle
		want   image.Rectangle
	}{
		{"exact", image.Rect(0, 0, 256, 256), image.Rect(0, 0, 256, 256)},
		{"odd larger", image.Rect(0, 0, 301, 401), image.Rect(22, 72, 278, 328)},
		{"wide short", image.Rect(0, 0, 600, 100), image.Rect(172, 0, 428, 100)},
		{"tiny", image.Rect(0, 0, 10, 20), image.Rect(0, 0, 10, 20)},
		{"offset origin", image.Rect(100, 100, 612, 612), image.Rect(228, 228, 484, 484)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CenterRegion(tt.bounds, 256))
		})
	}
}

func TestDeriveFace_SmallImagePadsCentered(t *testing.T) {
	src := gradient(100, 50)
	c := NewCenterCropper(256)

	fc, err := c.DeriveFace(context.Background(), entity.ExtractedImage{Name: "image-0.png", Data: pngBytes(t, src)})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), fc.Region)

	out := decode(t, fc.Data)
	require.Equal(t, image.Rect(0, 0, 256, 256), out.Bounds())
	// pasted at ((256-100)/2, (256-50)/2) = (78, 103)
	assert.Equal(t, src.At(0, 0), color.NRGBAModel.Convert(out.At(78, 103)))
	_, _, _, a := out.At(0, 0).RGBA()
	assert.Zero(t, a, "padding is transparent")
}

func TestDeriveFace_KeepsSourceFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradient(300, 300), nil))

	fc, err := NewCenterCropper(256).DeriveFace(context.Background(), entity.ExtractedImage{Name: "image-1.jpeg", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, "face_image-1.jpeg", fc.Name)

	_, format, err := image.Decode(bytes.NewReader(fc.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestDeriveFace_FallbackFormatRenamesToPNG(t *testing.T) {
	// decoding sniffs the bytes, so PNG data stands in for a .webp source
	tests := []struct {
		source string
		want   string
	}{
		{"image-0.webp", "face_image-0.png"},
		{"photo", "face_photo.png"},
		{"image-2.PNG", "face_image-2.PNG"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			fc, err := NewCenterCropper(256).DeriveFace(context.Background(), entity.ExtractedImage{Name: tt.source, Data: pngBytes(t, gradient(300, 300))})
			require.NoError(t, err)
			assert.Equal(t, tt.want, fc.Name)

			_, format, err := image.Decode(bytes.NewReader(fc.Data))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
		})
	}
}

func TestDeriveFace_UndecodableImage(t *testing.T) {
	_, err := NewCenterCropper(256).DeriveFace(context.Background(), entity.ExtractedImage{Name: "image-0.png", Data: []byte("nope")})
	assert.Error(t, err)
}

func TestDeriveAll_OrderAndSkips(t *testing.T) {
	images := []entity.ExtractedImage{
		{Name: "output-0.png", Data: pngBytes(t, gradient(300, 300))},
		{Name: "output-1.png", Data: []byte("corrupt")},
		{Name: "output-2.png", Data: pngBytes(t, gradient(512, 256))},
	}

	faces, warns, err := DeriveAll(context.Background(), NewCenterCropper(256), images, 2, nil)
	require.NoError(t, err)
	require.Len(t, faces, 2)
	assert.Equal(t, "face_output-0.png", faces[0].Name)
	assert.Equal(t, "face_output-2.png", faces[1].Name)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "output-1.png")
}

func TestDeriveAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	images := []entity.ExtractedImage{{Name: "output-0.png", Data: pngBytes(t, gradient(10, 10))}}
	_, _, err := DeriveAll(ctx, NewCenterCropper(256), images, 1, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}
