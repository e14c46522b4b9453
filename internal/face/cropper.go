package face

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kochan17/recruitment-app/internal/entity"
)

// DefaultSize is the edge length of a face candidate.
const DefaultSize = 256

// NamePrefix is prepended to the source image name.
const NamePrefix = "face_"

// Deriver produces a face candidate from one extracted image. Implementations
// backed by a real detector can replace CenterCropper behind this interface.
type Deriver interface {
	DeriveFace(ctx context.Context, img entity.ExtractedImage) (entity.FaceCandidate, error)
}

// CenterCropper crops a Size x Size window anchored at the image center.
//
// When the source is smaller than the window on either axis, the window is
// clamped to the image bounds and the clamped region is pasted centered on a
// transparent Size x Size canvas, so every candidate has the same dimensions.
type CenterCropper struct {
	Size int
}

func NewCenterCropper(size int) *CenterCropper {
	if size <= 0 {
		size = DefaultSize
	}
	return &CenterCropper{Size: size}
}

// CenterRegion returns the crop window for bounds, clamped to bounds.
func CenterRegion(bounds image.Rectangle, size int) image.Rectangle {
	x0 := bounds.Min.X + (bounds.Dx()-size)/2
	y0 := bounds.Min.Y + (bounds.Dy()-size)/2
	return image.Rect(x0, y0, x0+size, y0+size).Intersect(bounds)
}

func (c *CenterCropper) DeriveFace(ctx context.Context, img entity.ExtractedImage) (entity.FaceCandidate, error) {
	if err := ctx.Err(); err != nil {
		return entity.FaceCandidate{}, err
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return entity.FaceCandidate{}, fmt.Errorf("decode %s: %w", img.Name, err)
	}

	region := CenterRegion(src.Bounds(), c.Size)
	dst := image.NewRGBA(image.Rect(0, 0, c.Size, c.Size))
	offset := image.Pt((c.Size-region.Dx())/2, (c.Size-region.Dy())/2)
	draw.Draw(dst, image.Rectangle{Min: offset, Max: offset.Add(region.Size())}, src, region.Min, draw.Src)

	data, ext, err := encodeLike(img.Name, dst)
	if err != nil {
		return entity.FaceCandidate{}, fmt.Errorf("encode face for %s: %w", img.Name, err)
	}
	base := path.Base(img.Name)
	if ext != path.Ext(base) {
		base = strings.TrimSuffix(base, path.Ext(base)) + ext
	}
	return entity.FaceCandidate{
		Name:       NamePrefix + base,
		SourceName: img.Name,
		Region:     region,
		Width:      c.Size,
		Height:     c.Size,
		Data:       data,
	}, nil
}

// encodeLike encodes m in the format implied by name's extension, PNG otherwise,
// and returns the extension matching the bytes written.
func encodeLike(name string, m image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	var err error
	ext := path.Ext(name)
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, m, &jpeg.Options{Quality: 90})
	case ".gif":
		err = gif.Encode(&buf, m, nil)
	case ".bmp":
		err = bmp.Encode(&buf, m)
	case ".tif", ".tiff":
		err = tiff.Encode(&buf, m, nil)
	case ".png":
		err = png.Encode(&buf, m)
	default:
		ext = ".png"
		err = png.Encode(&buf, m)
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ext, nil
}
