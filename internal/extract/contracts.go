package extract

import (
	"context"

	"github.com/kochan17/recruitment-app/internal/entity"
)

// TextExtractor turns a document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc entity.Document) (string, error)
}

// ImageExtractor pulls raster images out of a document, in document order.
type ImageExtractor interface {
	ExtractImages(ctx context.Context, doc entity.Document) ([]entity.ExtractedImage, error)
}
