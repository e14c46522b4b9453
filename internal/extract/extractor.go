package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	DPI      int // rasterization DPI for PDF page images, default 150
	MaxPages int // 0 = no limit

	PDFImageMode string // common.PDFImagesRaster (default) | common.PDFImagesEmbedded

	TempDir string // parent for per-call scratch dirs; "" -> os.TempDir()
}

// Extractor implements TextExtractor and ImageExtractor for PDF and DOCX.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

type Option func(*Extractor)

// WithRunner replaces the exec based runner, mostly for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 150
	}
	if cfg.PDFImageMode == "" {
		cfg.PDFImageMode = common.PDFImagesRaster
	}
	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ExtractText returns the document text. Units (PDF pages, DOCX paragraphs) are
// trimmed, blank units dropped, and the rest joined with a single space.
//
// Unsupported content types yield constants.UnsupportedFileText and no error.
// On a DOCX parse failure the paragraphs decoded before the failure are returned
// along with a *common.DocumentParseError; PDFs are validated up front, so a PDF
// failure returns "".
func (e *Extractor) ExtractText(ctx context.Context, doc entity.Document) (string, error) {
	start := time.Now()
	e.logger.Debug("extract.text.start", "document", doc.Name, "content_type", doc.ContentType, "bytes", doc.Size())

	var (
		units []string
		err   error
	)
	switch doc.ContentType {
	case constants.PDF:
		units, err = e.pdfPages(ctx, doc)
	case constants.DOCX:
		units, err = docxParagraphs(doc.Data)
	default:
		e.logger.Warn("extract.text.unsupported", "document", doc.Name, "mime_type", doc.MIMEType)
		return constants.UnsupportedFileText, nil
	}

	text := joinUnits(units)
	if err != nil {
		e.logger.Error("extract.text.failed",
			"document", doc.Name,
			"content_type", doc.ContentType,
			"partial_units", len(units),
			"error", err,
		)
		return text, err
	}
	e.logger.Info("extract.text.ok",
		"document", doc.Name,
		"content_type", doc.ContentType,
		"units", len(units),
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// ExtractImages returns every image of the document in document order. All bytes
// are held in memory; scratch files never outlive the call.
func (e *Extractor) ExtractImages(ctx context.Context, doc entity.Document) ([]entity.ExtractedImage, error) {
	start := time.Now()

	var (
		images []entity.ExtractedImage
		err    error
		method string
	)
	switch doc.ContentType {
	case constants.PDF:
		if e.cfg.PDFImageMode == common.PDFImagesEmbedded {
			method = "pdf-embedded"
			images, err = e.pdfEmbeddedImages(doc)
		} else {
			method = "pdf-raster"
			images, err = e.pdfRasterize(ctx, doc)
		}
	case constants.DOCX:
		method = "docx-media"
		images, err = docxImages(doc.Data)
	default:
		e.logger.Error("extract.images.unsupported", "document", doc.Name, "mime_type", doc.MIMEType)
		return nil, &common.UnsupportedFormatError{ContentType: doc.MIMEType}
	}
	if err != nil {
		e.logger.Error("extract.images.failed", "document", doc.Name, "method", method, "error", err)
		return nil, err
	}

	e.logger.Info("extract.images.ok",
		"document", doc.Name,
		"method", method,
		"images", len(images),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return images, nil
}

// scratchDir creates a private per-call directory; the returned cleanup removes it.
func (e *Extractor) scratchDir(pattern string) (string, func(), error) {
	dir, err := os.MkdirTemp(e.cfg.TempDir, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create scratch dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.Warn("failed to remove scratch dir", "path", dir, "error", err)
		}
	}
	return dir, cleanup, nil
}

// toolError keeps a missing binary distinct from a document the tool rejected.
func toolError(declared constants.ContentType, tool string, err error, stderr []byte) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", tool, err)
	}
	msg := strings.TrimSpace(string(stderr))
	if msg != "" {
		err = fmt.Errorf("%s: %w: %s", tool, err, truncate(msg, 512))
	} else {
		err = fmt.Errorf("%s: %w", tool, err)
	}
	return common.NewDocumentParseError(string(declared), err)
}

func joinUnits(units []string) string {
	kept := make([]string, 0, len(units))
	for _, u := range units {
		if u = strings.TrimSpace(u); u != "" {
			kept = append(kept, u)
		}
	}
	return strings.Join(kept, " ")
}
