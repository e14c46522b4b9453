package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
)

func pdfcpuConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// validatePDF rejects bytes pdfcpu cannot read and returns the page count.
func validatePDF(data []byte) (int, error) {
	conf := pdfcpuConfig()
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return 0, common.NewDocumentParseError(string(constants.PDF), err)
	}
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, common.NewDocumentParseError(string(constants.PDF), err)
	}
	return n, nil
}

// writeInput stores the document bytes in dir for tools that need a path.
func writeInput(dir, name string, data []byte) (string, error) {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return "", fmt.Errorf("write scratch input: %w", err)
	}
	return p, nil
}

func (e *Extractor) pageArgs() []string {
	if e.cfg.MaxPages > 0 {
		return []string{"-l", strconv.Itoa(e.cfg.MaxPages)}
	}
	return nil
}

// pdfPages returns the text of each page in order.
func (e *Extractor) pdfPages(ctx context.Context, doc entity.Document) ([]string, error) {
	pageCount, err := validatePDF(doc.Data)
	if err != nil {
		return nil, err
	}

	dir, cleanup, err := e.scratchDir("ra-pdf-*")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	in, err := writeInput(dir, "input.pdf", doc.Data)
	if err != nil {
		return nil, err
	}

	// pdftotext -layout -enc UTF-8 -eol unix [-l N] <in.pdf> -
	args := append([]string{"-layout", "-enc", "UTF-8", "-eol", "unix"}, e.pageArgs()...)
	args = append(args, in, "-")
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, args...)
	if err != nil {
		return nil, toolError(constants.PDF, "pdftotext", err, errb)
	}

	pages := splitPages(string(out))
	e.logger.Debug("extract.pdf.text", "document", doc.Name, "pages", len(pages), "page_count", pageCount)
	return pages, nil
}

// splitPages splits pdftotext output on form feeds; the trailing feed after the
// last page does not start a new page.
func splitPages(text string) []string {
	if text == "" {
		return nil
	}
	pages := strings.Split(text, "\f")
	if last := len(pages) - 1; last > 0 && strings.TrimSpace(pages[last]) == "" {
		pages = pages[:last]
	}
	return pages
}

// pdfRasterize renders each page to PNG with pdftoppm and captures the bytes.
func (e *Extractor) pdfRasterize(ctx context.Context, doc entity.Document) ([]entity.ExtractedImage, error) {
	if _, err := validatePDF(doc.Data); err != nil {
		return nil, err
	}

	dir, cleanup, err := e.scratchDir("ra-pp-*")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	in, err := writeInput(dir, "input.pdf", doc.Data)
	if err != nil {
		return nil, err
	}

	prefix := filepath.Join(dir, "page")
	// pdftoppm -r 150 -png [-l N] <in.pdf> <tmp/page>
	args := append([]string{"-r", strconv.Itoa(e.cfg.DPI), "-png"}, e.pageArgs()...)
	args = append(args, in, prefix)
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...)
	if err != nil {
		return nil, toolError(constants.PDF, "pdftoppm", err, errb)
	}

	// pdftoppm zero-pads page numbers to a common width, so lexical order is page order.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)

	images := make([]entity.ExtractedImage, 0, len(matches))
	for i, m := range matches {
		b, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("read rendered page %s: %w", filepath.Base(m), err)
		}
		images = append(images, entity.ExtractedImage{
			Name: fmt.Sprintf("output-%d.png", i),
			Data: b,
			Page: i + 1,
		})
	}
	return images, nil
}

// pdfEmbeddedImages streams the embedded image objects through pdfcpu without touching disk.
func (e *Extractor) pdfEmbeddedImages(doc entity.Document) ([]entity.ExtractedImage, error) {
	if _, err := validatePDF(doc.Data); err != nil {
		return nil, err
	}

	var images []entity.ExtractedImage
	digest := func(img model.Image, _ bool, _ int) error {
		b, err := io.ReadAll(img)
		if err != nil {
			return fmt.Errorf("read image %s on page %d: %w", img.Name, img.PageNr, err)
		}
		images = append(images, entity.ExtractedImage{
			Name: strings.ToLower(img.FileType),
			Data: b,
			Page: img.PageNr,
		})
		return nil
	}

	var pages []string
	if e.cfg.MaxPages > 0 {
		pages = []string{"1-" + strconv.Itoa(e.cfg.MaxPages)}
	}
	if err := api.ExtractImages(doc.Reader(), pages, digest, pdfcpuConfig()); err != nil {
		return nil, common.NewDocumentParseError(string(constants.PDF), err)
	}

	sort.SliceStable(images, func(i, j int) bool { return images[i].Page < images[j].Page })
	for i := range images {
		ext := images[i].Name
		if ext == "" {
			ext = "png"
		}
		images[i].Name = fmt.Sprintf("output-%d.%s", i, ext)
	}
	return images, nil
}
