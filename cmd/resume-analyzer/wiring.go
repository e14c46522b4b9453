package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kochan17/recruitment-app/internal/analysis"
	"github.com/kochan17/recruitment-app/internal/entity"
	"github.com/kochan17/recruitment-app/internal/extract"
	"github.com/kochan17/recruitment-app/internal/face"
	"github.com/kochan17/recruitment-app/internal/llm"
	"github.com/kochan17/recruitment-app/internal/llm/provider"
	"github.com/kochan17/recruitment-app/internal/pipeline"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// buildPipeline wires extractors, the cropper and, when withLLM is set, the
// configured completer. The closer releases the completer.
func (a *app) buildPipeline(ctx context.Context, withLLM bool, strict bool) (*pipeline.Pipeline, io.Closer, error) {
	if err := a.cfg.Validate(withLLM); err != nil {
		return nil, nil, err
	}
	variant, err := analysis.ParseVariant(a.cfg.LLM.Variant)
	if err != nil {
		return nil, nil, err
	}

	ex := extract.NewExtractor(extract.Config{
		Pdftotext:    a.cfg.Extract.Pdftotext,
		Pdftoppm:     a.cfg.Extract.Pdftoppm,
		DPI:          a.cfg.Extract.DPI,
		MaxPages:     a.cfg.Extract.MaxPages,
		PDFImageMode: a.cfg.Extract.PDFImageMode,
	}, a.logger)

	var (
		completer llm.Completer
		closer    io.Closer = nopCloser{}
	)
	if withLLM {
		completer, closer, err = provider.New(ctx, a.cfg.LLM, a.logger)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Info("llm.client.ready", "provider", a.cfg.LLM.Provider, "model", a.cfg.LLM.Model)
	}

	p := pipeline.NewPipeline(a.logger, pipeline.Config{
		Variant:     variant,
		MaxTokens:   a.cfg.LLM.MaxTokens,
		FaceWorkers: a.cfg.Face.Workers,
		Strict:      strict,
	}, ex, ex, face.NewCenterCropper(a.cfg.Face.Size), completer)
	return p, closer, nil
}

// faceDir is where crops of one document go: <root>/<document stem>/.
func faceDir(root, document string) string {
	stem := strings.TrimSuffix(filepath.Base(document), filepath.Ext(document))
	return filepath.Join(root, stem)
}

// writeFaces stores each candidate under faceDir and returns the written paths.
func writeFaces(root, document string, faces []entity.FaceCandidate) ([]string, error) {
	if len(faces) == 0 {
		return nil, nil
	}
	dir := faceDir(root, document)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create face dir: %w", err)
	}
	paths := make([]string, 0, len(faces))
	for _, fc := range faces {
		p := filepath.Join(dir, fc.Name)
		if err := os.WriteFile(p, fc.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// reportErr turns a failed report back into a status error so the exit code
// matches the failure class.
func reportErr(r entity.Report) error {
	if r.Error == "" {
		return nil
	}
	code := codes.Internal
	for c := codes.OK; c <= codes.Unauthenticated; c++ {
		if c.String() == r.Code {
			code = c
			break
		}
	}
	return status.Error(code, r.Error)
}
