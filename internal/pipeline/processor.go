package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/analysis"
	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
	"github.com/kochan17/recruitment-app/internal/extract"
	"github.com/kochan17/recruitment-app/internal/face"
	"github.com/kochan17/recruitment-app/internal/llm"
)

// Config holds the analysis knobs of the pipeline.
type Config struct {
	Variant     analysis.Variant
	MaxTokens   int  // default 500
	FaceWorkers int  // default 4
	Strict      bool // reject replies in which no section label appears
}

// Pipeline coordinates text extraction, the LLM call and aggregation, and
// separately image extraction and face derivation.
type Pipeline struct {
	Logger *slog.Logger
	Cfg    Config
	Text   extract.TextExtractor
	Images extract.ImageExtractor
	Faces  face.Deriver
	LLM    llm.Completer
}

func NewPipeline(logger *slog.Logger, cfg Config, text extract.TextExtractor, images extract.ImageExtractor, faces face.Deriver, completer llm.Completer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Variant == "" {
		cfg.Variant = analysis.VariantScoring
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = constants.DefaultMaxTokens
	}
	if cfg.FaceWorkers <= 0 {
		cfg.FaceWorkers = 4
	}
	return &Pipeline{Logger: logger, Cfg: cfg, Text: text, Images: images, Faces: faces, LLM: completer}
}

func withRequest(ctx context.Context, doc string) context.Context {
	if common.RequestIDFromContext(ctx) == "" {
		ctx = common.WithRequestID(ctx, uuid.NewString())
	}
	if doc != "" {
		ctx = common.WithDocumentName(ctx, doc)
	}
	return ctx
}

// AnalyzeText runs prompt, completion, parse and aggregation over already
// extracted text. Empty or whitespace-only text fails with common.ErrNoContent
// without contacting the model.
func (p *Pipeline) AnalyzeText(ctx context.Context, text string) (entity.AnalysisResult, error) {
	ctx = withRequest(ctx, "")
	rid := common.RequestIDFromContext(ctx)
	doc := common.DocumentNameFromContext(ctx)
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		p.Logger.Warn("pipeline.analyze.no_content", "req_id", rid, "document", doc)
		return entity.AnalysisResult{}, fmt.Errorf("analyze %q: %w", doc, common.ErrNoContent)
	}

	prompt := analysis.BuildPrompt(p.Cfg.Variant, text)
	p.Logger.Info("pipeline.analyze.start",
		"req_id", rid,
		"document", doc,
		"variant", p.Cfg.Variant,
		"text_len", len(text),
		"prompt_len", len(prompt),
	)

	reply, err := p.LLM.Complete(ctx, prompt, p.Cfg.MaxTokens)
	if err != nil {
		p.Logger.Error("pipeline.analyze.llm_failed", "req_id", rid, "document", doc, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return entity.AnalysisResult{}, fmt.Errorf("complete: %w", err)
	}

	matched := analysis.MatchedSections(reply)
	if p.Cfg.Strict {
		if err := analysis.CheckWellFormed(reply); err != nil {
			p.Logger.Error("pipeline.analyze.malformed", "req_id", rid, "document", doc, "reply_len", len(reply))
			return entity.AnalysisResult{}, err
		}
	}

	result := analysis.Aggregate(analysis.ParseResponse(reply, p.Cfg.Variant), p.Cfg.Variant)
	if err := analysis.ValidateResult(result, p.Cfg.Variant); err != nil {
		p.Logger.Error("pipeline.analyze.invalid_result", "req_id", rid, "document", doc, "error", err)
		return entity.AnalysisResult{}, err
	}

	p.Logger.Info("pipeline.analyze.ok",
		"req_id", rid,
		"document", doc,
		"sections_matched", matched,
		"verdict", result.Verdict,
		"rating", result.OverallRating,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// Analyze extracts the text of doc and analyzes it. Unsupported documents are
// rejected with a *common.UnsupportedFormatError instead of sending the
// placeholder text to the model.
func (p *Pipeline) Analyze(ctx context.Context, doc entity.Document) (entity.AnalysisResult, error) {
	ctx = withRequest(ctx, doc.Name)
	if doc.ContentType == constants.Unsupported {
		err := &common.UnsupportedFormatError{ContentType: doc.MIMEType}
		p.Logger.Warn("pipeline.analyze.unsupported", "req_id", common.RequestIDFromContext(ctx), "document", doc.Name, "mime", doc.MIMEType)
		return entity.AnalysisResult{}, err
	}

	text, err := p.Text.ExtractText(ctx, doc)
	if err != nil {
		p.Logger.Error("pipeline.extract_text.failed", "req_id", common.RequestIDFromContext(ctx), "document", doc.Name, "error", err)
		return entity.AnalysisResult{}, fmt.Errorf("extract text: %w", err)
	}
	return p.AnalyzeText(ctx, text)
}

// ExtractFaces runs the image side-pipeline for doc. Images that cannot be
// cropped are reported as warnings.
func (p *Pipeline) ExtractFaces(ctx context.Context, doc entity.Document) ([]entity.FaceCandidate, []string, error) {
	ctx = withRequest(ctx, doc.Name)
	rid := common.RequestIDFromContext(ctx)

	images, err := p.Images.ExtractImages(ctx, doc)
	if err != nil {
		p.Logger.Error("pipeline.extract_images.failed", "req_id", rid, "document", doc.Name, "error", err)
		return nil, nil, fmt.Errorf("extract images: %w", err)
	}
	p.Logger.Info("pipeline.extract_images.ok", "req_id", rid, "document", doc.Name, "images", len(images))

	faces, warnings, err := face.DeriveAll(ctx, p.Faces, images, p.Cfg.FaceWorkers, p.Logger)
	if err != nil {
		return nil, nil, err
	}
	return faces, warnings, nil
}

// Process runs both sides for one document and folds the outcome into a
// Report. The text side's error lands in Report.Error; image side failures are
// warnings.
func (p *Pipeline) Process(ctx context.Context, doc entity.Document) entity.Report {
	ctx = withRequest(ctx, doc.Name)

	var (
		wg        sync.WaitGroup
		result    entity.AnalysisResult
		textErr   error
		faces     []entity.FaceCandidate
		warnings  []string
		imagesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		result, textErr = p.Analyze(ctx, doc)
	}()
	go func() {
		defer wg.Done()
		faces, warnings, imagesErr = p.ExtractFaces(ctx, doc)
	}()
	wg.Wait()

	report := textReport(doc, result, textErr)
	if imagesErr != nil {
		report.Warnings = append(report.Warnings, "faces: "+imagesErr.Error())
	} else if faces != nil {
		report.Faces = faces
	}
	report.Warnings = append(report.Warnings, warnings...)
	return report
}

// ProcessText is Process without the image side.
func (p *Pipeline) ProcessText(ctx context.Context, doc entity.Document) entity.Report {
	result, err := p.Analyze(ctx, doc)
	return textReport(doc, result, err)
}

// ProcessFaces is Process without the text side; extraction failures land in
// Report.Error.
func (p *Pipeline) ProcessFaces(ctx context.Context, doc entity.Document) entity.Report {
	report := entity.Report{Document: doc.Name, Faces: []entity.FaceCandidate{}}
	faces, warnings, err := p.ExtractFaces(ctx, doc)
	if err != nil {
		report.Error = err.Error()
		report.Code = common.ToStatus(err).Code().String()
		return report
	}
	report.Faces = faces
	report.Warnings = warnings
	return report
}

func textReport(doc entity.Document, result entity.AnalysisResult, err error) entity.Report {
	report := entity.Report{Document: doc.Name, Faces: []entity.FaceCandidate{}}
	if err != nil {
		report.Error = err.Error()
		report.Code = common.ToStatus(err).Code().String()
		return report
	}
	report.Result = &result
	return report
}
