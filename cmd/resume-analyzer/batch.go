package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
	"github.com/kochan17/recruitment-app/internal/export"
	"github.com/kochan17/recruitment-app/internal/ingest"
	"github.com/kochan17/recruitment-app/internal/pipeline"
)

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (a *app) batchCmd() *cobra.Command {
	var (
		out       string
		jsonDir   string
		faceOut   string
		withFaces bool
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze every PDF/DOCX under a directory and write an XLSX summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := args[0]
			if out == "" {
				out = filepath.Join(filepath.Dir(filepath.Clean(dir)), "screening.xlsx")
			}
			if withFaces && faceOut == "" {
				faceOut = a.cfg.Face.OutputDir
				if faceOut == "" {
					faceOut = filepath.Join(filepath.Dir(out), "faces")
				}
			}

			scan, err := ingest.ScanDirectory(dir, a.cfg.Batch.SkipHidden)
			if err != nil {
				return common.NewAppError("SCAN_FAILED", "scan "+dir, err)
			}
			a.logger.Info("batch.scan.ok", "dir", dir, "scanned", scan.Stats.Scanned, "matched", scan.Stats.Matched, "failed", scan.Stats.Failed)
			for _, fe := range scan.Errors {
				a.logger.Warn("batch.scan.entry_failed", "path", fe.Path, "error", fe.Err)
			}
			if len(scan.Files) == 0 {
				fmt.Fprintln(os.Stderr, color.YellowString("no pdf/docx files under %s", dir))
				return nil
			}

			p, closer, err := a.buildPipeline(ctx, true, strict)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			loader := ingest.NewLoader(a.logger)
			defer func() { _ = loader.Close() }()

			process := p.ProcessText
			if withFaces {
				process = p.Process
			}

			bar := getProgressBar(len(scan.Files), "Screening")
			sink := &batchSink{
				root:      dir,
				faceDir:   faceOut,
				jsonDir:   jsonDir,
				withFaces: withFaces,
				logger:    a.logger,
				done:      func() { _ = bar.Add(1) },
			}

			q := pipeline.NewQueue(process, loader, a.logger,
				pipeline.WithWorkers(a.cfg.Batch.Workers),
				pipeline.WithQueueSize(a.cfg.Batch.QueueSize),
				pipeline.WithProcessTimeout(a.cfg.Batch.ProcessTimeout),
				pipeline.WithRateLimit(a.cfg.Batch.RateLimit),
				pipeline.WithResultHandler(sink.handle),
			)
			for _, path := range scan.Files {
				if err := q.Enqueue(ctx, pipeline.Job{Ref: path}); err != nil {
					a.logger.Error("batch.enqueue_failed", "path", path, "error", err)
					break
				}
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Batch.ProcessTimeout+time.Minute)
			defer cancel()
			q.Shutdown(shutdownCtx)
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)

			reports := sink.Reports()
			xlsx, err := export.NewService(a.logger).ExportReportsXLSX(ctx, reports)
			if err != nil {
				return common.WrapError(err, "export xlsx")
			}
			if err := os.WriteFile(out, xlsx, 0o644); err != nil {
				return common.WrapError(err, "write "+out)
			}

			printSummary(reports, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output XLSX path (default <parent of dir>/screening.xlsx)")
	cmd.Flags().StringVar(&jsonDir, "json-dir", "", "also write one JSON report per document here")
	cmd.Flags().BoolVar(&withFaces, "faces", false, "run the face side-pipeline and write crops")
	cmd.Flags().StringVar(&faceOut, "faces-dir", "", "face crop root (default face.output_dir, else next to --out)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail documents whose reply contains no known section label")
	return cmd
}

// batchSink collects finished reports and writes their side outputs. Face crops
// are written whenever the image side produced any, independent of the text side.
type batchSink struct {
	root      string
	faceDir   string
	jsonDir   string
	withFaces bool
	logger    *slog.Logger
	done      func()

	mu      sync.Mutex
	reports []entity.Report
}

func (s *batchSink) handle(job pipeline.Job, r entity.Report) {
	// name rows by path relative to the batch root
	if rel, err := filepath.Rel(s.root, job.Ref); err == nil {
		r.Document = rel
	}
	if s.withFaces && len(r.Faces) > 0 {
		if _, err := writeFaces(s.faceDir, job.Ref, r.Faces); err != nil {
			r.Warnings = append(r.Warnings, err.Error())
		}
	}
	if s.jsonDir != "" {
		name := strings.TrimSuffix(r.Document, filepath.Ext(r.Document)) + ".json"
		if err := writeJSONFile(filepath.Join(s.jsonDir, name), r); err != nil {
			s.logger.Warn("batch.json.write_failed", "document", r.Document, "error", err)
		}
	}
	s.mu.Lock()
	s.reports = append(s.reports, r)
	s.mu.Unlock()
	if s.done != nil {
		s.done()
	}
}

// Reports returns a copy of the collected reports.
func (s *batchSink) Reports() []entity.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Report(nil), s.reports...)
}

func printSummary(reports []entity.Report, out string) {
	var pass, fail, errored int
	for _, r := range reports {
		switch {
		case r.Error != "":
			errored++
		case r.Result != nil && r.Result.Verdict == constants.VerdictPass:
			pass++
		default:
			fail++
		}
	}
	fmt.Fprintf(os.Stderr, "%s %d  %s %d  %s %d\n",
		color.GreenString("pass"), pass,
		color.YellowString("fail"), fail,
		color.RedString("error"), errored,
	)
	fmt.Fprintln(os.Stderr, color.CyanString("summary written to %s", out))
}
