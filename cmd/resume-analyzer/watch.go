package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kochan17/recruitment-app/internal/entity"
	"github.com/kochan17/recruitment-app/internal/ingest"
	"github.com/kochan17/recruitment-app/internal/pipeline"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		outDir      string
		analyze     bool
		initialScan bool
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Crop faces (and optionally analyze) for every PDF/DOCX dropped into the directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if outDir == "" {
				outDir = a.cfg.Face.OutputDir
			}
			if outDir == "" {
				outDir = "faces"
			}

			p, closer, err := a.buildPipeline(ctx, analyze, false)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			loader := ingest.NewLoader(a.logger)
			defer func() { _ = loader.Close() }()

			process := p.ProcessFaces
			if analyze {
				process = p.Process
			}
			onDone := func(job pipeline.Job, r entity.Report) {
				written, err := writeFaces(outDir, job.Ref, r.Faces)
				if err != nil {
					a.logger.Error("watch.faces.write_failed", "ref", job.Ref, "error", err)
				}
				if analyze {
					name := strings.TrimSuffix(filepath.Base(job.Ref), filepath.Ext(job.Ref)) + ".json"
					if err := writeJSONFile(filepath.Join(faceDir(outDir, job.Ref), name), r); err != nil {
						a.logger.Error("watch.report.write_failed", "ref", job.Ref, "error", err)
					}
				}
				a.logger.Info("watch.document.done", "ref", job.Ref, "faces", len(written), "error", r.Error)
			}

			q := pipeline.NewQueue(process, loader, a.logger,
				pipeline.WithWorkers(a.cfg.Batch.Workers),
				pipeline.WithQueueSize(a.cfg.Batch.QueueSize),
				pipeline.WithProcessTimeout(a.cfg.Batch.ProcessTimeout),
				pipeline.WithRateLimit(a.cfg.Batch.RateLimit),
				pipeline.WithResultHandler(onDone),
			)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				q.Shutdown(shutdownCtx)
			}()

			events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       args,
				InitialScan: initialScan,
				Debounce:    a.cfg.Batch.Debounce,
				SkipHidden:  a.cfg.Batch.SkipHidden,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}

			for {
				select {
				case path, ok := <-events:
					if !ok {
						return nil
					}
					if err := q.Enqueue(ctx, pipeline.Job{Ref: path}); err != nil {
						a.logger.Warn("watch.enqueue_failed", "path", path, "error", err)
					}
				case err, ok := <-errs:
					if ok {
						a.logger.Warn("watch.error", "error", err)
					}
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", "", "face crop root (default face.output_dir, else ./faces)")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "also run the language-model analysis and write a JSON report")
	cmd.Flags().BoolVar(&initialScan, "initial-scan", false, "process files already present at startup")
	return cmd
}
