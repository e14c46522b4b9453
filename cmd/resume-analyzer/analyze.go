package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
	"github.com/kochan17/recruitment-app/internal/ingest"
)

func (a *app) analyzeCmd() *cobra.Command {
	var (
		withFaces bool
		outDir    string
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <file|gs://bucket/object>...",
		Short: "Analyze documents and print one JSON report each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, closer, err := a.buildPipeline(ctx, true, strict)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			loader := ingest.NewLoader(a.logger)
			defer func() { _ = loader.Close() }()

			if outDir == "" {
				outDir = a.cfg.Face.OutputDir
			}

			var errs []error
			for _, ref := range args {
				doc, err := loader.Load(ctx, ref)
				if err != nil {
					errs = append(errs, err)
					a.logger.Error("analyze.load_failed", "ref", ref, "error", err)
					continue
				}

				if !withFaces {
					result, err := p.Analyze(ctx, doc)
					if err != nil {
						errs = append(errs, err)
						_ = writeJSON(os.Stdout, entity.Report{
							Document: doc.Name,
							Faces:    []entity.FaceCandidate{},
							Error:    err.Error(),
							Code:     common.ToStatus(err).Code().String(),
						})
						continue
					}
					if err := writeJSON(os.Stdout, result); err != nil {
						return err
					}
					continue
				}

				report := p.Process(ctx, doc)
				if outDir != "" {
					if _, err := writeFaces(outDir, doc.Name, report.Faces); err != nil {
						report.Warnings = append(report.Warnings, err.Error())
					}
				}
				if err := reportErr(report); err != nil {
					errs = append(errs, err)
				}
				if err := writeJSON(os.Stdout, report); err != nil {
					return err
				}
			}
			if len(errs) > 0 {
				return errs[0]
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withFaces, "faces", false, "also run the face side-pipeline and print full reports")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "write face crops under this directory (default face.output_dir)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the reply contains no known section label")
	return cmd
}
