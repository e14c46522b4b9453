package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kochan17/recruitment-app/internal/ingest"
)

type facesOutput struct {
	Document string   `json:"document"`
	Written  []string `json:"written"`
	Warnings []string `json:"warnings,omitempty"`
}

func (a *app) facesCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "faces <file|gs://bucket/object>...",
		Short: "Extract images and write 256x256 center crops",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, closer, err := a.buildPipeline(ctx, false, false)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			loader := ingest.NewLoader(a.logger)
			defer func() { _ = loader.Close() }()

			if outDir == "" {
				outDir = a.cfg.Face.OutputDir
			}
			if outDir == "" {
				outDir = "faces"
			}

			var firstErr error
			for _, ref := range args {
				doc, err := loader.Load(ctx, ref)
				if err != nil {
					a.logger.Error("faces.load_failed", "ref", ref, "error", err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				faces, warnings, err := p.ExtractFaces(ctx, doc)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				written, err := writeFaces(outDir, doc.Name, faces)
				if err != nil {
					return err
				}
				if written == nil {
					written = []string{}
				}
				if err := writeJSON(os.Stdout, facesOutput{Document: doc.Name, Written: written, Warnings: warnings}); err != nil {
					return err
				}
			}
			return firstErr
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", "", "output root (default face.output_dir, else ./faces)")
	return cmd
}
