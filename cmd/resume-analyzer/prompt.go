package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kochan17/recruitment-app/internal/analysis"
	"github.com/kochan17/recruitment-app/internal/ingest"
)

func (a *app) promptCmd() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "prompt [file]",
		Short: "Print the prompt that would be sent for a document or --text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			variant, err := analysis.ParseVariant(a.cfg.LLM.Variant)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				p, closer, err := a.buildPipeline(ctx, false, false)
				if err != nil {
					return err
				}
				defer func() { _ = closer.Close() }()

				loader := ingest.NewLoader(a.logger)
				defer func() { _ = loader.Close() }()

				doc, err := loader.Load(ctx, args[0])
				if err != nil {
					return err
				}
				text, err = p.Text.ExtractText(ctx, doc)
				if err != nil {
					return err
				}
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), analysis.BuildPrompt(variant, text))
			return err
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "resume text to embed when no file is given")
	return cmd
}
