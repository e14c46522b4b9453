package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kochan17/recruitment-app/internal/common"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type app struct {
	cfgPath  string
	logLevel string
	provider string
	variant  string

	cfg    *common.Config
	logger *slog.Logger
}

func main() {
	a := &app{}
	root := a.rootCmd()
	if err := root.Execute(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(common.ExitCode(err))
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "resume-analyzer",
		Short:         "Screen resumes (PDF/DOCX) with a language model and crop candidate photos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "path to config.yaml (default: search config.yaml, ~/.config/recruitment-app/config.yaml)")
	pf.StringVar(&a.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&a.provider, "provider", "", "override llm.provider (openai, ollama, vertex)")
	pf.StringVar(&a.variant, "variant", "", "override llm.variant (scoring, plain)")

	root.AddCommand(
		a.analyzeCmd(),
		a.facesCmd(),
		a.batchCmd(),
		a.watchCmd(),
		a.promptCmd(),
	)
	return root
}

func (a *app) setup() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(a.logLevel))); err != nil {
		return common.InvalidArgumentErrorf("invalid --log-level %q", a.logLevel)
	}
	// stdout carries command output, logs go to stderr
	a.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	// flags win over file and environment; routed through the env layer so
	// provider-specific model defaults still apply
	if a.provider != "" {
		_ = os.Setenv("LLM_PROVIDER", a.provider)
	}
	if a.variant != "" {
		_ = os.Setenv("LLM_VARIANT", a.variant)
	}
	cfg, err := common.LoadConfig(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
