package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"goslice/internal/errs"
)

func main() {
	root := &cobra.Command{
		Use:           "goslice",
		Short:         "Extract a dependency-closed, compilable slice rooted at one function or method",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newExtractCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errs.Translate(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Sugar()
}
