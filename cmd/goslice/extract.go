package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"goslice/internal/collector"
	"goslice/internal/config"
	"goslice/internal/depnode"
	"goslice/internal/errs"
	"goslice/internal/graphdebug"
	"goslice/internal/slice"
	"goslice/internal/typeprovider"
)

func newExtractCmd() *cobra.Command {
	var (
		dir        string
		out        string
		configPath string
		verbose    bool
		debugURI   string
		debugUser  string
		debugPass  string
		debugClean bool
	)

	cmd := &cobra.Command{
		Use:   "extract <package-path> <function-or-Type.Method>",
		Short: "Extract the smallest slice that keeps the given entry point compiling",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			defer log.Sync()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			modulePath, err := detectModulePath(absDir)
			if err != nil {
				return errs.NotFound("cannot detect Go module in %s: %v", absDir, err)
			}

			log.Infow("loading packages", "dir", absDir, "module", modulePath)
			provider, err := typeprovider.Load(absDir, modulePath)
			if err != nil {
				return err
			}

			src, err := slice.Extract(log, provider, args[0], args[1])
			if err != nil {
				return err
			}

			if debugURI != "" {
				if err := exportDebugGraph(cmd.Context(), log, provider, args, debugURI, orDefault(debugUser, cfg.Neo4j.User), orDefault(debugPass, cfg.Neo4j.Password), debugClean); err != nil {
					log.Warnw("graph-debug export failed", "error", err)
				}
			}

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), src)
				return nil
			}
			return os.WriteFile(out, []byte(src), 0o644)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project root directory")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&configPath, "config", ".goslice.toml", "path to config file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log extraction progress")
	cmd.Flags().StringVar(&debugURI, "debug-neo4j-uri", "", "export the collected dependency graph to Neo4j for inspection")
	cmd.Flags().StringVar(&debugUser, "debug-neo4j-user", "", "Neo4j username (default: from config)")
	cmd.Flags().StringVar(&debugPass, "debug-neo4j-pass", "", "Neo4j password (default: from config)")
	cmd.Flags().BoolVar(&debugClean, "debug-clean", false, "clean this run's prior graph-debug nodes before exporting")

	return cmd
}

func exportDebugGraph(ctx context.Context, log *zap.SugaredLogger, provider *typeprovider.Provider, args []string, uri, user, pass string, clean bool) error {
	entry, err := depnode.ParseEntryPoint(args[0], args[1])
	if err != nil {
		return err
	}
	// Re-collect independently of the already-rendered slice so a
	// failed export never affects the primary extract output.
	res, err := collector.New(provider).Collect(entry)
	if err != nil {
		return err
	}

	exp, err := graphdebug.New(uri, user, pass)
	if err != nil {
		return err
	}
	defer exp.Close(ctx)

	if clean {
		if err := exp.Clean(ctx); err != nil {
			return err
		}
	}
	if err := exp.CreateIndexes(ctx); err != nil {
		return err
	}
	log.Infow("exporting dependency graph to neo4j", "entry", entry.String())
	return exp.Export(ctx, entry, res)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// detectModulePath reads the go.mod file in dir and returns the module
// path.
func detectModulePath(dir string) (string, error) {
	gomod := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", fmt.Errorf("cannot read go.mod: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module")), nil
		}
	}
	return "", fmt.Errorf("module directive not found in go.mod")
}
