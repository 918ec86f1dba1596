package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/dejo1307/routetree/internal/config"
	"github.com/dejo1307/routetree/internal/engine"
	"github.com/dejo1307/routetree/internal/render"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Log output goes to stderr so stdout carries only the tree (or JSON-RPC in serve mode).
	log.SetOutput(os.Stderr)

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		cfgPath string
		root    string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "routetree",
		Short: "Resolve an Angular routing configuration into a route tree",
		Long: `routetree statically reads the routing declarations of a TypeScript
workspace and prints the resolved route tree.

Lazy modules are followed through tsconfig path aliases and relative
imports, and each page title is read from the component's annotation.
Problems along the way are reported as warnings on stderr.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			if root == "" {
				root = eng.Config().Root
			}
			res := eng.ResolveFrom(root)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			_, err = fmt.Fprint(out, render.Text(res.Routes))
			return err
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "Path to the configuration file")
	cmd.Flags().StringVar(&root, "root", "", "Root routing file, overriding the configured one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print nodes, diagnostics and stats as JSON")

	cmd.AddCommand(
		serveCmd(&cfgPath),
		versionCmd(),
	)

	return cmd
}

// loadConfig reads the configuration file, falling back to defaults when it
// does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[main] warning: %v, using defaults", err)
		return config.Default(), nil
	}
	return cfg, err
}

func openEngine(ctx context.Context, cfgPath string) (*engine.Engine, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	eng, err := engine.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening workspace: %w", err)
	}
	return eng, nil
}
