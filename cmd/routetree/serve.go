package main

import (
	"github.com/dejo1307/routetree/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Serve the resolved route tree over the Model Context Protocol.

The workspace is parsed once at start-up. Tools resolve on demand and
the last result is kept for the routes:// resources.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			return server.New(eng, version).Run(cmd.Context())
		},
	}
}
