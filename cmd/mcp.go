package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lifebox/lifebox-cli/internal/mcp"
)

var mcpOffline bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the normalize and analyze tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := initService("mcp", mcpOffline)
		if err != nil {
			return err
		}

		zap.L().Info("starting mcp stdio server", zap.String("drafter", svc.Drafter().Name()))
		if err := mcp.ServeStdio(mcp.NewServer(mcp.ServerConfig{Service: svc, Version: version})); err != nil {
			return eris.Wrap(err, "mcp: serve stdio")
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpOffline, "offline", false, "skip the model and use rules only")
	rootCmd.AddCommand(mcpCmd)
}
