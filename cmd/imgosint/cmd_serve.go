package main

import (
	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/mcpserver"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Starts an MCP server over stdin/stdout exposing the stego_analyze,
exif_extract and vision_analyze tools. Logs go to stderr.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mcpserver.Version = version
			srv := mcpserver.NewServer(a.runner, a.cfg)
			defer srv.Close()

			logging.New("mcp").Info("starting imgosint MCP server over stdio")
			return srv.MCPServer.Run(cmd.Context(), &sdkmcp.StdioTransport{})
		},
	}
}
