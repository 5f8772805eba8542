package cli

import (
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if port != "" {
				a.Config.Server.Port = port
			}
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default from config)")
	return cmd
}

func newMCPCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP tool server on stdio or HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFrom(cmd).ServeMCP(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "http", "", "serve streamable HTTP on this address instead of stdio (e.g. :8081)")
	return cmd
}
