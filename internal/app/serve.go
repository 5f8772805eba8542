package app

import (
	"context"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	mcpadapter "resume-builder/internal/adapter/mcp"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP API until ctx is cancelled, then shuts down
// gracefully.
func (a *App) Serve(ctx context.Context) error {
	var store httpadapter.ResumeStore
	if a.Store != nil {
		store = a.Store
	}
	h := httpadapter.NewHandler(a.Exporter, store, a.Log, httpadapter.WithGate(a.Gate))
	srv := httpadapter.NewApp(h, a.Log)

	errc := make(chan error, 1)
	go func() {
		a.Log.Info("server listening", zap.String("port", a.Config.Server.Port))
		errc <- srv.Listen(":" + a.Config.Server.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	a.Log.Info("shutting down server")
	return srv.ShutdownWithTimeout(shutdownTimeout)
}

// MCPServer builds the MCP tool server over the app's exporter and store.
func (a *App) MCPServer() *server.MCPServer {
	var store mcpadapter.ResumeGetter
	if a.Store != nil {
		store = a.Store
	}
	return mcpadapter.NewServer(a.Exporter, store, a.Log)
}

// ServeMCP serves the tools on stdio, or over streamable HTTP when addr is
// set.
func (a *App) ServeMCP(ctx context.Context, addr string) error {
	s := a.MCPServer()
	if addr == "" {
		a.Log.Info("starting MCP server in stdio mode")
		return server.ServeStdio(s)
	}
	httpServer := server.NewStreamableHTTPServer(s)
	errc := make(chan error, 1)
	go func() {
		a.Log.Info("starting MCP server", zap.String("addr", addr))
		errc <- httpServer.Start(addr)
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(sctx)
}
