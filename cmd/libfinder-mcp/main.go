package main

import (
	"flag"
	"log"
	"os"

	"github.com/ludo-technologies/libfinder/internal/version"
	"github.com/ludo-technologies/libfinder/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const serverName = "libfinder"

func main() {
	configPath := flag.String("config", "", "Configuration file path (default: discover .libfinder.toml)")
	callTimeout := flag.Duration("timeout", 0, "Per-call time limit (e.g. 2m); 0 disables it")
	flag.Parse()

	// stdout carries JSON-RPC
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	server := mcpserver.NewMCPServer(
		serverName,
		version.Get().Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	deps := mcp.NewDependencies(*configPath, mcp.WithCallTimeout(*callTimeout))
	tools := mcp.RegisterTools(server, mcp.NewHandlerSet(deps))

	log.Printf("%s MCP server %s on stdio", serverName, version.Get().Version)
	for _, t := range tools {
		log.Printf("tool %s: %s", t.Tool.Name, t.Tool.Description)
	}
	if *callTimeout > 0 {
		log.Printf("per-call timeout %s", *callTimeout)
	}

	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
