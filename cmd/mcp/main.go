package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"alfredoptarigan/skillsync/internal/app"
	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/services"
)

const version = "1.0.0"

func main() {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		log.Fatalf("❌ Failed to initialize application: %v", err)
	}
	defer application.Close()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "skillsync",
		Version: version,
	}, nil)

	tools := &toolset{
		analyzer: application.Analyzer,
		jobs:     application.Jobs,
		defaults: services.GenerationOptions{
			Temperature: cfg.LLM.DefaultTemperature,
			MaxTokens:   cfg.LLM.DefaultMaxTokens,
		},
	}
	tools.register(server)
	log.Println("🚀 SkillSync MCP server listening on stdio")

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Printf("❌ MCP server stopped: %v", err)
	}
}
