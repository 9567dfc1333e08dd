package main

import (
	"context"

	"github.com/panbanda/cyclo/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes cyclo's
analysis as tools LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "cyclo": {
        "command": "cyclo",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_complexity    Cyclomatic complexity of files or directories
  - analyze_source        Cyclomatic complexity of inline C source`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
