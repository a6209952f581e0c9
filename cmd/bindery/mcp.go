package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/draphael123/bindery/mergepipe"
)

func cmdMCP(_ []string) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	pipe := mergepipe.New(mergepipe.Config{Logger: logger})

	srv := mcp.NewServer(&mcp.Implementation{Name: "bindery", Version: "0.1.0"}, nil)
	pipe.RegisterMCP(srv)

	if err := srv.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		fmt.Fprintf(os.Stderr, "mcp: %v\n", err)
		os.Exit(1)
	}
}
