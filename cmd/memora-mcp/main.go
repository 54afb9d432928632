package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Darkprix/Memora-Duel/internal/config"
	memoramcp "github.com/Darkprix/Memora-Duel/internal/mcp"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	lib, err := settings.Library()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tools := memoramcp.NewTools(settings, lib)
	defer tools.Close()

	s := server.NewMCPServer("memora-duel", "1.0.0")
	memoramcp.RegisterTools(s, tools)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
