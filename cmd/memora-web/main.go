package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Darkprix/Memora-Duel/internal/config"
	"github.com/Darkprix/Memora-Duel/internal/web"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	port := flag.Int("port", 8080, "HTTP port to listen on")
	settings.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	lib, err := settings.Library()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := web.NewServer(settings, lib)
	addr := fmt.Sprintf(":%d", *port)
	log.Printf("memora web UI listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
