package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/Darkprix/Memora-Duel/internal/config"
	"github.com/Darkprix/Memora-Duel/internal/content"
	gamenet "github.com/Darkprix/Memora-Duel/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	switch cmd {
	case "play":
		runPlay(ctx, os.Args[2:])
	case "host":
		runHost(ctx, os.Args[2:])
	case "join":
		runJoin(ctx, os.Args[2:])
	case "sets":
		runSets(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  memora-cli play [--set S] [--health N] [--hand N] [--accuracy F] [--seed N] [--content FILE]")
	fmt.Println("  memora-cli host [--port P] [match flags]")
	fmt.Println("  memora-cli join [--set S] [--addr ADDR]")
	fmt.Println("  memora-cli sets [--content FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play a match against the computer in this terminal")
	fmt.Println("  host    Serve a match against the computer over TCP")
	fmt.Println("  join    Connect to a host and play")
	fmt.Println("  sets    List the available card sets")
	fmt.Println()
	fmt.Println("Match flags default to the MEMORA_* environment variables.")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// loadSettings reads the environment, then lets flags override it.
func loadSettings(name string, args []string, extra func(fs *flag.FlagSet)) (config.Settings, *content.Library) {
	settings, err := config.Load()
	if err != nil {
		fatal(err)
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	settings.RegisterFlags(fs)
	if extra != nil {
		extra(fs)
	}
	fs.Parse(args)

	if err := settings.Validate(); err != nil {
		fatal(err)
	}
	lib, err := settings.Library()
	if err != nil {
		fatal(err)
	}
	return settings, lib
}

func runPlay(ctx context.Context, args []string) {
	var set string
	settings, lib := loadSettings("play", args, func(fs *flag.FlagSet) {
		fs.StringVar(&set, "set", "1", "set name or number to deal")
	})
	if err := gamenet.Play(ctx, settings, lib, set); err != nil && ctx.Err() == nil {
		fatal(err)
	}
}

func runHost(ctx context.Context, args []string) {
	var port string
	settings, lib := loadSettings("host", args, func(fs *flag.FlagSet) {
		fs.StringVar(&port, "port", "9000", "TCP port to listen on")
	})

	srv := &gamenet.Server{
		Port:     port,
		Settings: settings,
		Library:  lib,
	}
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		fatal(err)
	}
}

func runJoin(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	set := fs.String("set", "1", "set name or number to deal")
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)

	if err := gamenet.Connect(ctx, *addr, *set); err != nil && ctx.Err() == nil {
		fatal(err)
	}
}

func runSets(args []string) {
	_, lib := loadSettings("sets", args, nil)
	for _, s := range gamenet.SetViews(lib) {
		fmt.Printf("%d) %-10s %s (%d pairs)\n", s.Number, s.Name, s.Title, s.Pairs)
	}
}
