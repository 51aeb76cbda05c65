// Command arcade-tty plays the arcade in a terminal
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/app"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/config"
)

const defaultLogFile = "arcade-tty.log"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "arcade-tty:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("arcade-tty", flag.ContinueOnError)
	path := fs.String("config", "", "YAML config file")
	overrides := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	overrides.Apply(&cfg)
	cfg.Server.Enabled = false
	// the screen owns stderr
	if len(cfg.Log.Outputs) == 0 {
		cfg.Log.Outputs = []string{defaultLogFile}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	term, cleanup, err := app.InitTerminal(ctx, cfg, screen)
	if err != nil {
		return err
	}
	defer cleanup()
	return term.Run(ctx)
}
