// Command arcaded runs the arcade headless and streams it to browser
// renderers and paired phone controllers
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/app"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "arcaded:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("arcaded", flag.ContinueOnError)
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
	if cfg.Server.ClientDir == "" {
		cfg.Server.ClientDir = defaultClientDir()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, cleanup, err := app.InitDaemon(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	return d.Run(ctx)
}

// defaultClientDir looks for a client directory next to the binary, then in
// the working directory. Empty disables static files.
func defaultClientDir() string {
	candidates := []string{"client"}
	if exe, err := os.Executable(); err == nil {
		candidates = append([]string{filepath.Join(filepath.Dir(exe), "..", "client")}, candidates...)
	}
	for _, dir := range candidates {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	return ""
}
