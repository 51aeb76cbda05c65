//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/google/wire"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/config"
)

// InitDaemon builds the headless websocket host
func InitDaemon(ctx context.Context, cfg config.Config) (*Daemon, func(), error) {
	wire.Build(daemonSet)
	return nil, nil, nil
}

// InitTerminal builds the terminal host on an initialised screen
func InitTerminal(ctx context.Context, cfg config.Config, screen tcell.Screen) (*Terminal, func(), error) {
	wire.Build(terminalSet)
	return nil, nil, nil
}
