// Package config loads the arcade configuration from YAML with flag overrides
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/logging"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

// Config is the full host configuration
type Config struct {
	Sim    SimConfig      `yaml:"sim"`
	World  WorldConfig    `yaml:"world"`
	Game   GameConfig     `yaml:"game"`
	Server ServerConfig   `yaml:"server"`
	Store  StoreConfig    `yaml:"store"`
	Log    logging.Config `yaml:"log"`
	Audio  AudioConfig    `yaml:"audio"`
}

// SimConfig tunes the simulation core
type SimConfig struct {
	UpdateRate         int           `yaml:"update_rate"`
	FrameRate          int           `yaml:"frame_rate"`
	MaxUpdatesPerFrame int           `yaml:"max_updates_per_frame"`
	MaxFrameDelta      time.Duration `yaml:"max_frame_delta"`
	CellSize           float64       `yaml:"cell_size"`
	QuadTree           QuadTree      `yaml:"quadtree"`
	Debug              bool          `yaml:"debug"`
}

// QuadTree mirrors sim.QuadTreeConfig
type QuadTree struct {
	Capacity int     `yaml:"capacity"`
	MaxDepth int     `yaml:"max_depth"`
	MinSize  float64 `yaml:"min_size"`
}

// WorldConfig sizes the playfield. Seed is any string; numeric seeds are used
// as is, others are hashed.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Seed   string  `yaml:"seed"`
}

// GameConfig holds the arcade rules
type GameConfig struct {
	ShipClass        string          `yaml:"ship_class"`
	AsteroidInterval float64         `yaml:"asteroid_interval"`
	PickupInterval   float64         `yaml:"pickup_interval"`
	MaxProjectiles   int             `yaml:"max_projectiles"`
	Waves            game.WaveConfig `yaml:"waves"`
	Points           game.Points     `yaml:"points"`
}

// ServerConfig configures the renderer and controller feed
type ServerConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Addr          string        `yaml:"addr"`
	ClientDir     string        `yaml:"client_dir"` // static renderer files; empty serves none
	PublicURL     string        `yaml:"public_url"`
	PairingSecret string        `yaml:"pairing_secret"`
	PairingTTL    time.Duration `yaml:"pairing_ttl"`
	SnapshotRate  int           `yaml:"snapshot_rate"` // frames per second pushed to clients
}

// StoreConfig locates the high score database
type StoreConfig struct {
	Path string `yaml:"path"`
}

// AudioConfig toggles sound
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

// Default returns a configuration that runs out of the box
func Default() Config {
	gc := game.DefaultConfig()
	return Config{
		Sim: SimConfig{
			UpdateRate:         sim.DefaultUpdateRate,
			FrameRate:          sim.DefaultFrameRate,
			MaxUpdatesPerFrame: sim.DefaultMaxUpdatesPerFrame,
			MaxFrameDelta:      sim.DefaultMaxFrameDelta,
			CellSize:           sim.DefaultCellSize,
			QuadTree: QuadTree{
				Capacity: sim.DefaultQuadCapacity,
				MaxDepth: sim.DefaultQuadMaxDepth,
				MinSize:  sim.DefaultQuadMinSize,
			},
		},
		World: WorldConfig{Width: gc.World.Width, Height: gc.World.Height},
		Game: GameConfig{
			ShipClass:        game.ClassFighter.String(),
			AsteroidInterval: gc.AsteroidInterval,
			PickupInterval:   gc.PickupInterval,
			MaxProjectiles:   gc.MaxProjectiles,
			Waves:            game.DefaultWaveConfig(),
			Points:           game.DefaultPoints(),
		},
		Server: ServerConfig{
			Enabled:      true,
			Addr:         ":8080",
			PairingTTL:   10 * time.Minute,
			SnapshotRate: 30,
		},
		Store: StoreConfig{Path: "arcade.db"},
		Log:   logging.Config{Level: "info", Encoding: "json"},
		Audio: AudioConfig{Volume: 0.5},
	}
}

// Parse decodes YAML from r over the defaults
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Load reads the YAML file at path; an empty path yields the defaults
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Validate reports every invalid field at once
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Sim.UpdateRate > 0 && c.Sim.UpdateRate <= 1000, "sim.update_rate must be in 1..1000, got %d", c.Sim.UpdateRate)
	check(c.Sim.FrameRate > 0 && c.Sim.FrameRate <= 1000, "sim.frame_rate must be in 1..1000, got %d", c.Sim.FrameRate)
	check(c.Sim.MaxUpdatesPerFrame > 0, "sim.max_updates_per_frame must be positive, got %d", c.Sim.MaxUpdatesPerFrame)
	check(c.Sim.MaxFrameDelta > 0, "sim.max_frame_delta must be positive, got %s", c.Sim.MaxFrameDelta)
	check(c.Sim.CellSize > 0, "sim.cell_size must be positive, got %v", c.Sim.CellSize)
	check(c.Sim.QuadTree.Capacity > 0, "sim.quadtree.capacity must be positive, got %d", c.Sim.QuadTree.Capacity)
	check(c.Sim.QuadTree.MaxDepth > 0, "sim.quadtree.max_depth must be positive, got %d", c.Sim.QuadTree.MaxDepth)
	check(c.Sim.QuadTree.MinSize > 0, "sim.quadtree.min_size must be positive, got %v", c.Sim.QuadTree.MinSize)

	check(c.World.Width > 0 && c.World.Height > 0, "world size must be positive, got %vx%v", c.World.Width, c.World.Height)

	if _, err := game.ParseShipClass(c.Game.ShipClass); err != nil {
		errs = append(errs, fmt.Errorf("game.ship_class: %w", err))
	}
	check(c.Game.AsteroidInterval >= 0, "game.asteroid_interval must not be negative")
	check(c.Game.PickupInterval >= 0, "game.pickup_interval must not be negative")
	check(c.Game.MaxProjectiles > 0, "game.max_projectiles must be positive, got %d", c.Game.MaxProjectiles)
	check(c.Game.Waves.BaseEnemies >= 0 && c.Game.Waves.Growth >= 0, "game.waves enemy counts must not be negative")
	check(c.Game.Waves.Break >= 0, "game.waves.break must not be negative")

	if c.Server.Enabled {
		check(c.Server.Addr != "", "server.addr is required when the server is enabled")
		check(c.Server.PairingTTL > 0, "server.pairing_ttl must be positive, got %s", c.Server.PairingTTL)
		check(c.Server.SnapshotRate > 0 && c.Server.SnapshotRate <= c.Sim.FrameRate,
			"server.snapshot_rate must be in 1..sim.frame_rate, got %d", c.Server.SnapshotRate)
	}
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume must be in 0..1, got %v", c.Audio.Volume)

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// SeedValue turns the world seed into the RNG seed. An empty seed draws one
// from the clock.
func (w WorldConfig) SeedValue() uint64 {
	if w.Seed == "" {
		return uint64(time.Now().UnixNano())
	}
	if n, err := strconv.ParseUint(w.Seed, 10, 64); err == nil {
		return n
	}
	return xxhash.Sum64String(w.Seed)
}

// LoopConfig converts the sim section for sim.NewLoop
func (c Config) LoopConfig() sim.LoopConfig {
	return sim.LoopConfig{
		UpdateRate:         c.Sim.UpdateRate,
		FrameRate:          c.Sim.FrameRate,
		MaxUpdatesPerFrame: c.Sim.MaxUpdatesPerFrame,
		MaxFrameDelta:      c.Sim.MaxFrameDelta,
	}
}

// GameConfig converts the world, game and sim sections for game.New
func (c Config) GameConfig() (game.Config, error) {
	class, err := game.ParseShipClass(c.Game.ShipClass)
	if err != nil {
		return game.Config{}, err
	}
	return game.Config{
		World:    game.World{Width: c.World.Width, Height: c.World.Height},
		CellSize: c.Sim.CellSize,
		QuadTree: sim.QuadTreeConfig{
			Capacity: c.Sim.QuadTree.Capacity,
			MaxDepth: c.Sim.QuadTree.MaxDepth,
			MinSize:  c.Sim.QuadTree.MinSize,
		},
		Seed:             c.World.SeedValue(),
		ShipClass:        class,
		AsteroidInterval: c.Game.AsteroidInterval,
		PickupInterval:   c.Game.PickupInterval,
		MaxProjectiles:   c.Game.MaxProjectiles,
		Debug:            c.Sim.Debug,
	}, nil
}
