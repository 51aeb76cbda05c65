package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
sim:
  update_rate: 120
  quadtree:
    capacity: 4
world:
  width: 800
  seed: galaxy
game:
  ship_class: tank
  waves:
    base_enemies: 5
server:
  pairing_ttl: 90s
log:
  level: debug
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 120, cfg.Sim.UpdateRate)
	assert.Equal(t, 60, cfg.Sim.FrameRate, "untouched keys keep their defaults")
	assert.Equal(t, 4, cfg.Sim.QuadTree.Capacity)
	assert.Equal(t, 5, cfg.Sim.QuadTree.MaxDepth)
	assert.Equal(t, 800.0, cfg.World.Width)
	assert.Equal(t, 1500.0, cfg.World.Height)
	assert.Equal(t, 5, cfg.Game.Waves.BaseEnemies)
	assert.Equal(t, 90*time.Second, cfg.Server.PairingTTL)
	assert.Equal(t, "debug", cfg.Log.Level)

	gc, err := cfg.GameConfig()
	require.NoError(t, err)
	assert.Equal(t, game.ClassTank, gc.ShipClass)
	assert.Equal(t, xxhash.Sum64String("galaxy"), gc.Seed)
	assert.Equal(t, 4, gc.QuadTree.Capacity)

	lc := cfg.LoopConfig()
	assert.Equal(t, 120, lc.UpdateRate)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("sim:\n  tick_rate: 30\n"))
	require.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "arcade.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  path: /tmp/scores.db\n"), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scores.db", cfg.Store.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestExampleFileMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "arcade.example.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	want := Default()
	want.World.Seed = "nebula"
	assert.Equal(t, want, cfg)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Sim.UpdateRate = 0
	cfg.World.Width = -1
	cfg.Game.ShipClass = "cruiser"
	cfg.Log.Level = "loud"
	cfg.Server.SnapshotRate = 500

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"sim.update_rate", "world size", "game.ship_class", "log.level", "server.snapshot_rate"} {
		assert.Contains(t, msg, want)
	}

	cfg = Default()
	cfg.Server.Enabled = false
	cfg.Server.Addr = ""
	assert.NoError(t, cfg.Validate(), "server checks only apply when enabled")
}

func TestSeedValue(t *testing.T) {
	assert.Equal(t, uint64(42), WorldConfig{Seed: "42"}.SeedValue())
	assert.Equal(t, xxhash.Sum64String("nebula"), WorldConfig{Seed: "nebula"}.SeedValue())
	assert.NotEqual(t, WorldConfig{Seed: "a"}.SeedValue(), WorldConfig{Seed: "b"}.SeedValue())
}

func TestOverridesApplyOnlySetFlags(t *testing.T) {
	fs := flag.NewFlagSet("arcade", flag.ContinueOnError)
	o := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-addr", ":9000", "-ship", "scout", "-no-server", "-rate", "30", "-client", "web"}))

	cfg := Default()
	cfg.Store.Path = "from-file.db"
	o.Apply(&cfg)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "scout", cfg.Game.ShipClass)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, 30, cfg.Sim.UpdateRate)
	assert.Equal(t, "web", cfg.Server.ClientDir)
	assert.Equal(t, "from-file.db", cfg.Store.Path, "unset flags leave the file value alone")
	assert.Equal(t, 2000.0, cfg.World.Width)
}
