package config

import (
	"flag"
	"time"
)

// Overrides holds command line values that win over the file
type Overrides struct {
	fs      *flag.FlagSet
	addr    string
	client  string
	db      string
	seed    string
	level   string
	class   string
	rate    int
	width   float64
	height  float64
	debug   bool
	audio   bool
	noServe bool
	ttl     time.Duration
}

// RegisterFlags declares the override flags on fs
func RegisterFlags(fs *flag.FlagSet) *Overrides {
	o := &Overrides{fs: fs}
	fs.StringVar(&o.addr, "addr", "", "renderer/controller listen address")
	fs.StringVar(&o.client, "client", "", "directory with the browser renderer")
	fs.StringVar(&o.db, "db", "", "high score database path")
	fs.StringVar(&o.seed, "seed", "", "world seed")
	fs.StringVar(&o.level, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&o.class, "ship", "", "ship class (fighter, tank, scout)")
	fs.IntVar(&o.rate, "rate", 0, "simulation updates per second")
	fs.Float64Var(&o.width, "width", 0, "world width")
	fs.Float64Var(&o.height, "height", 0, "world height")
	fs.BoolVar(&o.debug, "debug", false, "verify entity indexes every step")
	fs.BoolVar(&o.audio, "audio", false, "play sound effects")
	fs.BoolVar(&o.noServe, "no-server", false, "disable the websocket feed")
	fs.DurationVar(&o.ttl, "pairing-ttl", 0, "lifetime of controller pairing tokens")
	return o
}

// Apply copies every flag that was set explicitly onto cfg. Call after the
// flag set has been parsed.
func (o *Overrides) Apply(cfg *Config) {
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Server.Addr = o.addr
		case "client":
			cfg.Server.ClientDir = o.client
		case "db":
			cfg.Store.Path = o.db
		case "seed":
			cfg.World.Seed = o.seed
		case "log-level":
			cfg.Log.Level = o.level
		case "ship":
			cfg.Game.ShipClass = o.class
		case "rate":
			cfg.Sim.UpdateRate = o.rate
		case "width":
			cfg.World.Width = o.width
		case "height":
			cfg.World.Height = o.height
		case "debug":
			cfg.Sim.Debug = o.debug
		case "audio":
			cfg.Audio.Enabled = o.audio
		case "no-server":
			cfg.Server.Enabled = !o.noServe
		case "pairing-ttl":
			cfg.Server.PairingTTL = o.ttl
		}
	})
}
