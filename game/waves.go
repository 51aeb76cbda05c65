package game

// WaveConfig shapes the difficulty curve
type WaveConfig struct {
	BaseEnemies    int     `yaml:"base_enemies"`
	Growth         int     `yaml:"growth"`           // extra enemies per wave
	HPGrowth       float64 `yaml:"hp_growth"`        // added HP multiplier per wave
	SpeedGrowth    float64 `yaml:"speed_growth"`     // added speed multiplier per wave
	FireRateGrowth float64 `yaml:"fire_rate_growth"` // added fire rate multiplier per wave
	Break          float64 `yaml:"break"`            // seconds between a cleared wave and the next
}

// DefaultWaveConfig returns the stock difficulty curve
func DefaultWaveConfig() WaveConfig {
	return WaveConfig{
		BaseEnemies:    3,
		Growth:         2,
		HPGrowth:       0.15,
		SpeedGrowth:    0.05,
		FireRateGrowth: 0.1,
		Break:          3,
	}
}

// Waves tracks the current wave and the break between waves
type Waves struct {
	cfg       WaveConfig
	number    int
	active    bool
	breakLeft float64
}

// NewWaves creates a wave tracker that has not started yet
func NewWaves(cfg WaveConfig) *Waves {
	return &Waves{cfg: cfg}
}

// Number returns the current wave, 0 before the first one
func (w *Waves) Number() int { return w.number }

// Active reports whether the current wave still has enemies to clear
func (w *Waves) Active() bool { return w.active }

// BreakLeft returns the seconds until the next wave while between waves
func (w *Waves) BreakLeft() float64 { return w.breakLeft }

// EnemyCount returns how many enemies wave n spawns
func (w *Waves) EnemyCount(n int) int {
	return max(0, w.cfg.BaseEnemies+n*w.cfg.Growth)
}

// Multipliers returns the stat scaling for wave n
func (w *Waves) Multipliers(n int) Multipliers {
	k := float64(max(n-1, 0))
	return Multipliers{
		HP:       1 + k*w.cfg.HPGrowth,
		Speed:    1 + k*w.cfg.SpeedGrowth,
		FireRate: 1 + k*w.cfg.FireRateGrowth,
	}
}

// Tick advances the wave state and reports the number of a wave that starts
// now, or 0. The first wave starts on the first tick; later waves start once
// enemiesAlive has been zero for the configured break.
func (w *Waves) Tick(dt float64, enemiesAlive int) int {
	if w.number == 0 {
		return w.start()
	}
	if enemiesAlive > 0 {
		return 0
	}
	if w.active {
		w.active = false
		w.breakLeft = w.cfg.Break
	}
	w.breakLeft -= dt
	if w.breakLeft > 0 {
		return 0
	}
	return w.start()
}

func (w *Waves) start() int {
	w.number++
	w.active = true
	w.breakLeft = 0
	return w.number
}

// Reset returns to before the first wave
func (w *Waves) Reset() {
	w.number = 0
	w.active = false
	w.breakLeft = 0
}
