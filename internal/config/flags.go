package config

import "flag"

// Flags are the command-line overrides shared by every scenetool command.
type Flags struct {
	Config  string
	Debug   bool
	Samples int
	Seed    int64 // -1 leaves the configured seeds alone
	Ticks   int
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.IntVar(&f.Samples, "samples", 0, "Terrain grid samples per side")
	fs.Int64Var(&f.Seed, "seed", -1, "Seed for terrain noise and prop scatter")
	fs.IntVar(&f.Ticks, "ticks", 0, "Number of simulation ticks")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Samples > 0 {
		cfg.Terrain.Samples = f.Samples
	}
	if f.Seed >= 0 {
		cfg.Terrain.NoiseSeed = uint64(f.Seed)
		cfg.Scatter.Seed = uint64(f.Seed)
	}
}
