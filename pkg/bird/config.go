package bird

import (
	"flag"

	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// Config defines the configurations for the firmware controller.
type Config struct {
	MaxSampleMisses int
	HeartbeatCycles int
}

var defaultConfig = Config{
	MaxSampleMisses: 8,
	HeartbeatCycles: 256,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.MaxSampleMisses, "max-sample-misses", defaultConfig.MaxSampleMisses,
		"Consecutive sensor misses tolerated before the rig halts.")
	flag.IntVar(&defaultConfig.HeartbeatCycles, "heartbeat-cycles", defaultConfig.HeartbeatCycles,
		"Loop cycles between status LED toggles.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController creates a controller over the board bus using the
// config.
func (c *Config) NewController(b hw.Bus) *Controller {
	ctl := New(b)
	ctl.MaxSampleMisses = c.MaxSampleMisses
	ctl.HeartbeatCycles = c.HeartbeatCycles
	return ctl
}
