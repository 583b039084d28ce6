package gamepad

import (
	"flag"

	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
)

// Config defines the configurations for the bridge.
type Config struct {
	DeviceIndex int
	TiltRange   int
	Verbose     bool
}

var defaultConfig = Config{
	DeviceIndex: -1,
	TiltRange:   800,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Device index, -1 for auto detection.")
	flag.IntVar(&defaultConfig.TiltRange, "tilt-range", defaultConfig.TiltRange, "Tilt at full stick deflection, raw accel units.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Print gamepad events.")
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

// NewBridge creates a bridge over an established rig connection
// using the config.
func (c *Config) NewBridge(conn rig.Conn) *Bridge {
	b := NewBridge(conn)
	b.DeviceIndex = c.DeviceIndex
	b.TiltRange = c.TiltRange
	b.Verbose = c.Verbose
	return b
}
