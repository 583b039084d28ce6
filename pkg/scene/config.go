package scene

import "flag"

// Config represents configuration for scene publishing.
type Config struct {
	Enabled bool
	Topic   string
}

var defaultConfig = Config{
	Topic: "scene",
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&defaultConfig.Enabled, "scene", defaultConfig.Enabled, "Publish scene updates")
	flag.StringVar(&defaultConfig.Topic, "scene-topic", defaultConfig.Topic, "Scene topic relative to the rig prefix")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
