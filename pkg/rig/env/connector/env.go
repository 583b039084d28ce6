// Package connector sets up the environment for tools that talk to a
// rig.
package connector

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/comm/mqtt"
)

// Config provides common options to reach a rig.
type Config struct {
	Ref rig.Ref

	// RegistryURL specifies the URL of the rig registry,
	// e.g. mqtt://host:port/topic-prefix
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/bird/",
}

func init() {
	fromEnv(&defaultConfig.Ref.Type, "BIRD_TYPE")
	fromEnv(&defaultConfig.Ref.ID, "BIRD_ID")
	fromEnv(&defaultConfig.RegistryURL, "BIRD_REGISTRY_URL")
}

func fromEnv(target *string, name string) {
	if val := os.Getenv(name); val != "" {
		*target = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "rig-type", defaultConfig.Ref.Type, "Rig type to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "rig-id", defaultConfig.Ref.ID, "Rig ID to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "rig-reg", defaultConfig.RegistryURL, "Rig registry URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig clones the default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (rig.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %v", err)
	}
	switch parsedURL.Scheme {
	case "mqtt":
		return mqtt.NewConnector(c.RegistryURL)
	}
	return nil, fmt.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
}

// MustNewConnector creates a Connector and fails on error.
func (c *Config) MustNewConnector() rig.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

// Connect directly connects to the rig.
func (c *Config) Connect() (rig.Conn, error) {
	if !c.Ref.IsValid() {
		return nil, fmt.Errorf("rig type and id must be specified")
	}
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.TODO(), c.Ref)
}

// MustConnect connects to the rig or fails.
func (c *Config) MustConnect() rig.Conn {
	conn, err := c.Connect()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}
