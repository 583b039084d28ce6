// Package controller sets up the registration environment for a rig
// process.
package controller

import (
	"flag"
	"fmt"
	"log"
	"os"

	fx "github.com/JHooven/flappy-bird-fresh/pkg/framework"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/comm"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/comm/mqtt"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/env"
)

// Config selects the registries a rig announces itself on.
type Config struct {
	Info rig.Info

	// MQTTBrokerURL points at the broker registry in the form
	// mqtt://host:port/topic-prefix. Empty disables it.
	MQTTBrokerURL string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/bird/",
}

func init() {
	if val := os.Getenv("BIRD_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	defaultConfig.Info.Ref.ID = env.MachineID()
}

// SetupFlags binds the default config to command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Rig type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Rig ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
}

// Default gets the process-wide config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig returns a copy of the process-wide config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// SetRigType should be called in init with basic info about the rig.
func SetRigType(typ string, meta rig.Meta) {
	defaultConfig.Info.Ref.Type = typ
	defaultConfig.Info.Meta = meta
}

// Env is the registration environment of a rig process.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Registrar    *comm.RegistrarMux
	// MQTT is the broker registrar when MQTTBrokerURL is set.
	// Publishers reuse its queue for auxiliary topics.
	MQTT *mqtt.Registrar
}

// NewEnv creates the Env with one registrar per configured registry.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("rig type and id must be specified")
	}
	e := &Env{Config: c, Registrar: &comm.RegistrarMux{}}
	if c.MQTTBrokerURL != "" {
		if err := e.addMQTT(c.MQTTBrokerURL, c.Info); err != nil {
			return nil, err
		}
	}
	if len(e.Registrar.Registrars) == 0 {
		return nil, fmt.Errorf("at least one registrar is required")
	}
	return e, nil
}

func (e *Env) addMQTT(brokerURL string, info rig.Info) error {
	reg, err := mqtt.NewRegistrar(brokerURL, info)
	if err != nil {
		return fmt.Errorf("create MQTT registrar error: %v", err)
	}
	e.MQTT = reg
	e.Registrar.Add(reg)
	e.RegistryURLs = append(e.RegistryURLs, brokerURL)
	return nil
}

// MustNewEnv creates the Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// AddToLoop registers the environment on the loop. The catch-all
// command replier rides along so no command goes unanswered.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
	loop.Add(&comm.UnsupportedCommands{})
}
