package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/JHooven/flappy-bird-fresh/pkg/rig"
	"github.com/JHooven/flappy-bird-fresh/pkg/rig/comm"
)

// Connector implements rig.Connector using MQTT.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
}

// DefaultDiscoverTimeout bounds how long Discover listens for
// announcements.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}, nil
}

// Discover implements rig.Connector. It collects retained metadata
// announcements for DiscoverTimeout. An empty payload is a cleared
// announcement from a rig that went away and is skipped.
func (c *Connector) Discover(ctx context.Context) ([]rig.Info, error) {
	q := NewQueue(c.options, c.topicPrefix)
	q.Connect()
	defer q.Close()

	infoCh := make(chan rig.Info, 1)
	q.Sub("+/+/meta", Handler(func(topic string, payload []byte) {
		info, ok := metaFrom(topic, payload)
		if !ok {
			return
		}
		select {
		case infoCh <- info:
		case <-time.After(time.Second):
		}
	}))

	dur := c.DiscoverTimeout
	if dur <= 0 {
		dur = DefaultDiscoverTimeout
	}
	deadline := time.After(dur)
	var res []rig.Info
	for {
		select {
		case info := <-infoCh:
			res = append(res, info)
		case <-deadline:
			return res, nil
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
}

// metaFrom parses a type/id/meta announcement.
func metaFrom(topic string, payload []byte) (info rig.Info, ok bool) {
	if len(payload) == 0 {
		return
	}
	items := strings.Split(topic, "/")
	if len(items) != 3 {
		return
	}
	info.Ref = rig.Ref{Type: items[0], ID: items[1]}
	json.Unmarshal(payload, &info.Meta)
	return info, true
}

// Connect implements rig.Connector.
func (c *Connector) Connect(ctx context.Context, ref rig.Ref) (rig.Conn, error) {
	conn := &Conn{
		Queue: NewQueue(c.options, c.topicPrefix),
	}
	conn.Init(NewPacketReadWriter(conn.Queue).ForConnector(ref))
	token := conn.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return conn, nil
}

// Conn implements rig.Conn using MQTT.
type Conn struct {
	comm.RigConn
	Queue *Queue
}
