// Package mqtt carries the rig protocol over an MQTT broker.
package mqtt

import (
	"net/url"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// ConnectHandler is notified on connect and disconnect.
type ConnectHandler func(*Queue)

// Queue wraps an MQTT client. All topics are relative to TopicPrefix.
type Queue struct {
	Client       paho.Client
	TopicPrefix  string
	OnConnect    ConnectHandler
	OnDisconnect ConnectHandler

	lock sync.RWMutex
	subs map[string]*topicSubs
}

// topicSubs is the handlers sharing one broker subscription.
type topicSubs struct {
	wildcard bool
	handlers []*Subscription
}

// Subscription is one handler attached to a topic.
type Subscription struct {
	Token paho.Token

	queue   *Queue
	topic   string
	handler Handler
}

// MatchTopic matches a concrete topic against a subscription pattern
// with + and # wildcards.
func MatchTopic(topic, pattern string) bool {
	top := strings.Split(topic, "/")
	pat := strings.Split(pattern, "/")
	if len(pat) > len(top) {
		return false
	}
	for i, seg := range pat {
		if seg == "#" && i+1 == len(pat) {
			return true
		}
		if seg != "+" && seg != top[i] {
			return false
		}
	}
	return true
}

// ClientOptionsFromURL builds paho options from a broker URL. The URL
// path becomes the topic prefix, a client-id query parameter overrides
// the generated client ID.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	scheme := u.Scheme
	if scheme == "" || scheme == "mqtt" {
		scheme = "tcp"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(scheme + "://" + u.Host).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}

	return opts, strings.TrimPrefix(u.Path, "/"), nil
}

// NewQueue creates a Queue over the given client options.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.OnConnectHandler)
	options.SetConnectionLostHandler(q.ConnectionLostHandler)
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates a Queue from a broker URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub attaches a handler to a topic. Handlers on the same topic
// share a single broker subscription.
func (q *Queue) Sub(topic string, handler Handler) *Subscription {
	sub := &Subscription{queue: q, topic: topic, handler: handler}
	q.lock.Lock()
	if q.subs == nil {
		q.subs = make(map[string]*topicSubs)
	}
	ts := q.subs[topic]
	fresh := ts == nil
	if fresh {
		ts = &topicSubs{wildcard: strings.ContainsAny(topic, "+#")}
		q.subs[topic] = ts
	}
	ts.handlers = append(ts.handlers, sub)
	q.lock.Unlock()

	if fresh {
		if glog.V(2) {
			glog.Infof("SUB %q", q.TopicPrefix+topic)
		}
		sub.Token = q.Client.Subscribe(q.TopicPrefix+topic, 0, q.dispatch)
	}
	return sub
}

// Pub publishes to a topic.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, 0, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

// Resubscribe restores all broker subscriptions, used after the
// connection was reestablished.
func (q *Queue) Resubscribe() paho.Token {
	filters := make(map[string]byte)
	q.lock.RLock()
	for topic := range q.subs {
		filters[q.TopicPrefix+topic] = 0
	}
	q.lock.RUnlock()
	if len(filters) == 0 {
		return &paho.DummyToken{}
	}
	if glog.V(2) {
		for topic := range filters {
			glog.Infof("SUB %q", topic)
		}
	}
	return q.Client.SubscribeMultiple(filters, q.dispatch)
}

// OnConnectHandler is the default implementation of paho.OnConnectHandler.
func (q *Queue) OnConnectHandler(paho.Client) {
	glog.Info("connected")
	q.Resubscribe()
	if h := q.OnConnect; h != nil {
		h(q)
	}
}

// ConnectionLostHandler is the default implementation of paho.ConnectionLostHandler.
func (q *Queue) ConnectionLostHandler(c paho.Client, err error) {
	glog.Warningf("connection lost: %v", err)
	if h := q.OnDisconnect; h != nil {
		h(q)
	}
}

func (q *Queue) dispatch(_ paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	glog.V(2).Infof("RCV %q", topic)

	var handlers []Handler
	q.lock.RLock()
	for pattern, ts := range q.subs {
		if pattern != topic && !(ts.wildcard && MatchTopic(topic, pattern)) {
			continue
		}
		for _, sub := range ts.handlers {
			handlers = append(handlers, sub.handler)
		}
	}
	q.lock.RUnlock()

	payload := msg.Payload()
	for _, h := range handlers {
		h(topic, payload)
	}
}

// Close detaches the handler. The broker subscription goes away with
// the last handler on the topic.
func (s *Subscription) Close() error {
	q := s.queue
	var unsub bool
	q.lock.Lock()
	if ts := q.subs[s.topic]; ts != nil {
		for i, sub := range ts.handlers {
			if sub == s {
				ts.handlers = append(ts.handlers[:i], ts.handlers[i+1:]...)
				break
			}
		}
		if unsub = len(ts.handlers) == 0; unsub {
			delete(q.subs, s.topic)
		}
	}
	q.lock.Unlock()
	if !unsub {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", s.topic)
	token := q.Client.Unsubscribe(q.TopicPrefix + s.topic)
	token.Wait()
	return token.Error()
}
