// Package notify publishes display transitions and cue events to an MQTT broker.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/reaction"
)

const (
	queueSize      = 32
	publishTimeout = 2 * time.Second
	connectTimeout = 10 * time.Second
)

// ErrConnect is returned when the broker cannot be reached.
var ErrConnect = errors.New("mqtt connect failed")

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Message is the payload published for each event.
type Message struct {
	Seq     uint64           `json:"seq"`
	Time    time.Time        `json:"time"`
	Display reaction.Display `json:"display"`
	Cue     bool             `json:"cue,omitempty"`
}

type outgoing struct {
	topic    string
	retained bool
	payload  []byte
}

// Publisher is a reaction.Sink that forwards display changes to
// <topic> (retained) and cue events to <topic>/cue. Publishing happens on
// its own goroutine; a full queue drops messages.
type Publisher struct {
	client Client
	topic  string
	queue  chan outgoing
	done   chan struct{}

	mu     sync.Mutex
	last   reaction.Snapshot
	closed bool
}

// Dial connects to broker and returns a running Publisher.
func Dial(broker, topic string) (*Publisher, error) {
	clientID := "mudra-" + uuid.New().String()
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(5 * time.Second)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(c mqtt.Client) {
		log.Info("connected to MQTT", "broker", broker, "client_id", clientID)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		log.Warn("MQTT connection lost", "error", err)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%s: timeout: %w", broker, ErrConnect)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", broker, err, ErrConnect)
	}

	return New(client, topic), nil
}

// New wraps an already connected client.
func New(client Client, topic string) *Publisher {
	p := &Publisher{
		client: client,
		topic:  topic,
		queue:  make(chan outgoing, queueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// CueTopic returns the topic cue events are published on.
func (p *Publisher) CueTopic() string {
	return p.topic + "/cue"
}

// Publish implements reaction.Sink.
func (p *Publisher) Publish(s reaction.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.last
	p.last = s
	if p.closed {
		return
	}

	msg := Message{Seq: s.Seq, Time: s.Time, Display: s.Display, Cue: s.Cue}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	if prev.Seq == 0 || s.Changed(prev) {
		p.enqueue(outgoing{topic: p.topic, retained: true, payload: payload})
	}
	if s.Cue {
		p.enqueue(outgoing{topic: p.CueTopic(), payload: payload})
	}
}

func (p *Publisher) enqueue(m outgoing) {
	select {
	case p.queue <- m:
	default:
		log.Debug("mqtt queue full, dropping message", "topic", m.topic)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for m := range p.queue {
		token := p.client.Publish(m.topic, 0, m.retained, m.payload)
		if !token.WaitTimeout(publishTimeout) {
			log.Warn("mqtt publish timed out", "topic", m.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Warn("mqtt publish failed", "topic", m.topic, "error", err)
		}
	}
}

// Close flushes queued messages and disconnects.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	p.client.Disconnect(250)
	return nil
}
