package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Subscriber is the field client's side of the live-update channel: it
// dials the server, listens for job/team events and hands each one to the
// callback (typically an immediate dashboard refresh between polls).
// Lost connections are redialed with a flat backoff until Close.
type Subscriber struct {
	serverURL string
	token     string
	onEvent   func(Event)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSubscriber creates a subscriber for the given API base URL
func NewSubscriber(apiURL, token string, onEvent func(Event)) *Subscriber {
	return &Subscriber{
		serverURL: apiURL,
		token:     token,
		onEvent:   onEvent,
	}
}

// Start connects in the background. Safe to call once.
func (s *Subscriber) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	done := make(chan struct{})
	s.done = done

	go s.run(ctx, done)
}

// Close tears the connection down and waits for the loop to exit
func (s *Subscriber) Close() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Subscriber) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		if ctx.Err() != nil {
			return
		}

		if err := s.listen(ctx); err != nil && ctx.Err() == nil {
			log.Printf("⚠️  Live-update connection lost, retrying in 5s: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (s *Subscriber) listen(ctx context.Context) error {
	wsURL, err := s.websocketURL()
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("📡 Live updates connected")

	// Unblock ReadMessage when the context ends
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("⚠️  Ignoring malformed live update: %v", err)
			continue
		}

		if event.Type == "" || s.onEvent == nil {
			continue
		}
		s.onEvent(event)
	}
}

func (s *Subscriber) websocketURL() (string, error) {
	u, err := url.Parse(s.serverURL)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"

	q := u.Query()
	q.Set("token", s.token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
