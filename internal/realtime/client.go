package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/state"
)

const (
	outboxSize   = 256
	writeTimeout = 5 * time.Second
	pingInterval = 20 * time.Second
	minBackoff   = 500 * time.Millisecond
	maxBackoff   = 30 * time.Second
)

// Sink receives envelopes decoded from peer commands.
type Sink interface {
	Dispatch(e dispatch.Envelope)
}

// Options configure a Client.
type Options struct {
	URL    string
	Token  string
	Self   state.Signature
	Sink   Sink
	Logger zerolog.Logger
}

// Client keeps a websocket to the sync service open. It sends the local
// state deltas and dispatches what peers send.
type Client struct {
	url    string
	header http.Header
	self   state.Signature
	sink   Sink
	log    zerolog.Logger
	dialer *websocket.Dialer
	outbox chan Command
}

// NewClient builds a Client. Call Run to connect.
func NewClient(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.URL)
	if raw == "" {
		return nil, errors.New("sync url required")
	}
	if !strings.HasPrefix(raw, "ws://") && !strings.HasPrefix(raw, "wss://") {
		return nil, fmt.Errorf("sync url %q must use ws:// or wss://", opts.URL)
	}
	header := http.Header{}
	if token := strings.TrimSpace(opts.Token); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	return &Client{
		url:    raw,
		header: header,
		self:   opts.Self,
		sink:   opts.Sink,
		log:    opts.Logger.With().Str("component", "realtime").Logger(),
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		outbox: make(chan Command, outboxSize),
	}, nil
}

// Send queues cmd for delivery. It never blocks; when the outbox is full
// the command is dropped.
func (c *Client) Send(cmd Command) bool {
	select {
	case c.outbox <- cmd:
		return true
	default:
		c.log.Warn().Str("type", string(cmd.Type)).Msg("sync outbox full, dropping command")
		return false
	}
}

// Publish sends the commands describing a published state change. It is
// meant for the dispatcher's OnPublish hook.
func (c *Client) Publish(prev, next state.AppState) {
	for _, cmd := range Diff(prev, next, c.self) {
		c.Send(cmd)
	}
}

// ReportAddonPlayed tells the sync service an interstitial finished.
func (c *Client) ReportAddonPlayed(_ context.Context, addon model.Addon) error {
	cmd, err := NewCommand(TypeAddonPlayed, c.self, AddonPayload{ID: addon.ID, Kind: addon.Kind, Title: addon.Title})
	if err != nil {
		return err
	}
	if !c.Send(cmd) {
		return fmt.Errorf("report addon %s: outbox full", addon.ID)
	}
	return nil
}

// Run connects and reconnects until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
		if err == nil {
			attempt = 0
			c.log.Info().Str("url", c.url).Msg("sync connected")
			err = c.serve(ctx, conn)
			_ = conn.Close()
		}
		if ctx.Err() != nil {
			return nil
		}
		wait := calculateBackoff(attempt)
		attempt++
		c.log.Warn().Err(err).Dur("retry_in", wait).Msg("sync connection lost")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	readErr := make(chan error, 1)
	go func() { readErr <- c.readLoop(conn) }()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			return ctx.Err()
		case err := <-readErr:
			return err
		case cmd := <-c.outbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(cmd); err != nil {
				return fmt.Errorf("write %s: %w", cmd.Type, err)
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		env, ok := Decode(cmd, c.self)
		if !ok {
			continue
		}
		c.log.Debug().Str("type", string(cmd.Type)).Str("from", string(cmd.Signature)).Msg("sync command")
		if c.sink != nil {
			c.sink.Dispatch(env)
		}
	}
}

// calculateBackoff doubles from minBackoff per failed attempt up to
// maxBackoff.
func calculateBackoff(attempt int) time.Duration {
	wait := minBackoff
	for i := 0; i < attempt && wait < maxBackoff; i++ {
		wait *= 2
	}
	return min(wait, maxBackoff)
}
