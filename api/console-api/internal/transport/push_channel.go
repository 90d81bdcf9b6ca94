// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

const (
	DefaultReadLimit        = 10 * 1024 * 1024 // 10MB max message size
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultMaxBackoff       = 10 * time.Second
)

// PushChannel reads the recorder's push channel and forwards every text
// frame to a sink. A dropped connection is silence for the sink; the channel
// redials with exponential backoff until its context is cancelled.
type PushChannel struct {
	logger commons.Logger
	url    string
	header http.Header
	sink   internal_type.StreamSink

	dialer     websocket.Dialer
	readLimit  int64
	maxBackoff time.Duration
	initial    time.Duration

	mu       sync.Mutex
	connects int
}

type Option func(*PushChannel)

func WithHeader(header http.Header) Option {
	return func(p *PushChannel) { p.header = header }
}

func WithMaxBackoff(d time.Duration) Option {
	return func(p *PushChannel) {
		if d > 0 {
			p.maxBackoff = d
		}
	}
}

func WithInitialBackoff(d time.Duration) Option {
	return func(p *PushChannel) {
		if d > 0 {
			p.initial = d
		}
	}
}

func WithReadLimit(limit int64) Option {
	return func(p *PushChannel) { p.readLimit = limit }
}

// NewPushChannel validates the websocket URL (ws or wss).
func NewPushChannel(logger commons.Logger, rawURL string, sink internal_type.StreamSink, opts ...Option) (*PushChannel, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse websocket URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported websocket scheme %q", u.Scheme)
	}
	p := &PushChannel{
		logger:     logger,
		url:        u.String(),
		header:     http.Header{},
		sink:       sink,
		dialer:     websocket.Dialer{HandshakeTimeout: DefaultHandshakeTimeout},
		readLimit:  DefaultReadLimit,
		maxBackoff: DefaultMaxBackoff,
		initial:    250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run keeps the push channel connected until ctx is cancelled.
func (p *PushChannel) Run(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = p.initial
	policy.MaxInterval = p.maxBackoff
	policy.MaxElapsedTime = 0

	operation := func() error {
		conn, err := p.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		policy.Reset()
		err = p.listen(ctx, conn)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = errors.New("push channel closed by peer")
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		p.logger.Warnw("push channel unavailable, redialing", "error", err, "wait", wait.String())
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Connects reports how many successful dials happened.
func (p *PushChannel) Connects() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connects
}

func (p *PushChannel) connect(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := p.dialer.DialContext(ctx, p.url, p.header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to websocket: %w", err)
	}
	conn.SetReadLimit(p.readLimit)

	p.mu.Lock()
	p.connects++
	p.mu.Unlock()

	p.logger.Infof("push channel connected: %s", p.url)
	return conn, nil
}

// listen reads frames until the connection fails or ctx is cancelled.
func (p *PushChannel) listen(ctx context.Context, conn *websocket.Conn) error {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		_ = conn.Close()
	})
	defer func() {
		stop()
		_ = conn.Close()
	}()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.logger.Debugf("push channel closed normally")
				return nil
			}
			return fmt.Errorf("websocket read error: %w", err)
		}
		if messageType != websocket.TextMessage {
			p.logger.Debugf("ignoring non-text push frame of type %d", messageType)
			continue
		}
		if err := p.sink.Push(ctx, message); err != nil {
			return err
		}
	}
}
