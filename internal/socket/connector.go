// internal/socket/connector.go
package socket

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"coopwise-client/internal/auth"
	"coopwise-client/internal/domain/notification"
)

const defaultReconnectWait = 5 * time.Second

// State is the connector lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnectPending
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnectPending:
		return "reconnect_pending"
	default:
		return "disconnected"
	}
}

// Config wires a Connector.
type Config struct {
	// WSBase is the websocket base URL, e.g. wss://api.coopwise.app
	WSBase string
	// Tokens supplies the bearer token appended to the dial URL.
	Tokens auth.TokenProvider
	// OnMessage receives every normalized push record.
	OnMessage func(notification.Notification)
	// ReconnectWait overrides the fixed redial delay. Zero means 5s.
	ReconnectWait time.Duration
	Logger        *zap.Logger
}

// Connector maintains exactly one live socket to the notification push
// endpoint. An abnormal close schedules a redial after a fixed delay, with
// no backoff and no attempt cap; a normal close (1000) or Close() stops the
// machine for good.
type Connector struct {
	wsBase        string
	tokens        auth.TokenProvider
	onMessage     func(notification.Notification)
	reconnectWait time.Duration
	logger        *zap.Logger

	mu     sync.Mutex
	state  State
	conn   *websocket.Conn
	timer  *time.Timer
	closed bool
	userID string
}

func NewConnector(cfg Config) *Connector {
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = defaultReconnectWait
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Connector{
		wsBase:        cfg.WSBase,
		tokens:        cfg.Tokens,
		onMessage:     cfg.OnMessage,
		reconnectWait: cfg.ReconnectWait,
		logger:        cfg.Logger,
	}
}

// State returns the current lifecycle state.
func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect obtains a token and dials the push endpoint. It fails fast when no
// token is available; the caller owns re-invoking Connect once auth state
// changes. A dial failure here is surfaced the same way, not retried.
func (c *Connector) Connect(ctx context.Context, userID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrConnectorClosed
	}
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = StateConnecting
	c.userID = userID
	c.mu.Unlock()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.setState(StateDisconnected)
		return err
	}
	if auth.TokenExpired(token, time.Now()) {
		c.logger.Warn("auth token is expired, backend will likely reject the socket",
			zap.String("user_id", userID))
	}

	endpoint := fmt.Sprintf("%s/api/v1/notifications/ws?token=%s", c.wsBase, url.QueryEscape(token))

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("dialing push endpoint: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrConnectorClosed
	}
	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()

	c.logger.Info("notification socket connected", zap.String("user_id", userID))
	go c.readLoop(conn, userID)
	return nil
}

// Close tears the connector down: cancels any pending redial, sends a normal
// close frame, and prevents all future reconnection. Safe to call more than
// once.
func (c *Connector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		deadline := time.Now().Add(time.Second)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client shutdown")
		if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
			c.logger.Debug("failed to send close frame", zap.Error(err))
		}
		return conn.Close()
	}
	return nil
}

func (c *Connector) readLoop(conn *websocket.Conn, userID string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			c.handleDisconnect(err, userID)
			return
		}

		n, perr := ParseFrame(data)
		if perr != nil {
			// A bad frame never tears the connection down.
			c.logger.Error("dropping push frame", zap.Error(perr))
			continue
		}
		if c.onMessage != nil {
			c.onMessage(*n)
		}
	}
}

// handleDisconnect owns recovery: a normal closure ends the machine, any
// other read error schedules exactly one redial.
func (c *Connector) handleDisconnect(err error, userID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.conn = nil

	if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		c.state = StateDisconnected
		c.mu.Unlock()
		c.logger.Info("notification socket closed", zap.String("user_id", userID))
		return
	}

	c.state = StateReconnectPending
	c.timer = time.AfterFunc(c.reconnectWait, func() { c.redial(userID) })
	c.mu.Unlock()

	c.logger.Warn("notification socket closed abnormally, reconnecting",
		zap.String("user_id", userID),
		zap.Duration("wait", c.reconnectWait),
		zap.Error(err),
	)
}

// redial re-invokes Connect with the same user. A missing token ends the
// machine; a dial failure behaves like another abnormal close and keeps
// retrying on the same fixed delay.
func (c *Connector) redial(userID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.timer = nil
	c.mu.Unlock()

	err := c.Connect(context.Background(), userID)
	if err == nil {
		return
	}
	if errors.Is(err, ErrConnectorClosed) || errors.Is(err, ErrAlreadyConnected) {
		return
	}
	if errors.Is(err, auth.ErrNoToken) {
		c.logger.Error("cannot reconnect notification socket without a token",
			zap.String("user_id", userID))
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state = StateReconnectPending
	c.timer = time.AfterFunc(c.reconnectWait, func() { c.redial(userID) })
	c.mu.Unlock()

	c.logger.Warn("reconnect attempt failed, will retry",
		zap.String("user_id", userID),
		zap.Duration("wait", c.reconnectWait),
		zap.Error(err),
	)
}

func (c *Connector) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
