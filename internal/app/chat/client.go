/*
Package chat contains the core logic of the relay.

This file defines the Client struct, one per WebSocket connection. The read
pump decodes inbound envelopes and hands them to the hub; the write pump
drains the send queue and keeps the heartbeat alive. The client performs
no state mutation itself.
*/
package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"chatrelay/internal/app/auth"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

const (
	// writeWait is the timeout for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// pongWait is the maximum wait for a Pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod is the heartbeat interval; must be below pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxFrameSize is the maximum inbound frame size in bytes.
	maxFrameSize = 8192

	// sendQueueSize buffers outbound events per client.
	sendQueueSize = 256

	// messageRate and messageBurst throttle inbound chat messages per
	// session.
	messageRate  = rate.Limit(5)
	messageBurst = 10
)

// Client represents one live WebSocket connection and its session identity.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// sessionID is the connection identifier assigned at upgrade time.
	sessionID string

	// grant holds the escalated role when a valid admin token accompanied
	// the upgrade; nil for ordinary connections.
	grant *auth.Grant

	// send queues outbound frames for the write pump.
	send chan []byte

	// sendClosed is owned by the hub dispatch goroutine.
	sendClosed bool

	// msgLimiter throttles inbound chat messages.
	msgLimiter *rate.Limiter

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection. grant may be
// nil.
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, grant *auth.Grant) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "Client").
		Str("session_id", sessionID).
		Logger()

	return &Client{
		hub:        hub,
		conn:       conn,
		sessionID:  sessionID,
		grant:      grant,
		send:       make(chan []byte, sendQueueSize),
		msgLimiter: rate.NewLimiter(messageRate, messageBurst),
		logger:     clientLogger,
	}
}

// SessionID returns the connection identifier of this client.
func (c *Client) SessionID() string {
	return c.sessionID
}

// ReadPump reads frames from the connection, decodes envelopes, and hands
// them to the hub. It exits on any read error and triggers disconnect
// cleanup, which is safe to run even if cleanup already happened.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.processInboundFrame(frame)
	}
}

// processInboundFrame decodes one frame and dispatches it to the hub,
// throttling chat messages at the connection edge.
func (c *Client) processInboundFrame(frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON frame")
		c.hub.RejectFrame(c, errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	if env.Type == TypeChatMessage && !c.msgLimiter.Allow() {
		c.logger.Warn().Msg("Client exceeded message rate; dropping message")
		c.hub.RejectFrame(c, errs.NewError(errs.ErrRateLimitExceeded))
		return
	}

	c.hub.Dispatch(c, env)
}

// cleanupOnDisconnect notifies the hub and closes the connection. The
// disconnect path is idempotent end to end.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.UnregisterClient(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump drains the send queue to the connection and emits heartbeat
// pings. It exits when the send channel is closed or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame from the send queue. It returns false
// when the pump should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		// The hub closed the send channel.
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePing sends the heartbeat; false terminates the pump.
func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
