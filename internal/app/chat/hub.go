/*
Package chat contains the core logic of the relay.

This file defines the Hub, the single owner of all shared chat state. Every
inbound event is handled to completion on the Hub's one dispatch goroutine,
which is what gives all observers the same total message order without any
locking in the components themselves.
*/
package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chatrelay/internal/app/auth"
	"chatrelay/internal/app/pairing"
	"chatrelay/internal/app/session"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

const (
	// eventChannelBuffer sizes the inbound event queue.
	eventChannelBuffer = 1024

	// pairingPurgeInterval is how often expired DM pairings are dropped.
	pairingPurgeInterval = time.Minute

	// MaxDisplayNameRunes caps client-chosen display names.
	MaxDisplayNameRunes = 32
)

// Config carries the hub's tunable state limits.
type Config struct {
	// HistoryLimit caps the message history; older entries are evicted.
	HistoryLimit int

	// PairingTTL is how long a DM invitation stays acceptable.
	PairingTTL time.Duration
}

// inboundEvent pairs a decoded envelope with the client that sent it. A
// non-nil reject carries a transport-edge rejection instead of an envelope.
type inboundEvent struct {
	client *Client
	env    Envelope
	reject *errs.CustomError
}

// Hub orchestrates the session registry, the broadcaster, the chat lock,
// and the pairing service. All of them are mutated only from Run.
type Hub struct {
	registry      *session.Registry
	authenticator *auth.Authenticator
	lock          *LockController
	broadcaster   *Broadcaster
	pairings      *pairing.Service

	// clients maps session ids to their live connections.
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	events     chan inboundEvent

	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup

	logger zerolog.Logger
}

// NewHub constructs a Hub. The caller starts the dispatch loop with
// go hub.Run().
func NewHub(authenticator *auth.Authenticator, cfg Config) *Hub {
	h := &Hub{
		registry:      session.NewRegistry(),
		authenticator: authenticator,
		lock:          NewLockController(),
		broadcaster:   NewBroadcaster(cfg.HistoryLimit),
		pairings:      pairing.NewService(cfg.PairingTTL),
		clients:       make(map[string]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		events:        make(chan inboundEvent, eventChannelBuffer),
		stopChan:      make(chan struct{}),
		logger:        logx.Logger().With().Str("component", "Hub").Logger(),
	}

	h.wg.Add(1)

	return h
}

// Run is the dispatch loop. Exactly one inbound event is processed at a
// time, to completion, before the next is handled.
func (h *Hub) Run() {
	defer h.wg.Done()

	h.logger.Info().Msg("Hub dispatch loop started.")

	purgeTicker := time.NewTicker(pairingPurgeInterval)
	defer purgeTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case ev := <-h.events:
			if ev.reject != nil {
				h.handleReject(ev.client, ev.reject)
			} else {
				h.handleEvent(ev.client, ev.env)
			}

		case now := <-purgeTicker.C:
			if removed := h.pairings.Purge(now); removed > 0 {
				h.logger.Info().Int("removed", removed).Msg("Expired DM pairings purged.")
			}

		case <-h.stopChan:
			h.handleShutdown()
			return
		}
	}
}

// RegisterClient queues a new connection for registration.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopChan:
	}
}

// UnregisterClient queues a disconnect. Safe to call more than once for
// the same client.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopChan:
	}
}

// Dispatch queues an inbound client event for the dispatch loop.
func (h *Hub) Dispatch(c *Client, env Envelope) {
	select {
	case h.events <- inboundEvent{client: c, env: env}:
	case <-h.stopChan:
	}
}

// RejectFrame queues a transport-edge rejection for the sender. The error
// event is emitted from the dispatch goroutine, which owns the send
// channel lifecycle, so a rejection racing a disconnect is dropped rather
// than touching a closed channel.
func (h *Hub) RejectFrame(c *Client, customErr *errs.CustomError) {
	select {
	case h.events <- inboundEvent{client: c, reject: customErr}:
	case <-h.stopChan:
	}
}

// Shutdown stops the dispatch loop and closes every client connection.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down hub...")

	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
	h.wg.Wait()

	h.logger.Info().Msg("Hub shutdown complete.")
}

// handleRegister initializes a session for a new connection, pushes the
// current lock state and history to it, and republishes the roster.
func (h *Hub) handleRegister(c *Client) {
	sess, err := h.registry.Register(c.sessionID)
	if err != nil {
		// Duplicate connection ids cannot happen under correct transport
		// semantics; this is a server bug, not a client error.
		h.logger.Error().Err(err).Str("session_id", c.sessionID).
			Msg("Session registry invariant violation on register.")
		h.closeClient(c)
		return
	}

	if c.grant != nil {
		sess = h.registry.Escalate(c.sessionID, c.grant.Role, c.grant.DisplayName)
	}

	h.clients[c.sessionID] = c

	h.logger.Info().
		Str("session_id", c.sessionID).
		Str("display_name", sess.DisplayName).
		Int("total_sessions", h.registry.Len()).
		Msg("Session joined.")

	h.sendTo(c, TypeChatLockStatus, LockStatusPayload{Locked: h.lock.Locked()})
	h.sendTo(c, TypeChatHistory, HistoryPayload{Messages: h.broadcaster.History()})
	h.broadcastRoster()
}

// handleUnregister removes a session and republishes the roster. Duplicate
// disconnects for the same connection are no-ops: the roster is broadcast
// only when a session was actually removed. Pairings referencing the
// departed id are left to expire on their own.
func (h *Hub) handleUnregister(c *Client) {
	current, ok := h.clients[c.sessionID]
	if !ok || current != c {
		return
	}

	delete(h.clients, c.sessionID)
	h.registry.Remove(c.sessionID)
	h.closeClient(c)

	h.logger.Info().
		Str("session_id", c.sessionID).
		Int("total_sessions", h.registry.Len()).
		Msg("Session left.")

	h.broadcastRoster()
}

// handleShutdown closes every client as the dispatch loop exits.
func (h *Hub) handleShutdown() {
	for id, c := range h.clients {
		delete(h.clients, id)
		h.registry.Remove(id)
		h.closeClient(c)
	}
}

// handleReject reports a transport-edge rejection to the causing session.
// A rejection that raced a disconnect is a no-op.
func (h *Hub) handleReject(c *Client, customErr *errs.CustomError) {
	if h.registry.Get(c.sessionID) == nil {
		return
	}

	h.sendError(c, customErr)
}

// handleEvent routes one inbound event to its owning component. No event
// failure stops the loop; errors go back to the causing session only.
func (h *Hub) handleEvent(c *Client, env Envelope) {
	sess := h.registry.Get(c.sessionID)
	if sess == nil {
		// Event raced a disconnect; nothing to do.
		return
	}

	switch env.Type {
	case TypeSetUsername:
		h.handleSetUsername(c, env.Payload)

	case TypeSignIn:
		h.handleSignIn(c, env.Payload)

	case TypeChatMessage:
		h.handleChatMessage(c, sess, env.Payload)

	case TypeAdminLock:
		if h.requirePrivilege(c, sess) {
			h.lock.Lock()
			h.broadcast(TypeChatLockStatus, LockStatusPayload{Locked: true})
			h.logger.Info().Str("session_id", sess.ID).Msg("Chat locked.")
		}

	case TypeAdminUnlock:
		if h.requirePrivilege(c, sess) {
			h.lock.Unlock()
			h.broadcast(TypeChatLockStatus, LockStatusPayload{Locked: false})
			h.logger.Info().Str("session_id", sess.ID).Msg("Chat unlocked.")
		}

	case TypeAdminClear:
		if h.requirePrivilege(c, sess) {
			h.broadcaster.Clear()
			h.broadcast(TypeChatHistory, HistoryPayload{Messages: []Message{}})
			h.logger.Info().Str("session_id", sess.ID).Msg("Message history cleared.")
		}

	case TypeAdminAnnouncement:
		h.handleAnnouncement(c, sess, env.Payload)

	case TypeDMRequest:
		h.handleDMRequest(c, sess, env.Payload)

	case TypeDMAccept:
		h.handleDMAccept(c, env.Payload)

	default:
		h.logger.Warn().Str("event_type", string(env.Type)).
			Str("session_id", c.sessionID).
			Msg("Client sent unsupported event type.")
	}
}

func (h *Hub) handleSetUsername(c *Client, payload json.RawMessage) {
	var p SetUsernamePayload
	if !h.decode(c, payload, &p) {
		return
	}

	if len([]rune(p.Name)) > MaxDisplayNameRunes {
		h.sendError(c, errs.NewError(errs.ErrInvalidParams))
		return
	}

	if h.registry.Rename(c.sessionID, p.Name) == nil {
		return
	}

	h.broadcastRoster()
}

// handleSignIn checks the credential pair and escalates the session on a
// match. A mismatch never changes the session, never triggers a roster
// broadcast, and is reported to the requesting session only.
func (h *Hub) handleSignIn(c *Client, payload json.RawMessage) {
	var p SignInPayload
	if !h.decode(c, payload, &p) {
		return
	}

	grant, ok := h.authenticator.TryAuthenticate(p.Name, p.Secret)
	if !ok {
		h.sendTo(c, TypeSignInError, nil)
		return
	}

	sess := h.registry.Escalate(c.sessionID, grant.Role, grant.DisplayName)
	if sess == nil {
		return
	}

	h.logger.Info().
		Str("session_id", sess.ID).
		Str("role", string(sess.Role)).
		Msg("Session escalated via sign-in.")

	h.sendTo(c, TypeSignInOK, SignInOKPayload{Role: sess.Role, DisplayName: sess.DisplayName})
	h.broadcastRoster()
}

// handleChatMessage submits text to the broadcaster. Accepted messages fan
// out to every session including the sender, so ordering relative to other
// senders is consistent for all observers. A lock rejection signals only
// the submitting session.
func (h *Hub) handleChatMessage(c *Client, sess *session.Session, payload json.RawMessage) {
	var p TextPayload
	if !h.decode(c, payload, &p) {
		return
	}

	msg, customErr := h.broadcaster.Submit(sess, p.Text, h.lock.Locked())
	if customErr != nil {
		if customErr.Code == errs.ErrChatLocked {
			h.sendTo(c, TypeChatLocked, nil)
		} else {
			h.sendError(c, customErr)
		}
		return
	}

	h.broadcast(TypeChatMessage, msg)
}

func (h *Hub) handleAnnouncement(c *Client, sess *session.Session, payload json.RawMessage) {
	if !h.requirePrivilege(c, sess) {
		return
	}

	var p TextPayload
	if !h.decode(c, payload, &p) {
		return
	}

	msg := h.broadcaster.Announce(p.Text)
	h.broadcast(TypeChatMessage, msg)

	h.logger.Info().Str("session_id", sess.ID).Msg("Announcement broadcast.")
}

// handleDMRequest stores a pairing and notifies the target, if connected.
// A request naming an absent id is stored anyway and expires unobserved.
func (h *Hub) handleDMRequest(c *Client, sess *session.Session, payload json.RawMessage) {
	var p DMRequestPayload
	if !h.decode(c, payload, &p) {
		return
	}

	if p.TargetID == "" {
		h.sendError(c, errs.NewError(errs.ErrInvalidParams))
		return
	}

	pair, err := h.pairings.Request(c.sessionID, p.TargetID, time.Now())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create DM pairing.")
		h.sendError(c, errs.NewError(errs.ErrUnknown))
		return
	}

	if target, ok := h.clients[p.TargetID]; ok {
		h.sendTo(target, TypeDMRequest, DMRequestNotice{
			From:     sess.ID,
			FromName: sess.DisplayName,
			Token:    pair.Token,
		})
	}
}

// handleDMAccept resolves a pairing token and redirects both participants
// into the private sub-channel. Rejections go to the responder explicitly
// rather than being swallowed.
func (h *Hub) handleDMAccept(c *Client, payload json.RawMessage) {
	var p DMAcceptPayload
	if !h.decode(c, payload, &p) {
		return
	}

	pair, customErr := h.pairings.Accept(c.sessionID, p.Token, time.Now())
	if customErr != nil {
		h.sendError(c, customErr)
		return
	}

	redirect := DMRedirectPayload{
		Token:   pair.Token,
		Channel: "/dm/" + pair.Token,
	}

	for _, id := range []string{pair.InitiatorID, pair.TargetID} {
		if participant, ok := h.clients[id]; ok {
			h.sendTo(participant, TypeDMRedirect, redirect)
		}
	}
}

// requirePrivilege rejects moderation events from unprivileged sessions
// with a sender-only error.
func (h *Hub) requirePrivilege(c *Client, sess *session.Session) bool {
	if sess.Role.Privileged() {
		return true
	}

	h.logger.Warn().
		Str("session_id", sess.ID).
		Msg("Unprivileged session attempted a moderation action.")

	h.sendError(c, errs.NewError(errs.ErrNotPrivileged))
	return false
}

// decode unmarshals an event payload, reporting malformed input to the
// sender.
func (h *Hub) decode(c *Client, payload json.RawMessage, dst any) bool {
	if err := json.Unmarshal(payload, dst); err != nil {
		h.logger.Warn().Err(err).
			Str("session_id", c.sessionID).
			Msg("Client sent an invalid event payload.")
		h.sendError(c, errs.NewError(errs.ErrInvalidJSONFormat))
		return false
	}
	return true
}

// broadcastRoster publishes the current user list to every session.
func (h *Hub) broadcastRoster() {
	h.broadcast(TypeUserList, UserListPayload{Users: h.registry.Snapshot()})
}

// broadcast fans an event out to every connected session. The envelope is
// marshaled once; clients whose send queue is full are dropped and
// disconnected rather than blocking the loop.
func (h *Hub) broadcast(t EventType, payload any) {
	data, ok := h.encode(t, payload)
	if !ok {
		return
	}

	var stale []*Client
	for _, c := range h.clients {
		if !h.deliver(c, data) {
			stale = append(stale, c)
		}
	}

	for _, c := range stale {
		h.handleUnregister(c)
	}
}

// sendTo sends one event to a single session; a full queue is dropped, not
// an error.
func (h *Hub) sendTo(c *Client, t EventType, payload any) {
	data, ok := h.encode(t, payload)
	if !ok {
		return
	}

	h.deliver(c, data)
}

// sendError reports a rejection to the causing session only.
func (h *Hub) sendError(c *Client, customErr *errs.CustomError) {
	h.sendTo(c, TypeError, ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

func (h *Hub) encode(t EventType, payload any) ([]byte, bool) {
	env, err := NewEnvelope(t, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(t)).
			Msg("Failed to build outbound envelope.")
		return nil, false
	}

	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(t)).
			Msg("Failed to marshal outbound envelope.")
		return nil, false
	}

	return data, true
}

// deliver queues data on a client's send channel without blocking. A send
// to a closed or departing session is simply dropped.
func (h *Hub) deliver(c *Client, data []byte) bool {
	if c.sendClosed {
		return true
	}

	select {
	case c.send <- data:
		return true
	default:
		h.logger.Warn().
			Str("session_id", c.sessionID).
			Msg("Client send queue full; dropping client.")
		return false
	}
}

// closeClient closes a client's send channel exactly once. The flag is
// only touched on the dispatch goroutine.
func (h *Hub) closeClient(c *Client) {
	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.send)
}
