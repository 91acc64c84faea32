/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Stadium guessing game
//
// A host opens a match and puts it on a big screen. Players join from their
// phones, and for each round the host reveals a blurred stadium photo that
// sharpens over 30 seconds. Players click the map where they think it is;
// closer and faster guesses score more.
//
// Features:
// - WebSockets per match ID: /stadium/:matchid and /stadium/:matchid/ws
// - Host role requested with ?role=host, held by the first browser to claim it
// - Optional --host-key required before the host role is granted
// - Round controls (start, end, next, restart) only accepted from the host
// - Each connection gets its own UUID; players are removed when it closes
// - Matches auto-reaped after configurable idle timeout
// - QR code of the match URL for players to scan, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/stadiumguess/games/stadium"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	playerCookieName = "stadiumguess_id"

	sendBuffer   = 64
	maxMessage   = 4096
	matchIDChars = 8
)

type Client struct {
	conn      *websocket.Conn
	send      chan any
	id        string // per connection, used as the player identity
	cookie    string // per browser, used to reclaim the host role
	wantsHost bool
	host      bool
}

type clientEvent struct {
	client *Client
	msg    stadium.ClientMessage
}

// Hub owns one match. Everything that touches the match runs on the hub's
// goroutine.
type Hub struct {
	id  string
	cfg *Config

	match      *stadium.Match
	clients    map[string]*Client
	hostCookie string

	register chan *Client
	unreg    chan *Client
	events   chan clientEvent
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once

	mu         sync.RWMutex
	lastActive time.Time
}

func newHub(cfg *Config, matchID string) *Hub {
	h := &Hub{
		id:         matchID,
		cfg:        cfg,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		events:     make(chan clientEvent),
		tasks:      make(chan func()),
		done:       make(chan struct{}),
		lastActive: time.Now(),
	}

	h.match = stadium.New(stadium.Options{
		Stadiums:   cfg.stadiums,
		Rounds:     cfg.rounds,
		MaxPlayers: cfg.maxPlayers,
		NameLength: cfg.nameLength,
		Notifier:   h,
		Scheduler:  h,
		Logf: func(format string, args ...any) {
			logf(cfg, format+" in %s", append(args, matchID)...)
		},
	})

	return h
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lastActive
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

func (h *Hub) run() {
	defer h.match.Close()

	for {
		select {
		case c := <-h.register:
			h.touch()
			h.handleRegister(c)

		case c := <-h.unreg:
			h.touch()

			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}

			h.match.Leave(c.id)

		case ev := <-h.events:
			h.touch()
			h.handleEvent(ev)

		case fn := <-h.tasks:
			fn()

		case <-h.done:
			h.closeAll()

			return
		}
	}
}

func (h *Hub) handleRegister(c *Client) {
	if c.wantsHost && (h.hostCookie == "" || h.hostCookie == c.cookie) {
		h.hostCookie = c.cookie
		c.host = true

		logf(h.cfg, "GAMES: Host connected to %s", h.id)
	}

	h.clients[c.id] = c

	h.Send(c.id, stadium.SessionInfoMessage{
		Type:   "sessionInfo",
		ID:     c.id,
		IsHost: c.host,
	})
}

func (h *Hub) handleEvent(ev clientEvent) {
	c, msg := ev.client, ev.msg

	// dropped for being too slow; its unregister is on the way
	if _, ok := h.clients[c.id]; !ok {
		return
	}

	switch msg.Type {
	case "join":
		if c.host {
			return
		}

		if _, err := h.match.Join(c.id, msg.Name); err != nil {
			logf(h.cfg, "GAMES: Rejected join as %q in %s: %v", msg.Name, h.id, err)

			if kind := stadium.ErrorKind(err); kind != "" {
				h.Send(c.id, stadium.NewErrorMessage(kind))
			}
		}

	case "submitGuess":
		if msg.Lat == nil || msg.Lng == nil || msg.TimeRemaining == nil {
			return
		}

		h.match.SubmitGuess(c.id, *msg.Lat, *msg.Lng, *msg.TimeRemaining)

	case "startRound", "endRound", "nextRound", "restartGame":
		if !c.host {
			logf(h.cfg, "GAMES: Ignored %s from non-host %s in %s", msg.Type, c.id, h.id)

			h.Send(c.id, stadium.NewErrorMessage("not-host"))

			return
		}

		h.handleHostCommand(msg.Type)

	default:
		// ignore unknown types
	}
}

func (h *Hub) handleHostCommand(command string) {
	switch command {
	case "startRound":
		_ = h.match.StartRound()
	case "endRound":
		_ = h.match.EndRound()
	case "nextRound":
		h.match.NextRound()
	case "restartGame":
		h.match.Restart()
	}
}

func (h *Hub) deliver(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c.id)
		close(c.send)
	}
}

// Broadcast implements stadium.Notifier.
func (h *Hub) Broadcast(msg any) {
	for _, c := range h.clients {
		h.deliver(c, msg)
	}
}

// Send implements stadium.Notifier.
func (h *Hub) Send(id string, msg any) {
	if c, ok := h.clients[id]; ok {
		h.deliver(c, msg)
	}
}

// Every implements stadium.Scheduler by feeding ticks into the hub's
// goroutine.
func (h *Hub) Every(interval time.Duration, fn func()) func() {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				select {
				case h.tasks <- fn:
				case <-ctx.Done():
					return
				case <-h.done:
					return
				}
			case <-ctx.Done():
				return
			case <-h.done:
				return
			}
		}
	}()

	return cancel
}

// closeAll disconnects all clients of this hub (used by reaper).
func (h *Hub) closeAll() {
	for id, c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, id)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// MatchManager holds a set of hubs keyed by match ID, so each
// $path/$matchid is its own isolated game.
type MatchManager struct {
	cfg         *Config
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
}

func newMatchManager(ctx context.Context, cfg *Config) *MatchManager {
	mm := &MatchManager{
		cfg:         cfg,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
	}

	go mm.reaperLoop(ctx)

	return mm
}

func (mm *MatchManager) getHub(matchID string) *Hub {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if hub, ok := mm.hubs[matchID]; ok {
		return hub
	}

	hub := newHub(mm.cfg, matchID)
	mm.hubs[matchID] = hub
	go hub.run()

	logf(mm.cfg, "GAMES: Opened match %s", matchID)

	return hub
}

// newMatchID generates a crypto-random match ID and ensures it doesn't
// collide with existing matches.
func (mm *MatchManager) newMatchID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const max = byte(255 - (256 % len(letters)))

	for {
		out := make([]byte, 0, matchIDChars)
		buf := make([]byte, matchIDChars*2)

		for len(out) < matchIDChars {
			if _, err := rand.Read(buf); err != nil {
				panic("crypto/rand failure: " + err.Error())
			}

			for _, b := range buf {
				if b <= max && len(out) < matchIDChars {
					out = append(out, letters[int(b)%len(letters)])
				}
			}
		}

		id := string(out)

		mm.mu.Lock()
		_, exists := mm.hubs[id]
		mm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

func (mm *MatchManager) count() int {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	return len(mm.hubs)
}

// reap removes hubs that have been idle since before cutoff.
func (mm *MatchManager) reap(cutoff time.Time) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	for id, hub := range mm.hubs {
		if hub.idleSince().Before(cutoff) {
			delete(mm.hubs, id)
			hub.stop()

			logf(mm.cfg, "GAMES: Reaped idle match %s", id)
		}
	}
}

func (mm *MatchManager) stopAll() {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	for id, hub := range mm.hubs {
		delete(mm.hubs, id)
		hub.stop()
	}
}

// reaperLoop periodically removes hubs that have been idle longer than
// idleTimeout, and stops every hub once ctx is done.
func (mm *MatchManager) reaperLoop(ctx context.Context) {
	defer mm.stopAll()

	if mm.idleTimeout <= 0 {
		<-ctx.Done()

		return
	}

	ticker := time.NewTicker(mm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mm.reap(time.Now().Add(-mm.idleTimeout))
		case <-ctx.Done():
			return
		}
	}
}

func hostKeyMatches(cfg *Config, r *http.Request) bool {
	if cfg.hostKey == "" {
		return true
	}

	return subtle.ConstantTimeCompare([]byte(r.URL.Query().Get("key")), []byte(cfg.hostKey)) == 1
}

// WebSocket handler that picks the hub based on :matchid
func serveWS(cfg *Config, mm *MatchManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		matchID := ps.ByName("matchid")
		if matchID == "" {
			http.Error(w, "missing match id", http.StatusBadRequest)
			return
		}

		wantsHost := r.URL.Query().Get("role") == "host"
		if wantsHost && !hostKeyMatches(cfg, r) {
			logf(cfg, "GAMES: Rejected host key from %s for %s", realIP(r), matchID)
			http.Error(w, "invalid host key", http.StatusForbidden)
			return
		}

		cookie := ""
		if c, err := r.Cookie(playerCookieName); err == nil {
			cookie = c.Value
		}
		if cookie == "" {
			cookie = uuid.NewString()
		}

		hub := mm.getHub(matchID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Websocket upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn:      conn,
			send:      make(chan any, sendBuffer),
			id:        uuid.NewString(),
			cookie:    cookie,
			wantsHost: wantsHost,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg stadium.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// malformed input is dropped, not fatal
			continue
		}

		select {
		case h.events <- clientEvent{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))

		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current match URL using go-qrcode.
func serveQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName("matchid") == "" {
			http.Error(w, "missing match id", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../:matchid/qr; strip trailing "/qr" to get the match URL.
		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

func serveIndex(cfg *Config, errs chan<- error) httprouter.Handle {
	page, err := assets.ReadFile("assets/stadium/index.html")
	if err != nil {
		panic("missing embedded index: " + err.Error())
	}
	page = []byte(strings.ReplaceAll(string(page), "{{prefix}}", cfg.prefix))

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		if _, err := w.Write(page); err != nil {
			errs <- err
		}
	}
}

// redirectNewMatch handles GET /path by generating a new random match ID
// (with server-side collision detection) and redirecting to /path/:matchid.
func redirectNewMatch(cfg *Config, path string, mm *MatchManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		matchID := mm.newMatchID()
		logf(cfg, "GAMES: Created match %s/%s", path, matchID)

		// keep ?role=host&key=... so the host lands in their new match
		target := cfg.prefix + path + "/" + matchID
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}
}

// registerStadiumGame sets up routes so that:
//   - $path                  → redirects to a new random match (8-char ID)
//   - $path/:matchid         → HTML client
//   - $path/:matchid/ws      → WebSocket for that match
//   - $path/:matchid/qr      → PNG QR code for that match URL
func registerStadiumGame(ctx context.Context, cfg *Config, path string, mux *httprouter.Router, errs chan<- error) *MatchManager {
	mm := newMatchManager(ctx, cfg)

	mux.GET(cfg.prefix+path, redirectNewMatch(cfg, path, mm))

	mux.GET(cfg.prefix+path+"/:matchid", serveIndex(cfg, errs))

	mux.GET(cfg.prefix+path+"/:matchid/ws", serveWS(cfg, mm))

	mux.GET(cfg.prefix+path+"/:matchid/qr", serveQR(cfg, errs))

	return mm
}
