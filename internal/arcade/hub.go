// Package arcade is the shared lobby for concurrent terminal players: it
// tracks connected clients, shows their live scores, fans finished runs out
// to the leaderboard and broadcasts server shutdown.
package arcade

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/cellbreak/internal/game"
	"github.com/tomz197/cellbreak/internal/store"
)

// MaxUsernameLength bounds display names.
const MaxUsernameLength = 16

// TopSize is the number of leaderboard entries kept hot.
const TopSize = 10

// Leaderboard is the persistent side of the hub. *store.File implements it.
type Leaderboard interface {
	Add(player string, r game.Record) (store.Entry, error)
	Top(n int) []store.Entry
	Best(player string) int
	SetBest(player string, score int) error
}

// EventType identifies a hub notification.
type EventType int

const (
	EventServerShutdown EventType = iota
	EventNewHighScore
)

// Event is sent from the hub to a client.
type Event struct {
	Type   EventType
	Player string // EventNewHighScore
	Score  int    // EventNewHighScore
}

// ClientHandle is a client's registration with the hub.
type ClientHandle struct {
	ID       int
	Username string
	Events   chan Event

	session atomic.Pointer[game.Session]
}

// Attach makes s the session reported for this client in live scores.
func (c *ClientHandle) Attach(s *game.Session) {
	c.session.Store(s)
}

// LiveScore is a connected player's current run.
type LiveScore struct {
	Player string
	Score  int
	State  game.State
}

// Hub coordinates every connected client.
type Hub struct {
	mu      sync.RWMutex
	clients map[int]*ClientHandle
	nextID  int
	board   Leaderboard
	top     atomic.Pointer[[]store.Entry]
	log     *log.Logger
}

// NewHub creates a hub over board. A nil logger uses the default logger.
func NewHub(board Leaderboard, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	h := &Hub{
		clients: make(map[int]*ClientHandle),
		nextID:  1,
		board:   board,
		log:     logger,
	}
	h.refreshTop()
	return h
}

// RegisterClient registers a new client with the given username.
func (h *Hub) RegisterClient(username string) *ClientHandle {
	if len(username) > MaxUsernameLength {
		username = username[:MaxUsernameLength]
	}
	if username == "" {
		username = "anonymous"
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	handle := &ClientHandle{
		ID:       h.nextID,
		Username: username,
		Events:   make(chan Event, 16),
	}
	h.nextID++
	h.clients[handle.ID] = handle
	h.log.Info("client registered", "id", handle.ID, "user", username, "players", len(h.clients))
	return handle
}

// UnregisterClient removes a client and closes its event channel.
// Unknown ids are ignored.
func (h *Hub) UnregisterClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.clients[id]
	if !ok {
		return
	}
	close(handle.Events)
	delete(h.clients, id)
	h.log.Info("client unregistered", "id", id, "players", len(h.clients))
}

// Players returns the number of connected clients.
func (h *Hub) Players() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TopScores returns the cached leaderboard.
func (h *Hub) TopScores() []store.Entry {
	if top := h.top.Load(); top != nil {
		return *top
	}
	return nil
}

// Live returns the current score of every connected player with an
// attached session, best first.
func (h *Hub) Live() []LiveScore {
	h.mu.RLock()
	out := make([]LiveScore, 0, len(h.clients))
	for _, c := range h.clients {
		s := c.session.Load()
		if s == nil {
			continue
		}
		snap := s.Snapshot()
		out = append(out, LiveScore{Player: c.Username, Score: snap.Score, State: snap.State})
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// Scores returns the high-score cache and submitter for one client.
func (h *Hub) Scores(c *ClientHandle) *PlayerScores {
	return &PlayerScores{hub: h, player: c.Username}
}

// Shutdown notifies every client and waits until they disconnect or the
// timeout passes.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.broadcast(Event{Type: EventServerShutdown})

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			h.log.Warn("shutdown timeout with clients connected", "players", h.Players())
			return
		case <-ticker.C:
			if h.Players() == 0 {
				return
			}
		}
	}
}

// broadcast sends e to every client without blocking.
func (h *Hub) broadcast(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.Events <- e:
		default:
		}
	}
}

func (h *Hub) refreshTop() []store.Entry {
	top := h.board.Top(TopSize)
	h.top.Store(&top)
	return top
}

func (h *Hub) submit(player string, r game.Record) error {
	prev := h.TopScores()
	if _, err := h.board.Add(player, r); err != nil {
		return err
	}
	h.refreshTop()

	if len(prev) == 0 || r.Score > prev[0].Score {
		h.log.Info("new high score", "user", player, "score", r.Score)
		h.broadcast(Event{Type: EventNewHighScore, Player: player, Score: r.Score})
	}
	return nil
}

// PlayerScores serves one player's session as game.HighScores and
// game.Submitter.
type PlayerScores struct {
	hub    *Hub
	player string
}

// Best implements game.HighScores.
func (p *PlayerScores) Best() (int, error) {
	return p.hub.board.Best(p.player), nil
}

// SetBest implements game.HighScores.
func (p *PlayerScores) SetBest(score int) error {
	return p.hub.board.SetBest(p.player, score)
}

// Submit implements game.Submitter.
func (p *PlayerScores) Submit(ctx context.Context, r game.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.hub.submit(p.player, r)
}
