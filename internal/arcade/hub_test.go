package arcade

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/cellbreak/internal/game"
	"github.com/tomz197/cellbreak/internal/random"
	"github.com/tomz197/cellbreak/internal/store"
)

func newHub(t *testing.T) *Hub {
	t.Helper()
	f, err := store.Open(filepath.Join(t.TempDir(), "scores.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	return NewHub(f, log.New(io.Discard))
}

func TestRegisterAndUnregister(t *testing.T) {
	h := newHub(t)
	a := h.RegisterClient("alice")
	b := h.RegisterClient("")
	if a.ID == b.ID {
		t.Fatal("ids must be unique")
	}
	if b.Username != "anonymous" {
		t.Errorf("username = %q", b.Username)
	}
	if h.Players() != 2 {
		t.Errorf("players = %d", h.Players())
	}

	h.UnregisterClient(a.ID)
	h.UnregisterClient(a.ID)
	if _, ok := <-a.Events; ok {
		t.Error("events channel should be closed")
	}
	if h.Players() != 1 {
		t.Errorf("players = %d", h.Players())
	}
}

func TestUsernameTruncated(t *testing.T) {
	h := newHub(t)
	c := h.RegisterClient("a-very-long-username-indeed")
	if len(c.Username) != MaxUsernameLength {
		t.Errorf("username = %q", c.Username)
	}
}

func TestSubmitUpdatesTopAndBroadcasts(t *testing.T) {
	h := newHub(t)
	watcher := h.RegisterClient("watcher")
	player := h.RegisterClient("ana")
	scores := h.Scores(player)

	if err := scores.Submit(context.Background(), game.Record{Score: 300, EndedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := scores.Submit(context.Background(), game.Record{Score: 100, EndedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	top := h.TopScores()
	if len(top) != 2 || top[0].Score != 300 || top[0].Player != "ana" {
		t.Fatalf("top = %+v", top)
	}

	select {
	case e := <-watcher.Events:
		if e.Type != EventNewHighScore || e.Score != 300 {
			t.Errorf("event = %+v", e)
		}
	default:
		t.Fatal("expected a high score broadcast")
	}
	select {
	case e := <-watcher.Events:
		t.Errorf("lower score should not broadcast: %+v", e)
	default:
	}
}

func TestPlayerScoresBest(t *testing.T) {
	h := newHub(t)
	scores := h.Scores(h.RegisterClient("ana"))
	scores.SetBest(700)
	if best, _ := scores.Best(); best != 700 {
		t.Errorf("best = %d", best)
	}
}

func TestShutdownBroadcastsAndWaits(t *testing.T) {
	h := newHub(t)
	c := h.RegisterClient("ana")

	go func() {
		e := <-c.Events
		if e.Type == EventServerShutdown {
			h.UnregisterClient(c.ID)
		}
	}()

	done := make(chan struct{})
	go func() {
		h.Shutdown(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("shutdown did not return after the client left")
	}
}

func TestLiveScores(t *testing.T) {
	h := newHub(t)
	a := h.RegisterClient("ana")
	h.RegisterClient("idle")

	s := game.NewSession(game.Options{Rand: random.Constant(0.99), Logger: log.New(io.Discard)})
	a.Attach(s)
	s.Start()

	live := h.Live()
	if len(live) != 1 || live[0].Player != "ana" || live[0].State != game.StatePlaying {
		t.Errorf("live = %+v", live)
	}
}
