package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/cellbreak/internal/config"
	"github.com/tomz197/cellbreak/internal/game"
)

func record(score int, at time.Time) game.Record {
	return game.Record{
		SessionID:       uuid.New(),
		Score:           score,
		SurvivalSeconds: float64(score) / 10,
		Variant:         config.VariantDesktop,
		EndedAt:         at,
	}
}

func TestOpenMissingFile(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "scores.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if top := f.Top(10); len(top) != 0 {
		t.Errorf("top = %v", top)
	}
}

func TestAddPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.yaml")
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := record(420, base)
	if _, err := f.Add("ana", rec); err != nil {
		t.Fatal(err)
	}
	f.Add("bo", record(900, base.Add(time.Minute)))

	reloaded, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	top := reloaded.Top(5)
	if len(top) != 2 || top[0].Player != "bo" || top[1].Score != 420 {
		t.Fatalf("top = %+v", top)
	}
	e, err := reloaded.Get(rec.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if e.Player != "ana" || !e.EndedAt.Equal(base) {
		t.Errorf("entry = %+v", e)
	}
	if reloaded.Best("ana") != 420 {
		t.Errorf("best = %d", reloaded.Best("ana"))
	}
}

func TestGetNotFound(t *testing.T) {
	f, _ := Open(filepath.Join(t.TempDir(), "scores.yaml"))
	if _, err := f.Get(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTopOrderingAndTrim(t *testing.T) {
	f, _ := Open(filepath.Join(t.TempDir(), "scores.yaml"))
	f.SetMaxEntries(3)
	base := time.Now()
	for i, score := range []int{50, 300, 100, 300, 10} {
		if _, err := f.Add("p", record(score, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
	}

	top := f.Top(10)
	if len(top) != 3 {
		t.Fatalf("kept %d entries, want 3", len(top))
	}
	want := []int{300, 300, 100}
	for i, e := range top {
		if e.Score != want[i] {
			t.Errorf("top[%d] = %d, want %d", i, e.Score, want[i])
		}
	}
	if !top[0].EndedAt.Before(top[1].EndedAt) {
		t.Error("ties should favour the earlier run")
	}
}

func TestSetBestOnlyRaises(t *testing.T) {
	f, _ := Open(filepath.Join(t.TempDir(), "scores.yaml"))
	p := f.ForPlayer("ana")
	p.SetBest(500)
	p.SetBest(200)
	if best, _ := p.Best(); best != 500 {
		t.Errorf("best = %d, want 500", best)
	}
}

func TestPlayerSubmit(t *testing.T) {
	f, _ := Open(filepath.Join(t.TempDir(), "scores.yaml"))
	p := f.ForPlayer("ana")
	if err := p.Submit(context.Background(), record(77, time.Now())); err != nil {
		t.Fatal(err)
	}
	if top := f.Top(1); len(top) != 1 || top[0].Player != "ana" {
		t.Errorf("top = %+v", top)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Submit(ctx, record(1, time.Now())); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.yaml")
	os.WriteFile(path, []byte("entries: [unterminated"), 0o644)
	if _, err := Open(path); err == nil {
		t.Error("expected parse error")
	}
}
