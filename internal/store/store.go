// Package store persists finished runs and best scores in a YAML file.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tomz197/cellbreak/internal/game"
)

// ErrNotFound is returned when an entry doesn't exist.
var ErrNotFound = errors.New("score entry not found")

// DefaultMaxEntries bounds the number of stored runs.
const DefaultMaxEntries = 500

// Entry is one finished run.
type Entry struct {
	ID              uuid.UUID `yaml:"id" json:"id"`
	Player          string    `yaml:"player" json:"player"`
	Score           int       `yaml:"score" json:"score"`
	SurvivalSeconds float64   `yaml:"survival_seconds" json:"survivalSeconds"`
	Variant         string    `yaml:"variant" json:"variant"`
	Coins           int       `yaml:"coins,omitempty" json:"coins,omitempty"`
	MaxCombo        int       `yaml:"max_combo,omitempty" json:"maxCombo,omitempty"`
	EndedAt         time.Time `yaml:"ended_at" json:"endedAt"`
}

type document struct {
	Best    map[string]int `yaml:"best"`
	Entries []Entry        `yaml:"entries"`
}

// File is a YAML-backed score store. It is safe for concurrent use.
type File struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	doc        document
}

// Open loads path, creating an empty store when the file doesn't exist yet.
func Open(path string) (*File, error) {
	f := &File{
		path:       path,
		maxEntries: DefaultMaxEntries,
		doc:        document{Best: make(map[string]int)},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scores %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f.doc); err != nil {
		return nil, fmt.Errorf("parse scores %s: %w", path, err)
	}
	if f.doc.Best == nil {
		f.doc.Best = make(map[string]int)
	}
	return f, nil
}

// SetMaxEntries changes how many runs are kept. Lower scores are dropped first.
func (f *File) SetMaxEntries(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxEntries = max(n, 1)
}

// Add stores a finished run for player and returns the new entry.
func (f *File) Add(player string, r game.Record) (Entry, error) {
	id := r.SessionID
	if id == uuid.Nil {
		id = uuid.New()
	}
	e := Entry{
		ID:              id,
		Player:          player,
		Score:           r.Score,
		SurvivalSeconds: r.SurvivalSeconds,
		Variant:         string(r.Variant),
		Coins:           r.Coins,
		MaxCombo:        r.MaxCombo,
		EndedAt:         r.EndedAt.UTC(),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.doc.Entries = append(f.doc.Entries, e)
	sortEntries(f.doc.Entries)
	if len(f.doc.Entries) > f.maxEntries {
		clear(f.doc.Entries[f.maxEntries:])
		f.doc.Entries = f.doc.Entries[:f.maxEntries]
	}
	if r.Score > f.doc.Best[player] {
		f.doc.Best[player] = r.Score
	}
	if err := f.save(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Get returns the entry with id.
func (f *File) Get(id uuid.UUID) (Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.doc.Entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Top returns up to n entries, best first. Ties go to the earlier run.
func (f *File) Top(n int) []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	n = min(max(n, 0), len(f.doc.Entries))
	out := make([]Entry, n)
	copy(out, f.doc.Entries[:n])
	return out
}

// Best returns the best score of player.
func (f *File) Best(player string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.Best[player]
}

// SetBest records score as player's best if it beats the stored one.
func (f *File) SetBest(player string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if score <= f.doc.Best[player] {
		return nil
	}
	f.doc.Best[player] = score
	return f.save()
}

// save writes the document atomically. Callers hold f.mu.
func (f *File) save() error {
	data, err := yaml.Marshal(&f.doc)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create score dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".scores-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp score file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].EndedAt.Before(entries[j].EndedAt)
	})
}

// Player binds the store to one player name so it can serve a session as
// both its high-score cache and its submitter.
type Player struct {
	file *File
	name string
}

// ForPlayer returns the per-player view of f.
func (f *File) ForPlayer(name string) Player {
	return Player{file: f, name: name}
}

// Best implements game.HighScores.
func (p Player) Best() (int, error) {
	return p.file.Best(p.name), nil
}

// SetBest implements game.HighScores.
func (p Player) SetBest(score int) error {
	return p.file.SetBest(p.name, score)
}

// Submit implements game.Submitter.
func (p Player) Submit(ctx context.Context, r game.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.file.Add(p.name, r)
	return err
}
