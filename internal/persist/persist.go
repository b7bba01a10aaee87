// Package persist owns the three durable records (auth, progress,
// leaderboard) behind a small key-value port. Loads never fail the caller:
// absent, corrupt, or drifted data degrades to fully-defaulted, reconciled
// records. Saves are best-effort and only logged.
package persist

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"cyberaware/internal/domain"
	"cyberaware/internal/progression"
)

// Record names double as storage keys. They are load-bearing: renaming one
// orphans existing local data.
const (
	RecordProgress    = "cyber-awareness-app"
	RecordLeaderboard = "cyber-awareness-leaderboard"
	RecordAuth        = "cyber-awareness-auth"
)

// DefaultUserName substitutes blank or whitespace display names.
const DefaultUserName = "Player"

// KV is the storage backend port. Get reports absence with ok=false rather
// than an error; backends live under internal/infra.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store reads and writes the three records through a KV backend.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// DefaultProgress builds a zeroed progress record with every badge from the
// catalog unearned and every fixed category present.
func DefaultProgress() domain.UserProgress {
	stats := make(map[domain.Category]domain.CategoryStats, len(domain.Categories()))
	for _, c := range domain.Categories() {
		stats[c] = domain.CategoryStats{}
	}
	return domain.UserProgress{
		Badges:        progression.BadgeCatalog(),
		HighScores:    make(map[string]int),
		CategoryStats: stats,
	}
}

// LoadAuth returns the stored login state, or a logged-out default.
func (s *Store) LoadAuth(ctx context.Context) domain.AuthRecord {
	fallback := domain.AuthRecord{UserName: DefaultUserName}
	raw, ok, err := s.kv.Get(ctx, RecordAuth)
	if err != nil || !ok {
		return fallback
	}
	var stored struct {
		IsLoggedIn bool    `json:"isLoggedIn"`
		UserName   *string `json:"userName"`
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return fallback
	}
	rec := domain.AuthRecord{IsLoggedIn: stored.IsLoggedIn, UserName: DefaultUserName}
	if stored.UserName != nil && strings.TrimSpace(*stored.UserName) != "" {
		rec.UserName = *stored.UserName
	}
	return rec
}

func (s *Store) SaveAuth(ctx context.Context, rec domain.AuthRecord) {
	s.save(ctx, RecordAuth, rec)
}

// LoadProgress returns the stored progress reconciled against the current
// badge catalog and category set, or a full default on any failure.
func (s *Store) LoadProgress(ctx context.Context) domain.UserProgress {
	raw, ok, err := s.kv.Get(ctx, RecordProgress)
	if err != nil || !ok {
		return DefaultProgress()
	}
	return decodeProgress(raw)
}

func (s *Store) SaveProgress(ctx context.Context, p domain.UserProgress) {
	s.save(ctx, RecordProgress, p)
}

// LoadLeaderboard returns the stored leaderboard, already ordered and capped,
// or an empty one.
func (s *Store) LoadLeaderboard(ctx context.Context) []domain.LeaderboardEntry {
	raw, ok, err := s.kv.Get(ctx, RecordLeaderboard)
	if err != nil || !ok {
		return nil
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return progression.CapLeaderboard(entries)
}

// SaveLeaderboard sorts and caps the entries before writing, so the durable
// record never exceeds the leaderboard size.
func (s *Store) SaveLeaderboard(ctx context.Context, entries []domain.LeaderboardEntry) {
	s.save(ctx, RecordLeaderboard, progression.CapLeaderboard(entries))
}

func (s *Store) save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("persist: marshal %s: %v", key, err)
		return
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		log.Printf("persist: save %s: %v", key, err)
	}
}
