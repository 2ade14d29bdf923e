// Package session persists the authenticated Identity across restarts.
//
// The store is a thin façade over the local metadata repository: exactly one
// Identity lives under a fixed key. Writes and deletes are fire-and-forget —
// a broken local disk must never fail a login or logout — so failures are
// logged and swallowed here by contract.
package session

import (
	"context"
	"encoding/json"

	"github.com/BrasserTech/handluz/internal/client/models"
	"github.com/BrasserTech/handluz/internal/client/repositories/metadata"
	"github.com/BrasserTech/handluz/internal/logging"
)

// Key is the fixed metadata key holding the serialized session blob.
const Key = "session"

type Store struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log.With("component", "session")}
}

// Save serializes the identity and overwrites any previous blob.
func (s *Store) Save(ctx context.Context, id *models.Identity) {
	data, err := json.Marshal(id)
	if err != nil {
		s.log.Warn(ctx, "session serialize failed", "err", err)
		return
	}
	if err := s.repo.Set(ctx, Key, data); err != nil {
		s.log.Warn(ctx, "session save failed", "err", err)
	}
}

// Load reads the saved identity. A missing key or an undecodable blob both
// report absence; no error ever reaches the caller.
func (s *Store) Load(ctx context.Context) (*models.Identity, bool) {
	data, err := s.repo.Get(ctx, Key)
	if err != nil {
		s.log.Warn(ctx, "session load failed", "err", err)
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	var id models.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		s.log.Warn(ctx, "session blob undecodable, discarding", "err", err)
		return nil, false
	}
	return &id, true
}

// Clear removes the saved identity. Idempotent.
func (s *Store) Clear(ctx context.Context) {
	if err := s.repo.Delete(ctx, Key); err != nil {
		s.log.Warn(ctx, "session clear failed", "err", err)
	}
}
