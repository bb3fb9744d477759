// Package syncgw translates resident record-list state to and from the
// backing store's per-identity blob, with load-or-initialize and upsert
// semantics. A missing or unreachable backing store degrades to a no-op:
// the caller keeps working on the in-memory copy and surfaces a warning.
package syncgw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/logging"
	"github.com/railcrew/worklog/internal/models"
	"github.com/railcrew/worklog/internal/store"
)

// Gateway wraps a store.Repository. A nil repository puts the gateway in
// permanently degraded (memory-only) mode.
type Gateway struct {
	repo   store.Repository
	logger logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(repo store.Repository, logger logging.Logger) *Gateway {
	return &Gateway{
		repo:   repo,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Available reports whether a backing store is configured.
func (g *Gateway) Available() bool {
	return g.repo != nil
}

// lockFor returns the write lock for one identity key. Persist calls for
// the same identity are serialized so a slow round-trip can never be
// overtaken by a later write and leave a stale blob.
func (g *Gateway) lockFor(id string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.locks[id]
	if !ok {
		l = &sync.Mutex{}
		g.locks[id] = l
	}
	return l
}

// Load fetches the persisted blob for one identity.
//
// An absent row returns (nil, nil, RoleUser, nil): the caller interprets
// this as a new identity and persists the login form's fields immediately.
// A missing or failing backing store returns common.ErrSyncUnavailable
// alongside the same empty state, so the caller can continue unpersisted.
func (g *Gateway) Load(ctx context.Context, id string) (*models.Identity, []models.WorkRecord, models.Role, error) {
	if g.repo == nil {
		return nil, nil, models.RoleUser, common.ErrSyncUnavailable
	}

	row, err := g.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, models.RoleUser, nil
		}
		g.logger.Warn(ctx, "load failed, continuing with empty state", "user_id", id, "error", err.Error())
		return nil, nil, models.RoleUser, common.ErrSyncUnavailable
	}

	data, err := decodeData(row.Data)
	if err != nil {
		return nil, nil, models.RoleUser, fmt.Errorf("account blob for %q rejected: %w", id, err)
	}

	role := models.Role(row.Role)
	if role != models.RoleAdmin {
		role = models.RoleUser
	}

	return data.UserInfo, data.WorkRecords, role, nil
}

// Persist writes the entire {identity, records} blob for one identity:
// update-in-place first, insert when no row exists (upsert). There is no
// partial write. Returns common.ErrSyncUnavailable when the store is
// missing or the round-trip fails; the in-memory state stays authoritative.
func (g *Gateway) Persist(ctx context.Context, id string, identity *models.Identity, role models.Role, recs []models.WorkRecord) error {
	if g.repo == nil {
		return common.ErrSyncUnavailable
	}

	l := g.lockFor(id)
	l.Lock()
	defer l.Unlock()

	if recs == nil {
		recs = []models.WorkRecord{}
	}
	blob, err := json.Marshal(models.AccountData{UserInfo: identity, WorkRecords: recs})
	if err != nil {
		return fmt.Errorf("failed to encode account blob: %w", err)
	}

	row := &store.Row{UserID: id, Data: blob, Role: string(role)}

	err = g.repo.Update(ctx, row)
	if errors.Is(err, common.ErrNotFound) {
		err = g.repo.Insert(ctx, row)
	}
	if err != nil {
		g.logger.Warn(ctx, "persist failed, in-memory copy unsaved", "user_id", id, "error", err.Error())
		return common.ErrSyncUnavailable
	}
	return nil
}

// Directory lists all known identities as summaries, newest registration
// first. Rows without a registered identity blob are skipped.
func (g *Gateway) Directory(ctx context.Context) ([]models.DirectorySummary, error) {
	if g.repo == nil {
		return nil, common.ErrSyncUnavailable
	}

	rows, err := g.repo.ListAll(ctx)
	if err != nil {
		g.logger.Warn(ctx, "directory listing failed", "error", err.Error())
		return nil, common.ErrSyncUnavailable
	}

	out := make([]models.DirectorySummary, 0, len(rows))
	for _, row := range rows {
		data, err := decodeData(row.Data)
		if err != nil || data.UserInfo == nil {
			continue
		}
		out = append(out, models.DirectorySummary{
			ID:       row.UserID,
			Name:     data.UserInfo.Name,
			Workshop: data.UserInfo.Workshop,
		})
	}
	return out, nil
}

// decodeData unmarshals an account blob strictly: unknown fields mean the
// store's shape drifted and the blob is rejected.
func decodeData(blob []byte) (*models.AccountData, error) {
	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.DisallowUnknownFields()

	var d models.AccountData
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}
