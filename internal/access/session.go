// Package access holds the session state machine: login resolves an
// identity to a role, admins can retarget which identity's records are
// resident, and every record mutation is followed by exactly one persist.
//
// All session state (identity, resident record list, edit cursor) lives in
// one Session value passed to every operation; there are no ambient globals.
package access

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/logging"
	"github.com/railcrew/worklog/internal/models"
	"github.com/railcrew/worklog/internal/policy"
	"github.com/railcrew/worklog/internal/records"
	"github.com/railcrew/worklog/internal/syncgw"
)

// State is the session's position in the access state machine.
type State int

const (
	LoggedOut State = iota
	ActiveAsUser
	ActiveAsAdminViewing
)

func (s State) String() string {
	switch s {
	case ActiveAsUser:
		return "user"
	case ActiveAsAdminViewing:
		return "admin"
	default:
		return "logged out"
	}
}

// Session is one logical login. Operations run sequentially in response to
// discrete user actions; the busy flag is held across each persist
// round-trip and released on every path.
type Session struct {
	id      string
	gateway *syncgw.Gateway
	logger  logging.Logger

	state    State
	identity *models.Identity // logged-in identity
	role     models.Role      // logged-in role

	// Resident viewing target. Equal to the logged-in identity except when
	// an admin has retargeted.
	targetID       string
	targetIdentity *models.Identity
	targetRole     models.Role
	records        *records.Store

	mu       sync.Mutex
	busy     bool
	degraded bool
}

func NewSession(gw *syncgw.Gateway, logger logging.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		gateway: gw,
		logger:  logger.With("session_id", id),
		state:   LoggedOut,
		role:    models.RoleUser,
		records: records.New(nil),
	}
}

// ID returns the session correlation id.
func (s *Session) ID() string { return s.id }

// State returns the current state-machine position.
func (s *Session) State() State { return s.state }

// Role returns the logged-in role.
func (s *Session) Role() models.Role { return s.role }

// Identity returns the logged-in identity, nil when logged out.
func (s *Session) Identity() *models.Identity { return s.identity }

// TargetID returns the identity key whose records are resident.
func (s *Session) TargetID() string { return s.targetID }

// TargetIdentity returns the resident target's identity; nil when the
// target has never registered.
func (s *Session) TargetIdentity() *models.Identity { return s.targetIdentity }

// Records returns a copy of the resident record list.
func (s *Session) Records() []models.WorkRecord { return s.records.Records() }

// Total returns the resident list's summed duration hours.
func (s *Session) Total() float64 { return s.records.Total() }

// Editing returns the active edit cursor, if any.
func (s *Session) Editing() (int, bool) { return s.records.Editing() }

// Busy reports whether a persist round-trip is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Degraded reports whether the session is running without a reachable
// backing store (memory-only).
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *Session) setBusy(v bool) {
	s.mu.Lock()
	s.busy = v
	s.mu.Unlock()
}

func (s *Session) setDegraded(v bool) {
	s.mu.Lock()
	s.degraded = v
	s.mu.Unlock()
}

// Login resolves the form's identity, auto-registering it on first sight
// and refreshing name/workshop/fleet last-write-wins on later logins.
// The resulting state branches on the stored role.
func (s *Session) Login(ctx context.Context, form models.Identity) error {
	if form.ID == "" || form.Name == "" || form.Workshop == "" || form.Fleet == "" {
		return common.ErrIncompleteForm
	}

	identity, recs, role, err := s.gateway.Load(ctx, form.ID)
	if err != nil {
		if !errors.Is(err, common.ErrSyncUnavailable) {
			return err
		}
		s.setDegraded(true)
	} else {
		s.setDegraded(false)
	}

	changed := false
	if identity == nil {
		// Auto-registration: the login form becomes the identity.
		form := form
		identity = &form
		changed = true
	} else if identity.Name != form.Name || identity.Workshop != form.Workshop || identity.Fleet != form.Fleet {
		identity.Name = form.Name
		identity.Workshop = form.Workshop
		identity.Fleet = form.Fleet
		changed = true
	}

	s.identity = identity
	s.role = role
	s.targetID = form.ID
	s.targetIdentity = identity
	s.targetRole = role
	s.records = records.New(recs)

	if role == models.RoleAdmin {
		s.state = ActiveAsAdminViewing
	} else {
		s.state = ActiveAsUser
	}

	if changed {
		s.flush(ctx)
	}

	s.logger.Info(ctx, "login", "user_id", form.ID, "role", string(role), "records", s.records.Len())
	return nil
}

// Logout discards the in-memory state without an extra persist; the last
// mutation was already flushed.
func (s *Session) Logout() {
	s.state = LoggedOut
	s.identity = nil
	s.role = models.RoleUser
	s.targetID = ""
	s.targetIdentity = nil
	s.targetRole = models.RoleUser
	s.records = records.New(nil)
}

// SelectTarget makes otherID's records resident, replacing the previous
// list wholesale (its mutations were already flushed). Admin only; the
// session role stays admin regardless of the target's own role.
func (s *Session) SelectTarget(ctx context.Context, otherID string) error {
	if s.state == LoggedOut {
		return common.ErrNotLoggedIn
	}
	if s.role != models.RoleAdmin {
		return common.ErrNotAdmin
	}
	if otherID == "" {
		return common.ErrIncompleteForm
	}

	identity, recs, role, err := s.gateway.Load(ctx, otherID)
	if err != nil {
		if !errors.Is(err, common.ErrSyncUnavailable) {
			return err
		}
		s.setDegraded(true)
	}

	s.targetID = otherID
	s.targetIdentity = identity
	s.targetRole = role
	s.records = records.New(recs)
	s.state = ActiveAsAdminViewing

	s.logger.Info(ctx, "target selected", "target_id", otherID, "records", s.records.Len())
	return nil
}

// ListDirectory returns summaries of every known identity, newest
// registration first. Admin only.
func (s *Session) ListDirectory(ctx context.Context) ([]models.DirectorySummary, error) {
	if s.state == LoggedOut {
		return nil, common.ErrNotLoggedIn
	}
	if s.role != models.RoleAdmin {
		return nil, common.ErrNotAdmin
	}
	return s.gateway.Directory(ctx)
}

// AddRecord validates and prepends a new shift record, then flushes.
// No partial record is ever stored: validation failures leave the resident
// list untouched.
func (s *Session) AddRecord(ctx context.Context, start, end time.Time, trainCode string, isDeadhead bool) (models.WorkRecord, error) {
	if s.state == LoggedOut {
		return models.WorkRecord{}, common.ErrNotLoggedIn
	}

	rec, err := policy.BuildRecord(start, end, trainCode, isDeadhead)
	if err != nil {
		return models.WorkRecord{}, err
	}
	if err := s.records.Add(rec); err != nil {
		return models.WorkRecord{}, err
	}

	s.flush(ctx)
	return rec, nil
}

// BeginEdit opens an edit on the record at index and returns it for
// prefill.
func (s *Session) BeginEdit(index int) (models.WorkRecord, error) {
	if s.state == LoggedOut {
		return models.WorkRecord{}, common.ErrNotLoggedIn
	}
	return s.records.BeginEdit(index)
}

// CancelEdit clears any active edit cursor.
func (s *Session) CancelEdit() {
	s.records.CancelEdit()
}

// SaveEdit replaces the record under the active cursor in place, then
// flushes. The cursor is cleared on success.
func (s *Session) SaveEdit(ctx context.Context, start, end time.Time, trainCode string, isDeadhead bool) (models.WorkRecord, error) {
	if s.state == LoggedOut {
		return models.WorkRecord{}, common.ErrNotLoggedIn
	}

	index, ok := s.records.Editing()
	if !ok {
		return models.WorkRecord{}, common.ErrNoActiveEdit
	}

	rec, err := policy.BuildRecord(start, end, trainCode, isDeadhead)
	if err != nil {
		return models.WorkRecord{}, err
	}
	if err := s.records.Replace(index, rec); err != nil {
		return models.WorkRecord{}, err
	}

	s.flush(ctx)
	return rec, nil
}

// DeleteRecord removes the record at index, then flushes.
func (s *Session) DeleteRecord(ctx context.Context, index int) error {
	if s.state == LoggedOut {
		return common.ErrNotLoggedIn
	}
	if err := s.records.Delete(index); err != nil {
		return err
	}

	s.flush(ctx)
	return nil
}

// ClearRecords wipes the resident list, then flushes.
func (s *Session) ClearRecords(ctx context.Context) error {
	if s.state == LoggedOut {
		return common.ErrNotLoggedIn
	}
	s.records.Clear()

	s.flush(ctx)
	return nil
}

// flush persists the whole resident blob for the current target. This is
// the single write path: every mutation calls it exactly once. Persist
// failure is non-blocking — the session is marked degraded and the
// in-memory state stays authoritative.
func (s *Session) flush(ctx context.Context) {
	s.setBusy(true)
	defer s.setBusy(false)

	err := s.gateway.Persist(ctx, s.targetID, s.targetIdentity, s.targetRole, s.records.Records())
	if err != nil {
		if errors.Is(err, common.ErrSyncUnavailable) {
			s.setDegraded(true)
			return
		}
		s.logger.Error(ctx, "persist failed", "target_id", s.targetID, "error", err.Error())
		return
	}
	s.setDegraded(false)
}
