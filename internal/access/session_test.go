package access

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/logging"
	"github.com/railcrew/worklog/internal/models"
	"github.com/railcrew/worklog/internal/store"
	"github.com/railcrew/worklog/internal/syncgw"
	"github.com/railcrew/worklog/internal/timex"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// countingRepo wraps a Repository and counts completed upserts.
type countingRepo struct {
	store.Repository
	writes int
}

func (r *countingRepo) Insert(ctx context.Context, row *store.Row) error {
	err := r.Repository.Insert(ctx, row)
	if err == nil {
		r.writes++
	}
	return err
}

func (r *countingRepo) Update(ctx context.Context, row *store.Row) error {
	err := r.Repository.Update(ctx, row)
	if err == nil {
		r.writes++
	}
	return err
}

func userForm() models.Identity {
	return models.Identity{ID: "10234", Name: "Li Wei", Workshop: "East Depot", Fleet: "Fleet 3"}
}

func newTestSession(t *testing.T, repo store.Repository) *Session {
	t.Helper()
	return NewSession(syncgw.New(repo, testLogger()), testLogger())
}

// loggedIn returns a session logged in as the standard user form.
func loggedIn(t *testing.T, repo store.Repository) *Session {
	t.Helper()
	s := newTestSession(t, repo)
	require.NoError(t, s.Login(context.Background(), userForm()))
	return s
}

// seedAdmin registers id in repo with the admin role.
func seedAdmin(t *testing.T, repo store.Repository, id string) {
	t.Helper()
	gw := syncgw.New(repo, testLogger())
	identity := &models.Identity{ID: id, Name: "Chief", Workshop: "HQ", Fleet: "Fleet 1"}
	require.NoError(t, gw.Persist(context.Background(), id, identity, models.RoleAdmin, nil))
}

func shiftTimes(t *testing.T, day, start, end string) (time.Time, time.Time) {
	t.Helper()
	s, err := timex.ParseStamp(day + " " + start)
	require.NoError(t, err)
	e, err := timex.ParseStamp(day + " " + end)
	require.NoError(t, err)
	return s, e
}

func TestLogin_IncompleteForm(t *testing.T) {
	s := newTestSession(t, store.NewMemoryRepository())

	form := userForm()
	form.Workshop = ""
	err := s.Login(context.Background(), form)
	require.ErrorIs(t, err, common.ErrIncompleteForm)
	assert.Equal(t, LoggedOut, s.State())
}

func TestLogin_AutoRegisters(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()
	s := newTestSession(t, repo)

	require.NoError(t, s.Login(ctx, userForm()))
	assert.Equal(t, ActiveAsUser, s.State())
	assert.Equal(t, models.RoleUser, s.Role())
	require.NotNil(t, s.Identity())
	assert.Equal(t, userForm(), *s.Identity())
	assert.Equal(t, "10234", s.TargetID())
	assert.Empty(t, s.Records())

	// Registration was persisted: a second session sees the identity.
	s2 := newTestSession(t, repo)
	require.NoError(t, s2.Login(ctx, userForm()))
	assert.Equal(t, userForm(), *s2.Identity())
}

func TestLogin_LastWriteWinsRefresh(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()
	s := loggedIn(t, repo)
	s.Logout()

	form := userForm()
	form.Workshop = "West Depot"
	require.NoError(t, s.Login(ctx, form))
	assert.Equal(t, "West Depot", s.Identity().Workshop)

	gw := syncgw.New(repo, testLogger())
	identity, _, _, err := gw.Load(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "West Depot", identity.Workshop)
}

func TestLogin_UnchangedIdentitySkipsPersist(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{Repository: store.NewMemoryRepository()}
	s := loggedIn(t, repo)
	require.Equal(t, 1, repo.writes) // registration

	s.Logout()
	require.NoError(t, s.Login(ctx, userForm()))
	assert.Equal(t, 1, repo.writes)
}

func TestLogin_AdminState(t *testing.T) {
	repo := store.NewMemoryRepository()
	seedAdmin(t, repo, "900")

	s := newTestSession(t, repo)
	form := models.Identity{ID: "900", Name: "Chief", Workshop: "HQ", Fleet: "Fleet 1"}
	require.NoError(t, s.Login(context.Background(), form))

	assert.Equal(t, ActiveAsAdminViewing, s.State())
	assert.Equal(t, models.RoleAdmin, s.Role())
	assert.Equal(t, "900", s.TargetID())
}

func TestLogin_DegradedWithoutStore(t *testing.T) {
	s := newTestSession(t, nil)

	require.NoError(t, s.Login(context.Background(), userForm()))
	assert.Equal(t, ActiveAsUser, s.State())
	assert.True(t, s.Degraded())

	// Mutations still work on the in-memory copy.
	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")
	_, err := s.AddRecord(context.Background(), start, end, "K101", false)
	require.NoError(t, err)
	assert.Len(t, s.Records(), 1)
	assert.True(t, s.Degraded())
}

func TestLogout(t *testing.T) {
	s := loggedIn(t, store.NewMemoryRepository())
	s.Logout()

	assert.Equal(t, LoggedOut, s.State())
	assert.Nil(t, s.Identity())
	assert.Empty(t, s.TargetID())
	assert.Empty(t, s.Records())
}

func TestOperations_RequireLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, store.NewMemoryRepository())
	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")

	_, err := s.AddRecord(ctx, start, end, "K101", false)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
	_, err = s.BeginEdit(0)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
	_, err = s.SaveEdit(ctx, start, end, "K101", false)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
	require.ErrorIs(t, s.DeleteRecord(ctx, 0), common.ErrNotLoggedIn)
	require.ErrorIs(t, s.ClearRecords(ctx), common.ErrNotLoggedIn)
	require.ErrorIs(t, s.SelectTarget(ctx, "1"), common.ErrNotLoggedIn)
	_, err = s.ListDirectory(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
}

func TestAddRecord_StandardShift(t *testing.T) {
	ctx := context.Background()
	s := loggedIn(t, store.NewMemoryRepository())
	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")

	rec, err := s.AddRecord(ctx, start, end, "K101", false)
	require.NoError(t, err)
	assert.Equal(t, 8.5, rec.Duration)
	assert.Equal(t, 8.5, s.Total())
}

func TestAddRecord_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := loggedIn(t, store.NewMemoryRepository())

	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")
	_, err := s.AddRecord(ctx, start, end, "K101", false)
	require.NoError(t, err)
	start, end = shiftTimes(t, "2024-03-02", "09:00", "17:00")
	_, err = s.AddRecord(ctx, start, end, "K102", false)
	require.NoError(t, err)

	got := s.Records()
	require.Len(t, got, 2)
	assert.Equal(t, "K102", got[0].Train)
	assert.Equal(t, "K101", got[1].Train)
}

func TestAddRecord_ValidationLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{Repository: store.NewMemoryRepository()}
	s := loggedIn(t, repo)
	writes := repo.writes

	start, _ := shiftTimes(t, "2024-03-01", "08:00", "16:00")
	_, err := s.AddRecord(ctx, start, start, "K101", false)
	require.ErrorIs(t, err, common.ErrEndNotAfterStart)
	assert.Empty(t, s.Records())
	assert.Equal(t, writes, repo.writes)
}

func TestEveryMutationPersistsOnce(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{Repository: store.NewMemoryRepository()}
	s := loggedIn(t, repo)
	require.Equal(t, 1, repo.writes) // registration

	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")
	_, err := s.AddRecord(ctx, start, end, "K101", false)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.writes)

	_, err = s.BeginEdit(0)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.writes) // opening an edit is not a mutation

	_, err = s.SaveEdit(ctx, start, end, "K103", false)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.writes)

	require.NoError(t, s.DeleteRecord(ctx, 0))
	assert.Equal(t, 4, repo.writes)

	require.NoError(t, s.ClearRecords(ctx))
	assert.Equal(t, 5, repo.writes)
}

func TestEditFlow(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()
	s := loggedIn(t, repo)

	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")
	_, err := s.AddRecord(ctx, start, end, "K101", false)
	require.NoError(t, err)

	rec, err := s.BeginEdit(0)
	require.NoError(t, err)
	assert.Equal(t, "K101", rec.Train)

	start, end = shiftTimes(t, "2024-03-01", "09:00", "18:00")
	saved, err := s.SaveEdit(ctx, start, end, "K200", false)
	require.NoError(t, err)
	assert.Equal(t, "K200", saved.Train)

	_, editing := s.Editing()
	assert.False(t, editing)
	require.Len(t, s.Records(), 1)
	assert.Equal(t, "K200", s.Records()[0].Train)

	// The edited list is what got persisted.
	gw := syncgw.New(repo, testLogger())
	_, recs, _, err := gw.Load(ctx, "10234")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "K200", recs[0].Train)
}

func TestSaveEdit_NoActiveEdit(t *testing.T) {
	ctx := context.Background()
	s := loggedIn(t, store.NewMemoryRepository())

	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")
	_, err := s.SaveEdit(ctx, start, end, "K101", false)
	require.ErrorIs(t, err, common.ErrNoActiveEdit)
}

func TestSaveEdit_ValidationKeepsEditOpen(t *testing.T) {
	ctx := context.Background()
	s := loggedIn(t, store.NewMemoryRepository())

	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")
	_, err := s.AddRecord(ctx, start, end, "K101", false)
	require.NoError(t, err)
	_, err = s.BeginEdit(0)
	require.NoError(t, err)

	_, err = s.SaveEdit(ctx, start, start, "K101", false)
	require.ErrorIs(t, err, common.ErrEndNotAfterStart)

	idx, editing := s.Editing()
	assert.True(t, editing)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "K101", s.Records()[0].Train)
}

func TestDeleteBelowCursorDuringEdit(t *testing.T) {
	ctx := context.Background()
	s := loggedIn(t, store.NewMemoryRepository())

	for _, code := range []string{"A1", "B2", "C3"} {
		start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")
		_, err := s.AddRecord(ctx, start, end, code, false)
		require.NoError(t, err)
	}
	// List is [C3 B2 A1]; edit B2.
	_, err := s.BeginEdit(1)
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord(ctx, 0))

	idx, editing := s.Editing()
	require.True(t, editing)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "B2", s.Records()[idx].Train)
}

func TestListDirectory_NotAdmin(t *testing.T) {
	s := loggedIn(t, store.NewMemoryRepository())
	_, err := s.ListDirectory(context.Background())
	require.ErrorIs(t, err, common.ErrNotAdmin)
}

func TestListDirectory_Admin(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()
	s := loggedIn(t, repo) // registers 10234
	s.Logout()
	seedAdmin(t, repo, "900")

	admin := newTestSession(t, repo)
	require.NoError(t, admin.Login(ctx, models.Identity{ID: "900", Name: "Chief", Workshop: "HQ", Fleet: "Fleet 1"}))

	got, err := admin.ListDirectory(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "900", got[0].ID)
	assert.Equal(t, "10234", got[1].ID)
}

func TestSelectTarget(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()

	worker := loggedIn(t, repo)
	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")
	_, err := worker.AddRecord(ctx, start, end, "K101", false)
	require.NoError(t, err)
	worker.Logout()

	seedAdmin(t, repo, "900")
	admin := newTestSession(t, repo)
	require.NoError(t, admin.Login(ctx, models.Identity{ID: "900", Name: "Chief", Workshop: "HQ", Fleet: "Fleet 1"}))

	require.NoError(t, admin.SelectTarget(ctx, "10234"))
	assert.Equal(t, "10234", admin.TargetID())
	require.Len(t, admin.Records(), 1)
	assert.Equal(t, "K101", admin.Records()[0].Train)

	// The session role stays admin regardless of the target's role.
	assert.Equal(t, models.RoleAdmin, admin.Role())
	assert.Equal(t, ActiveAsAdminViewing, admin.State())

	// Admin mutations land in the target's blob.
	require.NoError(t, admin.DeleteRecord(ctx, 0))
	gw := syncgw.New(repo, testLogger())
	_, recs, role, err := gw.Load(ctx, "10234")
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, models.RoleUser, role)
}

func TestSelectTarget_AbsentIdentity(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()
	seedAdmin(t, repo, "900")

	admin := newTestSession(t, repo)
	require.NoError(t, admin.Login(ctx, models.Identity{ID: "900", Name: "Chief", Workshop: "HQ", Fleet: "Fleet 1"}))

	require.NoError(t, admin.SelectTarget(ctx, "nobody"))
	assert.Equal(t, "nobody", admin.TargetID())
	assert.Nil(t, admin.TargetIdentity())
	assert.Empty(t, admin.Records())
}

func TestSelectTarget_Guards(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()

	worker := loggedIn(t, repo)
	require.ErrorIs(t, worker.SelectTarget(ctx, "1"), common.ErrNotAdmin)

	seedAdmin(t, repo, "900")
	admin := newTestSession(t, repo)
	require.NoError(t, admin.Login(ctx, models.Identity{ID: "900", Name: "Chief", Workshop: "HQ", Fleet: "Fleet 1"}))
	require.ErrorIs(t, admin.SelectTarget(ctx, ""), common.ErrIncompleteForm)
}

func TestClearRecords(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()
	s := loggedIn(t, repo)

	start, end := shiftTimes(t, "2024-03-01", "08:00", "16:00")
	_, err := s.AddRecord(ctx, start, end, "K101", false)
	require.NoError(t, err)

	require.NoError(t, s.ClearRecords(ctx))
	assert.Empty(t, s.Records())
	assert.Equal(t, 0.0, s.Total())

	gw := syncgw.New(repo, testLogger())
	_, recs, _, err := gw.Load(ctx, "10234")
	require.NoError(t, err)
	assert.Empty(t, recs)
}
