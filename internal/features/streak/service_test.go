package streak

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streakbot/internal/common"
	"streakbot/internal/metrics"
)

// fakeStore is the in-memory Store used instead of PostgreSQL.
type fakeStore struct {
	records map[string]*Record
	order   []string // insertion order, for leaderboard tie behavior
	failAll error    // when set, every call fails with this error
	casFail bool     // force UpdateIfUnchanged to report a lost race
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*Record)}
}

func (f *fakeStore) GetByUserID(_ context.Context, userID string) (*Record, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	rec, ok := f.records[userID]
	if !ok {
		return nil, common.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) Insert(_ context.Context, rec *Record) (bool, error) {
	if f.failAll != nil {
		return false, f.failAll
	}
	if _, exists := f.records[rec.UserID]; exists {
		return false, nil
	}
	cp := *rec
	f.records[rec.UserID] = &cp
	f.order = append(f.order, rec.UserID)
	return true, nil
}

func (f *fakeStore) UpdateIfUnchanged(_ context.Context, rec *Record, prev time.Time) (bool, error) {
	if f.failAll != nil {
		return false, f.failAll
	}
	cur, ok := f.records[rec.UserID]
	if !ok || f.casFail || !cur.LastUpdated.Equal(prev) {
		return false, nil
	}
	cp := *rec
	f.records[rec.UserID] = &cp
	return true, nil
}

func (f *fakeStore) Upsert(_ context.Context, rec *Record) error {
	if f.failAll != nil {
		return f.failAll
	}
	if _, exists := f.records[rec.UserID]; !exists {
		f.order = append(f.order, rec.UserID)
	}
	cp := *rec
	f.records[rec.UserID] = &cp
	return nil
}

func (f *fakeStore) ListTop(_ context.Context, limit int) ([]*Record, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	out := make([]*Record, 0, len(f.order))
	for _, id := range f.order {
		cp := *f.records[id]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Streak > out[j].Streak })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func testService(t *testing.T, store Store, now time.Time) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	engine := NewEngine(loc, 21)
	return NewService(store, engine, metrics.Nop{}).WithClock(func() time.Time { return now })
}

func TestCheckIn_FirstTime(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, time.June, 10, 21, 30, 0, 0, istLocation(t))
	svc := testService(t, store, now)

	rec, err := svc.CheckIn(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Streak)
	assert.True(t, now.Equal(rec.LastUpdated))
}

func TestCheckIn_SecondAttemptRejectedAndStateUntouched(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, time.June, 10, 21, 30, 0, 0, istLocation(t))
	svc := testService(t, store, now)

	_, err := svc.CheckIn(context.Background(), "42")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), "42")
	assert.ErrorIs(t, err, common.ErrAlreadyCheckedIn)

	rec, err := store.GetByUserID(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Streak, "rejection must not mutate the record")
}

func TestCheckIn_AfterReset(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, time.June, 10, 21, 30, 0, 0, istLocation(t))
	svc := testService(t, store, now)

	_, err := svc.CheckIn(context.Background(), "42")
	require.NoError(t, err)

	_, err = svc.Reset(context.Background(), "42")
	require.NoError(t, err)

	// Same instant: the reset cleared the window lock.
	rec, err := svc.CheckIn(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Streak)
}

func TestCheckIn_LostRaceReportsAlreadyCheckedIn(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, time.June, 10, 21, 30, 0, 0, istLocation(t))
	svc := testService(t, store, now)

	_, err := svc.CheckIn(context.Background(), "42")
	require.NoError(t, err)

	// Next evening, but a concurrent writer invalidates the CAS.
	nextEvening := now.AddDate(0, 0, 1)
	svc = testService(t, store, nextEvening)
	store.casFail = true

	_, err = svc.CheckIn(context.Background(), "42")
	assert.ErrorIs(t, err, common.ErrAlreadyCheckedIn)
}

func TestCheckIn_StoreFailureIsNotAlreadyCheckedIn(t *testing.T) {
	store := newFakeStore()
	store.failAll = errors.New("connection refused")
	now := time.Date(2025, time.June, 10, 21, 30, 0, 0, istLocation(t))
	svc := testService(t, store, now)

	_, err := svc.CheckIn(context.Background(), "42")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrAlreadyCheckedIn)
	assert.NotErrorIs(t, err, common.ErrRecordNotFound)
}

func TestGetStreak_MissingRecordIsZero(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, istLocation(t))
	svc := testService(t, store, now)

	streak, err := svc.GetStreak(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestReset_AlwaysAccepted(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, time.June, 10, 8, 0, 0, 0, istLocation(t))
	svc := testService(t, store, now)

	// No record yet, before the boundary, twice in a row — reset does
	// not care.
	for i := 0; i < 2; i++ {
		rec, err := svc.Reset(context.Background(), "42")
		require.NoError(t, err)
		assert.Equal(t, 0, rec.Streak)
	}
}

func TestLeaderboard_TiesKeepStoreOrder(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, time.June, 10, 22, 0, 0, 0, istLocation(t))
	svc := testService(t, store, now)

	stamp := now.AddDate(0, 0, -1)
	require.NoError(t, store.Upsert(context.Background(), &Record{UserID: "A", Streak: 5, LastUpdated: stamp}))
	require.NoError(t, store.Upsert(context.Background(), &Record{UserID: "B", Streak: 10, LastUpdated: stamp}))
	require.NoError(t, store.Upsert(context.Background(), &Record{UserID: "C", Streak: 10, LastUpdated: stamp}))

	records, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "B", records[0].UserID)
	assert.Equal(t, "C", records[1].UserID)
	assert.Equal(t, "A", records[2].UserID)
	assert.Equal(t, Classify(records[0].Streak), Classify(records[1].Streak))
}

func TestHistory_MissingRecordRendersEmptyStrip(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, time.June, 10, 22, 0, 0, 0, istLocation(t))
	svc := testService(t, store, now)

	got, err := svc.History(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotContains(t, got, glyphChecked)
}

func istLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}
