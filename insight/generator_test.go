package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecotrack/ecotrack/llm"
)

type fakeStore struct {
	record  *UserRecord
	readErr error
	saveErr error

	savedKey  string
	savedBlob string
	saveCalls int
}

func (f *fakeStore) ReadUserRecord(ctx context.Context, userID uint) (*UserRecord, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.record == nil {
		return nil, ErrRecordNotFound
	}
	return f.record, nil
}

func (f *fakeStore) SaveCheckpoint(ctx context.Context, userID uint, key, adviceBlob string) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedKey = key
	f.savedBlob = adviceBlob
	return nil
}

type fakeClient struct {
	body string
	err  error

	calls   int
	prompts []string
}

func (f *fakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.body, nil
}

func newTestEngine(store Store, gen *fakeClient) *Engine {
	// A typed nil pointer inside the interface would defeat the engine's nil
	// check, so only assign when a fake is actually provided.
	var c llm.Client
	if gen != nil {
		c = gen
	}
	e := NewEngine(store, c, zap.NewNop().Sugar())
	e.now = func() time.Time { return ts("2026-03-01T12:00:00Z") }
	return e
}

func TestAdviseFirstRunWithRemote(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeClient{body: `{"insights":["i"],"recommendations":["r"],"summary":"s"}`}
	e := newTestEngine(store, gen)

	actions := []Action{{Name: "drove", ImpactScore: 10, Timestamp: ts("2026-02-28T10:00:00Z")}}
	res, err := e.Advise(context.Background(), 1, actions)

	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.Empty(t, res.PersistWarning)
	assert.Equal(t, []string{"i"}, res.Record.Insights)

	// Checkpoint keyed by "now" in RFC3339 UTC and carrying the encoded record.
	assert.Equal(t, "2026-03-01T12:00:00Z", store.savedKey)
	decoded, derr := DecodeAdviceRecord(store.savedBlob)
	require.NoError(t, derr)
	assert.Equal(t, res.Record, decoded)
}

func TestAdviseNoActionsEver(t *testing.T) {
	e := newTestEngine(&fakeStore{}, nil)

	_, err := e.Advise(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrNoActions)
}

func TestAdviseRemoteFailureFallsBackLocally(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeClient{err: errors.New("upstream 500")}
	e := newTestEngine(store, gen)

	actions := []Action{{Name: "vegan meal", ImpactScore: 2, Timestamp: ts("2026-02-28T10:00:00Z")}}
	res, err := e.Advise(context.Background(), 1, actions)

	require.NoError(t, err)
	want := LocalAdvice(Aggregate(actions))
	assert.Equal(t, want, res.Record)
	// The fallback result is still persisted.
	assert.Equal(t, 1, store.saveCalls)
}

func TestAdviseMalformedRemoteFallsBackLocally(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeClient{body: "here is some prose, not JSON"}
	e := newTestEngine(store, gen)

	actions := []Action{{Name: "vegan meal", ImpactScore: 2, Timestamp: ts("2026-02-28T10:00:00Z")}}
	res, err := e.Advise(context.Background(), 1, actions)

	require.NoError(t, err)
	assert.Equal(t, LocalAdvice(Aggregate(actions)), res.Record)
}

func TestAdviseNilGeneratorUsesLocal(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, nil)

	actions := []Action{{Name: "drove", ImpactScore: 10, Timestamp: ts("2026-02-28T10:00:00Z")}}
	res, err := e.Advise(context.Background(), 1, actions)

	require.NoError(t, err)
	assert.Equal(t, LocalAdvice(Aggregate(actions)), res.Record)
}

func TestAdvisePersistFailureIsSoft(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	e := newTestEngine(store, nil)

	actions := []Action{{Name: "drove", ImpactScore: 10, Timestamp: ts("2026-02-28T10:00:00Z")}}
	res, err := e.Advise(context.Background(), 1, actions)

	require.NoError(t, err)
	assert.Equal(t, "advice could not be saved", res.PersistWarning)
	assert.NotEmpty(t, res.Record.Insights)
}

func TestAdviseStoreReadFailureDegrades(t *testing.T) {
	store := &fakeStore{readErr: errors.New("connection refused")}
	gen := &fakeClient{body: `{"insights":["i"],"recommendations":["r"],"summary":"s"}`}
	e := newTestEngine(store, gen)

	actions := []Action{{Name: "drove", ImpactScore: 10, Timestamp: ts("2026-02-28T10:00:00Z")}}
	res, err := e.Advise(context.Background(), 1, actions)

	// Treated as first run: all actions are new, advice is still produced.
	require.NoError(t, err)
	assert.False(t, res.Stale)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "drove")
}

func TestAdviseStaleShortCircuit(t *testing.T) {
	prior := AdviceRecord{Insights: []string{"old"}, Recommendations: []string{"keep it up"}, Summary: "old summary"}
	blob, err := prior.Encode()
	require.NoError(t, err)

	key := "2026-02-01T00:00:00Z"
	store := &fakeStore{record: &UserRecord{
		LastCheckpointKey: key,
		PreviousAdvice:    map[string]string{key: blob},
	}}
	gen := &fakeClient{body: `{"insights":["fresh"],"recommendations":["r"],"summary":"s"}`}
	e := newTestEngine(store, gen)

	actions := []Action{{Name: "old action", ImpactScore: 10, Timestamp: ts("2026-01-15T10:00:00Z")}}
	res, aerr := e.Advise(context.Background(), 1, actions)

	require.NoError(t, aerr)
	assert.True(t, res.Stale)
	assert.Equal(t, prior, res.Record)
	// No generation and no new checkpoint on the stale path.
	assert.Zero(t, gen.calls)
	assert.Zero(t, store.saveCalls)
}

func TestAdviseStaleFallsBackToGreatestKey(t *testing.T) {
	older := AdviceRecord{Summary: "older"}
	newer := AdviceRecord{Summary: "newer"}
	olderBlob, _ := older.Encode()
	newerBlob, _ := newer.Encode()

	// Pointer references a key that is missing from the mapping after a prior
	// partial failure; the greatest stored key must be served instead.
	store := &fakeStore{record: &UserRecord{
		LastCheckpointKey: "2026-02-10T00:00:00Z",
		PreviousAdvice: map[string]string{
			"2026-01-01T00:00:00Z": olderBlob,
			"2026-02-01T00:00:00Z": newerBlob,
		},
	}}
	e := newTestEngine(store, nil)

	actions := []Action{{Name: "old", ImpactScore: 1, Timestamp: ts("2026-01-15T00:00:00Z")}}
	res, err := e.Advise(context.Background(), 1, actions)

	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, "newer", res.Record.Summary)
}

func TestAdviseUndecodablePriorRegenerates(t *testing.T) {
	key := "2026-02-01T00:00:00Z"
	store := &fakeStore{record: &UserRecord{
		LastCheckpointKey: key,
		PreviousAdvice:    map[string]string{key: "corrupted {{{"},
	}}
	e := newTestEngine(store, nil)

	actions := []Action{{Name: "old action", ImpactScore: 10, Timestamp: ts("2026-01-15T10:00:00Z")}}
	res, err := e.Advise(context.Background(), 1, actions)

	// Regenerates over the full history rather than serving nothing.
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.NotEmpty(t, res.Record.Insights)
	assert.Equal(t, 1, store.saveCalls)
}

func TestAdviseIncrementalSelection(t *testing.T) {
	key := "2026-02-01T00:00:00Z"
	prior := AdviceRecord{Summary: "prior"}
	blob, _ := prior.Encode()
	store := &fakeStore{record: &UserRecord{
		LastCheckpointKey: key,
		PreviousAdvice:    map[string]string{key: blob},
	}}
	gen := &fakeClient{body: `{"insights":["i"],"recommendations":["r"],"summary":"s"}`}
	e := newTestEngine(store, gen)

	actions := []Action{
		{Name: "before checkpoint", ImpactScore: 99, Timestamp: ts("2026-01-20T00:00:00Z")},
		{Name: "after checkpoint", ImpactScore: 5, Timestamp: ts("2026-02-15T00:00:00Z")},
	}
	res, err := e.Advise(context.Background(), 1, actions)

	require.NoError(t, err)
	assert.False(t, res.Stale)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "after checkpoint")
	assert.NotContains(t, gen.prompts[0], "before checkpoint")
}
