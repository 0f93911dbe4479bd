package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSelectNewActionsFirstRun(t *testing.T) {
	all := []Action{
		{Name: "drove to work", ImpactScore: 12.5, Timestamp: ts("2026-01-01T08:00:00Z")},
		{Name: "recycled glass", ImpactScore: -1.2, Timestamp: ts("2026-01-02T09:00:00Z")},
	}

	got := SelectNewActions(all, nil)

	require.Equal(t, all, got)

	// The result must be a copy, not an alias of the input slice.
	got[0].Name = "mutated"
	assert.Equal(t, "drove to work", all[0].Name)
}

func TestSelectNewActionsStrictlyAfter(t *testing.T) {
	checkpoint := ts("2026-01-02T00:00:00Z")
	all := []Action{
		{Name: "old", Timestamp: ts("2026-01-01T10:00:00Z")},
		{Name: "boundary", Timestamp: checkpoint},
		{Name: "new-1", Timestamp: ts("2026-01-02T00:00:01Z")},
		{Name: "new-2", Timestamp: ts("2026-01-03T12:00:00Z")},
	}

	got := SelectNewActions(all, &checkpoint)

	require.Len(t, got, 2)
	// An action recorded exactly at the checkpoint is not new.
	assert.Equal(t, "new-1", got[0].Name)
	assert.Equal(t, "new-2", got[1].Name)
}

func TestSelectNewActionsPreservesInputOrder(t *testing.T) {
	checkpoint := ts("2026-01-01T00:00:00Z")
	// Input deliberately not sorted by timestamp.
	all := []Action{
		{Name: "c", Timestamp: ts("2026-01-04T00:00:00Z")},
		{Name: "a", Timestamp: ts("2026-01-02T00:00:00Z")},
		{Name: "b", Timestamp: ts("2026-01-03T00:00:00Z")},
	}

	got := SelectNewActions(all, &checkpoint)

	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].Name)
	assert.Equal(t, "a", got[1].Name)
	assert.Equal(t, "b", got[2].Name)
}

func TestSelectNewActionsNothingNew(t *testing.T) {
	checkpoint := ts("2026-02-01T00:00:00Z")
	all := []Action{
		{Name: "old", Timestamp: ts("2026-01-15T00:00:00Z")},
	}

	got := SelectNewActions(all, &checkpoint)
	assert.Empty(t, got)
}

func TestSelectNewActionsEmptyInput(t *testing.T) {
	assert.Empty(t, SelectNewActions(nil, nil))

	checkpoint := ts("2026-01-01T00:00:00Z")
	assert.Empty(t, SelectNewActions(nil, &checkpoint))
}
