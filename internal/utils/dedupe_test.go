package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

type memberRow struct {
	ID        uint
	ProfileID uint
}

func TestDedupeByKey_KeepsFirstOccurrence(t *testing.T) {
	rows := []memberRow{
		{ID: 1, ProfileID: 10},
		{ID: 2, ProfileID: 20},
		{ID: 3, ProfileID: 10},
		{ID: 4, ProfileID: 30},
		{ID: 5, ProfileID: 20},
	}

	got := DedupeByKey(rows, func(r memberRow) uint { return r.ProfileID })

	assert.Equal(t, []memberRow{
		{ID: 1, ProfileID: 10},
		{ID: 2, ProfileID: 20},
		{ID: 4, ProfileID: 30},
	}, got)
}

func TestDedupeByKey_Empty(t *testing.T) {
	got := DedupeByKey([]memberRow{}, func(r memberRow) uint { return r.ProfileID })
	assert.Empty(t, got)
}

func TestDedupeByKey_NoDuplicates(t *testing.T) {
	rows := []memberRow{
		{ID: 1, ProfileID: 1},
		{ID: 2, ProfileID: 2},
	}
	got := DedupeByKey(rows, func(r memberRow) uint { return r.ProfileID })
	assert.Equal(t, rows, got)
}

// Property: deduplication never produces two rows with the same key, keeps
// input order, and is a fixpoint (running it twice changes nothing).
func TestProperty_DedupeByKey(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property test in short mode")
	}

	rapid.Check(t, func(rt *rapid.T) {
		keys := rapid.SliceOfN(rapid.UintRange(1, 20), 0, 50).Draw(rt, "keys")

		rows := make([]memberRow, len(keys))
		for i, k := range keys {
			rows[i] = memberRow{ID: uint(i + 1), ProfileID: uint(k)}
		}

		keyFn := func(r memberRow) uint { return r.ProfileID }
		got := DedupeByKey(rows, keyFn)

		// No key appears twice
		seen := make(map[uint]bool)
		for _, r := range got {
			if seen[r.ProfileID] {
				rt.Fatalf("key %d appears more than once", r.ProfileID)
			}
			seen[r.ProfileID] = true
		}

		// Every input key survives exactly once
		want := make(map[uint]bool)
		for _, r := range rows {
			want[r.ProfileID] = true
		}
		if len(seen) != len(want) {
			rt.Fatalf("expected %d distinct keys, got %d", len(want), len(seen))
		}

		// Order is preserved: surviving IDs must be strictly increasing
		for i := 1; i < len(got); i++ {
			if got[i-1].ID >= got[i].ID {
				rt.Fatalf("output order broken at index %d", i)
			}
		}

		// Fixpoint: a second pass changes nothing
		again := DedupeByKey(got, keyFn)
		if len(again) != len(got) {
			rt.Fatalf("second pass changed length from %d to %d", len(got), len(again))
		}
		for i := range got {
			if got[i] != again[i] {
				rt.Fatalf("second pass changed row at index %d", i)
			}
		}
	})
}
