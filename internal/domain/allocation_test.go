package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHorizon(t *testing.T) Horizon {
	t.Helper()
	h, err := NewHorizon(2025, 7, 25, 12)
	require.NoError(t, err)
	return h
}

func testTable(t *testing.T, h Horizon) *AllocationTable {
	t.Helper()
	table, err := NewAllocationTable(DefaultSeedRows(), h.Months)
	require.NoError(t, err)
	return table
}

func TestNewAllocationTable_ZeroFilled(t *testing.T) {
	h := testHorizon(t)
	table := testTable(t, h)

	require.Len(t, table.Rows, 5)
	assert.Equal(t, "Sarah Jenkins", table.Rows[0].Resource)
	assert.Equal(t, "Analyst Pool", table.Rows[4].Resource)
	for _, r := range table.Rows {
		assert.Len(t, r.Days, 25)
		for _, m := range h.Months {
			v, ok := r.Days[m]
			assert.True(t, ok, "%s missing %s", r.Resource, m)
			assert.Equal(t, 0, v)
		}
	}
}

func TestNewAllocationTable_RejectsDuplicatesAndBlanks(t *testing.T) {
	h := testHorizon(t)

	_, err := NewAllocationTable([]SeedRow{{Resource: "A"}, {Resource: "A"}}, h.Months)
	assert.True(t, IsConfigurationError(err))

	_, err = NewAllocationTable([]SeedRow{{Resource: "  "}}, h.Months)
	assert.True(t, IsConfigurationError(err))
}

func TestCoerceDays(t *testing.T) {
	tests := []struct {
		in    string
		want  int
		valid bool
	}{
		{"10", 10, true},
		{" 7 ", 7, true},
		{"0", 0, true},
		{"5.0", 5, true},
		{"-1", 0, false},
		{"-2.0", 0, false},
		{"2.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"1e12", 0, false},
		{"2147483647", 2147483647, true},
		{"2147483648", 0, false},
		{"9223372036854775807", 0, false},
	}
	for _, tc := range tests {
		got, _, ok := CoerceDays(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		if tc.valid {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestApplyPatch_OnlyTouchesNamedCells(t *testing.T) {
	h := testHorizon(t)
	table := testTable(t, h)
	jul25 := NewMonthKey(2025, time.July)
	aug25 := NewMonthKey(2025, time.August)

	patch := make(Patch)
	patch.Set("Analyst Pool", jul25, "10")
	patch.Set("Analyst Pool", aug25, "5")

	res, err := ApplyPatch(table, h.Phases[0], patch)
	require.NoError(t, err)
	assert.Len(t, res.Changes, 2)
	assert.Empty(t, res.Rejected)

	pool := table.Row("Analyst Pool")
	assert.Equal(t, 10, pool.Value(jul25))
	assert.Equal(t, 5, pool.Value(aug25))
	assert.Equal(t, 15, pool.Sum(h.Months))
	for _, r := range table.Rows {
		if r.Resource != "Analyst Pool" {
			assert.Equal(t, 0, r.Sum(h.Months), r.Resource)
		}
	}
}

func TestApplyPatch_InvalidCellsRetainPriorValue(t *testing.T) {
	h := testHorizon(t)
	table := testTable(t, h)
	jul25 := NewMonthKey(2025, time.July)
	aug25 := NewMonthKey(2025, time.August)
	sep25 := NewMonthKey(2025, time.September)
	table.Row("David Chen").Days[jul25] = 4
	table.Row("David Chen").Days[aug25] = 6

	patch := make(Patch)
	patch.Set("David Chen", jul25, "-3")
	patch.Set("David Chen", aug25, "lots")
	patch.Set("David Chen", sep25, "8")

	res, err := ApplyPatch(table, h.Phases[0], patch)
	require.NoError(t, err)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, jul25, res.Rejected[0].Month)
	assert.Equal(t, "-3", res.Rejected[0].Input)
	assert.Equal(t, aug25, res.Rejected[1].Month)

	row := table.Row("David Chen")
	assert.Equal(t, 4, row.Value(jul25))
	assert.Equal(t, 6, row.Value(aug25))
	assert.Equal(t, 8, row.Value(sep25), "valid cells in the same batch still apply")
}

func TestApplyPatch_OversizedValuesRetainPriorValue(t *testing.T) {
	h := testHorizon(t)
	table := testTable(t, h)
	jul25 := NewMonthKey(2025, time.July)
	aug25 := NewMonthKey(2025, time.August)
	table.Row("Analyst Pool").Days[jul25] = 3

	patch := make(Patch)
	patch.Set("Analyst Pool", jul25, "9223372036854775807")
	patch.Set("Analyst Pool", aug25, "9223372036854775807")

	res, err := ApplyPatch(table, h.Phases[0], patch)
	require.NoError(t, err)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, "is too large", res.Rejected[0].Reason)
	assert.Empty(t, res.Changes)

	row := table.Row("Analyst Pool")
	assert.Equal(t, 3, row.Value(jul25))
	assert.Equal(t, 0, row.Value(aug25))
}

func TestApplyPatch_OutOfPhaseIsConflict(t *testing.T) {
	h := testHorizon(t)
	table := testTable(t, h)
	jul25 := NewMonthKey(2025, time.July)
	jul26 := NewMonthKey(2026, time.July)

	patch := make(Patch)
	patch.Set("Priya Patel", jul25, "3")
	patch.Set("Priya Patel", jul26, "9")

	_, err := ApplyPatch(table, h.Phases[0], patch)
	require.Error(t, err)
	assert.True(t, IsStateConflict(err))

	row := table.Row("Priya Patel")
	assert.Equal(t, 0, row.Value(jul25), "conflicting patch must not be partially applied")
	assert.Equal(t, 0, row.Value(jul26))
}

func TestApplyPatch_UnknownResourceIsConflict(t *testing.T) {
	h := testHorizon(t)
	table := testTable(t, h)

	patch := make(Patch)
	patch.Set("Nobody", h.Phases[1].First(), "1")

	_, err := ApplyPatch(table, h.Phases[1], patch)
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, "Nobody", sc.Resource)
}

func TestApplyPatch_UnchangedValueRecordsNoChange(t *testing.T) {
	h := testHorizon(t)
	table := testTable(t, h)

	patch := make(Patch)
	patch.Set("Sarah Jenkins", h.Phases[0].First(), "0")

	res, err := ApplyPatch(table, h.Phases[0], patch)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Empty(t, res.Rejected)
}

func TestAllocationTable_CloneIsDeep(t *testing.T) {
	h := testHorizon(t)
	table := testTable(t, h)
	c := table.Clone()
	c.Rows[0].Days[h.Months[0]] = 99

	assert.Equal(t, 0, table.Rows[0].Value(h.Months[0]))
}
