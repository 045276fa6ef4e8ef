package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Subscriber {
	return []Subscriber{
		{Timestamp: "2023-10-01", Name: "Mock User 1", Email: "active@test.com", Status: StatusActive, ExpiryDate: "2023-12-31T00:00:00.000Z"},
		{Timestamp: "2023-10-05", Name: "Mock User 2", Email: "reg@test.com", Status: StatusRegistered},
	}
}

func TestToggled(t *testing.T) {
	assert.Equal(t, StatusRegistered, StatusActive.Toggled())
	assert.Equal(t, StatusActive, StatusRegistered.Toggled())
	assert.Equal(t, StatusActive, Status("Pending").Toggled())
}

func TestToggleCommit(t *testing.T) {
	r := New(sample())

	next, err := r.BeginToggle("reg@test.com")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, next)

	row, ok := r.Lookup("reg@test.com")
	require.True(t, ok)
	assert.True(t, row.Pending)
	assert.Equal(t, UpdatingLabel, row.DisplayStatus())

	assert.True(t, r.Commit("reg@test.com"))
	row, _ = r.Lookup("reg@test.com")
	assert.False(t, row.Pending)
	assert.Equal(t, StatusActive, row.Status)
	assert.Equal(t, "Active", row.DisplayStatus())
}

func TestToggleRollbackRestoresExactStatus(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusRegistered, Status("Legacy")} {
		r := New([]Subscriber{{Email: "x@test.com", Status: s}})

		_, err := r.BeginToggle("x@test.com")
		require.NoError(t, err)
		assert.True(t, r.Rollback("x@test.com"))

		row, _ := r.Lookup("x@test.com")
		assert.Equal(t, s, row.Status)
		assert.False(t, row.Pending)
	}
}

func TestToggleGuards(t *testing.T) {
	r := New(sample())

	_, err := r.BeginToggle("nobody@test.com")
	assert.ErrorIs(t, err, ErrUnknownSubscriber)

	_, err = r.BeginToggle("active@test.com")
	require.NoError(t, err)
	_, err = r.BeginToggle("ACTIVE@test.com ")
	assert.ErrorIs(t, err, ErrToggleInFlight)

	// Other rows are independent.
	_, err = r.BeginToggle("reg@test.com")
	assert.NoError(t, err)

	assert.False(t, r.Commit("nobody@test.com"))
}

func TestSettleWithoutPendingIsNoop(t *testing.T) {
	r := New(sample())
	assert.False(t, r.Commit("active@test.com"))
	assert.False(t, r.Rollback("active@test.com"))

	row, _ := r.Lookup("active@test.com")
	assert.Equal(t, StatusActive, row.Status)
}

func TestReplaceKeepsPendingToggles(t *testing.T) {
	r := New(sample())
	_, err := r.BeginToggle("reg@test.com")
	require.NoError(t, err)

	fresh := sample()
	fresh = append(fresh, Subscriber{Email: "new@test.com", Status: StatusRegistered})
	r.Replace(fresh)

	assert.Equal(t, 3, r.Len())
	row, _ := r.Lookup("reg@test.com")
	assert.True(t, row.Pending)

	assert.True(t, r.Rollback("reg@test.com"))
	row, _ = r.Lookup("reg@test.com")
	assert.Equal(t, StatusRegistered, row.Status)
}

func TestReplaceDropsDuplicates(t *testing.T) {
	subs := append(sample(), Subscriber{Email: "Active@Test.com", Name: "dup"})
	r := New(subs)

	rows := r.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Mock User 1", rows[0].Name)
	assert.Equal(t, "Mock User 2", rows[1].Name)
}

func TestRowsAreSnapshots(t *testing.T) {
	r := New(sample())
	rows := r.Rows()
	rows[0].Status = StatusRegistered

	row, _ := r.Lookup("active@test.com")
	assert.Equal(t, StatusActive, row.Status)
}
