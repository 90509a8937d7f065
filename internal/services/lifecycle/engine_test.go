package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signullgame/signull/internal/model"
)

func entry(required int) *model.SignullEntry {
	return &model.SignullEntry{
		ID:               "s1",
		CreatorID:        "p-creator",
		Word:             "CAT",
		Clue:             "feline",
		RequiredConnects: required,
		Status:           model.SignullPending,
		CreatedAt:        time.Now(),
	}
}

func TestConnectIncorrect(t *testing.T) {
	e := entry(2)
	res, err := Connect(e, "p-a", "dog", time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncorrect, res.Outcome)
	assert.False(t, res.Attempt.Correct)
	assert.Equal(t, model.SignullPending, e.Status)
}

func TestConnectBelowThreshold(t *testing.T) {
	e := entry(2)
	res, err := Connect(e, "p-a", "cat", time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, res.Outcome)
	assert.True(t, res.Attempt.Correct)
	assert.Equal(t, model.SignullPending, e.Status)
	assert.False(t, e.Final)
}

func TestConnectResolvesAtThreshold(t *testing.T) {
	e := entry(2)
	_, err := Connect(e, "p-a", "CAT", time.Now())
	require.NoError(t, err)

	res, err := Connect(e, "p-b", " cat ", time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolved, res.Outcome)
	assert.Equal(t, model.SignullResolved, e.Status)
	assert.True(t, e.Final)
	require.NotNil(t, e.ResolvedAt)
}

func TestConnectAfterResolutionIsStraggler(t *testing.T) {
	e := entry(2)
	_, _ = Connect(e, "p-a", "cat", time.Now())
	_, _ = Connect(e, "p-b", "cat", time.Now())

	// Correct or not, a late connect is only ever a straggler
	res, err := Connect(e, "p-c", "cat", time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeStraggler, res.Outcome)

	res, err = Connect(e, "p-d", "dog", time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeStraggler, res.Outcome)

	assert.Equal(t, model.SignullResolved, e.Status)
}

func TestConnectReplayIsIdempotent(t *testing.T) {
	e := entry(2)
	first, err := Connect(e, "p-a", "cat", time.Now())
	require.NoError(t, err)

	replay, err := Connect(e, "p-a", "dog", time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplay, replay.Outcome)
	assert.Equal(t, first.Attempt, replay.Attempt)
	assert.Len(t, e.Attempts, 1)
}

func TestConnectBlockedEntryRejected(t *testing.T) {
	e := entry(2)
	_, err := Intercept(e, "p-setter", "cat", time.Now())
	require.NoError(t, err)

	_, err = Connect(e, "p-a", "cat", time.Now())
	assert.ErrorIs(t, err, model.ErrSignullFinal)
	assert.True(t, model.IsBenignRace(err))
}

func TestInterceptBlocks(t *testing.T) {
	e := entry(2)
	res, err := Intercept(e, "p-setter", "Cat", time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeBlocked, res.Outcome)
	assert.Equal(t, model.SignullBlocked, e.Status)
	assert.True(t, e.Final)
}

func TestInterceptMiss(t *testing.T) {
	e := entry(2)
	res, err := Intercept(e, "p-setter", "dog", time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncorrect, res.Outcome)
	assert.Equal(t, model.SignullPending, e.Status)

	// A miss does not stop guessers from resolving afterwards
	_, _ = Connect(e, "p-a", "cat", time.Now())
	res2, err := Connect(e, "p-b", "cat", time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolved, res2.Outcome)
}

func TestInterceptAfterResolutionRejected(t *testing.T) {
	e := entry(1)
	_, _ = Connect(e, "p-a", "cat", time.Now())
	require.Equal(t, model.SignullResolved, e.Status)

	_, err := Intercept(e, "p-setter", "cat", time.Now())
	assert.ErrorIs(t, err, model.ErrSignullFinal)
}

func TestDeactivate(t *testing.T) {
	e := entry(2)
	Deactivate(e, time.Now())
	assert.Equal(t, model.SignullInactive, e.Status)
	assert.True(t, e.Final)

	// Terminal states are untouched
	r := entry(1)
	_, _ = Connect(r, "p-a", "cat", time.Now())
	Deactivate(r, time.Now())
	assert.Equal(t, model.SignullResolved, r.Status)
}
