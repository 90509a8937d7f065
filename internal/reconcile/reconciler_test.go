package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/signullgame/signull/internal/dependencies/mocks"
	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/testutil"
)

type ReconcilerSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	reconciler *Reconciler
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

func (s *ReconcilerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.reconciler = New(s.clock, testutil.NopLogger())
}

func (s *ReconcilerSuite) snapshot(version int64, revealed int) *model.Room {
	return &model.Room{
		SchemaVersion: model.CurrentSchemaVersion,
		Code:          "ROOM01",
		Version:       version,
		Phase:         model.PhaseSignulls,
		SecretWord:    "ELEPHANT",
		RevealedCount: revealed,
		Signulls:      model.NewSignullContainer(),
	}
}

// revealOne predicts one further letter reveal
func revealOne(r *model.Room) error {
	if r.Phase != model.PhaseSignulls {
		return model.ErrWrongPhase
	}
	r.RevealedCount++
	return nil
}

func (s *ReconcilerSuite) TestViewNilBeforeFirstSnapshot() {
	s.Nil(s.reconciler.View())
}

func (s *ReconcilerSuite) TestPredictBeforeFirstSnapshotFails() {
	_, err := s.reconciler.Predict(revealOne)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ReconcilerSuite) TestPredictionOverlaysView() {
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))

	_, err := s.reconciler.Predict(revealOne)
	s.Require().NoError(err)

	view := s.reconciler.View()
	s.Equal(1, view.RevealedCount, "the view shows the predicted effect")
	s.Equal(1, s.reconciler.PendingCount())
}

func (s *ReconcilerSuite) TestPredictRejectsIllegalAction() {
	snapshot := s.snapshot(1, 0)
	snapshot.Phase = model.PhaseEnded
	s.reconciler.ApplySnapshot(snapshot)

	_, err := s.reconciler.Predict(revealOne)
	s.ErrorIs(err, model.ErrWrongPhase)
	s.Zero(s.reconciler.PendingCount(), "a rejected prediction never registers")
}

func (s *ReconcilerSuite) TestConfirmRemovesOverlay() {
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))
	id, err := s.reconciler.Predict(revealOne)
	s.Require().NoError(err)

	// The server's snapshot carries the real effect
	s.reconciler.ApplySnapshot(s.snapshot(2, 1))
	s.reconciler.Confirm(id)

	s.Equal(1, s.reconciler.View().RevealedCount, "no double application after confirm")
	s.Zero(s.reconciler.PendingCount())
}

func (s *ReconcilerSuite) TestOverlaySurvivesUnrelatedSnapshots() {
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))
	_, err := s.reconciler.Predict(revealOne)
	s.Require().NoError(err)

	// Another player's action commits before ours is acknowledged
	s.reconciler.ApplySnapshot(s.snapshot(2, 0))

	s.Equal(1, s.reconciler.View().RevealedCount, "the pending prediction replays on the new snapshot")
}

func (s *ReconcilerSuite) TestStaleSnapshotIgnored() {
	s.reconciler.ApplySnapshot(s.snapshot(2, 1))
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))

	view := s.reconciler.View()
	s.Equal(int64(2), view.Version, "a late older snapshot never replaces a newer one")
	s.Equal(1, view.RevealedCount)
}

func (s *ReconcilerSuite) TestRejectRollsBack() {
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))
	id, err := s.reconciler.Predict(revealOne)
	s.Require().NoError(err)

	benign := s.reconciler.Reject(id, model.ErrInvalidGuess)
	s.False(benign)
	s.Equal(0, s.reconciler.View().RevealedCount, "rollback restores the authoritative view")
	s.Zero(s.reconciler.PendingCount())
}

func (s *ReconcilerSuite) TestRejectClassifiesBenignRaces() {
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))

	id, err := s.reconciler.Predict(revealOne)
	s.Require().NoError(err)
	s.True(s.reconciler.Reject(id, model.ErrSignullFinal), "losing a race to another actor is normal play")

	id, err = s.reconciler.Predict(revealOne)
	s.Require().NoError(err)
	s.True(s.reconciler.Reject(id, model.ErrSignullNotActive))
}

func (s *ReconcilerSuite) TestStalePredictionSkippedNotDropped() {
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))
	_, err := s.reconciler.Predict(revealOne)
	s.Require().NoError(err)

	// The game ends underneath the prediction; it no longer applies
	ended := s.snapshot(2, 3)
	ended.Phase = model.PhaseEnded
	s.reconciler.ApplySnapshot(ended)

	s.Equal(3, s.reconciler.View().RevealedCount, "a stale prediction is skipped for the view")
	s.Equal(1, s.reconciler.PendingCount(), "only the server's verdict removes it")
}

func (s *ReconcilerSuite) TestPredictionTimesOutOnSnapshot() {
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))
	_, err := s.reconciler.Predict(revealOne)
	s.Require().NoError(err)

	s.clock.Advance(DefaultPredictionTimeout + time.Second)
	s.reconciler.ApplySnapshot(s.snapshot(2, 0))

	s.Zero(s.reconciler.PendingCount(), "an unacknowledged prediction rolls back after the timeout")
	s.Equal(0, s.reconciler.View().RevealedCount)
}

func (s *ReconcilerSuite) TestTombstoneClearsEverything() {
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))
	_, err := s.reconciler.Predict(revealOne)
	s.Require().NoError(err)

	s.reconciler.ApplySnapshot(nil)

	s.Nil(s.reconciler.View())
	s.Zero(s.reconciler.PendingCount())
}

func (s *ReconcilerSuite) TestPredictionsApplyInOrder() {
	s.reconciler.ApplySnapshot(s.snapshot(1, 0))

	for i := 0; i < 3; i++ {
		_, err := s.reconciler.Predict(revealOne)
		s.Require().NoError(err)
	}

	s.Equal(3, s.reconciler.View().RevealedCount)
}
