package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/studyreview/internal/review"
	"github.com/example/studyreview/pkg/models"
)

type fakeSource struct {
	users     []uuid.UUID
	summaries map[uuid.UUID]models.ProgressSummary
	usersErr  error
}

func (f *fakeSource) UsersWithDueItems(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	return f.users, f.usersErr
}

func (f *fakeSource) Summary(ctx context.Context, userID uuid.UUID, now time.Time) (models.ProgressSummary, error) {
	summary, ok := f.summaries[userID]
	if !ok {
		return models.ProgressSummary{}, errors.New("no summary")
	}
	return summary, nil
}

type fakeNotifier struct {
	notified []uuid.UUID
	failFor  map[uuid.UUID]bool
}

func (f *fakeNotifier) NotifyDue(ctx context.Context, userID uuid.UUID, summary models.ProgressSummary) error {
	if f.failFor[userID] {
		return errors.New("chat unreachable")
	}
	f.notified = append(f.notified, userID)
	return nil
}

func at(hour int) review.Clock {
	return review.FixedClock(time.Date(2025, 6, 15, hour, 30, 0, 0, time.UTC))
}

func TestScheduler_CheckAndSendReminders(t *testing.T) {
	t.Parallel()

	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()
	dave := uuid.New()

	newSource := func() *fakeSource {
		return &fakeSource{
			users: []uuid.UUID{alice, bob, carol, dave},
			summaries: map[uuid.UUID]models.ProgressSummary{
				alice: {UserID: alice, Tracked: 4, Due: 2},
				bob:   {UserID: bob, Tracked: 1, Due: 1},
				carol: {UserID: carol, Tracked: 3, Due: 0},
			},
		}
	}

	tests := []struct {
		name         string
		cfg          Config
		clock        review.Clock
		failFor      map[uuid.UUID]bool
		wantSent     int
		wantNotified []uuid.UUID
	}{
		{
			name:         "inside notification hours",
			cfg:          DefaultConfig(),
			clock:        at(9),
			wantSent:     2,
			wantNotified: []uuid.UUID{alice, bob},
		},
		{
			name:     "before notification hours",
			cfg:      DefaultConfig(),
			clock:    at(7),
			wantSent: 0,
		},
		{
			name:     "after notification hours",
			cfg:      DefaultConfig(),
			clock:    at(23),
			wantSent: 0,
		},
		{
			name:         "window wrapping midnight",
			cfg:          Config{StartHour: 22, EndHour: 2},
			clock:        at(1),
			wantSent:     2,
			wantNotified: []uuid.UUID{alice, bob},
		},
		{
			name:         "failed delivery does not stop the run",
			cfg:          DefaultConfig(),
			clock:        at(12),
			failFor:      map[uuid.UUID]bool{alice: true},
			wantSent:     1,
			wantNotified: []uuid.UUID{bob},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			notifier := &fakeNotifier{failFor: tt.failFor}
			s := New(newSource(), notifier, tt.cfg, tt.clock, zap.NewNop())

			sent, err := s.CheckAndSendReminders(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, sent)
			assert.Equal(t, tt.wantNotified, notifier.notified)
		})
	}
}

func TestScheduler_CheckAndSendReminders_SourceError(t *testing.T) {
	t.Parallel()

	source := &fakeSource{usersErr: errors.New("db error")}
	s := New(source, &fakeNotifier{}, DefaultConfig(), at(10), zap.NewNop())

	_, err := s.CheckAndSendReminders(context.Background())
	require.Error(t, err)
}

func TestScheduler_RunManualCheck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	source := &fakeSource{summaries: map[uuid.UUID]models.ProgressSummary{
		userID: {UserID: userID, Due: 3},
	}}
	notifier := &fakeNotifier{}
	s := New(source, notifier, DefaultConfig(), at(3), zap.NewNop())

	require.NoError(t, s.RunManualCheck(context.Background(), userID))
	assert.Equal(t, []uuid.UUID{userID}, notifier.notified)

	require.Error(t, s.RunManualCheck(context.Background(), uuid.New()))
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s := New(&fakeSource{}, &fakeNotifier{}, Config{Every: time.Hour, StartHour: 0, EndHour: 23}, at(10), zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
