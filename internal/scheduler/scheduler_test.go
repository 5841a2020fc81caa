package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDueSource struct {
	counts map[int64]int
}

func (f fakeDueSource) DueCounts(context.Context, time.Time) (map[int64]int, error) {
	return f.counts, nil
}

type fakeNotifier struct {
	sent map[int64]int
}

func (f *fakeNotifier) SendReminder(learnerID int64, dueCount int) error {
	f.sent[learnerID] = dueCount
	return nil
}

func TestRunManualCheckSendsOnlyWhenDue(t *testing.T) {
	notifier := &fakeNotifier{sent: make(map[int64]int)}
	s := New(fakeDueSource{counts: map[int64]int{1: 3, 2: 0}}, notifier, Config{StartHour: 0, EndHour: 23})

	require.NoError(t, s.RunManualCheck(context.Background(), 1))
	assert.Equal(t, map[int64]int{1: 3}, notifier.sent)

	require.NoError(t, s.RunManualCheck(context.Background(), 2))
	require.NoError(t, s.RunManualCheck(context.Background(), 42))
	assert.Len(t, notifier.sent, 1, "no reminder without due words")
}

func TestNewDefaultsLocationToUTC(t *testing.T) {
	s := New(fakeDueSource{}, &fakeNotifier{sent: make(map[int64]int)}, Config{StartHour: 8, EndHour: 22})
	assert.Equal(t, time.UTC, s.cfg.Location)
}
