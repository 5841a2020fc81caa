package srs

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/pkg/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advanceDays(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

type memProgressRepo struct {
	records map[string]models.WordProgress
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{records: make(map[string]models.WordProgress)}
}

func progressKey(learnerID int64, wordID string) string {
	return fmt.Sprintf("%d/%s", learnerID, wordID)
}

func (r *memProgressRepo) Get(_ context.Context, learnerID int64, wordID string) (*models.WordProgress, error) {
	p, ok := r.records[progressKey(learnerID, wordID)]
	if !ok {
		return nil, nil
	}
	copied := p
	return &copied, nil
}

func (r *memProgressRepo) ListByLearner(_ context.Context, learnerID int64) ([]models.WordProgress, error) {
	var out []models.WordProgress
	for _, p := range r.records {
		if p.LearnerID == learnerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProgressRepo) Upsert(_ context.Context, progress *models.WordProgress) error {
	r.records[progressKey(progress.LearnerID, progress.WordID)] = *progress
	return nil
}

type memQueueRepo struct {
	items map[string]models.ReviewItem
}

func newMemQueueRepo() *memQueueRepo {
	return &memQueueRepo{items: make(map[string]models.ReviewItem)}
}

func (r *memQueueRepo) GetByWord(_ context.Context, learnerID int64, wordID string) (*models.ReviewItem, error) {
	item, ok := r.items[progressKey(learnerID, wordID)]
	if !ok {
		return nil, nil
	}
	copied := item
	return &copied, nil
}

func (r *memQueueRepo) Due(_ context.Context, learnerID int64, now time.Time) ([]models.ReviewItem, error) {
	var due []models.ReviewItem
	for _, item := range r.items {
		if item.LearnerID == learnerID && !item.ScheduledFor.After(now) {
			due = append(due, item)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ScheduledFor.Before(due[j].ScheduledFor)
	})
	return due, nil
}

func (r *memQueueRepo) Replace(_ context.Context, item *models.ReviewItem) error {
	r.items[progressKey(item.LearnerID, item.WordID)] = *item
	return nil
}

func (r *memQueueRepo) Remove(_ context.Context, learnerID int64, wordID string) error {
	delete(r.items, progressKey(learnerID, wordID))
	return nil
}

type recordedActivity struct {
	learnerID         int64
	learned, reviewed int
}

type memRecorder struct {
	calls []recordedActivity
}

func (r *memRecorder) RecordActivity(_ context.Context, learnerID int64, learned, reviewed, _ int) error {
	r.calls = append(r.calls, recordedActivity{learnerID, learned, reviewed})
	return nil
}

type engineFixture struct {
	engine   *Engine
	progress *memProgressRepo
	queue    *memQueueRepo
	recorder *memRecorder
	clock    *fakeClock
}

func newFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		progress: newMemProgressRepo(),
		queue:    newMemQueueRepo(),
		recorder: &memRecorder{},
		clock:    &fakeClock{now: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)},
	}
	f.engine = NewEngine(DefaultIntervals(), f.progress, f.queue, f.recorder, f.clock)
	return f
}

const learner = int64(7)

func TestLearnCreatesProgressAtStageOne(t *testing.T) {
	f := newFixture(t)
	t0 := f.clock.now

	result, err := f.engine.Learn(context.Background(), learner, "w1")
	require.NoError(t, err)
	require.NotNil(t, result)

	p := result.Progress
	assert.Equal(t, models.StatusLearning, p.Status)
	assert.Equal(t, 0, p.CorrectCount)
	assert.Equal(t, 0, p.WrongCount)
	assert.Equal(t, t0, p.LastReviewedAt)
	assert.Equal(t, t0, p.LearnedAt)
	require.NotNil(t, p.NextReviewAt)
	assert.Equal(t, t0.AddDate(0, 0, 1), *p.NextReviewAt)

	require.NotNil(t, result.Queued)
	assert.Equal(t, 1, result.Queued.ReviewStage)
	assert.Equal(t, t0.AddDate(0, 0, 1), result.Queued.ScheduledFor)

	require.Len(t, f.recorder.calls, 1)
	assert.Equal(t, recordedActivity{learner, 1, 0}, f.recorder.calls[0])
}

func TestLearnTwiceIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)

	f.clock.advanceDays(1)
	second, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)

	assert.Equal(t, first.Progress.Status, second.Progress.Status)
	assert.Equal(t, first.Progress.CorrectCount, second.Progress.CorrectCount)
	assert.Equal(t, first.Progress.WrongCount, second.Progress.WrongCount)
	assert.Equal(t, first.Progress.LearnedAt, second.Progress.LearnedAt)
	require.NotNil(t, second.Progress.NextReviewAt)
	assert.Equal(t, *first.Progress.NextReviewAt, *second.Progress.NextReviewAt)
	require.NotNil(t, second.Queued)
	assert.Equal(t, 1, second.Queued.ReviewStage)

	// only the first call counts toward daily activity
	assert.Len(t, f.recorder.calls, 1)
}

func TestCorrectReviewAdvancesOneStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)

	f.clock.advanceDays(1)
	now := f.clock.now
	result, err := f.engine.Review(ctx, learner, "w1", true)
	require.NoError(t, err)

	assert.Equal(t, models.StatusReviewing, result.Progress.Status)
	assert.Equal(t, 1, result.Progress.CorrectCount)
	assert.Equal(t, 0, result.Progress.WrongCount)
	require.NotNil(t, result.Queued)
	assert.Equal(t, 2, result.Queued.ReviewStage)
	assert.Equal(t, now.AddDate(0, 0, 2), result.Queued.ScheduledFor)
	require.NotNil(t, result.Progress.NextReviewAt)
	assert.Equal(t, now.AddDate(0, 0, 2), *result.Progress.NextReviewAt)

	require.Len(t, f.recorder.calls, 2)
	assert.Equal(t, recordedActivity{learner, 0, 1}, f.recorder.calls[1])
}

func TestWrongReviewResetsToStageOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)
	_, err = f.engine.Review(ctx, learner, "w1", true)
	require.NoError(t, err)
	_, err = f.engine.Review(ctx, learner, "w1", true)
	require.NoError(t, err)

	f.clock.advanceDays(4)
	now := f.clock.now
	result, err := f.engine.Review(ctx, learner, "w1", false)
	require.NoError(t, err)

	assert.Equal(t, models.StatusLearning, result.Progress.Status)
	assert.Equal(t, 2, result.Progress.CorrectCount)
	assert.Equal(t, 1, result.Progress.WrongCount)
	require.NotNil(t, result.Queued)
	assert.Equal(t, 1, result.Queued.ReviewStage)
	assert.Equal(t, now.AddDate(0, 0, 1), result.Queued.ScheduledFor)
}

func TestClearingLastStageMastersTheWord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)

	// stages 1 -> 2 -> 3 -> 4, still in the queue
	for i := 0; i < 3; i++ {
		result, err := f.engine.Review(ctx, learner, "w1", true)
		require.NoError(t, err)
		assert.Equal(t, models.StatusReviewing, result.Progress.Status)
		require.NotNil(t, result.Queued)
	}

	// clearing the top stage masters the word
	result, err := f.engine.Review(ctx, learner, "w1", true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusMastered, result.Progress.Status)
	assert.Nil(t, result.Progress.NextReviewAt)
	assert.Nil(t, result.Queued)
	assert.Equal(t, 4, result.Progress.CorrectCount)

	due, err := f.engine.WordsToReview(ctx, learner, f.clock.now.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, due, "mastered words never come back into the queue")
}

func TestLearnMasteredWordReturnsUnscheduledRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err = f.engine.Review(ctx, learner, "w1", true)
		require.NoError(t, err)
	}

	result, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.StatusMastered, result.Progress.Status)
	assert.Nil(t, result.Progress.NextReviewAt, "mastered words carry no schedule")
	assert.Nil(t, result.Queued)
}

func TestReviewUnknownWordIsSilentNoOp(t *testing.T) {
	f := newFixture(t)

	result, err := f.engine.Review(context.Background(), learner, "ghost", true)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, f.recorder.calls)
}

func TestReviewMasteredWordLeavesItUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err = f.engine.Review(ctx, learner, "w1", true)
		require.NoError(t, err)
	}
	recorded := len(f.recorder.calls)

	result, err := f.engine.Review(ctx, learner, "w1", false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusMastered, result.Progress.Status)
	assert.Equal(t, 0, result.Progress.WrongCount)
	assert.Nil(t, result.Progress.NextReviewAt)
	assert.Nil(t, result.Queued)
	assert.Len(t, f.recorder.calls, recorded)
}

func TestCorruptStatusIsReportedNotCoerced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.progress.Upsert(ctx, &models.WordProgress{
		LearnerID: learner,
		WordID:    "w1",
		Status:    "banana",
	}))

	_, err := f.engine.Review(ctx, learner, "w1", true)
	require.ErrorIs(t, err, ErrCorruptStatus)

	_, err = f.engine.Learn(ctx, learner, "w1")
	require.ErrorIs(t, err, ErrCorruptStatus)
}

func TestReviewWithMissingQueueEntryDefaultsToStageOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)
	require.NoError(t, f.queue.Remove(ctx, learner, "w1"))

	result, err := f.engine.Review(ctx, learner, "w1", true)
	require.NoError(t, err)
	require.NotNil(t, result.Queued)
	assert.Equal(t, 2, result.Queued.ReviewStage)
}

func TestWordsToReviewFiltersByDueTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t0 := f.clock.now

	_, err := f.engine.Learn(ctx, learner, "due-first") // due t0+1d
	require.NoError(t, err)

	_, err = f.engine.Learn(ctx, learner, "due-later") // due t0+1d, then pushed out
	require.NoError(t, err)
	f.clock.advanceDays(1)
	_, err = f.engine.Review(ctx, learner, "due-later", true) // due t0+1d+2d
	require.NoError(t, err)

	_, err = f.engine.Learn(ctx, int64(99), "other-learner")
	require.NoError(t, err)

	due, err := f.engine.WordsToReview(ctx, learner, t0.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "due-first", due[0].WordID)

	due, err = f.engine.WordsToReview(ctx, learner, t0.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "due-first", due[0].WordID, "most overdue first")
	assert.Equal(t, "due-later", due[1].WordID)
}

func TestProgressForReturnsNilForUntouchedWord(t *testing.T) {
	f := newFixture(t)

	p, err := f.engine.ProgressFor(context.Background(), learner, "w1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

// Walks the full schedule from the interval table [1,2,4,7,15]: advance,
// advance, fail back to the start, then climb all the way to mastered.
func TestFullScheduleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t0 := f.clock.now

	result, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusLearning, result.Progress.Status)
	assert.Equal(t, t0.AddDate(0, 0, 1), *result.Progress.NextReviewAt)

	f.clock.advanceDays(1) // t0+1d
	result, err = f.engine.Review(ctx, learner, "w1", true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewing, result.Progress.Status)
	assert.Equal(t, 2, result.Queued.ReviewStage)
	assert.Equal(t, t0.AddDate(0, 0, 1+2), result.Queued.ScheduledFor)

	f.clock.advanceDays(2) // t0+3d
	result, err = f.engine.Review(ctx, learner, "w1", true)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Queued.ReviewStage)
	assert.Equal(t, t0.AddDate(0, 0, 3+4), result.Queued.ScheduledFor)

	f.clock.advanceDays(4) // t0+7d
	failedAt := f.clock.now
	result, err = f.engine.Review(ctx, learner, "w1", false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLearning, result.Progress.Status)
	assert.Equal(t, 1, result.Queued.ReviewStage)
	assert.Equal(t, failedAt.AddDate(0, 0, 1), result.Queued.ScheduledFor)

	// from a fresh stage-1 word, consecutive correct answers master it
	reviews := 0
	for {
		f.clock.advanceDays(1)
		result, err = f.engine.Review(ctx, learner, "w1", true)
		require.NoError(t, err)
		reviews++
		if result.Progress.Status == models.StatusMastered {
			break
		}
		require.Less(t, reviews, 10, "schedule must terminate")
	}
	assert.Equal(t, 4, reviews, "stage 1 climbs the five-entry table in four correct reviews")
	assert.Nil(t, result.Progress.NextReviewAt)
	assert.Nil(t, result.Queued)
}

func TestCountersAreMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)

	correct, wrong := 0, 0
	outcomes := []bool{true, false, false, true, true, false, true}
	for _, ok := range outcomes {
		result, err := f.engine.Review(ctx, learner, "w1", ok)
		require.NoError(t, err)
		if ok {
			correct++
		} else {
			wrong++
		}
		assert.Equal(t, correct, result.Progress.CorrectCount)
		assert.Equal(t, wrong, result.Progress.WrongCount)
	}
}

func TestConcurrentReviewsOfOneWordStaySerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Learn(ctx, learner, "w1")
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, err := f.engine.Review(ctx, learner, "w1", false)
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < 20; i++ {
		<-done
	}

	p, err := f.engine.ProgressFor(ctx, learner, "w1")
	require.NoError(t, err)
	assert.Equal(t, 20, p.WrongCount)

	item, err := f.queue.GetByWord(ctx, learner, "w1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 1, item.ReviewStage)
}
