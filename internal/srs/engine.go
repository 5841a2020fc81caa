package srs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/vocabtrainer/pkg/models"
)

// ErrCorruptStatus is returned when a persisted progress record carries a
// mastery status outside the defined set. This indicates the store (or a
// prior version) wrote malformed state; it is never coerced silently.
var ErrCorruptStatus = fmt.Errorf("corrupt mastery status")

// Clock supplies the current time. Injected so transitions are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Repository persists word progress records. Get returns (nil, nil) when no
// record exists for the pair.
type Repository interface {
	Get(ctx context.Context, learnerID int64, wordID string) (*models.WordProgress, error)
	ListByLearner(ctx context.Context, learnerID int64) ([]models.WordProgress, error)
	Upsert(ctx context.Context, progress *models.WordProgress) error
}

// QueueRepository maintains the pending review queue. GetByWord returns
// (nil, nil) when the word has no pending entry.
type QueueRepository interface {
	GetByWord(ctx context.Context, learnerID int64, wordID string) (*models.ReviewItem, error)
	Due(ctx context.Context, learnerID int64, now time.Time) ([]models.ReviewItem, error)
	Replace(ctx context.Context, item *models.ReviewItem) error
	Remove(ctx context.Context, learnerID int64, wordID string) error
}

// ActivityRecorder receives learn/review event counts for daily statistics.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, learnerID int64, learned, reviewed, studyTime int) error
}

// Result is the outcome of a learn or review operation: the progress record
// after the transition and the word's pending queue entry. Queued is nil
// when the word has no pending review (mastered, or the operation was a
// no-op on an unknown word).
type Result struct {
	Progress *models.WordProgress
	Queued   *models.ReviewItem
}

// Engine is the spaced-repetition state machine. It is the sole writer of
// progress records and queue entries. The engine trusts the injected clock:
// if Now runs backwards relative to stored timestamps it still proceeds
// deterministically with the supplied time.
type Engine struct {
	intervals Intervals
	progress  Repository
	queue     QueueRepository
	activity  ActivityRecorder
	clock     Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an engine over the given collaborators. A nil intervals
// table falls back to DefaultIntervals.
func NewEngine(intervals Intervals, progress Repository, queue QueueRepository, activity ActivityRecorder, clock Clock) *Engine {
	if len(intervals) == 0 {
		intervals = DefaultIntervals()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		intervals: intervals,
		progress:  progress,
		queue:     queue,
		activity:  activity,
		clock:     clock,
	}
}

// Learn marks a word as learned for the first time. If the word already has
// progress beyond "new" the call is a no-op and returns the unchanged
// record, so repeated "mark as learned" clicks never double-count.
func (e *Engine) Learn(ctx context.Context, learnerID int64, wordID string) (*Result, error) {
	unlock := e.lockWord(learnerID, wordID)
	defer unlock()

	existing, err := e.progress.Get(ctx, learnerID, wordID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	if existing != nil && !existing.Status.Valid() {
		return nil, fmt.Errorf("%w: %q for learner %d word %s", ErrCorruptStatus, existing.Status, learnerID, wordID)
	}
	if existing != nil && existing.Status != models.StatusNew {
		item, err := e.queue.GetByWord(ctx, learnerID, wordID)
		if err != nil {
			return nil, fmt.Errorf("get queue entry: %w", err)
		}
		return &Result{Progress: existing, Queued: item}, nil
	}

	now := e.clock.Now()
	next := e.intervals.ScheduleFor(now, 1)
	progress := &models.WordProgress{
		LearnerID:      learnerID,
		WordID:         wordID,
		Status:         models.StatusLearning,
		CorrectCount:   0,
		WrongCount:     0,
		LastReviewedAt: now,
		NextReviewAt:   &next,
		LearnedAt:      now,
	}
	if err := e.progress.Upsert(ctx, progress); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	item := &models.ReviewItem{
		LearnerID:    learnerID,
		WordID:       wordID,
		ScheduledFor: next,
		ReviewStage:  1,
	}
	if err := e.queue.Replace(ctx, item); err != nil {
		return nil, fmt.Errorf("queue word for review: %w", err)
	}

	if err := e.activity.RecordActivity(ctx, learnerID, 1, 0, 0); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}
	return &Result{Progress: progress, Queued: item}, nil
}

// Review applies a review outcome. A correct answer advances the word one
// stage; clearing the last stage masters it and removes it from the queue.
// A wrong answer restarts the schedule from stage 1. Reviewing a word with
// no progress record is a silent no-op returning (nil, nil): stale UI
// state, not corruption. Mastered words are terminal and left untouched.
func (e *Engine) Review(ctx context.Context, learnerID int64, wordID string, correct bool) (*Result, error) {
	unlock := e.lockWord(learnerID, wordID)
	defer unlock()

	progress, err := e.progress.Get(ctx, learnerID, wordID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	if progress == nil {
		return nil, nil
	}
	if !progress.Status.Valid() {
		return nil, fmt.Errorf("%w: %q for learner %d word %s", ErrCorruptStatus, progress.Status, learnerID, wordID)
	}
	if progress.Status == models.StatusMastered {
		return &Result{Progress: progress}, nil
	}

	item, err := e.queue.GetByWord(ctx, learnerID, wordID)
	if err != nil {
		return nil, fmt.Errorf("get queue entry: %w", err)
	}
	currentStage := 1
	if item != nil {
		currentStage = item.ReviewStage
	}

	now := e.clock.Now()
	var queued *models.ReviewItem

	if correct {
		progress.CorrectCount++
		newStage := currentStage + 1
		if newStage > e.intervals.Stages() {
			newStage = e.intervals.Stages()
		}
		if newStage >= e.intervals.Stages() {
			progress.Status = models.StatusMastered
			progress.NextReviewAt = nil
			if err := e.queue.Remove(ctx, learnerID, wordID); err != nil {
				return nil, fmt.Errorf("remove queue entry: %w", err)
			}
		} else {
			next := e.intervals.ScheduleFor(now, newStage)
			progress.Status = models.StatusReviewing
			progress.NextReviewAt = &next
			queued = &models.ReviewItem{
				LearnerID:    learnerID,
				WordID:       wordID,
				ScheduledFor: next,
				ReviewStage:  newStage,
			}
		}
	} else {
		progress.WrongCount++
		next := e.intervals.ScheduleFor(now, 1)
		progress.Status = models.StatusLearning
		progress.NextReviewAt = &next
		queued = &models.ReviewItem{
			LearnerID:    learnerID,
			WordID:       wordID,
			ScheduledFor: next,
			ReviewStage:  1,
		}
	}
	progress.LastReviewedAt = now

	if err := e.progress.Upsert(ctx, progress); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	if queued != nil {
		if err := e.queue.Replace(ctx, queued); err != nil {
			return nil, fmt.Errorf("update queue entry: %w", err)
		}
	}

	if err := e.activity.RecordActivity(ctx, learnerID, 0, 1, 0); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}
	return &Result{Progress: progress, Queued: queued}, nil
}

// WordsToReview returns every queue entry due at the given time, most
// overdue first. Pure read; the queue is only mutated through Learn and
// Review. Complexity is a single indexed range query over the learner's
// queue.
func (e *Engine) WordsToReview(ctx context.Context, learnerID int64, now time.Time) ([]models.ReviewItem, error) {
	return e.queue.Due(ctx, learnerID, now)
}

// ProgressFor returns the learner's progress for a word, or (nil, nil) if
// the word has never been touched.
func (e *Engine) ProgressFor(ctx context.Context, learnerID int64, wordID string) (*models.WordProgress, error) {
	return e.progress.Get(ctx, learnerID, wordID)
}

// lockWord serializes operations on a single (learner, word) pair.
// Operations on different words proceed in parallel. The lock map grows
// with the number of distinct pairs touched and is never reaped; each
// entry is one mutex, so even a full vocabulary across many learners
// stays within a few MB for the lifetime of the process.
func (e *Engine) lockWord(learnerID int64, wordID string) func() {
	key := fmt.Sprintf("%d/%s", learnerID, wordID)
	e.mu.Lock()
	if e.locks == nil {
		e.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	e.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}
