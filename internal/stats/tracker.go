package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/vocabtrainer/pkg/models"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DailyRecordRepository persists per-day activity records. GetByDate
// returns (nil, nil) when no record exists for the day.
type DailyRecordRepository interface {
	GetByDate(ctx context.Context, learnerID int64, date string) (*models.DailyRecord, error)
	Range(ctx context.Context, learnerID int64, from, to string) ([]models.DailyRecord, error)
	Upsert(ctx context.Context, record *models.DailyRecord) error
}

// StreakRepository persists streak state. Get returns (nil, nil) for a
// learner with no recorded activity.
type StreakRepository interface {
	Get(ctx context.Context, learnerID int64) (*models.StreakState, error)
	Save(ctx context.Context, state *models.StreakState) error
}

// DayStats is one day of the weekly overview.
type DayStats struct {
	Date     string `json:"date"`
	Learned  int    `json:"learned"`
	Reviewed int    `json:"reviewed"`
}

// Tracker accumulates daily study activity and maintains the consecutive-day
// streak. Calendar days are taken in the configured location, one
// server-assigned zone per deployment, so day-boundary comparisons stay
// consistent between records and streak lookups.
type Tracker struct {
	daily   DailyRecordRepository
	streaks StreakRepository
	clock   Clock
	loc     *time.Location

	mu sync.Mutex
}

// NewTracker creates a tracker. A nil location defaults to UTC.
func NewTracker(daily DailyRecordRepository, streaks StreakRepository, clock Clock, loc *time.Location) *Tracker {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{daily: daily, streaks: streaks, clock: clock, loc: loc}
}

// RecordActivity adds the given counts to today's record, creating it on the
// first activity of the day. The streak is bumped at most once per calendar
// day: continuing from yesterday increments it, any gap resets it to 1.
func (t *Tracker) RecordActivity(ctx context.Context, learnerID int64, learned, reviewed, studyTime int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.today()

	record, err := t.daily.GetByDate(ctx, learnerID, today)
	if err != nil {
		return fmt.Errorf("get daily record: %w", err)
	}
	if record == nil {
		record = &models.DailyRecord{LearnerID: learnerID, Date: today}
	}
	record.WordsLearned += learned
	record.WordsReviewed += reviewed
	record.StudyTime += studyTime
	if err := t.daily.Upsert(ctx, record); err != nil {
		return fmt.Errorf("save daily record: %w", err)
	}

	streak, err := t.streaks.Get(ctx, learnerID)
	if err != nil {
		return fmt.Errorf("get streak: %w", err)
	}
	if streak == nil {
		streak = &models.StreakState{LearnerID: learnerID}
	}
	if streak.LastStudyDate != today {
		if streak.LastStudyDate == t.yesterday() {
			streak.CurrentStreak++
		} else {
			streak.CurrentStreak = 1
		}
		streak.LastStudyDate = today
		if err := t.streaks.Save(ctx, streak); err != nil {
			return fmt.Errorf("save streak: %w", err)
		}
	}
	return nil
}

// WeeklyStats returns exactly 7 entries covering the last 7 calendar days,
// oldest first, today last. Days without a record are zero-filled.
func (t *Tracker) WeeklyStats(ctx context.Context, learnerID int64) ([]DayStats, error) {
	now := t.clock.Now().In(t.loc)
	from := now.AddDate(0, 0, -6).Format(models.DateLayout)
	to := now.Format(models.DateLayout)

	records, err := t.daily.Range(ctx, learnerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get daily records: %w", err)
	}
	byDate := make(map[string]models.DailyRecord, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}

	result := make([]DayStats, 0, 7)
	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(models.DateLayout)
		record := byDate[date]
		result = append(result, DayStats{
			Date:     date,
			Learned:  record.WordsLearned,
			Reviewed: record.WordsReviewed,
		})
	}
	return result, nil
}

// CurrentStreak returns the learner's consecutive-day streak.
func (t *Tracker) CurrentStreak(ctx context.Context, learnerID int64) (int, error) {
	streak, err := t.streaks.Get(ctx, learnerID)
	if err != nil {
		return 0, fmt.Errorf("get streak: %w", err)
	}
	if streak == nil {
		return 0, nil
	}
	return streak.CurrentStreak, nil
}

// TodayRecord returns today's record, or (nil, nil) if the learner has no
// activity yet today.
func (t *Tracker) TodayRecord(ctx context.Context, learnerID int64) (*models.DailyRecord, error) {
	return t.daily.GetByDate(ctx, learnerID, t.today())
}

func (t *Tracker) today() string {
	return t.clock.Now().In(t.loc).Format(models.DateLayout)
}

func (t *Tracker) yesterday() string {
	return t.clock.Now().In(t.loc).AddDate(0, 0, -1).Format(models.DateLayout)
}
