package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/vocabtrainer/internal/config"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/importer"
	"github.com/example/vocabtrainer/internal/notify"
	"github.com/example/vocabtrainer/internal/plans"
	"github.com/example/vocabtrainer/internal/scheduler"
	"github.com/example/vocabtrainer/internal/srs"
	"github.com/example/vocabtrainer/internal/stats"
	"github.com/example/vocabtrainer/internal/wordbook"
)

func main() {
	importFile := flag.String("import", "", "import vocabulary from an Excel or CSV file and exit")
	learnerID := flag.Int64("learner", 0, "learner ID for one-shot commands")
	learnWord := flag.String("learn", "", "mark a word as learned and exit")
	reviewWord := flag.String("review", "", "submit a review for a word and exit")
	wrong := flag.Bool("wrong", false, "the review answer was wrong (with -review)")
	due := flag.Bool("due", false, "list words due for review and exit")
	weekly := flag.Bool("weekly", false, "print the weekly stats and streak and exit")
	favorite := flag.String("favorite", "", "toggle a word in the favorites book and exit")
	mistakes := flag.Bool("mistakes", false, "list the mistakes book and exit")
	planName := flag.String("plan", "", "create a study plan with this name and exit")
	planGoal := flag.Int("goal", 10, "daily goal for -plan")
	planLevel := flag.String("level", "all", "target level for -plan: junior, senior or all")
	listPlans := flag.Bool("plans", false, "list study plans and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if *importFile != "" {
		importCfg := importer.DefaultConfig()
		importCfg.FilePath = *importFile
		result, err := importer.ImportWords(ctx, database.NewWordRepository(db), importCfg)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import finished: %d processed, %d created, %d updated, %d skipped",
			result.TotalProcessed, result.Created, result.Updated, result.Skipped)
		for _, e := range result.Errors {
			log.Printf("Import error: %s", e)
		}
		return
	}

	progressRepo := database.NewProgressRepository(db)
	queueRepo := database.NewReviewQueueRepository(db)
	tracker := stats.NewTracker(
		database.NewDailyRecordRepository(db),
		database.NewStreakRepository(db),
		stats.SystemClock{},
		cfg.Location,
	)
	engine := srs.NewEngine(cfg.Intervals, progressRepo, queueRepo, tracker, srs.SystemClock{})

	switch {
	case *learnWord != "":
		requireLearner(*learnerID)
		result, err := engine.Learn(ctx, *learnerID, *learnWord)
		if err != nil {
			log.Fatalf("Learn failed: %v", err)
		}
		if result.Progress.NextReviewAt != nil {
			log.Printf("Word %s: status=%s, next review %s",
				*learnWord, result.Progress.Status, result.Progress.NextReviewAt.Format(time.RFC3339))
		} else {
			log.Printf("Word %s: status=%s, no review scheduled", *learnWord, result.Progress.Status)
		}

	case *reviewWord != "":
		requireLearner(*learnerID)
		result, err := engine.Review(ctx, *learnerID, *reviewWord, !*wrong)
		if err != nil {
			log.Fatalf("Review failed: %v", err)
		}
		if result == nil {
			log.Printf("Word %s has no progress record, nothing to review", *reviewWord)
			return
		}
		if result.Queued != nil {
			log.Printf("Word %s: status=%s, stage %d, next review %s",
				*reviewWord, result.Progress.Status, result.Queued.ReviewStage,
				result.Queued.ScheduledFor.Format(time.RFC3339))
		} else {
			log.Printf("Word %s: status=%s", *reviewWord, result.Progress.Status)
		}

	case *due:
		requireLearner(*learnerID)
		items, err := engine.WordsToReview(ctx, *learnerID, time.Now())
		if err != nil {
			log.Fatalf("Failed to list due words: %v", err)
		}
		log.Printf("%d word(s) due for review", len(items))
		for _, item := range items {
			log.Printf("  %s (stage %d, due since %s)",
				item.WordID, item.ReviewStage, item.ScheduledFor.Format(time.RFC3339))
		}

	case *weekly:
		requireLearner(*learnerID)
		days, err := tracker.WeeklyStats(ctx, *learnerID)
		if err != nil {
			log.Fatalf("Failed to get weekly stats: %v", err)
		}
		streak, err := tracker.CurrentStreak(ctx, *learnerID)
		if err != nil {
			log.Fatalf("Failed to get streak: %v", err)
		}
		total, err := progressRepo.LearnedCount(ctx, *learnerID)
		if err != nil {
			log.Fatalf("Failed to count learned words: %v", err)
		}
		for _, day := range days {
			log.Printf("%s: %d learned, %d reviewed", day.Date, day.Learned, day.Reviewed)
		}
		log.Printf("Current streak: %d day(s)", streak)
		log.Printf("Total words learned: %d", total)

	case *favorite != "":
		requireLearner(*learnerID)
		books := wordbook.NewService(database.NewWordbookRepository(db))
		on, err := books.ToggleFavorite(ctx, *learnerID, *favorite)
		if err != nil {
			log.Fatalf("Failed to toggle favorite: %v", err)
		}
		if on {
			log.Printf("Word %s added to favorites", *favorite)
		} else {
			log.Printf("Word %s removed from favorites", *favorite)
		}

	case *mistakes:
		requireLearner(*learnerID)
		books := wordbook.NewService(database.NewWordbookRepository(db))
		entries, err := books.Mistakes(ctx, *learnerID)
		if err != nil {
			log.Fatalf("Failed to list mistakes: %v", err)
		}
		log.Printf("%d word(s) in the mistakes book", len(entries))
		for _, entry := range entries {
			log.Printf("  %s (added %s)", entry.WordID, entry.AddedAt.Format(time.RFC3339))
		}

	case *planName != "":
		requireLearner(*learnerID)
		svc := plans.NewService(database.NewStudyPlanRepository(db), nil)
		plan, err := svc.Create(ctx, *learnerID, *planName, *planGoal, *planLevel)
		if err != nil {
			log.Fatalf("Failed to create study plan: %v", err)
		}
		log.Printf("Created plan %s (%s): %d word(s)/day, level %s",
			plan.ID, plan.Name, plan.DailyGoal, plan.TargetLevel)

	case *listPlans:
		requireLearner(*learnerID)
		svc := plans.NewService(database.NewStudyPlanRepository(db), nil)
		all, err := svc.ListByLearner(ctx, *learnerID)
		if err != nil {
			log.Fatalf("Failed to list study plans: %v", err)
		}
		for _, plan := range all {
			marker := " "
			if plan.IsActive {
				marker = "*"
			}
			log.Printf("%s %s  %s (%s, %d/day)", marker, plan.ID, plan.Name, plan.Status, plan.DailyGoal)
		}

	default:
		runReminderDaemon(cfg, queueRepo)
	}
}

// runReminderDaemon blocks, sending hourly due-review reminders until
// interrupted.
func runReminderDaemon(cfg *config.Config, queueRepo *database.ReviewQueueRepository) {
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create notifier: %v", err)
	}

	s := scheduler.New(queueRepo, notifier, scheduler.Config{
		StartHour: cfg.NotificationStartHour,
		EndHour:   cfg.NotificationEndHour,
		Location:  cfg.Location,
	})
	s.Start()
	log.Println("Reminder scheduler started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	s.Stop()
	log.Println("Scheduler stopped successfully")
}

func requireLearner(learnerID int64) {
	if learnerID == 0 {
		log.Fatal("-learner is required for this command")
	}
}
