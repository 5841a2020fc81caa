// Package wordbook manages a learner's saved word collections: favorites
// and mistakes.
package wordbook

import (
	"context"
	"fmt"

	"github.com/example/vocabtrainer/pkg/models"
)

// Repository persists wordbook entries.
type Repository interface {
	Add(ctx context.Context, entry *models.WordbookEntry) error
	Remove(ctx context.Context, learnerID int64, wordID string, kind models.WordbookKind) error
	Contains(ctx context.Context, learnerID int64, wordID string, kind models.WordbookKind) (bool, error)
	List(ctx context.Context, learnerID int64, kind models.WordbookKind) ([]models.WordbookEntry, error)
}

// Service manages favorites and mistakes.
type Service struct {
	repo Repository
}

// NewService creates a wordbook service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ToggleFavorite adds the word to favorites, or removes it if already
// present. Returns true when the word ends up favorited.
func (s *Service) ToggleFavorite(ctx context.Context, learnerID int64, wordID string) (bool, error) {
	present, err := s.repo.Contains(ctx, learnerID, wordID, models.WordbookFavorite)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	if present {
		if err := s.repo.Remove(ctx, learnerID, wordID, models.WordbookFavorite); err != nil {
			return false, fmt.Errorf("remove favorite: %w", err)
		}
		return false, nil
	}
	entry := &models.WordbookEntry{LearnerID: learnerID, WordID: wordID, Kind: models.WordbookFavorite}
	if err := s.repo.Add(ctx, entry); err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return true, nil
}

// AddMistake records the word in the mistakes book. Idempotent.
func (s *Service) AddMistake(ctx context.Context, learnerID int64, wordID string) error {
	entry := &models.WordbookEntry{LearnerID: learnerID, WordID: wordID, Kind: models.WordbookMistake}
	return s.repo.Add(ctx, entry)
}

// RemoveMistake deletes the word from the mistakes book.
func (s *Service) RemoveMistake(ctx context.Context, learnerID int64, wordID string) error {
	return s.repo.Remove(ctx, learnerID, wordID, models.WordbookMistake)
}

// Favorites returns the learner's favorited words.
func (s *Service) Favorites(ctx context.Context, learnerID int64) ([]models.WordbookEntry, error) {
	return s.repo.List(ctx, learnerID, models.WordbookFavorite)
}

// Mistakes returns the learner's mistake-book words.
func (s *Service) Mistakes(ctx context.Context, learnerID int64) ([]models.WordbookEntry, error) {
	return s.repo.List(ctx, learnerID, models.WordbookMistake)
}
