package service

import (
	"fmt"
	"strings"
	"unicode"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// ModerationService counts flagged words in text before it is published.
// Text at or above the threshold is rejected; every analysis is recorded.
type ModerationService interface {
	Analyze(userID, text string) (*model.ModerationRecord, error)
	CheckText(userID, text string) error
	GetRecordsByUserID(userID string, limit, offset int) ([]*model.ModerationRecord, error)
}

type moderationService struct {
	moderationRepo repository.ModerationRepository
	flags          []string
	threshold      int
}

var defaultFlagWords = []string{"hate", "stupid", "idiot"}

const defaultFlagThreshold = 2

func NewModerationService(moderationRepo repository.ModerationRepository) ModerationService {
	return &moderationService{
		moderationRepo: moderationRepo,
		flags:          defaultFlagWords,
		threshold:      defaultFlagThreshold,
	}
}

// Analyze counts flagged words in text and records the result
func (s *moderationService) Analyze(userID, text string) (*model.ModerationRecord, error) {
	count := s.countFlaggedWords(text)

	record := &model.ModerationRecord{
		UserID:           userID,
		AnalyzedText:     text,
		FlaggedWordCount: count,
		Rejected:         count >= s.threshold,
	}

	if err := s.moderationRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to store moderation record: %w", err)
	}

	return record, nil
}

// CheckText analyzes text and returns ErrContentRejected if it crosses the
// flag threshold.
func (s *moderationService) CheckText(userID, text string) error {
	record, err := s.Analyze(userID, text)
	if err != nil {
		return err
	}
	if record.Rejected {
		return fmt.Errorf("%w: %d flagged words", ErrContentRejected, record.FlaggedWordCount)
	}
	return nil
}

func (s *moderationService) GetRecordsByUserID(userID string, limit, offset int) ([]*model.ModerationRecord, error) {
	return s.moderationRepo.FindByUserID(userID, limit, offset)
}

// countFlaggedWords counts whole-word, case-insensitive occurrences of the
// flag list.
func (s *moderationService) countFlaggedWords(text string) int {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	count := 0
	for _, word := range words {
		for _, flag := range s.flags {
			if word == flag {
				count++
			}
		}
	}
	return count
}
