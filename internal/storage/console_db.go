package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ViewPreference represents the stored settings of one console view
type ViewPreference struct {
	gorm.Model
	View           string `gorm:"column:view_name;uniqueIndex;size:64"`
	RefreshMinutes int
	PageSize       int
}

// SubmissionRecord represents one journaled action submission
type SubmissionRecord struct {
	gorm.Model
	View        string    `gorm:"column:view_name;index;size:64" json:"view"`
	Action      string    `gorm:"size:64" json:"action"`
	Target      string    `json:"target"`
	TaskID      string    `gorm:"index;size:128" json:"task_id,omitempty"`
	Message     string    `json:"message,omitempty"`
	Error       string    `json:"error,omitempty"`
	Success     bool      `json:"success"`
	SubmittedAt time.Time `gorm:"index" json:"submitted_at"`
}

// ConsoleDB provides GORM-based persistent storage for view preferences
// and the submission journal
type ConsoleDB struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewConsoleDB migrates the schema and returns the store
func NewConsoleDB(db *gorm.DB, logger *logrus.Logger) (*ConsoleDB, error) {
	if err := db.AutoMigrate(&ViewPreference{}, &SubmissionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return &ConsoleDB{
		db:     db,
		logger: logger,
	}, nil
}

// GetPreference returns the stored preference of view, or nil if none was saved
func (s *ConsoleDB) GetPreference(ctx context.Context, view string) (*ViewPreference, error) {
	var pref ViewPreference
	result := s.db.WithContext(ctx).Where("view_name = ?", view).First(&pref)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query preference: %w", result.Error)
	}
	return &pref, nil
}

// SavePreference creates or updates the preference of pref.View. Zero
// fields leave the stored value unchanged.
func (s *ConsoleDB) SavePreference(ctx context.Context, pref ViewPreference) error {
	updates := map[string]interface{}{}
	if pref.RefreshMinutes > 0 {
		updates["refresh_minutes"] = pref.RefreshMinutes
	}
	if pref.PageSize > 0 {
		updates["page_size"] = pref.PageSize
	}

	record := ViewPreference{View: pref.View}
	result := s.db.WithContext(ctx).Where("view_name = ?", pref.View).Assign(updates).FirstOrCreate(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to store preference: %w", result.Error)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"view":            pref.View,
			"refresh_minutes": record.RefreshMinutes,
			"page_size":       record.PageSize,
		}).Debug("Stored view preference")
	}
	return nil
}

// AddSubmission appends a record to the journal
func (s *ConsoleDB) AddSubmission(ctx context.Context, rec *SubmissionRecord) error {
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

// ListSubmissions returns the most recent journal records, newest first.
// An empty view matches every view.
func (s *ConsoleDB) ListSubmissions(ctx context.Context, view string, limit int) ([]SubmissionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	q := s.db.WithContext(ctx).Order("submitted_at DESC").Order("id DESC").Limit(limit)
	if view != "" {
		q = q.Where("view_name = ?", view)
	}

	var records []SubmissionRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	return records, nil
}
