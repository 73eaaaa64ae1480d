// Package store persists the console's small local state: the session
// triple and at most one in-progress public request draft. It is the
// terminal analog of the browser's localStorage, backed by a
// single-file sqlite database.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ktrn/internal/models"
)

// Store wraps the local state database.
type Store struct {
	db *gorm.DB
}

// sessionRow is the single persisted session record. ID is always 1.
type sessionRow struct {
	ID     uint `gorm:"primaryKey"`
	Token  string
	Role   string
	UserID uint
}

func (sessionRow) TableName() string { return "session" }

// draftRow is the single persisted public request draft. ID is always 1.
type draftRow struct {
	ID            uint `gorm:"primaryKey"`
	Name          string
	Email         string
	Phone         string
	PartnerName   string
	SiteID        uint
	Reason        string
	RequestedTime string
}

func (draftRow) TableName() string { return "request_draft" }

// Open opens or creates the state database at path and migrates its
// schema. Parent directories are created as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	if err := db.AutoMigrate(&sessionRow{}, &draftRow{}); err != nil {
		return nil, fmt.Errorf("migrating state schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSession writes the session triple, replacing any previous one.
func (s *Store) SaveSession(sess models.Session) error {
	row := sessionRow{
		ID:     1,
		Token:  sess.Token,
		Role:   string(sess.Role),
		UserID: sess.UserID,
	}
	return s.db.Save(&row).Error
}

// LoadSession returns the stored session, or nil when none is stored.
func (s *Store) LoadSession() (*models.Session, error) {
	var row sessionRow
	err := s.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.Session{
		Token:  row.Token,
		Role:   models.ParseRole(row.Role),
		UserID: row.UserID,
	}, nil
}

// ClearSession removes the stored session.
func (s *Store) ClearSession() error {
	return s.db.Delete(&sessionRow{}, 1).Error
}

// SaveDraft persists the in-progress public request form.
func (s *Store) SaveDraft(d models.RequestDraft) error {
	row := draftRow{
		ID:            1,
		Name:          d.Name,
		Email:         d.Email,
		Phone:         d.Phone,
		PartnerName:   d.PartnerName,
		SiteID:        d.SiteID,
		Reason:        d.Reason,
		RequestedTime: d.RequestedTime,
	}
	return s.db.Save(&row).Error
}

// LoadDraft returns the stored draft, or nil when none is stored.
func (s *Store) LoadDraft() (*models.RequestDraft, error) {
	var row draftRow
	err := s.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.RequestDraft{
		Name:          row.Name,
		Email:         row.Email,
		Phone:         row.Phone,
		PartnerName:   row.PartnerName,
		SiteID:        row.SiteID,
		Reason:        row.Reason,
		RequestedTime: row.RequestedTime,
	}, nil
}

// ClearDraft removes the stored draft. Called only after the backend
// accepts the submission.
func (s *Store) ClearDraft() error {
	return s.db.Delete(&draftRow{}, 1).Error
}
