// Package store is the durable append-only log of consumption entries,
// queryable per (user, day) with derived day totals.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/kcalbot/internal/models"
	"gorm.io/gorm"
)

// ErrValidation marks user-input failures: out-of-range values or an empty
// name. Callers recover from it by re-prompting; it never reaches a crash
// path.
var ErrValidation = errors.New("validation failed")

// Store provides entry persistence and aggregates over a GORM database.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// RecordWeightEntry appends one weight-mode entry and returns the computed
// portion kcal (grams * kcalPer100 / 100).
func (s *Store) RecordWeightEntry(userID, day, name string, grams, kcalPer100 float64) (float64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("store: name must not be empty: %w", ErrValidation)
	}
	if grams <= 0 {
		return 0, fmt.Errorf("store: grams must be > 0, got %g: %w", grams, ErrValidation)
	}
	if kcalPer100 < 0 {
		return 0, fmt.Errorf("store: kcal/100g must be >= 0, got %g: %w", kcalPer100, ErrValidation)
	}

	kcal := grams * kcalPer100 / 100
	entry := models.Entry{
		UserID:     userID,
		Day:        day,
		Name:       name,
		Mode:       models.ModeWeight,
		Grams:      &grams,
		KcalPer100: &kcalPer100,
		Kcal:       kcal,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("store: record weight entry: %w", err)
	}
	return kcal, nil
}

// RecordDirectEntry appends one direct-mode entry with a user-supplied kcal
// value. Both weight fields stay NULL.
func (s *Store) RecordDirectEntry(userID, day, name string, kcal float64) (float64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("store: name must not be empty: %w", ErrValidation)
	}
	if kcal < 0 {
		return 0, fmt.Errorf("store: kcal must be >= 0, got %g: %w", kcal, ErrValidation)
	}

	entry := models.Entry{
		UserID: userID,
		Day:    day,
		Name:   name,
		Mode:   models.ModeDirect,
		Kcal:   kcal,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("store: record direct entry: %w", err)
	}
	return kcal, nil
}

// TotalFor returns the kcal sum for one (user, day). A day with no entries
// yields 0, never an error.
func (s *Store) TotalFor(userID, day string) (float64, error) {
	var total float64
	err := s.db.Model(&models.Entry{}).
		Where("user_id = ? AND day = ?", userID, day).
		Select("COALESCE(SUM(kcal), 0)").Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("store: total for %s: %w", day, err)
	}
	return total, nil
}

// TotalOverRange sums TotalFor over each given day independently. Days with
// zero entries contribute exactly 0; the window is defined by calendar
// dates, not elapsed seconds.
func (s *Store) TotalOverRange(userID string, days []string) (float64, error) {
	var sum float64
	for _, day := range days {
		t, err := s.TotalFor(userID, day)
		if err != nil {
			return 0, err
		}
		sum += t
	}
	return sum, nil
}

// ListFor returns the entries for one (user, day) in creation order.
// An empty slice, never an error, when nothing is recorded.
func (s *Store) ListFor(userID, day string) ([]models.Entry, error) {
	var entries []models.Entry
	err := s.db.Where("user_id = ? AND day = ?", userID, day).
		Order("id ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("store: list for %s: %w", day, err)
	}
	return entries, nil
}

// ClearDay deletes all entries for the exact (user, day) pair. Idempotent:
// clearing an empty day succeeds silently.
func (s *Store) ClearDay(userID, day string) error {
	err := s.db.Where("user_id = ? AND day = ?", userID, day).
		Delete(&models.Entry{}).Error
	if err != nil {
		return fmt.Errorf("store: clear %s: %w", day, err)
	}
	return nil
}

// UsersWithEntries returns the distinct user IDs that recorded at least one
// entry on the given day. Used by the daily digest.
func (s *Store) UsersWithEntries(day string) ([]string, error) {
	var users []string
	err := s.db.Model(&models.Entry{}).
		Where("day = ?", day).
		Distinct("user_id").Order("user_id").Pluck("user_id", &users).Error
	if err != nil {
		return nil, fmt.Errorf("store: users with entries on %s: %w", day, err)
	}
	return users, nil
}

// DayString formats a time as the calendar date string used in entry rows.
func DayString(t time.Time) string {
	return t.Format("2006-01-02")
}

// LastNDays returns the trailing n calendar dates ending at now's date,
// oldest first.
func LastNDays(n int, now time.Time) []string {
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, DayString(now.AddDate(0, 0, -i)))
	}
	return days
}
