package store

import (
	"errors"
	"testing"
	"time"

	"github.com/zulandar/kcalbot/internal/db"
	"github.com/zulandar/kcalbot/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(gdb)
}

func TestRecordWeightEntry_ComputesKcal(t *testing.T) {
	s := openTestStore(t)

	kcal, err := s.RecordWeightEntry("u1", "2024-02-20", "Banana", 120, 89)
	if err != nil {
		t.Fatalf("record weight entry: %v", err)
	}
	want := 120 * 89.0 / 100
	if kcal != want {
		t.Errorf("kcal = %g, want %g", kcal, want)
	}

	total, err := s.TotalFor("u1", "2024-02-20")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != want {
		t.Errorf("total = %g, want %g", total, want)
	}
}

func TestRecordWeightEntry_Validation(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		name       string
		entryName  string
		grams      float64
		kcalPer100 float64
	}{
		{"empty name", "", 120, 89},
		{"whitespace name", "   ", 120, 89},
		{"zero grams", "Banana", 0, 89},
		{"negative grams", "Banana", -5, 89},
		{"negative kcal per 100", "Banana", 120, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RecordWeightEntry("u1", "2024-02-20", tt.entryName, tt.grams, tt.kcalPer100)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	// Nothing was written.
	entries, err := s.ListFor("u1", "2024-02-20")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0 after rejected writes", len(entries))
	}
}

func TestRecordWeightEntry_ZeroKcalPer100Allowed(t *testing.T) {
	s := openTestStore(t)

	kcal, err := s.RecordWeightEntry("u1", "2024-02-20", "Water", 500, 0)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if kcal != 0 {
		t.Errorf("kcal = %g, want 0", kcal)
	}
}

func TestRecordDirectEntry_StoresValueUnchanged(t *testing.T) {
	s := openTestStore(t)

	kcal, err := s.RecordDirectEntry("u1", "2024-02-20", "Protein bar", 21.5)
	if err != nil {
		t.Fatalf("record direct entry: %v", err)
	}
	if kcal != 21.5 {
		t.Errorf("kcal = %g, want 21.5", kcal)
	}

	entries, err := s.ListFor("u1", "2024-02-20")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Mode != models.ModeDirect {
		t.Errorf("mode = %q, want %q", e.Mode, models.ModeDirect)
	}
	if e.Grams != nil || e.KcalPer100 != nil {
		t.Error("direct entry should leave grams and kcal_per100 NULL")
	}
	if e.Kcal != 21.5 {
		t.Errorf("kcal = %g, want 21.5", e.Kcal)
	}
}

func TestRecordDirectEntry_Validation(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.RecordDirectEntry("u1", "2024-02-20", "", 100); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name: err = %v, want ErrValidation", err)
	}
	if _, err := s.RecordDirectEntry("u1", "2024-02-20", "Bar", -1); !errors.Is(err, ErrValidation) {
		t.Errorf("negative kcal: err = %v, want ErrValidation", err)
	}
}

func TestTotalFor_EmptyDayIsZero(t *testing.T) {
	s := openTestStore(t)

	total, err := s.TotalFor("u1", "2024-02-20")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %g, want 0 for empty day", total)
	}
}

func TestTotalFor_SumsOnlyMatchingUserAndDay(t *testing.T) {
	s := openTestStore(t)

	s.RecordDirectEntry("u1", "2024-02-20", "A", 100)
	s.RecordDirectEntry("u1", "2024-02-20", "B", 50)
	s.RecordDirectEntry("u1", "2024-02-21", "C", 999)
	s.RecordDirectEntry("u2", "2024-02-20", "D", 777)

	total, err := s.TotalFor("u1", "2024-02-20")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 150 {
		t.Errorf("total = %g, want 150", total)
	}
}

func TestListFor_CreationOrder(t *testing.T) {
	s := openTestStore(t)

	names := []string{"First", "Second", "Third"}
	for _, n := range names {
		if _, err := s.RecordDirectEntry("u1", "2024-02-20", n, 10); err != nil {
			t.Fatalf("record %s: %v", n, err)
		}
	}

	entries, err := s.ListFor("u1", "2024-02-20")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != len(names) {
		t.Fatalf("entries = %d, want %d", len(entries), len(names))
	}
	for i, e := range entries {
		if e.Name != names[i] {
			t.Errorf("entries[%d].Name = %q, want %q", i, e.Name, names[i])
		}
	}
}

func TestListFor_EmptyDay(t *testing.T) {
	s := openTestStore(t)

	entries, err := s.ListFor("u1", "2024-02-20")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

func TestClearDay_RemovesOnlyThatUserDay(t *testing.T) {
	s := openTestStore(t)

	s.RecordDirectEntry("u1", "2024-02-20", "A", 100)
	s.RecordDirectEntry("u1", "2024-02-21", "B", 50)
	s.RecordDirectEntry("u2", "2024-02-20", "C", 75)

	if err := s.ClearDay("u1", "2024-02-20"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if total, _ := s.TotalFor("u1", "2024-02-20"); total != 0 {
		t.Errorf("cleared day total = %g, want 0", total)
	}
	if total, _ := s.TotalFor("u1", "2024-02-21"); total != 50 {
		t.Errorf("other day total = %g, want 50", total)
	}
	if total, _ := s.TotalFor("u2", "2024-02-20"); total != 75 {
		t.Errorf("other user total = %g, want 75", total)
	}
}

func TestClearDay_Idempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.ClearDay("u1", "2024-02-20"); err != nil {
		t.Fatalf("clear empty day: %v", err)
	}
	if err := s.ClearDay("u1", "2024-02-20"); err != nil {
		t.Fatalf("clear again: %v", err)
	}
}

func TestTotalOverRange_SumOfIndependentDays(t *testing.T) {
	s := openTestStore(t)

	s.RecordDirectEntry("u1", "2024-02-18", "A", 100)
	s.RecordDirectEntry("u1", "2024-02-20", "B", 50)

	days := []string{"2024-02-18", "2024-02-19", "2024-02-20"}
	total, err := s.TotalOverRange("u1", days)
	if err != nil {
		t.Fatalf("total over range: %v", err)
	}
	if total != 150 {
		t.Errorf("total = %g, want 150 (empty day contributes 0)", total)
	}
}

func TestUsersWithEntries(t *testing.T) {
	s := openTestStore(t)

	s.RecordDirectEntry("u2", "2024-02-20", "A", 100)
	s.RecordDirectEntry("u1", "2024-02-20", "B", 50)
	s.RecordDirectEntry("u1", "2024-02-20", "C", 25)
	s.RecordDirectEntry("u3", "2024-02-21", "D", 10)

	users, err := s.UsersWithEntries("2024-02-20")
	if err != nil {
		t.Fatalf("users with entries: %v", err)
	}
	want := []string{"u1", "u2"}
	if len(users) != len(want) {
		t.Fatalf("users = %v, want %v", users, want)
	}
	for i := range want {
		if users[i] != want[i] {
			t.Errorf("users[%d] = %q, want %q", i, users[i], want[i])
		}
	}
}

func TestDayString(t *testing.T) {
	ts := time.Date(2024, 2, 20, 23, 59, 0, 0, time.UTC)
	if got := DayString(ts); got != "2024-02-20" {
		t.Errorf("DayString = %q, want 2024-02-20", got)
	}
}

func TestLastNDays_OldestFirst(t *testing.T) {
	now := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	days := LastNDays(7, now)

	want := []string{
		"2024-02-25", "2024-02-26", "2024-02-27", "2024-02-28",
		"2024-02-29", "2024-03-01", "2024-03-02",
	}
	if len(days) != len(want) {
		t.Fatalf("days = %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %q, want %q", i, days[i], want[i])
		}
	}
}
