package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/kcalbot/internal/store"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the
// duration until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// BuildDailyDigest renders yesterday's per-user totals relative to now.
// Returns an empty string when nobody recorded anything, which suppresses
// the post.
func BuildDailyDigest(s *store.Store, now time.Time) (string, error) {
	day := store.DayString(now.AddDate(0, 0, -1))
	users, err := s.UsersWithEntries(day)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", nil
	}

	lines := []string{fmt.Sprintf("Daily digest (%s):", day)}
	for _, u := range users {
		total, err := s.TotalFor(u, day)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("%s: %.1f kcal", u, total))
	}
	return strings.Join(lines, "\n"), nil
}
