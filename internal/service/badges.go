package service

import (
	"time"

	"alcyxob/workout-coach/internal/domain"
)

const (
	setsBadgeThreshold = 100
	streakBadgeDays    = 7
)

type workoutCountBadge struct {
	count int
	badge domain.Badge
}

var workoutCountBadges = []workoutCountBadge{
	{1, domain.Badge{Code: "first_workout", Name: "First workout", Description: "Finished your first workout."}},
	{10, domain.Badge{Code: "workouts_10", Name: "Ten workouts", Description: "Finished 10 workouts."}},
	{50, domain.Badge{Code: "workouts_50", Name: "Fifty workouts", Description: "Finished 50 workouts."}},
}

var (
	setsBadge   = domain.Badge{Code: "sets_100", Name: "Hundred sets", Description: "Logged 100 sets."}
	streakBadge = domain.Badge{Code: "streak_7", Name: "Seven day streak", Description: "Worked out on 7 days in a row."}
)

// computeBadges derives earned badges from history and performance, both
// sorted oldest first. EarnedAt is when the threshold was first crossed.
func computeBadges(history []domain.WorkoutHistory, performance []domain.WorkoutPerformance) []domain.Badge {
	badges := []domain.Badge{}

	for _, b := range workoutCountBadges {
		if len(history) >= b.count {
			earned := b.badge
			earned.EarnedAt = history[b.count-1].CompletedAt
			badges = append(badges, earned)
		}
	}

	total := 0
	for _, p := range performance {
		total += p.SetsCompleted
		if total >= setsBadgeThreshold {
			earned := setsBadge
			earned.EarnedAt = p.RecordedAt
			badges = append(badges, earned)
			break
		}
	}

	if at, ok := streakReached(history, streakBadgeDays); ok {
		earned := streakBadge
		earned.EarnedAt = at
		badges = append(badges, earned)
	}
	return badges
}

// streakReached finds the first workout that completes a run of n consecutive
// UTC calendar days with at least one workout each.
func streakReached(history []domain.WorkoutHistory, n int) (time.Time, bool) {
	run := 0
	var lastDay time.Time
	for _, h := range history {
		day := h.CompletedAt.UTC().Truncate(24 * time.Hour)
		switch {
		case run > 0 && day.Equal(lastDay):
			continue
		case run > 0 && day.Equal(lastDay.AddDate(0, 0, 1)):
			run++
		default:
			run = 1
		}
		lastDay = day
		if run >= n {
			return h.CompletedAt, true
		}
	}
	return time.Time{}, false
}
