package engine

import (
	"testing"

	"github.com/hearthside/carepath-backend/internal/domain/program"
)

func allDays(perDay func(day int) DayStanding) []DayStanding {
	standings := make([]DayStanding, 0, program.DayCount)
	for day := program.FirstDay; day <= program.LastDay; day++ {
		standings = append(standings, perDay(day))
	}
	return standings
}

func TestAggregateFixedDivisor(t *testing.T) {
	// Day 0 at 100%, everything else untouched: round(100/8) = 13.
	standings := allDays(func(day int) DayStanding {
		s := DayStanding{Day: day, Unlocked: day == 0}
		if day == 0 {
			s.Progress = DayProgress{Percentage: 100, TasksCompleted: true, TestCompleted: true, VideoCompleted: true, DayCompleted: true}
		}
		return s
	})

	summary := Aggregate(standings)
	if summary.OverallProgress != 13 {
		t.Fatalf("OverallProgress = %d, want 13", summary.OverallProgress)
	}
}

func TestAggregateReaches100OnlyWhenAllDaysDone(t *testing.T) {
	partial := allDays(func(day int) DayStanding {
		s := DayStanding{Day: day, Unlocked: true}
		if day < program.LastDay {
			s.Progress = DayProgress{Percentage: 100, DayCompleted: true, TasksCompleted: true, TestCompleted: true}
		}
		return s
	})
	if got := Aggregate(partial).OverallProgress; got >= 100 {
		t.Fatalf("OverallProgress = %d with an incomplete day, want < 100", got)
	}

	full := allDays(func(day int) DayStanding {
		return DayStanding{
			Day: day, Unlocked: true,
			Progress: DayProgress{Percentage: 100, DayCompleted: true, TasksCompleted: true, TestCompleted: true},
		}
	})
	if got := Aggregate(full).OverallProgress; got != 100 {
		t.Fatalf("OverallProgress = %d with all days done, want 100", got)
	}
}

func TestAggregateCurrentDaySelection(t *testing.T) {
	// New caregiver: Day 0 open, default there.
	fresh := allDays(func(day int) DayStanding {
		return DayStanding{Day: day, Unlocked: day == 0}
	})
	if got := Aggregate(fresh).CurrentDay; got != 0 {
		t.Fatalf("fresh caregiver CurrentDay = %d, want 0", got)
	}

	// Day 0 done, days 1-2 unlocked, day 1 done: current is day 2.
	mid := allDays(func(day int) DayStanding {
		s := DayStanding{Day: day, Unlocked: day <= 2}
		if day <= 1 {
			s.Progress = DayProgress{Percentage: 100, DayCompleted: true, TasksCompleted: true, TestCompleted: true}
		}
		return s
	})
	if got := Aggregate(mid).CurrentDay; got != 2 {
		t.Fatalf("mid-program CurrentDay = %d, want 2", got)
	}

	// All unlocked days complete, rest locked: settle on highest done day.
	capped := allDays(func(day int) DayStanding {
		s := DayStanding{Day: day, Unlocked: day <= 3}
		if day <= 3 {
			s.Progress = DayProgress{Percentage: 100, DayCompleted: true, TasksCompleted: true, TestCompleted: true}
		}
		return s
	})
	if got := Aggregate(capped).CurrentDay; got != 3 {
		t.Fatalf("capped CurrentDay = %d, want 3", got)
	}
}

func TestAggregateMonotonicOverallProgress(t *testing.T) {
	// Recording any new completion never decreases the overall percentage.
	base := allDays(func(day int) DayStanding {
		return DayStanding{Day: day, Unlocked: day <= 1}
	})
	prev := Aggregate(base).OverallProgress

	for day := program.FirstDay; day <= program.LastDay; day++ {
		base[day].Progress.Percentage = 100
		base[day].Progress.DayCompleted = true
		got := Aggregate(base).OverallProgress
		if got < prev {
			t.Fatalf("overall progress regressed from %d to %d after completing day %d", prev, got, day)
		}
		prev = got
	}
}
