package engine

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/domain/program"
)

type fakeProvider struct {
	content map[string]*DayContent
	calls   []string
}

func key(day int, level, language string) string {
	return string(rune('0'+day)) + "/" + level + "/" + language
}

func (p *fakeProvider) GetDayContent(_ context.Context, day int, level, language string) (*DayContent, error) {
	p.calls = append(p.calls, key(day, level, language))
	if c, ok := p.content[key(day, level, language)]; ok {
		return c, nil
	}
	return &DayContent{}, nil
}

func TestResolveOrdersAndFiltersReminders(t *testing.T) {
	taskB := makeTask(t, 1, 1, program.KindRating)
	taskA := makeTask(t, 1, 0, program.KindFreeText)
	reminder := makeTask(t, 1, 2, program.KindReminder)

	provider := &fakeProvider{content: map[string]*DayContent{
		key(1, program.LevelSevere, "en"): {
			// Authored out of order on purpose.
			Tasks: []types.TaskDefinition{reminder, taskB, taskA},
		},
	}}
	resolver := NewResolver(provider)

	resolved, err := resolver.Resolve(context.Background(), 1, program.LevelSevere, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved.Tasks) != 2 {
		t.Fatalf("len(Tasks) = %d, want 2 (reminder excluded)", len(resolved.Tasks))
	}
	if resolved.Tasks[0].ID != taskA.ID || resolved.Tasks[1].ID != taskB.ID {
		t.Fatalf("tasks not in authored index order: %v, %v", resolved.Tasks[0].Index, resolved.Tasks[1].Index)
	}
	if len(resolved.Reminders) != 1 || resolved.Reminders[0].ID != reminder.ID {
		t.Fatalf("reminder not split off: %+v", resolved.Reminders)
	}
	if resolved.Level != program.LevelSevere {
		t.Fatalf("resolved level = %q, want %q", resolved.Level, program.LevelSevere)
	}
}

func TestResolveFallsBackToModerate(t *testing.T) {
	task := makeTask(t, 2, 0, program.KindChecklist)
	provider := &fakeProvider{content: map[string]*DayContent{
		key(2, program.LevelModerate, "en"): {Tasks: []types.TaskDefinition{task}},
	}}
	resolver := NewResolver(provider)

	resolved, err := resolver.Resolve(context.Background(), 2, program.LevelSevere, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Level != program.LevelModerate {
		t.Fatalf("resolved level = %q, want fallback %q", resolved.Level, program.LevelModerate)
	}
	if len(resolved.Tasks) != 1 || resolved.Tasks[0].ID != task.ID {
		t.Fatalf("fallback tasks = %+v", resolved.Tasks)
	}
}

func TestResolveKeepsExactVideoThroughFallback(t *testing.T) {
	video := &types.DayVideo{ID: uuid.New(), Day: 3, Language: "en", URL: "https://cdn.example.com/day3.mp4"}
	task := makeTask(t, 3, 0, program.KindFreeText)
	provider := &fakeProvider{content: map[string]*DayContent{
		key(3, program.LevelMild, "en"):     {Video: video},
		key(3, program.LevelModerate, "en"): {Tasks: []types.TaskDefinition{task}},
	}}
	resolver := NewResolver(provider)

	resolved, err := resolver.Resolve(context.Background(), 3, program.LevelMild, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Video == nil || resolved.Video.ID != video.ID {
		t.Fatalf("exact-level video lost through fallback: %+v", resolved.Video)
	}
	if len(resolved.Tasks) != 1 {
		t.Fatalf("fallback tasks = %+v", resolved.Tasks)
	}
}

func TestResolveEntirelyAbsentDay(t *testing.T) {
	provider := &fakeProvider{content: map[string]*DayContent{}}
	resolver := NewResolver(provider)

	resolved, err := resolver.Resolve(context.Background(), 5, program.LevelMild, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved.Empty() {
		t.Fatalf("absent day should resolve empty: %+v", resolved)
	}
}

func TestResolveDeterministic(t *testing.T) {
	tasks := []types.TaskDefinition{
		makeTask(t, 4, 2, program.KindRating),
		makeTask(t, 4, 0, program.KindFreeText),
		makeTask(t, 4, 1, program.KindChecklist),
	}
	provider := &fakeProvider{content: map[string]*DayContent{
		key(4, program.LevelModerate, "en"): {Tasks: tasks},
	}}
	resolver := NewResolver(provider)

	first, err := resolver.Resolve(context.Background(), 4, program.LevelModerate, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for trial := 0; trial < 5; trial++ {
		again, err := resolver.Resolve(context.Background(), 4, program.LevelModerate, "en")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		for i := range first.Tasks {
			if again.Tasks[i].ID != first.Tasks[i].ID {
				t.Fatalf("trial %d: ordering changed at %d", trial, i)
			}
		}
	}
}
