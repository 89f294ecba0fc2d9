package engine

import (
	"context"
	"sort"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/domain/program"
)

// DayContent is the raw authored content a provider returns for one exact
// (day, level, language) combination. Task order and reminder filtering are
// the resolver's job, not the provider's.
type DayContent struct {
	Tasks []types.TaskDefinition
	Test  *types.Assessment
	Video *types.DayVideo
}

// ContentProvider hands the resolver authored content. Implementations may
// read a database, a cache, or fixtures; the resolver only assumes the call
// is deterministic for fixed inputs.
type ContentProvider interface {
	GetDayContent(ctx context.Context, day int, level, language string) (*DayContent, error)
}

type Resolver struct {
	provider ContentProvider
}

func NewResolver(provider ContentProvider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve returns the completable task list (authored order), split-off
// reminders, and the optional test and video for a day. When nothing is
// authored for the caregiver's exact level it falls back to the moderate
// level; when that is also empty the day still exists with only its video,
// if any.
func (r *Resolver) Resolve(ctx context.Context, day int, level, language string) (*ResolvedDay, error) {
	content, err := r.provider.GetDayContent(ctx, day, level, language)
	if err != nil {
		return nil, err
	}
	resolvedLevel := level
	if contentEmpty(content) && level != program.LevelModerate {
		fallback, err := r.provider.GetDayContent(ctx, day, program.LevelModerate, language)
		if err != nil {
			return nil, err
		}
		if !contentEmpty(fallback) {
			if fallback.Video == nil {
				fallback.Video = content.Video
			}
			content = fallback
			resolvedLevel = program.LevelModerate
		}
	}

	resolved := &ResolvedDay{
		Day:   day,
		Level: resolvedLevel,
		Test:  content.Test,
		Video: content.Video,
	}
	tasks := make([]types.TaskDefinition, len(content.Tasks))
	copy(tasks, content.Tasks)
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Index < tasks[j].Index })
	for _, t := range tasks {
		if Completable(t.Kind) {
			resolved.Tasks = append(resolved.Tasks, t)
		} else {
			resolved.Reminders = append(resolved.Reminders, t)
		}
	}
	return resolved, nil
}

func contentEmpty(c *DayContent) bool {
	return c == nil || (len(c.Tasks) == 0 && c.Test == nil)
}
