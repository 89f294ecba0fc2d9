package engine

import (
	"sort"

	types "github.com/hearthside/carepath-backend/internal/domain"
)

// Evaluate maps a total score to its burden level by linear scan over the
// configured ranges. A total no range covers is a configuration error, not
// a silent default: a wrong default would mis-personalize every later day.
func Evaluate(total int, ranges []types.ScoreRange) (string, error) {
	if total < 0 {
		return "", validationErrf("total score %d is negative", total)
	}
	if len(ranges) == 0 {
		return "", configErrf("no score ranges configured")
	}
	sorted := make([]types.ScoreRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })
	for _, r := range sorted {
		if total >= r.Min && total <= r.Max {
			return r.Level, nil
		}
	}
	return "", configErrf("no score range covers total %d", total)
}

// ValidateRanges checks that the configured ranges are well-formed,
// non-overlapping, and collectively cover every achievable total
// [0, maxTotal]. Run at seed time so authoring gaps fail loudly before any
// caregiver hits them.
func ValidateRanges(ranges []types.ScoreRange, maxTotal int) error {
	if len(ranges) == 0 {
		return configErrf("no score ranges configured")
	}
	sorted := make([]types.ScoreRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	for _, r := range sorted {
		if r.Min > r.Max {
			return configErrf("score range [%d,%d] has min > max", r.Min, r.Max)
		}
		if r.Level == "" {
			return configErrf("score range [%d,%d] has no level label", r.Min, r.Max)
		}
	}
	if sorted[0].Min > 0 {
		return configErrf("score ranges leave totals [0,%d] uncovered", sorted[0].Min-1)
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Min <= prev.Max {
			return configErrf("score ranges [%d,%d] and [%d,%d] overlap", prev.Min, prev.Max, cur.Min, cur.Max)
		}
		if cur.Min > prev.Max+1 {
			return configErrf("score ranges leave totals [%d,%d] uncovered", prev.Max+1, cur.Min-1)
		}
	}
	if last := sorted[len(sorted)-1]; last.Max < maxTotal {
		return configErrf("score ranges leave totals [%d,%d] uncovered", last.Max+1, maxTotal)
	}
	return nil
}

// MaxAchievableTotal sums the highest option score of every question.
func MaxAchievableTotal(questions []types.AssessmentQuestion) (int, error) {
	total := 0
	for i := range questions {
		opts, err := questions[i].DecodedOptions()
		if err != nil {
			return 0, configErrf("question %s has undecodable options: %v", questions[i].ID, err)
		}
		if len(opts) == 0 {
			return 0, configErrf("question %s has no options", questions[i].ID)
		}
		max := opts[0].Score
		for _, o := range opts[1:] {
			if o.Score > max {
				max = o.Score
			}
		}
		total += max
	}
	return total, nil
}

// ValidateQuestions enforces the authoring invariants: at least two options
// per question and distinct scores within a question.
func ValidateQuestions(questions []types.AssessmentQuestion) error {
	if len(questions) == 0 {
		return configErrf("assessment has no questions")
	}
	for i := range questions {
		q := &questions[i]
		opts, err := q.DecodedOptions()
		if err != nil {
			return configErrf("question %s has undecodable options: %v", q.ID, err)
		}
		if len(opts) < 2 {
			return configErrf("question %s has %d options, need at least 2", q.ID, len(opts))
		}
		seenScores := make(map[int]struct{}, len(opts))
		seenIDs := make(map[string]struct{}, len(opts))
		for _, o := range opts {
			if o.ID == "" {
				return configErrf("question %s has an option without an id", q.ID)
			}
			if _, dup := seenIDs[o.ID]; dup {
				return configErrf("question %s has duplicate option id %q", q.ID, o.ID)
			}
			seenIDs[o.ID] = struct{}{}
			if _, dup := seenScores[o.Score]; dup {
				return configErrf("question %s has duplicate option score %d", q.ID, o.Score)
			}
			seenScores[o.Score] = struct{}{}
		}
	}
	return nil
}
