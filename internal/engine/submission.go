package engine

import (
	"github.com/google/uuid"

	types "github.com/hearthside/carepath-backend/internal/domain"
)

// AnswerInput is what a client submits: a question and the chosen option.
// The option's score is re-derived from the authoritative definition; a
// numeric score coming off the wire is never trusted.
type AnswerInput struct {
	QuestionID uuid.UUID `json:"question_id"`
	OptionID   string    `json:"option_id"`
}

// ScoredSubmission is a validated, server-scored assessment submission
// ready to persist as a new attempt.
type ScoredSubmission struct {
	Answers []types.SelectedAnswer
	Total   int
}

// ScoreSubmission validates that every question has exactly one answer
// referencing a real option, then scores the submission from the option
// definitions.
func ScoreSubmission(questions []types.AssessmentQuestion, answers []AnswerInput) (*ScoredSubmission, error) {
	if len(questions) == 0 {
		return nil, configErrf("assessment has no questions")
	}

	byQuestion := make(map[uuid.UUID]AnswerInput, len(answers))
	for _, a := range answers {
		if _, dup := byQuestion[a.QuestionID]; dup {
			return nil, validationErrf("question %s answered more than once", a.QuestionID)
		}
		byQuestion[a.QuestionID] = a
	}

	scored := &ScoredSubmission{
		Answers: make([]types.SelectedAnswer, 0, len(questions)),
	}
	for i := range questions {
		q := &questions[i]
		answer, ok := byQuestion[q.ID]
		if !ok {
			return nil, validationErrf("question %s has no answer", q.ID)
		}
		delete(byQuestion, q.ID)

		opts, err := q.DecodedOptions()
		if err != nil {
			return nil, configErrf("question %s has undecodable options: %v", q.ID, err)
		}
		var selected *types.QuestionOption
		for j := range opts {
			if opts[j].ID == answer.OptionID {
				selected = &opts[j]
				break
			}
		}
		if selected == nil {
			return nil, validationErrf("question %s has no option %q", q.ID, answer.OptionID)
		}
		scored.Answers = append(scored.Answers, types.SelectedAnswer{
			QuestionID: q.ID,
			OptionID:   selected.ID,
			Score:      selected.Score,
		})
		scored.Total += selected.Score
	}
	if len(byQuestion) > 0 {
		for id := range byQuestion {
			return nil, validationErrf("answer references unknown question %s", id)
		}
	}
	return scored, nil
}
