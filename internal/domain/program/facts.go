package program

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskResponse is one caregiver's answer to one task. The unique key makes
// re-submission an update, never a second row, so completion counting stays
// a set-membership fact.
type TaskResponse struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CaregiverID uuid.UUID      `gorm:"not null;uniqueIndex:idx_task_response_key;column:caregiver_id" json:"caregiver_id"`
	Day         int            `gorm:"not null;uniqueIndex:idx_task_response_key;column:day" json:"day"`
	TaskID      uuid.UUID      `gorm:"not null;uniqueIndex:idx_task_response_key;column:task_id" json:"task_id"`
	Kind        TaskKind       `gorm:"not null;column:kind" json:"kind"`
	Response    datatypes.JSON `gorm:"column:response;type:jsonb" json:"response"`
	CompletedAt time.Time      `gorm:"not null;column:completed_at" json:"completed_at"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TaskResponse) TableName() string { return "task_response" }

// VideoCompletion tracks how much of a day's lesson video a caregiver has
// watched. Completed flips once the watched ratio crosses the threshold or
// the player reports an ended event; it never flips back.
type VideoCompletion struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CaregiverID  uuid.UUID  `gorm:"not null;uniqueIndex:idx_video_completion_key;column:caregiver_id" json:"caregiver_id"`
	Day          int        `gorm:"not null;uniqueIndex:idx_video_completion_key;column:day" json:"day"`
	WatchedRatio float64    `gorm:"not null;default:0;column:watched_ratio" json:"watched_ratio"`
	Completed    bool       `gorm:"not null;default:false;column:completed" json:"completed"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (VideoCompletion) TableName() string { return "video_completion" }

// SelectedAnswer is one scored answer inside AssessmentResult.Answers. Score
// is re-derived server-side from the option definition, never taken from the
// client.
type SelectedAnswer struct {
	QuestionID uuid.UUID `json:"question_id"`
	OptionID   string    `json:"option_id"`
	Score      int       `json:"score"`
}

// AssessmentResult is one completed attempt. Attempts are append-only;
// exactly one row per (caregiver, assessment) carries Current=true.
type AssessmentResult struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CaregiverID  uuid.UUID      `gorm:"not null;uniqueIndex:idx_assessment_result_attempt;column:caregiver_id" json:"caregiver_id"`
	AssessmentID uuid.UUID      `gorm:"not null;uniqueIndex:idx_assessment_result_attempt;column:assessment_id" json:"assessment_id"`
	Day          int            `gorm:"not null;column:day" json:"day"`
	Attempt      int            `gorm:"not null;uniqueIndex:idx_assessment_result_attempt;column:attempt" json:"attempt"`
	Answers      datatypes.JSON `gorm:"not null;column:answers;type:jsonb" json:"answers"`
	TotalScore   int            `gorm:"not null;column:total_score" json:"total_score"`
	Level        string         `gorm:"not null;column:level" json:"level"`
	Current      bool           `gorm:"not null;default:false;column:current" json:"current"`
	CompletedAt  time.Time      `gorm:"not null;column:completed_at" json:"completed_at"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AssessmentResult) TableName() string { return "assessment_result" }

func (r *AssessmentResult) DecodedAnswers() ([]SelectedAnswer, error) {
	var answers []SelectedAnswer
	if len(r.Answers) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(r.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
