package program

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// The program always spans days 0..7. Overall progress divides by DayCount
// regardless of how many days are unlocked.
const (
	FirstDay = 0
	LastDay  = 7
	DayCount = 8
)

// Burden levels are admin-authored labels; LevelModerate doubles as the
// content fallback when no tasks are authored for a caregiver's exact level.
const (
	LevelMild     = "mild"
	LevelModerate = "moderate"
	LevelSevere   = "severe"
)

type TaskKind string

const (
	KindVideoMessage     TaskKind = "video_message"
	KindAudioMessage     TaskKind = "audio_message"
	KindTextMessage      TaskKind = "text_message"
	KindReflectionSlider TaskKind = "reflection_slider"
	KindChecklist        TaskKind = "checklist"
	KindRating           TaskKind = "rating"
	KindMoodSelector     TaskKind = "mood_selector"
	KindFreeText         TaskKind = "free_text"
	KindDualField        TaskKind = "dual_field"
	KindActivityPicker   TaskKind = "activity_picker"
	KindQuickQuiz        TaskKind = "quick_quiz"
	KindReminder         TaskKind = "reminder"
)

// ProgramDay is the admin-side unlock gate for one day: both the manual
// approval flag and the optional scheduled timestamp.
type ProgramDay struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Day           int        `gorm:"uniqueIndex;not null;column:day" json:"day"`
	Title         string     `gorm:"column:title" json:"title"`
	AdminUnlocked bool       `gorm:"column:admin_unlocked;not null;default:false" json:"admin_unlocked"`
	UnlockAt      *time.Time `gorm:"column:unlock_at" json:"unlock_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProgramDay) TableName() string { return "program_day" }

// DayVideo is the lesson video for a day. Level "" means the video is shared
// across burden levels (Day 0 is authored that way).
type DayVideo struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Day             int       `gorm:"not null;uniqueIndex:idx_day_video_key;column:day" json:"day"`
	Level           string    `gorm:"uniqueIndex:idx_day_video_key;column:level" json:"level"`
	Language        string    `gorm:"not null;uniqueIndex:idx_day_video_key;column:language" json:"language"`
	Title           string    `gorm:"column:title" json:"title"`
	URL             string    `gorm:"not null;column:url" json:"url"`
	DurationSeconds int       `gorm:"column:duration_seconds" json:"duration_seconds"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (DayVideo) TableName() string { return "day_video" }

// TaskDefinition is one admin-authored completable unit within a day, scoped
// to a burden level and language. Index is the authored order and doubles as
// the unlock order. Payload is variant-specific (see engine task kinds).
type TaskDefinition struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Day         int            `gorm:"not null;index:idx_task_def_scope;column:day" json:"day"`
	Level       string         `gorm:"index:idx_task_def_scope;column:level" json:"level"`
	Language    string         `gorm:"not null;index:idx_task_def_scope;column:language" json:"language"`
	Index       int            `gorm:"not null;column:index" json:"index"`
	Kind        TaskKind       `gorm:"not null;column:kind" json:"kind"`
	Title       string         `gorm:"column:title" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Payload     datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TaskDefinition) TableName() string { return "task_definition" }

// Assessment is a burden test definition. Day is nil for assessments that are
// not bound to a specific day module.
type Assessment struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Day      *int      `gorm:"index;column:day" json:"day,omitempty"`
	Language string    `gorm:"not null;column:language" json:"language"`
	Title    string    `gorm:"column:title" json:"title"`

	Questions []AssessmentQuestion `gorm:"foreignKey:AssessmentID;references:ID" json:"questions,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Assessment) TableName() string { return "assessment" }

type AssessmentQuestion struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID      `gorm:"not null;index;column:assessment_id" json:"assessment_id"`
	Index        int            `gorm:"not null;column:index" json:"index"`
	Text         string         `gorm:"not null;column:text;type:text" json:"text"`
	Options      datatypes.JSON `gorm:"not null;column:options;type:jsonb" json:"options"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AssessmentQuestion) TableName() string { return "assessment_question" }

// QuestionOption lives inside AssessmentQuestion.Options. Scores are
// authoritative server-side; option IDs are what clients submit.
type QuestionOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

func (q *AssessmentQuestion) DecodedOptions() ([]QuestionOption, error) {
	var opts []QuestionOption
	if len(q.Options) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// ScoreRange maps a span of achievable totals to a burden level. Ranges for
// one assessment must be non-overlapping and cover every achievable total.
type ScoreRange struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID `gorm:"not null;index;column:assessment_id" json:"assessment_id"`
	Min          int       `gorm:"not null;column:min" json:"min"`
	Max          int       `gorm:"not null;column:max" json:"max"`
	Level        string    `gorm:"not null;column:level" json:"level"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ScoreRange) TableName() string { return "score_range" }
