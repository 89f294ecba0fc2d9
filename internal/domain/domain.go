package domain

import (
	"github.com/hearthside/carepath-backend/internal/domain/caregiver"
	"github.com/hearthside/carepath-backend/internal/domain/program"
)

type Caregiver = caregiver.Caregiver
type CaregiverToken = caregiver.CaregiverToken

type ProgramDay = program.ProgramDay
type DayVideo = program.DayVideo
type TaskDefinition = program.TaskDefinition
type TaskKind = program.TaskKind
type Assessment = program.Assessment
type AssessmentQuestion = program.AssessmentQuestion
type QuestionOption = program.QuestionOption
type ScoreRange = program.ScoreRange

const (
	FirstDay = program.FirstDay
	LastDay  = program.LastDay
	DayCount = program.DayCount

	LevelMild     = program.LevelMild
	LevelModerate = program.LevelModerate
	LevelSevere   = program.LevelSevere

	KindVideoMessage     = program.KindVideoMessage
	KindAudioMessage     = program.KindAudioMessage
	KindTextMessage      = program.KindTextMessage
	KindReflectionSlider = program.KindReflectionSlider
	KindChecklist        = program.KindChecklist
	KindRating           = program.KindRating
	KindMoodSelector     = program.KindMoodSelector
	KindFreeText         = program.KindFreeText
	KindDualField        = program.KindDualField
	KindActivityPicker   = program.KindActivityPicker
	KindQuickQuiz        = program.KindQuickQuiz
	KindReminder         = program.KindReminder
)

type TaskResponse = program.TaskResponse
type VideoCompletion = program.VideoCompletion
type AssessmentResult = program.AssessmentResult
type SelectedAnswer = program.SelectedAnswer

// AllModels is the migration order for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		// Identity + auth
		&caregiver.Caregiver{},
		&caregiver.CaregiverToken{},

		// Program configuration (admin-authored)
		&program.ProgramDay{},
		&program.DayVideo{},
		&program.TaskDefinition{},
		&program.Assessment{},
		&program.AssessmentQuestion{},
		&program.ScoreRange{},

		// Per-caregiver facts
		&program.TaskResponse{},
		&program.VideoCompletion{},
		&program.AssessmentResult{},
	}
}
