package engine

import (
	"encoding/json"
	"testing"

	"github.com/hearthside/carepath-backend/internal/domain/program"
)

func TestReminderIsNotCompletable(t *testing.T) {
	if Completable(program.KindReminder) {
		t.Fatal("reminder tasks must never count toward progress")
	}
	if err := ValidateResponse(program.KindReminder, json.RawMessage(`{}`)); err == nil {
		t.Fatal("reminder tasks must reject responses")
	}
}

func TestAllAuthoredKindsRegistered(t *testing.T) {
	kinds := []program.TaskKind{
		program.KindVideoMessage,
		program.KindAudioMessage,
		program.KindTextMessage,
		program.KindReflectionSlider,
		program.KindChecklist,
		program.KindRating,
		program.KindMoodSelector,
		program.KindFreeText,
		program.KindDualField,
		program.KindActivityPicker,
		program.KindQuickQuiz,
		program.KindReminder,
	}
	for _, k := range kinds {
		if _, ok := SpecFor(k); !ok {
			t.Fatalf("kind %q has no spec", k)
		}
	}
	if _, ok := SpecFor(program.TaskKind("telegram")); ok {
		t.Fatal("unknown kind should have no spec")
	}
}

func TestValidateResponsePerKind(t *testing.T) {
	cases := []struct {
		kind    program.TaskKind
		raw     string
		wantErr bool
	}{
		{program.KindVideoMessage, `{"watched":true}`, false},
		{program.KindVideoMessage, `{"watched":false}`, true},
		{program.KindAudioMessage, `{"listened":true}`, false},
		{program.KindTextMessage, `{"acknowledged":true}`, false},
		{program.KindTextMessage, `{}`, true},
		{program.KindReflectionSlider, `{"value":40}`, false},
		{program.KindReflectionSlider, `{"value":101}`, true},
		{program.KindReflectionSlider, `{"value":"high"}`, true},
		{program.KindChecklist, `{"items":{"rested":true,"ate_well":false}}`, false},
		{program.KindChecklist, `{"items":{}}`, true},
		{program.KindRating, `{"rating":4}`, false},
		{program.KindRating, `{"rating":0}`, true},
		{program.KindMoodSelector, `{"mood":"calm"}`, false},
		{program.KindMoodSelector, `{"mood":"  "}`, true},
		{program.KindFreeText, `{"text":"today was hard"}`, false},
		{program.KindFreeText, `{"text":""}`, true},
		{program.KindDualField, `{"first":"a win","second":"a worry"}`, false},
		{program.KindDualField, `{"first":"a win"}`, true},
		{program.KindActivityPicker, `{"activities":["walk","call_friend"]}`, false},
		{program.KindActivityPicker, `{"activities":[]}`, true},
		{program.KindQuickQuiz, `{"answers":{"q1":"b"}}`, false},
		{program.KindQuickQuiz, `{"answers":{}}`, true},
	}
	for _, tc := range cases {
		err := ValidateResponse(tc.kind, json.RawMessage(tc.raw))
		if tc.wantErr && err == nil {
			t.Errorf("%s %s: expected error", tc.kind, tc.raw)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s %s: unexpected error %v", tc.kind, tc.raw, err)
		}
	}
}

func TestValidateResponseUnknownKind(t *testing.T) {
	if err := ValidateResponse(program.TaskKind("nonsense"), json.RawMessage(`{}`)); err == nil {
		t.Fatal("unknown kind should be rejected")
	}
}
