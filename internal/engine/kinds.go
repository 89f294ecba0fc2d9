package engine

import (
	"encoding/json"
	"strings"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/domain/program"
)

// KindSpec describes one task variant: whether it counts toward progress
// and how to validate a caregiver's response payload. Reminder is the one
// non-completable kind; it is delivered through the notification channel
// and never appears in unlock or progress accounting.
type KindSpec struct {
	Kind        types.TaskKind
	Completable bool
	Validate    func(raw json.RawMessage) error
}

var kindRegistry = map[types.TaskKind]KindSpec{
	program.KindVideoMessage: {
		Kind:        program.KindVideoMessage,
		Completable: true,
		Validate:    requireBool("watched"),
	},
	program.KindAudioMessage: {
		Kind:        program.KindAudioMessage,
		Completable: true,
		Validate:    requireBool("listened"),
	},
	program.KindTextMessage: {
		Kind:        program.KindTextMessage,
		Completable: true,
		Validate:    requireBool("acknowledged"),
	},
	program.KindReflectionSlider: {
		Kind:        program.KindReflectionSlider,
		Completable: true,
		Validate:    requireIntInRange("value", 0, 100),
	},
	program.KindChecklist: {
		Kind:        program.KindChecklist,
		Completable: true,
		Validate:    validateChecklist,
	},
	program.KindRating: {
		Kind:        program.KindRating,
		Completable: true,
		Validate:    requireIntInRange("rating", 1, 5),
	},
	program.KindMoodSelector: {
		Kind:        program.KindMoodSelector,
		Completable: true,
		Validate:    requireString("mood"),
	},
	program.KindFreeText: {
		Kind:        program.KindFreeText,
		Completable: true,
		Validate:    requireString("text"),
	},
	program.KindDualField: {
		Kind:        program.KindDualField,
		Completable: true,
		Validate:    validateDualField,
	},
	program.KindActivityPicker: {
		Kind:        program.KindActivityPicker,
		Completable: true,
		Validate:    validateActivityPicker,
	},
	program.KindQuickQuiz: {
		Kind:        program.KindQuickQuiz,
		Completable: true,
		Validate:    validateQuickQuiz,
	},
	program.KindReminder: {
		Kind:        program.KindReminder,
		Completable: false,
		Validate: func(json.RawMessage) error {
			return validationErrf("reminder tasks do not take responses")
		},
	},
}

// SpecFor returns the variant spec for a task kind.
func SpecFor(kind types.TaskKind) (KindSpec, bool) {
	spec, ok := kindRegistry[kind]
	return spec, ok
}

// Completable reports whether the kind counts toward progress and unlock.
func Completable(kind types.TaskKind) bool {
	spec, ok := kindRegistry[kind]
	return ok && spec.Completable
}

// ValidateResponse checks a raw response payload against its kind's schema.
func ValidateResponse(kind types.TaskKind, raw json.RawMessage) error {
	spec, ok := kindRegistry[kind]
	if !ok {
		return validationErrf("unknown task kind %q", kind)
	}
	return spec.Validate(raw)
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, validationErrf("response payload is empty")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, validationErrf("response payload is not an object: %v", err)
	}
	return obj, nil
}

func requireBool(field string) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		obj, err := decodeObject(raw)
		if err != nil {
			return err
		}
		var v bool
		if err := json.Unmarshal(obj[field], &v); err != nil {
			return validationErrf("field %q must be a boolean", field)
		}
		if !v {
			return validationErrf("field %q must be true to complete the task", field)
		}
		return nil
	}
}

func requireIntInRange(field string, min, max int) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		obj, err := decodeObject(raw)
		if err != nil {
			return err
		}
		var v int
		if err := json.Unmarshal(obj[field], &v); err != nil {
			return validationErrf("field %q must be an integer", field)
		}
		if v < min || v > max {
			return validationErrf("field %q must be within [%d,%d]", field, min, max)
		}
		return nil
	}
}

func requireString(field string) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		obj, err := decodeObject(raw)
		if err != nil {
			return err
		}
		var v string
		if err := json.Unmarshal(obj[field], &v); err != nil {
			return validationErrf("field %q must be a string", field)
		}
		if strings.TrimSpace(v) == "" {
			return validationErrf("field %q must not be empty", field)
		}
		return nil
	}
}

func validateChecklist(raw json.RawMessage) error {
	obj, err := decodeObject(raw)
	if err != nil {
		return err
	}
	var items map[string]bool
	if err := json.Unmarshal(obj["items"], &items); err != nil {
		return validationErrf("field \"items\" must map item ids to yes/no answers")
	}
	if len(items) == 0 {
		return validationErrf("checklist response has no items")
	}
	return nil
}

func validateDualField(raw json.RawMessage) error {
	if err := requireString("first")(raw); err != nil {
		return err
	}
	return requireString("second")(raw)
}

func validateActivityPicker(raw json.RawMessage) error {
	obj, err := decodeObject(raw)
	if err != nil {
		return err
	}
	var activities []string
	if err := json.Unmarshal(obj["activities"], &activities); err != nil {
		return validationErrf("field \"activities\" must be a list of activity ids")
	}
	if len(activities) == 0 {
		return validationErrf("at least one activity must be picked")
	}
	return nil
}

func validateQuickQuiz(raw json.RawMessage) error {
	obj, err := decodeObject(raw)
	if err != nil {
		return err
	}
	var answers map[string]string
	if err := json.Unmarshal(obj["answers"], &answers); err != nil {
		return validationErrf("field \"answers\" must map question ids to choices")
	}
	if len(answers) == 0 {
		return validationErrf("quiz response has no answers")
	}
	return nil
}
