package seed

import (
	"strings"
	"testing"
)

const validProgram = `
days:
  - day: 0
    title: "Welcome"
    admin_unlocked: true
    videos:
      - level: ""
        language: en
        title: "Welcome video"
        url: "https://cdn.example.org/day0.mp4"
        duration_seconds: 240
    assessment:
      language: en
      title: "Burden check"
      questions:
        - text: "How often do you feel exhausted?"
          options:
            - { id: a, label: "Never", score: 0 }
            - { id: b, label: "Sometimes", score: 1 }
            - { id: c, label: "Often", score: 2 }
        - text: "How often do you feel overwhelmed?"
          options:
            - { id: a, label: "Never", score: 0 }
            - { id: b, label: "Sometimes", score: 1 }
            - { id: c, label: "Often", score: 3 }
      score_ranges:
        - { min: 0, max: 1, level: mild }
        - { min: 2, max: 3, level: moderate }
        - { min: 4, max: 5, level: severe }
  - day: 1
    title: "Noticing stress"
    admin_unlocked: true
    tasks:
      - level: moderate
        language: en
        index: 0
        kind: reflection_slider
        title: "How stressed do you feel right now?"
      - level: moderate
        language: en
        index: 1
        kind: free_text
        title: "Write down one stressful moment from today."
`

func TestParseValidProgram(t *testing.T) {
	p, err := Parse([]byte(validProgram))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(p.Days) != 2 {
		t.Fatalf("want 2 days, got %d", len(p.Days))
	}
	if p.Days[0].Assessment == nil {
		t.Fatal("day 0 assessment missing")
	}
	if len(p.Days[1].Tasks) != 2 {
		t.Fatalf("want 2 tasks on day 1, got %d", len(p.Days[1].Tasks))
	}
}

func TestParseRejectsUnknownTaskKind(t *testing.T) {
	bad := strings.Replace(validProgram, "kind: free_text", "kind: interpretive_dance", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("unknown task kind accepted")
	}
}

func TestParseRejectsScoreRangeGap(t *testing.T) {
	bad := strings.Replace(validProgram, "- { min: 2, max: 3, level: moderate }", "", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("score range gap accepted")
	}
}

func TestParseRejectsDuplicateDay(t *testing.T) {
	bad := strings.Replace(validProgram, "- day: 1", "- day: 0", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("duplicate day accepted")
	}
}

func TestParseRejectsDayOutOfRange(t *testing.T) {
	bad := strings.Replace(validProgram, "- day: 1", "- day: 9", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("out-of-range day accepted")
	}
}

func TestStableIDsAreDeterministic(t *testing.T) {
	a := stableID("task:", 1, ":", "moderate", ":", "en", ":", 0)
	b := stableID("task:", 1, ":", "moderate", ":", "en", ":", 0)
	if a != b {
		t.Fatal("same inputs produced different IDs")
	}
	c := stableID("task:", 1, ":", "moderate", ":", "en", ":", 1)
	if a == c {
		t.Fatal("different inputs collided")
	}
}
