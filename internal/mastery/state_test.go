package mastery

import (
	"encoding/json"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DontKnow, "dontknow"},
		{Know, "know"},
		{InstantRecall, "instant-recall"},
		{Level(0), "Level(0)"},
		{Level(9), "Level(9)"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestZeroLevelInvalid(t *testing.T) {
	var l Level
	if l.Valid() {
		t.Error("zero Level should be invalid")
	}
	if _, err := l.MarshalText(); err == nil {
		t.Error("expected MarshalText error for zero Level")
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{DontKnow, Know, InstantRecall} {
		got, err := ParseLevel(l.String())
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", l.String(), err)
		}
		if got != l {
			t.Errorf("ParseLevel(%q) = %v", l.String(), got)
		}
	}
	if _, err := ParseLevel("mastered"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestUnderstandingJSON(t *testing.T) {
	b, err := json.Marshal(InstantRecallState(8, 2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"level":"instant-recall","excluded_from_frame_of_size":8,"correct_streak":2}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}

	var u Understanding
	if err := json.Unmarshal([]byte(`{"level":"bogus"}`), &u); err == nil {
		t.Error("expected error decoding unknown level")
	}
}

func TestConstructorsZeroPayload(t *testing.T) {
	if u := DontKnowState(); u.ExcludedFromFrameOfSize != 0 || u.CorrectStreak != 0 {
		t.Errorf("DontKnowState = %+v", u)
	}
	if u := KnowState(); u.ExcludedFromFrameOfSize != 0 || u.CorrectStreak != 0 {
		t.Errorf("KnowState = %+v", u)
	}
	// Negative values are accepted as-is.
	if u := InstantRecallState(-1, -2); u.ExcludedFromFrameOfSize != -1 || u.CorrectStreak != -2 {
		t.Errorf("InstantRecallState = %+v", u)
	}
}

func TestUnderstandingString(t *testing.T) {
	if got := InstantRecallState(3, 1).String(); got != "instant-recall(3, 1)" {
		t.Errorf("String = %q", got)
	}
	if got := KnowState().String(); got != "know" {
		t.Errorf("String = %q", got)
	}
}
