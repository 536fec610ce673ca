package mastery

import (
	"testing"

	"github.com/zhongchar/zhongchar/internal/store"
)

func TestFromData(t *testing.T) {
	tests := []struct {
		name    string
		data    store.MasteryData
		want    Understanding
		wantErr bool
	}{
		{"dontknow", store.MasteryData{ItemID: "a", Level: "dontknow"}, DontKnowState(), false},
		{"know drops payload", store.MasteryData{ItemID: "a", Level: "know", CorrectStreak: 4}, KnowState(), false},
		{"instant recall", store.MasteryData{ItemID: "a", Level: "instant-recall", ExcludedFromFrameOfSize: 9, CorrectStreak: 4}, InstantRecallState(9, 4), false},
		{"unknown", store.MasteryData{ItemID: "a", Level: "fluent"}, Understanding{}, true},
		{"empty", store.MasteryData{ItemID: "a"}, Understanding{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromData(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToData(t *testing.T) {
	d := ToData("r5", InstantRecallState(12, 3))
	if d.ItemID != "r5" || d.Level != "instant-recall" || d.ExcludedFromFrameOfSize != 12 || d.CorrectStreak != 3 {
		t.Errorf("ToData = %+v", d)
	}

	d = ToData("r6", Understanding{Level: DontKnow, ExcludedFromFrameOfSize: 2})
	if d.ExcludedFromFrameOfSize != 0 {
		t.Errorf("dontknow kept payload: %+v", d)
	}
}

func TestEventData(t *testing.T) {
	e := EventData(Transition{
		ItemID:  "r1",
		From:    DontKnowState(),
		To:      InstantRecallState(6, 1),
		Trigger: TriggerManual,
	}, "sess-1")

	if e.ItemID != "r1" || e.SessionID != "sess-1" || e.Reason != TriggerManual {
		t.Errorf("event = %+v", e)
	}
	if e.FromLevel != "dontknow" {
		t.Errorf("FromLevel = %q", e.FromLevel)
	}
	if e.ToLevel != "instant-recall(6, 1)" {
		t.Errorf("ToLevel = %q", e.ToLevel)
	}
}
