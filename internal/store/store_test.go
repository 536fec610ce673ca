package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestInstanceNumbers(t *testing.T) {
	a := openTestStore(t)
	b := openTestStore(t)

	if b.InstanceNumber() <= a.InstanceNumber() {
		t.Errorf("instance numbers not increasing: %d then %d", a.InstanceNumber(), b.InstanceNumber())
	}
	if a.Equal(b) {
		t.Error("distinct stores compare equal")
	}
	if !a.Equal(a) {
		t.Error("store does not equal itself")
	}
}

func TestItemsPreserveOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.ItemRepo()
	ctx := context.Background()

	items := []ItemData{
		{ID: "r2", Form: "亅", RadicalNumber: 6, Meaning: "hook", StrokeCount: 1},
		{ID: "r1", Form: "一", RadicalNumber: 1, Meaning: "one", Pinyin: "yī", StrokeCount: 1},
		{ID: "r3", Form: "二", RadicalNumber: 7, Meaning: "two", StrokeCount: 2, Follows: []string{"r1"}},
	}
	if err := repo.SaveItems(ctx, items); err != nil {
		t.Fatalf("save items: %v", err)
	}

	got, err := repo.Items(ctx)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	for i, want := range []string{"r2", "r1", "r3"} {
		if got[i].ID != want {
			t.Errorf("items[%d] = %q, want %q", i, got[i].ID, want)
		}
	}
	if got[1].Pinyin != "yī" {
		t.Errorf("pinyin = %q, want yī", got[1].Pinyin)
	}
	if len(got[2].Follows) != 1 || got[2].Follows[0] != "r1" {
		t.Errorf("follows = %v, want [r1]", got[2].Follows)
	}
	if got[0].Follows != nil {
		t.Errorf("follows = %v, want nil", got[0].Follows)
	}
}

func TestItemsUpsert(t *testing.T) {
	s := openTestStore(t)
	repo := s.ItemRepo()
	ctx := context.Background()

	if err := repo.SaveItems(ctx, []ItemData{{ID: "r1", Form: "一", Meaning: "one"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveItems(ctx, []ItemData{{ID: "r1", Form: "一", Meaning: "unity"}}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := repo.Items(ctx)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(got) != 1 || got[0].Meaning != "unity" {
		t.Errorf("got %+v, want single item with meaning unity", got)
	}
}

func TestMasterySaveLoadReplace(t *testing.T) {
	s := openTestStore(t)
	repo := s.MasteryRepo()
	ctx := context.Background()

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected no records, got %d", len(loaded))
	}

	records := []MasteryData{
		{ItemID: "a", Level: "dontknow"},
		{ItemID: "b", Level: "instant-recall", ExcludedFromFrameOfSize: 12, CorrectStreak: 4},
	}
	if err := repo.Save(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Upsert overwrites the existing row.
	if err := repo.Save(ctx, []MasteryData{{ItemID: "a", Level: "know"}}); err != nil {
		t.Fatalf("save upsert: %v", err)
	}

	loaded, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d records, want 2", len(loaded))
	}
	if loaded["a"].Level != "know" {
		t.Errorf("a level = %q, want know", loaded["a"].Level)
	}
	b := loaded["b"]
	if b.ExcludedFromFrameOfSize != 12 || b.CorrectStreak != 4 {
		t.Errorf("b = %+v, want excluded 12 streak 4", b)
	}
	if b.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}

	if err := repo.Replace(ctx, []MasteryData{{ItemID: "c", Level: "know"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	loaded, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load after replace: %v", err)
	}
	if len(loaded) != 1 || loaded["c"].Level != "know" {
		t.Errorf("after replace = %+v, want only c", loaded)
	}

	if err := repo.Replace(ctx, nil); err != nil {
		t.Fatalf("replace with nothing: %v", err)
	}
	loaded, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("got %d records after clear, want 0", len(loaded))
	}
}

func TestMasteryReplaceRollsBackOnFailedInsert(t *testing.T) {
	s := openTestStore(t)
	repo := s.MasteryRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, []MasteryData{{ItemID: "a", Level: "know"}, {ItemID: "b", Level: "dontknow"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.DB().Exec(`CREATE TRIGGER fail_insert BEFORE INSERT ON mastery
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if err := repo.Replace(ctx, []MasteryData{{ItemID: "a", Level: "dontknow"}}); err == nil {
		t.Fatal("expected replace to fail")
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 || loaded["a"].Level != "know" {
		t.Errorf("after failed replace = %+v, want original two records", loaded)
	}
}

func TestMasteryReplaceRejectsEmptyID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.MasteryRepo().Save(ctx, []MasteryData{{ItemID: "a", Level: "know"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.MasteryRepo().Replace(ctx, []MasteryData{{Level: "know"}}); err == nil {
		t.Fatal("expected error for empty item ID")
	}
	loaded, err := s.MasteryRepo().Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("got %d records, want the original 1", len(loaded))
	}
}

func TestMasterySaveRejectsEmptyID(t *testing.T) {
	s := openTestStore(t)
	err := s.MasteryRepo().Save(context.Background(), []MasteryData{{Level: "know"}})
	if err == nil {
		t.Fatal("expected error for empty item ID")
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Sequence:  42,
		Timestamp: now,
		Data: SnapshotData{
			Version: 1,
			Mastery: []MasteryData{{ItemID: "a", Level: "know"}},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", snap.Sequence)
	}
	if !snap.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", snap.Timestamp, now)
	}
	if len(snap.Data.Mastery) != 1 || snap.Data.Mastery[0].ItemID != "a" {
		t.Errorf("data.mastery = %+v", snap.Data.Mastery)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining snapshots = %d, want 5", count)
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 7 {
		t.Errorf("latest sequence = %d, want 7", snap.Sequence)
	}
}

func TestSnapshotOrderFollowsInsertion(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// 05.1 and 05.12 differ in fraction width; insertion order still wins.
	base := time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)
	for i, ts := range []time.Time{base.Add(100 * time.Millisecond), base.Add(120 * time.Millisecond)} {
		if err := repo.Save(ctx, &Snapshot{Sequence: int64(i + 1), Timestamp: ts, Data: SnapshotData{Version: 1}}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 2 {
		t.Errorf("latest sequence = %d, want 2", snap.Sequence)
	}
	if !snap.Timestamp.Equal(base.Add(120 * time.Millisecond)) {
		t.Errorf("latest timestamp = %v", snap.Timestamp)
	}

	if err := repo.Prune(ctx, 1); err != nil {
		t.Fatalf("prune: %v", err)
	}
	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("remaining snapshots = %d, want 1", count)
	}
	if snap, err = repo.Latest(ctx); err != nil || snap.Sequence != 2 {
		t.Errorf("after prune latest = %+v, %v; want sequence 2", snap, err)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 2; i++ {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("remaining snapshots = %d, want 2", count)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Open already created the table; a second counter shares it.
	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestEventsShareSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", FrameSize: 3, Visited: 3, DontKnow: 3}); err != nil {
		t.Fatalf("append session: %v", err)
	}
	if err := repo.AppendMasteryEvent(ctx, MasteryEventData{ItemID: "a", FromLevel: "dontknow", ToLevel: "know", Reason: "manual"}); err != nil {
		t.Fatalf("append mastery: %v", err)
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s2", FrameSize: 3, Visited: 3, DontKnow: 2, Know: 1}); err != nil {
		t.Fatalf("append session: %v", err)
	}

	sessions, err := repo.RecentSessions(ctx, 10)
	if err != nil {
		t.Fatalf("recent sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].SessionID != "s2" {
		t.Errorf("newest session = %q, want s2", sessions[0].SessionID)
	}

	events, err := repo.MasteryEvents(ctx, "a")
	if err != nil {
		t.Fatalf("mastery events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d mastery events, want 1", len(events))
	}
	e := events[0]
	if e.Sequence <= sessions[1].Sequence || e.Sequence >= sessions[0].Sequence {
		t.Errorf("mastery event sequence %d not between sessions %d and %d",
			e.Sequence, sessions[1].Sequence, sessions[0].Sequence)
	}
	if e.ToLevel != "know" || e.Reason != "manual" {
		t.Errorf("event = %+v", e)
	}

	limited, err := repo.RecentSessions(ctx, 1)
	if err != nil {
		t.Fatalf("recent sessions limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d sessions with limit 1", len(limited))
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableItems, tableRadicals, tableMastery, tableSnapshots,
		tableMasteryEvents, tableSessionEvents, tableGlobalSequence} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrationIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

func TestTimeColumnsAreTyped(t *testing.T) {
	s := openTestStore(t)

	tests := []struct{ table, column string }{
		{tableMastery, "updated_at"},
		{tableSnapshots, "timestamp"},
		{tableMasteryEvents, "created_at"},
		{tableSessionEvents, "created_at"},
	}
	for _, tt := range tests {
		var typ string
		err := s.DB().QueryRow(
			"SELECT type FROM pragma_table_info(?) WHERE name = ?", tt.table, tt.column,
		).Scan(&typ)
		if err != nil {
			t.Errorf("%s.%s: %v", tt.table, tt.column, err)
			continue
		}
		if typ != "datetime" {
			t.Errorf("%s.%s type = %q, want datetime", tt.table, tt.column, typ)
		}
	}
}

func TestRadicalsSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.ItemRepo()
	ctx := context.Background()

	water := RadicalData{
		Number: 85, Forms: []string{"水", "氵", "氺"}, StrokeCount: 4, Meaning: "water",
		ColloquialTerm: "三点水", Pinyin: "shuǐ", HanViet: "thủy", HiraganaRomaji: "みず mizu",
		HangulRomaja: "물 수 mul su", Frequency: 1595, Examples: "永泳洋",
	}
	one := RadicalData{Number: 1, Forms: []string{"一"}, StrokeCount: 1, Meaning: "one"}
	if err := repo.SaveRadicals(ctx, []RadicalData{water, one}); err != nil {
		t.Fatalf("save radicals: %v", err)
	}

	// Upsert keeps one row per number.
	one.Frequency = 42
	if err := repo.SaveRadicals(ctx, []RadicalData{one}); err != nil {
		t.Fatalf("save radicals upsert: %v", err)
	}

	got, err := repo.Radicals(ctx)
	if err != nil {
		t.Fatalf("radicals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d radicals, want 2", len(got))
	}
	if got[0].Number != 1 || got[0].Frequency != 42 {
		t.Errorf("radical 1 = %+v", got[0])
	}
	if got[1].ColloquialTerm != "三点水" || len(got[1].Forms) != 3 || got[1].Forms[1] != "氵" {
		t.Errorf("radical 85 = %+v", got[1])
	}
}
