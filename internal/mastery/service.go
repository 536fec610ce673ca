package mastery

import (
	"errors"
	"sort"

	"github.com/zhongchar/zhongchar/internal/store"
)

// Triggers recorded on transitions.
const (
	TriggerManual  = "manual"
	TriggerRestore = "restore"
	TriggerImport  = "import"
	TriggerReset   = "reset"
)

// Service is the in-memory ledger of understanding for every known item.
// Items that have never been recorded are reported as DontKnow.
type Service struct {
	items map[string]Understanding
}

// NewService creates a ledger from persisted records. Records with an
// unknown level are skipped and reported together in the returned error;
// the service is still usable.
func NewService(data map[string]store.MasteryData) (*Service, error) {
	s := &Service{items: make(map[string]Understanding, len(data))}

	var errs []error
	for id, d := range data {
		if d.ItemID == "" {
			d.ItemID = id
		}
		u, err := FromData(d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.items[d.ItemID] = u
	}
	return s, errors.Join(errs...)
}

// Get returns the understanding for itemID, DontKnow if never recorded.
func (s *Service) Get(itemID string) Understanding {
	if u, ok := s.items[itemID]; ok {
		return u
	}
	return DontKnowState()
}

// Has reports whether itemID has a recorded understanding.
func (s *Service) Has(itemID string) bool {
	_, ok := s.items[itemID]
	return ok
}

// Set records u for itemID and returns the resulting transition.
func (s *Service) Set(itemID string, u Understanding, trigger string) Transition {
	t := Transition{
		ItemID:  itemID,
		From:    s.Get(itemID),
		To:      u.Normalize(),
		Trigger: trigger,
	}
	s.items[itemID] = t.To
	return t
}

// RestorePlan is the outcome of restoring a snapshot, computed without
// touching the ledger.
type RestorePlan struct {
	Transitions []Transition
	next        map[string]Understanding
}

// Records returns the planned ledger contents in item ID order.
func (p *RestorePlan) Records() []store.MasteryData {
	return records(p.next)
}

// PlanRestore validates data and works out the transitions that replacing
// the ledger with it would cause. Items missing from data return to
// DontKnow. The ledger is not modified.
func (s *Service) PlanRestore(data store.SnapshotData) (*RestorePlan, error) {
	next := make(map[string]Understanding, len(data.Mastery))
	for _, d := range data.Mastery {
		u, err := FromData(d)
		if err != nil {
			return nil, err
		}
		next[d.ItemID] = u
	}

	var transitions []Transition
	for _, id := range sortedKeys(next) {
		t := Transition{ItemID: id, From: s.Get(id), To: next[id], Trigger: TriggerRestore}
		if t.Changed() {
			transitions = append(transitions, t)
		}
	}
	for _, id := range sortedKeys(s.items) {
		if _, ok := next[id]; ok {
			continue
		}
		t := Transition{ItemID: id, From: s.items[id], To: DontKnowState(), Trigger: TriggerRestore}
		if t.Changed() {
			transitions = append(transitions, t)
		}
	}
	return &RestorePlan{Transitions: transitions, next: next}, nil
}

// Apply makes p the ledger's contents.
func (s *Service) Apply(p *RestorePlan) {
	next := make(map[string]Understanding, len(p.next))
	for id, u := range p.next {
		next[id] = u
	}
	s.items = next
}

// Restore replaces the ledger with the records in data. It returns the
// transitions for every item whose understanding changed. On error the
// ledger is left untouched.
func (s *Service) Restore(data store.SnapshotData) ([]Transition, error) {
	p, err := s.PlanRestore(data)
	if err != nil {
		return nil, err
	}
	s.Apply(p)
	return p.Transitions, nil
}

// Counts tallies the given items by level. Unrecorded items count as DontKnow.
func (s *Service) Counts(itemIDs []string) map[Level]int {
	counts := map[Level]int{DontKnow: 0, Know: 0, InstantRecall: 0}
	for _, id := range itemIDs {
		counts[s.Get(id).Level]++
	}
	return counts
}

// Records returns every recorded understanding in item ID order.
func (s *Service) Records() []store.MasteryData {
	return records(s.items)
}

// SnapshotData exports the ledger for persistence.
func (s *Service) SnapshotData() store.SnapshotData {
	return store.SnapshotData{
		Version: store.CurrentSnapshotVersion,
		Mastery: s.Records(),
	}
}

func records(m map[string]Understanding) []store.MasteryData {
	ids := sortedKeys(m)
	out := make([]store.MasteryData, 0, len(ids))
	for _, id := range ids {
		out = append(out, ToData(id, m[id]))
	}
	return out
}

func sortedKeys(m map[string]Understanding) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
