// Package app wires the store, mastery ledger, question graph and session
// together behind the operations the CLI exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/zhongchar/zhongchar/internal/content"
	"github.com/zhongchar/zhongchar/internal/mastery"
	"github.com/zhongchar/zhongchar/internal/metrics"
	"github.com/zhongchar/zhongchar/internal/prompt"
	"github.com/zhongchar/zhongchar/internal/questiongraph"
	"github.com/zhongchar/zhongchar/internal/session"
	"github.com/zhongchar/zhongchar/internal/store"
)

var (
	// ErrUnknownItem is returned for an item ID that has not been imported.
	ErrUnknownItem = errors.New("unknown item")

	// ErrNoSnapshot is returned by RestoreLatest when nothing was saved yet.
	ErrNoSnapshot = errors.New("no snapshot saved yet")
)

// Options configures an App.
type Options struct {
	Store         *store.Store
	Logger        *slog.Logger
	Metrics       *metrics.Metrics // optional
	SnapshotsKeep int
}

// App holds the loaded learner state for one CLI invocation.
type App struct {
	store         *store.Store
	ledger        *mastery.Service
	logger        *slog.Logger
	metrics       *metrics.Metrics
	snapshotsKeep int
}

// Open loads the mastery ledger from the store. Stored records with an
// unknown level are skipped with a warning.
func Open(ctx context.Context, opts Options) (*App, error) {
	if opts.Store == nil {
		return nil, errors.New("app: nil store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	keep := opts.SnapshotsKeep
	if keep < 1 {
		keep = 1
	}

	records, err := opts.Store.MasteryRepo().Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mastery: %w", err)
	}
	ledger, err := mastery.NewService(records)
	if err != nil {
		logger.Warn("skipping invalid mastery records", slog.String("error", err.Error()))
	}
	logger.Debug("mastery loaded", slog.Int("records", len(records)))

	return &App{
		store:         opts.Store,
		ledger:        ledger,
		logger:        logger,
		metrics:       opts.Metrics,
		snapshotsKeep: keep,
	}, nil
}

// Ledger returns the in-memory mastery ledger.
func (a *App) Ledger() *mastery.Service { return a.ledger }

// ImportResult reports what Import stored.
type ImportResult struct {
	Items    int
	Radicals int
	Seeded   int
}

// Import fetches items from p, checks that they form a valid graph, stores
// them and seeds DontKnow for items without a recorded understanding.
func (a *App) Import(ctx context.Context, p content.Provider) (ImportResult, error) {
	items, err := p.Items(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("fetch items: %w", err)
	}
	if _, err := content.BuildGraph(items, a.ledger); err != nil {
		return ImportResult{}, err
	}
	if err := a.store.ItemRepo().SaveItems(ctx, content.ToStoreItems(items)); err != nil {
		return ImportResult{}, err
	}
	var radicals []content.Radical
	if rp, ok := p.(content.RadicalProvider); ok {
		if radicals, err = rp.Radicals(ctx); err != nil {
			return ImportResult{}, fmt.Errorf("fetch radicals: %w", err)
		}
		if err := a.store.ItemRepo().SaveRadicals(ctx, content.ToStoreRadicals(radicals)); err != nil {
			return ImportResult{}, err
		}
	}

	var seeded []mastery.Transition
	for _, it := range items {
		if a.ledger.Has(it.ID) {
			continue
		}
		seeded = append(seeded, mastery.Transition{
			ItemID:  it.ID,
			From:    a.ledger.Get(it.ID),
			To:      mastery.DontKnowState(),
			Trigger: mastery.TriggerImport,
		})
	}
	if err := a.persist(ctx, seeded, ""); err != nil {
		return ImportResult{}, err
	}

	a.logger.Info("items imported",
		slog.Int("items", len(items)),
		slog.Int("radicals", len(radicals)),
		slog.Int("seeded", len(seeded)),
	)
	return ImportResult{Items: len(items), Radicals: len(radicals), Seeded: len(seeded)}, nil
}

// Items returns the imported items in order.
func (a *App) Items(ctx context.Context) ([]content.Item, error) {
	return content.StoreProvider{Repo: a.store.ItemRepo()}.Items(ctx)
}

// Radicals returns the imported radical reference records by number.
func (a *App) Radicals(ctx context.Context) ([]content.Radical, error) {
	return content.StoreProvider{Repo: a.store.ItemRepo()}.Radicals(ctx)
}

// Graph builds the question graph over the imported items.
func (a *App) Graph(ctx context.Context) (*content.Graph, error) {
	items, err := a.Items(ctx)
	if err != nil {
		return nil, err
	}
	return content.BuildGraph(items, a.ledger)
}

// OverallFrame returns a frame of the first size nodes in topological order,
// or all nodes when size <= 0.
func OverallFrame(g *questiongraph.Graph, size int) session.Frame {
	order := g.TopologicalOrder()
	if size > 0 && size < len(order) {
		order = order[:size]
	}
	return session.NewFrame(order...)
}

// SessionResult reports one session run.
type SessionResult struct {
	ID      string
	Summary session.PassSummary
	Chunks  []session.Frame
	Next    *prompt.RadicalForm // nil when every reachable item is mastered
	Graph   *content.Graph
}

// RunSession runs one session over a frame of size items (all when <= 0),
// records a session event and snapshots the ledger.
func (a *App) RunSession(ctx context.Context, size int) (*SessionResult, error) {
	g, err := a.Graph(ctx)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{session.WithLogger(a.logger)}
	if a.metrics != nil {
		opts = append(opts, session.WithRecorder(a.metrics))
	}
	s := session.New(g.Graph, OverallFrame(g.Graph, size), opts...)

	sum, err := s.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	res := &SessionResult{
		ID:      s.ID(),
		Summary: sum,
		Chunks:  s.Frame().Chunks(),
		Graph:   g,
	}
	if idx, ok := s.Next(); ok {
		res.Next = radicalAt(g, idx)
	}

	err = a.store.EventRepo().AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:     s.ID(),
		FrameSize:     s.Frame().Size,
		Chunks:        len(res.Chunks),
		Visited:       sum.Visited,
		DontKnow:      sum.DontKnow,
		Know:          sum.Know,
		InstantRecall: sum.InstantRecall,
	})
	if err != nil {
		a.logger.Warn("failed to record session event", slog.String("error", err.Error()))
	}
	if err := a.snapshot(ctx); err != nil {
		a.logger.Warn("failed to save snapshot", slog.String("error", err.Error()))
	}
	return res, nil
}

// Next returns the prompt to surface when starting from item fromID, or
// from the whole overall frame when fromID is empty.
func (a *App) Next(ctx context.Context, fromID string) (*prompt.RadicalForm, bool, error) {
	g, err := a.Graph(ctx)
	if err != nil {
		return nil, false, err
	}

	if fromID == "" {
		opts := []session.Option{session.WithLogger(a.logger)}
		if a.metrics != nil {
			opts = append(opts, session.WithRecorder(a.metrics))
		}
		idx, ok := session.New(g.Graph, OverallFrame(g.Graph, 0), opts...).Next()
		if !ok {
			return nil, false, nil
		}
		return radicalAt(g, idx), true, nil
	}

	start, ok := g.IndexOf(fromID)
	if !ok {
		return nil, false, fmt.Errorf("next from %q: %w", fromID, ErrUnknownItem)
	}
	idx, ok := g.FindShallowNode(start)
	a.observeSearch(g, idx, ok)
	if !ok {
		return nil, false, nil
	}
	return radicalAt(g, idx), true, nil
}

// Mark sets the understanding of one item through the prompt's side
// channel and persists the change.
func (a *App) Mark(ctx context.Context, itemID string, u mastery.Understanding) (mastery.Transition, error) {
	g, err := a.Graph(ctx)
	if err != nil {
		return mastery.Transition{}, err
	}
	p, ok := g.Prompts[itemID]
	if !ok {
		return mastery.Transition{}, fmt.Errorf("mark %q: %w", itemID, ErrUnknownItem)
	}

	t := p.SetUnderstanding(u, mastery.TriggerManual)
	if err := a.persist(ctx, []mastery.Transition{t}, ""); err != nil {
		return mastery.Transition{}, err
	}
	a.logger.Info("understanding marked",
		slog.String("item", itemID),
		slog.String("from", t.From.String()),
		slog.String("to", t.To.String()),
	)
	return t, nil
}

// Export writes the ledger as a JSON snapshot document.
func (a *App) Export(w io.Writer) error {
	return store.EncodeSnapshot(w, a.ledger.SnapshotData())
}

// Restore replaces the ledger with a snapshot document read from r. The
// document is validated before anything changes.
func (a *App) Restore(ctx context.Context, r io.Reader) ([]mastery.Transition, error) {
	data, err := store.DecodeSnapshot(r)
	if err != nil {
		return nil, err
	}
	transitions, err := a.replace(ctx, *data, mastery.TriggerRestore)
	if err != nil {
		return nil, err
	}
	a.logger.Info("mastery restored", slog.Int("records", len(data.Mastery)), slog.Int("changed", len(transitions)))
	return transitions, nil
}

// RestoreLatest returns the ledger to the most recent stored snapshot.
// Reset and Restore snapshot the state they replace, so this undoes the
// last of them.
func (a *App) RestoreLatest(ctx context.Context) ([]mastery.Transition, error) {
	snap, err := a.store.SnapshotRepo().Latest(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	transitions, err := a.replace(ctx, snap.Data, mastery.TriggerRestore)
	if err != nil {
		return nil, err
	}
	a.logger.Info("mastery restored from snapshot",
		slog.Int("snapshot", snap.ID),
		slog.Time("taken", snap.Timestamp),
		slog.Int("changed", len(transitions)),
	)
	return transitions, nil
}

// Reset returns every item to DontKnow. The ledger is snapshotted first so
// the previous state can be found in the snapshot history.
func (a *App) Reset(ctx context.Context) ([]mastery.Transition, error) {
	transitions, err := a.replace(ctx, store.SnapshotData{Version: store.CurrentSnapshotVersion}, mastery.TriggerReset)
	if err != nil {
		return nil, err
	}
	a.logger.Info("mastery reset", slog.Int("changed", len(transitions)))
	return transitions, nil
}

// replace swaps the ledger for data. The current ledger is snapshotted and
// the stored records are replaced in one transaction before the in-memory
// ledger changes, so a failed write leaves both as they were.
func (a *App) replace(ctx context.Context, data store.SnapshotData, trigger string) ([]mastery.Transition, error) {
	plan, err := a.ledger.PlanRestore(data)
	if err != nil {
		return nil, fmt.Errorf("restore mastery: %w", err)
	}
	if err := a.snapshot(ctx); err != nil {
		return nil, fmt.Errorf("snapshot before %s: %w", trigger, err)
	}
	if err := a.store.MasteryRepo().Replace(ctx, plan.Records()); err != nil {
		return nil, err
	}
	a.ledger.Apply(plan)

	for i := range plan.Transitions {
		plan.Transitions[i].Trigger = trigger
		a.recordEvent(ctx, plan.Transitions[i], "")
	}
	return plan.Transitions, nil
}

// Stats summarizes the learner's state.
type Stats struct {
	Items    int
	ByLevel  map[mastery.Level]int
	Sessions []store.SessionEventRecord
}

// Stats counts imported items per level and lists recent sessions.
func (a *App) Stats(ctx context.Context, recent int) (*Stats, error) {
	items, err := a.Items(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	sessions, err := a.store.EventRepo().RecentSessions(ctx, recent)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Items:    len(items),
		ByLevel:  a.ledger.Counts(ids),
		Sessions: sessions,
	}, nil
}

// History returns the recorded understanding changes for one item.
func (a *App) History(ctx context.Context, itemID string) ([]store.MasteryEventRecord, error) {
	return a.store.EventRepo().MasteryEvents(ctx, itemID)
}

// persist saves the target state of each transition, then applies it to the
// ledger and logs a mastery event for each change. The ledger is untouched
// when the save fails.
func (a *App) persist(ctx context.Context, transitions []mastery.Transition, sessionID string) error {
	var records []store.MasteryData
	for _, t := range transitions {
		records = append(records, mastery.ToData(t.ItemID, t.To))
	}
	if err := a.store.MasteryRepo().Save(ctx, records); err != nil {
		return err
	}
	for _, t := range transitions {
		a.ledger.Set(t.ItemID, t.To, t.Trigger)
		if t.Changed() {
			a.recordEvent(ctx, t, sessionID)
		}
	}
	return nil
}

func (a *App) recordEvent(ctx context.Context, t mastery.Transition, sessionID string) {
	if err := a.store.EventRepo().AppendMasteryEvent(ctx, mastery.EventData(t, sessionID)); err != nil {
		a.logger.Warn("failed to record mastery event",
			slog.String("item", t.ItemID),
			slog.String("error", err.Error()),
		)
	}
	if a.metrics != nil {
		a.metrics.ObserveMasteryChange(t.Trigger)
	}
}

// snapshot saves the ledger and prunes old snapshots.
func (a *App) snapshot(ctx context.Context) error {
	var seq int64
	if recent, err := a.store.EventRepo().RecentSessions(ctx, 1); err == nil && len(recent) > 0 {
		seq = recent[0].Sequence
	}
	repo := a.store.SnapshotRepo()
	err := repo.Save(ctx, &store.Snapshot{
		Sequence:  seq,
		Timestamp: time.Now().UTC(),
		Data:      a.ledger.SnapshotData(),
	})
	if err != nil {
		return err
	}
	return repo.Prune(ctx, a.snapshotsKeep)
}

func (a *App) observeSearch(g *content.Graph, idx questiongraph.NodeIndex, ok bool) {
	if a.metrics == nil {
		return
	}
	result := session.SearchNone
	if ok {
		result = session.SearchKnow
		if n, err := g.Node(idx); err == nil && n.Prompt.CurrentUnderstanding().Level == mastery.DontKnow {
			result = session.SearchDontKnow
		}
	}
	a.metrics.ObserveSearch(result)
}

func radicalAt(g *content.Graph, idx questiongraph.NodeIndex) *prompt.RadicalForm {
	n, err := g.Node(idx)
	if err != nil {
		return nil
	}
	r, _ := n.Prompt.(*prompt.RadicalForm)
	return r
}
