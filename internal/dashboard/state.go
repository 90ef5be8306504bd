package dashboard

import (
	"sync"

	"ricecast/internal/pricing"
)

// Kind selects one of the independently refreshed result slots.
type Kind int

const (
	KindPrediction Kind = iota
	KindHistorical
)

func (k Kind) String() string {
	switch k {
	case KindPrediction:
		return "prediction"
	case KindHistorical:
		return "historical"
	default:
		return "unknown"
	}
}

// Ticket identifies one request. Only the most recently issued ticket of a
// kind may write that kind's slot.
type Ticket struct {
	kind       Kind
	generation uint64
}

// Kind returns the slot the ticket belongs to.
func (t Ticket) Kind() Kind { return t.kind }

// Generation returns the request sequence number.
func (t Ticket) Generation() uint64 { return t.generation }

type slot struct {
	generation uint64
	loading    bool
	err        string
}

// State holds the latest prediction and historical results shown to the
// user. It is safe for concurrent use.
type State struct {
	mu         sync.Mutex
	prediction slot
	historical slot

	latestPrediction *pricing.Prediction
	latestRecords    []pricing.PeriodRecord
}

// NewState returns an empty state.
func NewState() *State {
	return &State{}
}

// Snapshot is an immutable copy of State.
type Snapshot struct {
	Prediction        *pricing.Prediction
	Records           []pricing.PeriodRecord
	PredictionLoading bool
	HistoricalLoading bool
	PredictionError   string
	HistoricalError   string
}

// Loading reports whether any request is in flight.
func (s Snapshot) Loading() bool {
	return s.PredictionLoading || s.HistoricalLoading
}

// Error returns the first non-empty error message.
func (s Snapshot) Error() string {
	if s.PredictionError != "" {
		return s.PredictionError
	}
	return s.HistoricalError
}

// Begin issues a ticket for a new request of kind, marking it loading and
// clearing that kind's previous error.
func (s *State) Begin(kind Kind) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.slotFor(kind)
	sl.generation++
	sl.loading = true
	sl.err = ""
	return Ticket{kind: kind, generation: sl.generation}
}

// CompletePrediction stores p if t is still current.
func (s *State) CompletePrediction(t Ticket, p pricing.Prediction) bool {
	if t.kind != KindPrediction {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(t) {
		return false
	}
	s.prediction.loading = false
	s.latestPrediction = clonePrediction(&p)
	return true
}

// CompleteHistorical stores records if t is still current.
func (s *State) CompleteHistorical(t Ticket, records []pricing.PeriodRecord) bool {
	if t.kind != KindHistorical {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(t) {
		return false
	}
	s.historical.loading = false
	s.latestRecords = append([]pricing.PeriodRecord(nil), records...)
	return true
}

// Fail records message for t's kind if t is still current. Data already
// held in either slot is left in place.
func (s *State) Fail(t Ticket, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(t) {
		return false
	}
	sl := s.slotFor(t.kind)
	sl.loading = false
	sl.err = message
	return true
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Prediction:        clonePrediction(s.latestPrediction),
		Records:           append([]pricing.PeriodRecord(nil), s.latestRecords...),
		PredictionLoading: s.prediction.loading,
		HistoricalLoading: s.historical.loading,
		PredictionError:   s.prediction.err,
		HistoricalError:   s.historical.err,
	}
}

func (s *State) current(t Ticket) bool {
	return t.generation != 0 && s.slotFor(t.kind).generation == t.generation
}

func (s *State) slotFor(kind Kind) *slot {
	if kind == KindHistorical {
		return &s.historical
	}
	return &s.prediction
}

func clonePrediction(p *pricing.Prediction) *pricing.Prediction {
	if p == nil {
		return nil
	}
	out := pricing.Prediction{
		Period:  p.Period,
		Entries: make(map[pricing.Tier]pricing.PredictionEntry, len(p.Entries)),
	}
	for k, v := range p.Entries {
		out.Entries[k] = v
	}
	return &out
}
