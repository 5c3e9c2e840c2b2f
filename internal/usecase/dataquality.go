package usecase

import "sync"

// Data-quality event kinds recorded by derivation stages. These are counters,
// never failures: gaps degrade to nulls downstream.
const (
	DQAmbiguousMapping    = "ambiguous_identity_mapping"
	DQUnresolvedOddsName  = "unresolved_odds_player_name"
	DQUnmappedInjuryName  = "unmapped_injury_player_name"
	DQDuplicateSnapshot   = "duplicate_odds_snapshot_dropped"
	DQDegenerateStdDev    = "degenerate_team_stddev"
	DQStatMissingGameDate = "stat_missing_game_date"
)

// DataQuality accumulates per-run data-quality counters across stages. Safe
// for concurrent use by parallel branches.
type DataQuality struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewDataQuality() *DataQuality {
	return &DataQuality{counts: make(map[string]int)}
}

func (d *DataQuality) Record(event string) {
	d.Add(event, 1)
}

func (d *DataQuality) Add(event string, n int) {
	if d == nil || event == "" || n == 0 {
		return
	}
	d.mu.Lock()
	d.counts[event] += n
	d.mu.Unlock()
}

// Counts returns a copy of the accumulated counters.
func (d *DataQuality) Counts() map[string]int {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]int, len(d.counts))
	for k, v := range d.counts {
		out[k] = v
	}
	return out
}
