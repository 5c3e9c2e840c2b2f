package odds

import (
	"fmt"
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
)

// Market is a sportsbook player-prop market key as delivered by the odds
// provider.
type Market string

const (
	MarketPoints       Market = "player_points"
	MarketRebounds     Market = "player_rebounds"
	MarketAssists      Market = "player_assists"
	MarketThrees       Market = "player_threes"
	MarketBlocks       Market = "player_blocks"
	MarketSteals       Market = "player_steals"
	MarketTurnovers    Market = "player_turnovers"
	MarketDoubleDouble Market = "player_double_double"
	MarketTripleDouble Market = "player_triple_double"
)

var marketStatTypes = map[Market]boxscore.StatType{
	MarketPoints:       boxscore.StatPoints,
	MarketRebounds:     boxscore.StatRebounds,
	MarketAssists:      boxscore.StatAssists,
	MarketThrees:       boxscore.StatThrees,
	MarketBlocks:       boxscore.StatBlocks,
	MarketSteals:       boxscore.StatSteals,
	MarketTurnovers:    boxscore.StatTurnovers,
	MarketDoubleDouble: boxscore.StatDoubleDouble,
	MarketTripleDouble: boxscore.StatTripleDouble,
}

// StatType maps a market onto its canonical stat category. Markets without a
// canonical category (combo props and similar) return ok=false and are
// excluded from classification.
func (m Market) StatType() (boxscore.StatType, bool) {
	statType, ok := marketStatTypes[m]
	return statType, ok
}

// BinaryLine is the fixed line applied to boolean-outcome markets.
const BinaryLine = 1.0

// Side of a quoted price.
type Side string

const (
	SideOver  Side = "over"
	SideUnder Side = "under"
	SideYes   Side = "yes"
	SideNo    Side = "no"
)

// Snapshot is one bookmaker quote observation for a player-market pair.
// IngestedAt orders duplicates sharing a snapshot time.
type Snapshot struct {
	PlayerName   string
	Market       Market
	Line         float64
	Price        int
	Side         Side
	SnapshotTime time.Time
	Bookmaker    string
	IngestedAt   time.Time
}

func (s Snapshot) Validate() error {
	if s.PlayerName == "" {
		return fmt.Errorf("odds snapshot player name is required")
	}
	if s.Market == "" {
		return fmt.Errorf("odds snapshot market is required")
	}
	if s.SnapshotTime.IsZero() {
		return fmt.Errorf("odds snapshot time is required")
	}

	return nil
}

// CurrentLine is the derived single freshest line per (canonical player,
// market).
type CurrentLine struct {
	PlayerID     string
	Market       Market
	StatType     boxscore.StatType
	Line         float64
	Price        int
	Bookmaker    string
	SnapshotTime time.Time
}

// VsLine is the over/under outcome of a stat value against a line.
type VsLine string

const (
	VsOver  VsLine = "over"
	VsUnder VsLine = "under"
)

// Classification compares one observed per-game stat value against the
// current line. Line and VsLine are nil when no line exists for the pair.
type Classification struct {
	PlayerID string
	GameID   string
	StatType boxscore.StatType
	GameDate time.Time
	Value    float64
	Line     *float64
	VsLine   *VsLine
}
