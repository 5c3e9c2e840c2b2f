package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/mart"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/schedule"
	"github.com/courtsight/featuremart/internal/domain/team"
	"github.com/courtsight/featuremart/internal/platform/logging"
)

// MartService assembles every derived output into the wide consumer-facing
// feature rows. The join is a left-outer one over the full roster: a player
// with no odds, no injury report and no rating still gets a row per stat
// category, with the missing features as nulls.
type MartService struct {
	teamRepo     team.Repository
	playerRepo   player.Repository
	teamGameRepo schedule.TeamGameRepository
	statusRepo   injury.StatusRepository
	lineRepo     odds.CurrentLineRepository
	lbRepo       mart.LeaderboardRepository
	insightRepo  mart.InsightRepository
	ratingRepo   mart.RatingRepository
	windowRepo   mart.RollingWindowRepository
	rowRepo      mart.FeatureRowRepository
	logger       *logging.Logger

	now func() time.Time
}

func NewMartService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	teamGameRepo schedule.TeamGameRepository,
	statusRepo injury.StatusRepository,
	lineRepo odds.CurrentLineRepository,
	lbRepo mart.LeaderboardRepository,
	insightRepo mart.InsightRepository,
	ratingRepo mart.RatingRepository,
	windowRepo mart.RollingWindowRepository,
	rowRepo mart.FeatureRowRepository,
	logger *logging.Logger,
) *MartService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MartService{
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		teamGameRepo: teamGameRepo,
		statusRepo:   statusRepo,
		lineRepo:     lineRepo,
		lbRepo:       lbRepo,
		insightRepo:  insightRepo,
		ratingRepo:   ratingRepo,
		windowRepo:   windowRepo,
		rowRepo:      rowRepo,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// martInputs is the full set of upstream snapshots the assembler joins.
type martInputs struct {
	players   []player.Player
	nextGames map[string]schedule.TeamGame
	statuses  []injury.PlayerStatus
	lines     []odds.CurrentLine
	entries   []mart.LeaderboardEntry
	insights  []mart.SubstitutionInsight
	ratings   []mart.PlayerRating
	windows   []mart.RollingWindowSummary
}

// Rebuild reassembles and replaces the whole feature mart.
func (s *MartService) Rebuild(ctx context.Context) ([]mart.PlayerFeatureRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MartService.Rebuild")
	defer span.End()

	inputs, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	rows := AssembleFeatureRows(inputs.players, inputs.nextGames, inputs.statuses,
		inputs.lines, inputs.entries, inputs.insights, inputs.ratings, inputs.windows,
		s.now())

	if err := s.rowRepo.Replace(ctx, rows); err != nil {
		return nil, fmt.Errorf("replace feature rows: %w", err)
	}

	s.logger.InfoContext(ctx, "feature mart assembled",
		"players", len(inputs.players),
		"rows", len(rows),
	)

	return rows, nil
}

func (s *MartService) loadInputs(ctx context.Context) (martInputs, error) {
	var inputs martInputs
	var err error

	if inputs.players, err = s.playerRepo.List(ctx); err != nil {
		return inputs, fmt.Errorf("list players: %w", err)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return inputs, fmt.Errorf("list teams: %w", err)
	}
	inputs.nextGames = make(map[string]schedule.TeamGame, len(teams))
	for _, t := range teams {
		next, ok, nextErr := s.teamGameRepo.NextGame(ctx, t.ID)
		if nextErr != nil {
			return inputs, fmt.Errorf("next game for team %s: %w", t.ID, nextErr)
		}
		if ok {
			inputs.nextGames[t.ID] = next
		}
	}

	if inputs.statuses, err = s.statusRepo.List(ctx); err != nil {
		return inputs, fmt.Errorf("list player statuses: %w", err)
	}
	if inputs.lines, err = s.lineRepo.List(ctx); err != nil {
		return inputs, fmt.Errorf("list current lines: %w", err)
	}
	if inputs.entries, err = s.lbRepo.List(ctx); err != nil {
		return inputs, fmt.Errorf("list leaderboards: %w", err)
	}
	if inputs.insights, err = s.insightRepo.List(ctx); err != nil {
		return inputs, fmt.Errorf("list substitution insights: %w", err)
	}
	if inputs.ratings, err = s.ratingRepo.List(ctx); err != nil {
		return inputs, fmt.Errorf("list ratings: %w", err)
	}
	if inputs.windows, err = s.windowRepo.List(ctx); err != nil {
		return inputs, fmt.Errorf("list window summaries: %w", err)
	}

	return inputs, nil
}

// AssembleFeatureRows performs the left-outer join. The row base is the full
// roster crossed with every stat category, so feature absence can only ever
// null a column, never drop a row.
func AssembleFeatureRows(
	players []player.Player,
	nextGames map[string]schedule.TeamGame,
	statuses []injury.PlayerStatus,
	lines []odds.CurrentLine,
	entries []mart.LeaderboardEntry,
	insights []mart.SubstitutionInsight,
	ratings []mart.PlayerRating,
	windows []mart.RollingWindowSummary,
	computedAt time.Time,
) []mart.PlayerFeatureRow {
	type featureKey struct {
		playerID string
		statType boxscore.StatType
	}

	statusByPlayer := make(map[string]injury.PlayerStatus, len(statuses))
	for _, status := range statuses {
		statusByPlayer[status.PlayerID] = status
	}

	lineByKey := make(map[featureKey]odds.CurrentLine, len(lines))
	for _, line := range lines {
		lineByKey[featureKey{playerID: line.PlayerID, statType: line.StatType}] = line
	}

	entryByKey := make(map[featureKey]mart.LeaderboardEntry, len(entries))
	for _, entry := range entries {
		entryByKey[featureKey{playerID: entry.PlayerID, statType: entry.StatType}] = entry
	}

	insightByLeader := make(map[featureKey]mart.SubstitutionInsight, len(insights))
	for _, insight := range insights {
		insightByLeader[featureKey{playerID: insight.LeaderID, statType: insight.StatType}] = insight
	}

	ratingByKey := make(map[featureKey]mart.PlayerRating, len(ratings))
	for _, rating := range ratings {
		ratingByKey[featureKey{playerID: rating.PlayerID, statType: rating.StatType}] = rating
	}

	pctByWindow := make(map[featureKey]map[mart.Window]*int, len(windows))
	for _, window := range windows {
		key := featureKey{playerID: window.PlayerID, statType: window.StatType}
		if pctByWindow[key] == nil {
			pctByWindow[key] = make(map[mart.Window]*int, 3)
		}
		pctByWindow[key][window.Window] = window.PctOver
	}

	rows := make([]mart.PlayerFeatureRow, 0, len(players)*len(boxscore.AllStatTypes))
	for _, p := range players {
		for _, statType := range boxscore.AllStatTypes {
			key := featureKey{playerID: p.ID, statType: statType}
			row := mart.PlayerFeatureRow{
				PlayerID:   p.ID,
				PlayerName: p.Name,
				TeamID:     p.TeamID,
				StatType:   statType,
				ComputedAt: computedAt,
			}

			if entry, ok := entryByKey[key]; ok {
				row.Rank = intPtr(entry.Rank)
				row.AvgValue = floatPtr(entry.AvgValue)
				row.TeamAvg = floatPtr(entry.TeamAvg)
				row.TeamStdDev = entry.TeamStdDev
			}
			if rating, ok := ratingByKey[key]; ok {
				row.ZScore = floatPtr(rating.ZScore)
				row.RatingStars = intPtr(rating.RatingStars)
			}
			if status, ok := statusByPlayer[p.ID]; ok {
				row.InjuryStatus = status.Status
			}
			if insight, ok := insightByLeader[key]; ok {
				row.BackupID = strPtr(insight.BackupID)
				row.AvgWhenLeaderOut = insight.AvgWhenLeaderOut
				row.GamesAnalyzed = intPtr(insight.GamesAnalyzed)
				row.AvgNormal = insight.AvgNormal
				row.TotalGames = intPtr(insight.TotalGames)
			}
			if line, ok := lineByKey[key]; ok {
				row.Line = floatPtr(line.Line)
				row.LineBookmaker = strPtr(line.Bookmaker)
			}
			if pcts, ok := pctByWindow[key]; ok {
				row.PctOverLast5 = pcts[mart.WindowLast5]
				row.PctOverLast10 = pcts[mart.WindowLast10]
				row.PctOverLast30 = pcts[mart.WindowLast30]
			}
			if next, ok := nextGames[p.TeamID]; ok {
				row.NextGameID = strPtr(next.GameID)
				row.NextOpponentID = strPtr(next.OpponentID)
				row.IsBackToBack = boolPtr(next.IsBackToBack)
			}

			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlayerID != rows[j].PlayerID {
			return rows[i].PlayerID < rows[j].PlayerID
		}
		return rows[i].StatType < rows[j].StatType
	})

	return rows
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }
