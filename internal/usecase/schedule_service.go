package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/courtsight/featuremart/internal/domain/schedule"
	"github.com/courtsight/featuremart/internal/platform/logging"
	"github.com/courtsight/featuremart/internal/platform/relops"
)

// ScheduleService derives per-(team, game) schedule rows: previous-game
// linkage, back-to-back flags and the next game on/after the as-of date.
type ScheduleService struct {
	gameRepo     schedule.GameRepository
	teamGameRepo schedule.TeamGameRepository
	logger       *logging.Logger
}

func NewScheduleService(
	gameRepo schedule.GameRepository,
	teamGameRepo schedule.TeamGameRepository,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ScheduleService{
		gameRepo:     gameRepo,
		teamGameRepo: teamGameRepo,
		logger:       logger,
	}
}

// Rebuild recomputes the full derived set for the given as-of date and
// replaces prior state. The as-of date is always an explicit parameter.
func (s *ScheduleService) Rebuild(ctx context.Context, asOf time.Time) ([]schedule.TeamGame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Rebuild")
	defer span.End()

	if asOf.IsZero() {
		return nil, fmt.Errorf("%w: as-of date is required", ErrInvalidInput)
	}

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	rows := BuildTeamGames(games, asOf)
	if err := s.teamGameRepo.Replace(ctx, rows); err != nil {
		return nil, fmt.Errorf("replace team games: %w", err)
	}

	s.logger.InfoContext(ctx, "team schedule rebuilt",
		"games", len(games),
		"team_games", len(rows),
		"as_of", asOf.Format("2006-01-02"),
	)

	return rows, nil
}

// BuildTeamGames explodes games into per-team rows ordered by
// (date, game_id) ascending and computes the derived schedule flags. A team's
// first observed game has no previous game and is never a back-to-back.
func BuildTeamGames(games []schedule.Game, asOf time.Time) []schedule.TeamGame {
	asOfDate := truncateToDate(asOf)

	perTeam := make([]schedule.TeamGame, 0, len(games)*2)
	for _, game := range games {
		perTeam = append(perTeam,
			schedule.TeamGame{
				TeamID:     game.HomeTeamID,
				GameID:     game.ID,
				Date:       truncateToDate(game.Date),
				OpponentID: game.AwayTeamID,
				IsHome:     true,
			},
			schedule.TeamGame{
				TeamID:     game.AwayTeamID,
				GameID:     game.ID,
				Date:       truncateToDate(game.Date),
				OpponentID: game.HomeTeamID,
				IsHome:     false,
			},
		)
	}

	groups := relops.GroupBy(perTeam, func(tg schedule.TeamGame) string { return tg.TeamID })

	teamIDs := make([]string, 0, len(groups))
	for teamID := range groups {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Strings(teamIDs)

	out := make([]schedule.TeamGame, 0, len(perTeam))
	for _, teamID := range teamIDs {
		rows := groups[teamID]
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].Date.Equal(rows[j].Date) {
				return rows[i].Date.Before(rows[j].Date)
			}
			return rows[i].GameID < rows[j].GameID
		})

		nextAssigned := false
		for i := range rows {
			if i > 0 {
				prev := rows[i-1]
				prevID := prev.GameID
				days := daysBetween(prev.Date, rows[i].Date)
				rows[i].PreviousGameID = &prevID
				rows[i].DaysSincePrevious = &days
				rows[i].IsBackToBack = days == 1
			}
			if !nextAssigned && !rows[i].Date.Before(asOfDate) {
				rows[i].IsNextGame = true
				nextAssigned = true
			}
		}

		out = append(out, rows...)
	}

	return out
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
