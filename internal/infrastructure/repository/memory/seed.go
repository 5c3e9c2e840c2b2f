package memory

import (
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/identity"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/schedule"
	"github.com/courtsight/featuremart/internal/domain/team"
)

const (
	TeamIDCeltics  = "bos"
	TeamIDLakers   = "lal"
	TeamIDNuggets  = "den"
	TeamIDWarriors = "gsw"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDCeltics, Name: "Boston Celtics", Abbreviation: "BOS"},
		{ID: TeamIDLakers, Name: "Los Angeles Lakers", Abbreviation: "LAL"},
		{ID: TeamIDNuggets, Name: "Denver Nuggets", Abbreviation: "DEN"},
		{ID: TeamIDWarriors, Name: "Golden State Warriors", Abbreviation: "GSW"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "bos-01", Name: "Jayson Tatum", TeamID: TeamIDCeltics, Position: player.PositionForward},
		{ID: "bos-02", Name: "Jaylen Brown", TeamID: TeamIDCeltics, Position: player.PositionGuardForward},
		{ID: "bos-03", Name: "Derrick White", TeamID: TeamIDCeltics, Position: player.PositionGuard},
		{ID: "lal-01", Name: "LeBron James", TeamID: TeamIDLakers, Position: player.PositionForward},
		{ID: "lal-02", Name: "Anthony Davis", TeamID: TeamIDLakers, Position: player.PositionForwardCenter},
		{ID: "lal-03", Name: "Austin Reaves", TeamID: TeamIDLakers, Position: player.PositionGuard},
		{ID: "den-01", Name: "Nikola Jokic", TeamID: TeamIDNuggets, Position: player.PositionCenter},
		{ID: "den-02", Name: "Jamal Murray", TeamID: TeamIDNuggets, Position: player.PositionGuard},
		{ID: "gsw-01", Name: "Stephen Curry", TeamID: TeamIDWarriors, Position: player.PositionGuard},
		{ID: "gsw-02", Name: "Draymond Green", TeamID: TeamIDWarriors, Position: player.PositionForward},
	}
}

func SeedGames() []schedule.Game {
	score := func(v int) *int { return &v }
	return []schedule.Game{
		{ID: "g-001", Date: date(2025, 1, 10), HomeTeamID: TeamIDCeltics, AwayTeamID: TeamIDLakers, HomeScore: score(118), AwayScore: score(110)},
		{ID: "g-002", Date: date(2025, 1, 11), HomeTeamID: TeamIDLakers, AwayTeamID: TeamIDNuggets, HomeScore: score(104), AwayScore: score(112)},
		{ID: "g-003", Date: date(2025, 1, 13), HomeTeamID: TeamIDCeltics, AwayTeamID: TeamIDNuggets, HomeScore: score(121), AwayScore: score(119)},
		{ID: "g-004", Date: date(2025, 1, 14), HomeTeamID: TeamIDWarriors, AwayTeamID: TeamIDCeltics, HomeScore: score(99), AwayScore: score(107)},
		{ID: "g-005", Date: date(2025, 1, 20), HomeTeamID: TeamIDNuggets, AwayTeamID: TeamIDWarriors},
		{ID: "g-006", Date: date(2025, 1, 21), HomeTeamID: TeamIDLakers, AwayTeamID: TeamIDCeltics},
	}
}

func SeedPlayerGameStats() []boxscore.PlayerGameStat {
	points := func(playerID, gameID, teamID string, value, minutes float64, day int) boxscore.PlayerGameStat {
		return boxscore.PlayerGameStat{
			PlayerID:      playerID,
			GameID:        gameID,
			TeamID:        teamID,
			StatType:      boxscore.StatPoints,
			Value:         value,
			MinutesPlayed: minutes,
			GameDate:      date(2025, 1, day),
		}
	}
	return []boxscore.PlayerGameStat{
		points("bos-01", "g-001", TeamIDCeltics, 34, 36, 10),
		points("bos-02", "g-001", TeamIDCeltics, 26, 34, 10),
		points("bos-03", "g-001", TeamIDCeltics, 15, 30, 10),
		points("bos-01", "g-003", TeamIDCeltics, 30, 37, 13),
		points("bos-02", "g-003", TeamIDCeltics, 22, 33, 13),
		points("bos-03", "g-003", TeamIDCeltics, 18, 31, 13),
		points("bos-01", "g-004", TeamIDCeltics, 0, 0, 14),
		points("bos-02", "g-004", TeamIDCeltics, 31, 38, 14),
		points("bos-03", "g-004", TeamIDCeltics, 21, 35, 14),
		points("lal-01", "g-001", TeamIDLakers, 28, 38, 10),
		points("lal-02", "g-001", TeamIDLakers, 24, 35, 10),
		points("lal-03", "g-001", TeamIDLakers, 14, 28, 10),
		points("lal-01", "g-002", TeamIDLakers, 25, 36, 11),
		points("lal-02", "g-002", TeamIDLakers, 27, 37, 11),
		points("lal-03", "g-002", TeamIDLakers, 12, 26, 11),
		points("den-01", "g-002", TeamIDNuggets, 32, 36, 11),
		points("den-02", "g-002", TeamIDNuggets, 21, 34, 11),
		points("den-01", "g-003", TeamIDNuggets, 29, 38, 13),
		points("den-02", "g-003", TeamIDNuggets, 25, 36, 13),
		points("gsw-01", "g-004", TeamIDWarriors, 33, 36, 14),
		points("gsw-02", "g-004", TeamIDWarriors, 8, 30, 14),
	}
}

func SeedInjuryReports() []injury.Report {
	return []injury.Report{
		{PlayerName: "J. Tatum", Status: injury.StatusOut, ReportDate: date(2025, 1, 14), ReportTime: "09:30", IngestedAt: date(2025, 1, 14).Add(10 * time.Hour)},
		{PlayerName: "Anthony Davis", Status: injury.StatusQuestionable, ReportDate: date(2025, 1, 13), ReportTime: "17:00", IngestedAt: date(2025, 1, 13).Add(18 * time.Hour)},
	}
}

func SeedOddsSnapshots() []odds.Snapshot {
	return []odds.Snapshot{
		{PlayerName: "Jayson Tatum", Market: odds.MarketPoints, Line: 29.5, Price: -110, Side: odds.SideOver, SnapshotTime: date(2025, 1, 14).Add(8 * time.Hour), Bookmaker: "draftkings", IngestedAt: date(2025, 1, 14).Add(8 * time.Hour)},
		{PlayerName: "Nikola Jokic", Market: odds.MarketPoints, Line: 27.5, Price: -115, Side: odds.SideOver, SnapshotTime: date(2025, 1, 14).Add(9 * time.Hour), Bookmaker: "fanduel", IngestedAt: date(2025, 1, 14).Add(9 * time.Hour)},
		{PlayerName: "Nikola Jokic", Market: odds.MarketTripleDouble, Line: 1.0, Price: 130, Side: odds.SideYes, SnapshotTime: date(2025, 1, 14).Add(9 * time.Hour), Bookmaker: "fanduel", IngestedAt: date(2025, 1, 14).Add(9 * time.Hour)},
		{PlayerName: "Stephen Curry", Market: odds.MarketPoints, Line: 28.5, Price: -108, Side: odds.SideOver, SnapshotTime: date(2025, 1, 14).Add(7 * time.Hour), Bookmaker: "draftkings", IngestedAt: date(2025, 1, 14).Add(7 * time.Hour)},
	}
}

func SeedIdentityMappings() []identity.Mapping {
	return []identity.Mapping{
		{SourceSystem: identity.SourceInjuryReport, SourceName: "J. Tatum", CanonicalPlayerID: "bos-01", ConfidenceScore: 91, UpdatedAt: date(2025, 1, 14)},
		{SourceSystem: identity.SourceInjuryReport, SourceName: "Anthony Davis", CanonicalPlayerID: "lal-02", ConfidenceScore: 100, UpdatedAt: date(2025, 1, 13)},
		{SourceSystem: identity.SourceOdds, SourceName: "Jayson Tatum", CanonicalPlayerID: "bos-01", ConfidenceScore: 100, UpdatedAt: date(2025, 1, 14)},
		{SourceSystem: identity.SourceOdds, SourceName: "Nikola Jokic", CanonicalPlayerID: "den-01", ConfidenceScore: 100, UpdatedAt: date(2025, 1, 14)},
		{SourceSystem: identity.SourceOdds, SourceName: "Stephen Curry", CanonicalPlayerID: "gsw-01", ConfidenceScore: 100, UpdatedAt: date(2025, 1, 14)},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
