// Package normalize is the typed boundary between raw provider payloads and
// the canonical records the pipeline computes over. Anything that does not
// decode and validate cleanly here is schema drift and fails the run before
// any derived stage executes; drift is never coerced downstream.
package normalize

import (
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/identity"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/schedule"
	"github.com/courtsight/featuremart/internal/domain/team"
)

// ErrSchemaDrift marks any decode or validation failure at the boundary.
var ErrSchemaDrift = crerr.New("schema drift at normalization boundary")

const dateLayout = "2006-01-02"

type Decoder struct {
	validate *validator.Validate
}

func NewDecoder() *Decoder {
	return &Decoder{validate: validator.New(validator.WithRequiredStructEnabled())}
}

type rawTeam struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"full_name" validate:"required"`
	Abbreviation string `json:"abbreviation" validate:"required"`
}

func (d *Decoder) Team(payload []byte) (team.Team, error) {
	var raw rawTeam
	if err := d.decode(payload, &raw, "team"); err != nil {
		return team.Team{}, err
	}

	out := team.Team{ID: raw.ID, Name: raw.Name, Abbreviation: raw.Abbreviation}
	if err := out.Validate(); err != nil {
		return team.Team{}, drift(err, "team")
	}

	return out, nil
}

type rawPlayer struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	TeamID   string `json:"team_id" validate:"required"`
	Position string `json:"position"`
}

func (d *Decoder) Player(payload []byte) (player.Player, error) {
	var raw rawPlayer
	if err := d.decode(payload, &raw, "player"); err != nil {
		return player.Player{}, err
	}

	out := player.Player{
		ID:       raw.ID,
		Name:     raw.Name,
		TeamID:   raw.TeamID,
		Position: player.Position(raw.Position),
	}
	if err := out.Validate(); err != nil {
		return player.Player{}, drift(err, "player")
	}

	return out, nil
}

type rawGame struct {
	ID         string `json:"id" validate:"required"`
	Date       string `json:"date" validate:"required"`
	HomeTeamID string `json:"home_team_id" validate:"required"`
	AwayTeamID string `json:"visitor_team_id" validate:"required"`
	HomeScore  *int   `json:"home_team_score"`
	AwayScore  *int   `json:"visitor_team_score"`
}

func (d *Decoder) Game(payload []byte) (schedule.Game, error) {
	var raw rawGame
	if err := d.decode(payload, &raw, "game"); err != nil {
		return schedule.Game{}, err
	}

	date, err := time.Parse(dateLayout, raw.Date)
	if err != nil {
		return schedule.Game{}, drift(crerr.Wrapf(err, "parse game date %q", raw.Date), "game")
	}

	out := schedule.Game{
		ID:         raw.ID,
		Date:       date,
		HomeTeamID: raw.HomeTeamID,
		AwayTeamID: raw.AwayTeamID,
		HomeScore:  raw.HomeScore,
		AwayScore:  raw.AwayScore,
	}
	if err := out.Validate(); err != nil {
		return schedule.Game{}, drift(err, "game")
	}

	return out, nil
}

type rawPlayerGameStat struct {
	PlayerID      string   `json:"player_id" validate:"required"`
	GameID        string   `json:"game_id" validate:"required"`
	TeamID        string   `json:"team_id" validate:"required"`
	StatType      string   `json:"stat_type" validate:"required"`
	Value         *float64 `json:"value" validate:"required"`
	MinutesPlayed *float64 `json:"minutes_played" validate:"required"`
	GameDate      string   `json:"game_date" validate:"required"`
}

func (d *Decoder) PlayerGameStat(payload []byte) (boxscore.PlayerGameStat, error) {
	var raw rawPlayerGameStat
	if err := d.decode(payload, &raw, "player_game_stat"); err != nil {
		return boxscore.PlayerGameStat{}, err
	}

	gameDate, err := time.Parse(dateLayout, raw.GameDate)
	if err != nil {
		return boxscore.PlayerGameStat{}, drift(crerr.Wrapf(err, "parse game date %q", raw.GameDate), "player_game_stat")
	}

	out := boxscore.PlayerGameStat{
		PlayerID:      raw.PlayerID,
		GameID:        raw.GameID,
		TeamID:        raw.TeamID,
		StatType:      boxscore.StatType(raw.StatType),
		Value:         *raw.Value,
		MinutesPlayed: *raw.MinutesPlayed,
		GameDate:      gameDate,
	}
	if err := out.Validate(); err != nil {
		return boxscore.PlayerGameStat{}, drift(err, "player_game_stat")
	}

	return out, nil
}

type rawInjuryReport struct {
	PlayerName string    `json:"player_name" validate:"required"`
	Status     string    `json:"status" validate:"required"`
	ReportDate string    `json:"report_date" validate:"required"`
	ReportTime string    `json:"report_time"`
	IngestedAt time.Time `json:"ingested_at" validate:"required"`
}

func (d *Decoder) InjuryReport(payload []byte) (injury.Report, error) {
	var raw rawInjuryReport
	if err := d.decode(payload, &raw, "injury_report"); err != nil {
		return injury.Report{}, err
	}

	status, err := injury.ParseStatus(raw.Status)
	if err != nil {
		return injury.Report{}, drift(err, "injury_report")
	}
	reportDate, err := time.Parse(dateLayout, raw.ReportDate)
	if err != nil {
		return injury.Report{}, drift(crerr.Wrapf(err, "parse report date %q", raw.ReportDate), "injury_report")
	}

	out := injury.Report{
		PlayerName: raw.PlayerName,
		Status:     status,
		ReportDate: reportDate,
		ReportTime: raw.ReportTime,
		IngestedAt: raw.IngestedAt,
	}
	if err := out.Validate(); err != nil {
		return injury.Report{}, drift(err, "injury_report")
	}

	return out, nil
}

type rawOddsSnapshot struct {
	PlayerName   string    `json:"player_name" validate:"required"`
	Market       string    `json:"market" validate:"required"`
	Line         *float64  `json:"line" validate:"required"`
	Price        int       `json:"price"`
	Side         string    `json:"side"`
	SnapshotTime time.Time `json:"snapshot_time" validate:"required"`
	Bookmaker    string    `json:"bookmaker" validate:"required"`
	IngestedAt   time.Time `json:"ingested_at" validate:"required"`
}

func (d *Decoder) OddsSnapshot(payload []byte) (odds.Snapshot, error) {
	var raw rawOddsSnapshot
	if err := d.decode(payload, &raw, "odds_snapshot"); err != nil {
		return odds.Snapshot{}, err
	}

	out := odds.Snapshot{
		PlayerName:   raw.PlayerName,
		Market:       odds.Market(raw.Market),
		Line:         *raw.Line,
		Price:        raw.Price,
		Side:         odds.Side(raw.Side),
		SnapshotTime: raw.SnapshotTime,
		Bookmaker:    raw.Bookmaker,
		IngestedAt:   raw.IngestedAt,
	}
	if err := out.Validate(); err != nil {
		return odds.Snapshot{}, drift(err, "odds_snapshot")
	}

	return out, nil
}

type rawIdentityMapping struct {
	SourceSystem      string    `json:"source_system" validate:"required"`
	SourceName        string    `json:"source_name" validate:"required"`
	CanonicalPlayerID string    `json:"canonical_player_id" validate:"required"`
	ConfidenceScore   *int      `json:"confidence_score" validate:"required"`
	UpdatedAt         time.Time `json:"updated_at" validate:"required"`
}

func (d *Decoder) IdentityMapping(payload []byte) (identity.Mapping, error) {
	var raw rawIdentityMapping
	if err := d.decode(payload, &raw, "identity_mapping"); err != nil {
		return identity.Mapping{}, err
	}

	out := identity.Mapping{
		SourceSystem:      identity.Source(raw.SourceSystem),
		SourceName:        raw.SourceName,
		CanonicalPlayerID: raw.CanonicalPlayerID,
		ConfidenceScore:   *raw.ConfidenceScore,
		UpdatedAt:         raw.UpdatedAt,
	}
	if err := out.Validate(); err != nil {
		return identity.Mapping{}, drift(err, "identity_mapping")
	}

	return out, nil
}

func (d *Decoder) decode(payload []byte, target any, entity string) error {
	if err := sonic.Unmarshal(payload, target); err != nil {
		return drift(crerr.Wrap(err, "decode payload"), entity)
	}
	if err := d.validate.Struct(target); err != nil {
		return drift(crerr.Wrap(err, "validate payload"), entity)
	}

	return nil
}

func drift(err error, entity string) error {
	return crerr.Mark(crerr.Wrapf(err, "normalize %s", entity), ErrSchemaDrift)
}

// IsSchemaDrift reports whether err originated at the normalization boundary.
func IsSchemaDrift(err error) bool {
	return crerr.Is(err, ErrSchemaDrift)
}
