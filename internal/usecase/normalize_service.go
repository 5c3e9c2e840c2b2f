package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/identity"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/rawdata"
	"github.com/courtsight/featuremart/internal/domain/schedule"
	"github.com/courtsight/featuremart/internal/domain/team"
	"github.com/courtsight/featuremart/internal/normalize"
	"github.com/courtsight/featuremart/internal/platform/logging"
)

// RawSource delivers the raw provider payloads for one snapshot, one JSON
// document per record.
type RawSource interface {
	Teams(ctx context.Context) ([][]byte, error)
	Players(ctx context.Context) ([][]byte, error)
	Games(ctx context.Context) ([][]byte, error)
	PlayerGameStats(ctx context.Context) ([][]byte, error)
	InjuryReports(ctx context.Context) ([][]byte, error)
	OddsSnapshots(ctx context.Context) ([][]byte, error)
	IdentityMappings(ctx context.Context) ([][]byte, error)
}

// SnapshotWriter swaps in the canonical typed snapshot the derived stages
// read from.
type SnapshotWriter interface {
	ReplaceTeams(ctx context.Context, items []team.Team) error
	ReplacePlayers(ctx context.Context, items []player.Player) error
	ReplaceGames(ctx context.Context, items []schedule.Game) error
	ReplacePlayerGameStats(ctx context.Context, items []boxscore.PlayerGameStat) error
	ReplaceInjuryReports(ctx context.Context, items []injury.Report) error
	ReplaceOddsSnapshots(ctx context.Context, items []odds.Snapshot) error
	ReplaceIdentityMappings(ctx context.Context, items []identity.Mapping) error
}

// NormalizeService is the fail-fast boundary stage: every payload either
// decodes and validates into a canonical record or the whole run stops before
// any derived stage executes.
type NormalizeService struct {
	source  RawSource
	writer  SnapshotWriter
	rawRepo rawdata.Repository
	decoder *normalize.Decoder
	logger  *logging.Logger
}

func NewNormalizeService(
	source RawSource,
	writer SnapshotWriter,
	rawRepo rawdata.Repository,
	logger *logging.Logger,
) *NormalizeService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &NormalizeService{
		source:  source,
		writer:  writer,
		rawRepo: rawRepo,
		decoder: normalize.NewDecoder(),
		logger:  logger,
	}
}

// Run decodes the whole snapshot and replaces the canonical record sets.
// Schema drift anywhere aborts with the offending entity in the error chain.
func (s *NormalizeService) Run(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizeService.Run")
	defer span.End()

	counts := make(map[string]int, 7)

	teams, err := decodeAll(ctx, s, "team", s.source.Teams, s.decoder.Team,
		func(t team.Team) string { return t.ID })
	if err != nil {
		return err
	}
	counts["team"] = len(teams)

	players, err := decodeAll(ctx, s, "player", s.source.Players, s.decoder.Player,
		func(p player.Player) string { return p.ID })
	if err != nil {
		return err
	}
	counts["player"] = len(players)

	games, err := decodeAll(ctx, s, "game", s.source.Games, s.decoder.Game,
		func(g schedule.Game) string { return g.ID })
	if err != nil {
		return err
	}
	counts["game"] = len(games)

	stats, err := decodeAll(ctx, s, "player_game_stat", s.source.PlayerGameStats, s.decoder.PlayerGameStat,
		func(st boxscore.PlayerGameStat) string {
			return st.PlayerID + "|" + st.GameID + "|" + string(st.StatType)
		})
	if err != nil {
		return err
	}
	counts["player_game_stat"] = len(stats)

	reports, err := decodeAll(ctx, s, "injury_report", s.source.InjuryReports, s.decoder.InjuryReport,
		func(r injury.Report) string {
			return r.PlayerName + "|" + r.ReportDate.Format("2006-01-02") + "|" + r.ReportTime
		})
	if err != nil {
		return err
	}
	counts["injury_report"] = len(reports)

	snapshots, err := decodeAll(ctx, s, "odds_snapshot", s.source.OddsSnapshots, s.decoder.OddsSnapshot,
		func(snap odds.Snapshot) string {
			return snap.PlayerName + "|" + string(snap.Market) + "|" + snap.SnapshotTime.UTC().Format("2006-01-02T15:04:05Z")
		})
	if err != nil {
		return err
	}
	counts["odds_snapshot"] = len(snapshots)

	mappings, err := decodeAll(ctx, s, "identity_mapping", s.source.IdentityMappings, s.decoder.IdentityMapping,
		func(m identity.Mapping) string { return string(m.SourceSystem) + "|" + m.SourceName })
	if err != nil {
		return err
	}
	counts["identity_mapping"] = len(mappings)

	if err := s.writer.ReplaceTeams(ctx, teams); err != nil {
		return fmt.Errorf("replace teams: %w", err)
	}
	if err := s.writer.ReplacePlayers(ctx, players); err != nil {
		return fmt.Errorf("replace players: %w", err)
	}
	if err := s.writer.ReplaceGames(ctx, games); err != nil {
		return fmt.Errorf("replace games: %w", err)
	}
	if err := s.writer.ReplacePlayerGameStats(ctx, stats); err != nil {
		return fmt.Errorf("replace player game stats: %w", err)
	}
	if err := s.writer.ReplaceInjuryReports(ctx, reports); err != nil {
		return fmt.Errorf("replace injury reports: %w", err)
	}
	if err := s.writer.ReplaceOddsSnapshots(ctx, snapshots); err != nil {
		return fmt.Errorf("replace odds snapshots: %w", err)
	}
	if err := s.writer.ReplaceIdentityMappings(ctx, mappings); err != nil {
		return fmt.Errorf("replace identity mappings: %w", err)
	}

	s.logger.InfoContext(ctx, "snapshot normalized",
		"teams", counts["team"],
		"players", counts["player"],
		"games", counts["game"],
		"player_game_stats", counts["player_game_stat"],
		"injury_reports", counts["injury_report"],
		"odds_snapshots", counts["odds_snapshot"],
		"identity_mappings", counts["identity_mapping"],
	)

	return nil
}

// decodeAll decodes one entity batch and records payload provenance. Any
// decode failure aborts immediately.
func decodeAll[T any](
	ctx context.Context,
	s *NormalizeService,
	entity string,
	fetch func(context.Context) ([][]byte, error),
	decode func([]byte) (T, error),
	keyOf func(T) string,
) ([]T, error) {
	payloads, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s payloads: %v", ErrDependencyUnavailable, entity, err)
	}

	out := make([]T, 0, len(payloads))
	provenance := make([]rawdata.Payload, 0, len(payloads))
	for _, payload := range payloads {
		record, decodeErr := decode(payload)
		if decodeErr != nil {
			return nil, decodeErr
		}
		out = append(out, record)

		sum := sha256.Sum256(payload)
		provenance = append(provenance, rawdata.Payload{
			Source:      "landing",
			EntityType:  entity,
			EntityKey:   keyOf(record),
			PayloadJSON: string(payload),
			PayloadHash: hex.EncodeToString(sum[:]),
		})
	}

	if s.rawRepo != nil && len(provenance) > 0 {
		if err := s.rawRepo.UpsertMany(ctx, provenance); err != nil {
			return nil, fmt.Errorf("record %s provenance: %w", entity, err)
		}
	}

	return out, nil
}
