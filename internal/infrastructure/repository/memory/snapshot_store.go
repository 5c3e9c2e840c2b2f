package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/identity"
	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/odds"
	"github.com/courtsight/featuremart/internal/domain/player"
	"github.com/courtsight/featuremart/internal/domain/schedule"
	"github.com/courtsight/featuremart/internal/domain/team"
)

// SnapshotStore holds the canonical source snapshot in memory. It serves all
// source-side repository reads and the normalization writer.
type SnapshotStore struct {
	mu       sync.RWMutex
	teams    []team.Team
	players  []player.Player
	games    []schedule.Game
	stats    []boxscore.PlayerGameStat
	reports  []injury.Report
	snaps    []odds.Snapshot
	mappings []identity.Mapping
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) ReplaceTeams(_ context.Context, items []team.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = append([]team.Team(nil), items...)
	return nil
}

func (s *SnapshotStore) ReplacePlayers(_ context.Context, items []player.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append([]player.Player(nil), items...)
	return nil
}

func (s *SnapshotStore) ReplaceGames(_ context.Context, items []schedule.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append([]schedule.Game(nil), items...)
	return nil
}

func (s *SnapshotStore) ReplacePlayerGameStats(_ context.Context, items []boxscore.PlayerGameStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = append([]boxscore.PlayerGameStat(nil), items...)
	return nil
}

func (s *SnapshotStore) ReplaceInjuryReports(_ context.Context, items []injury.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append([]injury.Report(nil), items...)
	return nil
}

func (s *SnapshotStore) ReplaceOddsSnapshots(_ context.Context, items []odds.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append([]odds.Snapshot(nil), items...)
	return nil
}

func (s *SnapshotStore) ReplaceIdentityMappings(_ context.Context, items []identity.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings = append([]identity.Mapping(nil), items...)
	return nil
}

// Teams exposes the team-repository view of the store.
func (s *SnapshotStore) Teams() team.Repository { return (*teamView)(s) }

// Players exposes the player-repository view of the store.
func (s *SnapshotStore) Players() player.Repository { return (*playerView)(s) }

// Games exposes the game-repository view of the store.
func (s *SnapshotStore) Games() schedule.GameRepository { return (*gameView)(s) }

// Stats exposes the boxscore-repository view of the store.
func (s *SnapshotStore) Stats() boxscore.Repository { return (*statView)(s) }

// InjuryReports exposes the injury-report view of the store.
func (s *SnapshotStore) InjuryReports() injury.ReportRepository { return (*reportView)(s) }

// OddsSnapshots exposes the odds-snapshot view of the store.
func (s *SnapshotStore) OddsSnapshots() odds.SnapshotRepository { return (*oddsView)(s) }

// IdentityMappings exposes the identity-mapping view of the store.
func (s *SnapshotStore) IdentityMappings() identity.Repository { return (*identityView)(s) }

type teamView SnapshotStore

func (v *teamView) List(_ context.Context) ([]team.Team, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]team.Team(nil), v.teams...), nil
}

func (v *teamView) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, t := range v.teams {
		if t.ID == teamID {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}

type playerView SnapshotStore

func (v *playerView) List(_ context.Context) ([]player.Player, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]player.Player(nil), v.players...), nil
}

func (v *playerView) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]player.Player, 0)
	for _, p := range v.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (v *playerView) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, p := range v.players {
		if p.ID == playerID {
			return p, true, nil
		}
	}
	return player.Player{}, false, nil
}

type gameView SnapshotStore

func (v *gameView) List(_ context.Context) ([]schedule.Game, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]schedule.Game(nil), v.games...), nil
}

func (v *gameView) ListBetween(_ context.Context, from, to time.Time) ([]schedule.Game, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]schedule.Game, 0)
	for _, g := range v.games {
		if g.Date.Before(from) || g.Date.After(to) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

type statView SnapshotStore

func (v *statView) List(_ context.Context) ([]boxscore.PlayerGameStat, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]boxscore.PlayerGameStat(nil), v.stats...), nil
}

func (v *statView) ListByStatType(_ context.Context, statType boxscore.StatType) ([]boxscore.PlayerGameStat, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]boxscore.PlayerGameStat, 0)
	for _, st := range v.stats {
		if st.StatType == statType {
			out = append(out, st)
		}
	}
	return out, nil
}

func (v *statView) ListBetween(_ context.Context, statType boxscore.StatType, from, to time.Time) ([]boxscore.PlayerGameStat, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]boxscore.PlayerGameStat, 0)
	for _, st := range v.stats {
		if st.StatType != statType || st.GameDate.Before(from) || st.GameDate.After(to) {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (v *statView) ListByPlayer(_ context.Context, playerID string, statType boxscore.StatType) ([]boxscore.PlayerGameStat, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]boxscore.PlayerGameStat, 0)
	for _, st := range v.stats {
		if st.PlayerID == playerID && st.StatType == statType {
			out = append(out, st)
		}
	}
	return out, nil
}

type reportView SnapshotStore

func (v *reportView) List(_ context.Context) ([]injury.Report, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]injury.Report(nil), v.reports...), nil
}

type oddsView SnapshotStore

func (v *oddsView) List(_ context.Context) ([]odds.Snapshot, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]odds.Snapshot(nil), v.snaps...), nil
}

type identityView SnapshotStore

func (v *identityView) ListBySource(_ context.Context, source identity.Source) ([]identity.Mapping, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]identity.Mapping, 0)
	for _, m := range v.mappings {
		if m.SourceSystem == source {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceName < out[j].SourceName })
	return out, nil
}
