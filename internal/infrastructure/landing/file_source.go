// Package landing reads raw provider payloads from a snapshot directory, one
// JSON-lines file per entity. It is the batch-mode implementation of the
// pipeline's raw source.
package landing

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	fileTeams            = "teams.jsonl"
	filePlayers          = "players.jsonl"
	fileGames            = "games.jsonl"
	filePlayerGameStats  = "player_game_stats.jsonl"
	fileInjuryReports    = "injury_reports.jsonl"
	fileOddsSnapshots    = "odds_snapshots.jsonl"
	fileIdentityMappings = "identity_mappings.jsonl"
)

// FileSource serves one landed snapshot from dir. A missing entity file is an
// empty batch, not an error: providers deliver entities on independent
// cadences.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Teams(ctx context.Context) ([][]byte, error) {
	return s.readLines(ctx, fileTeams)
}

func (s *FileSource) Players(ctx context.Context) ([][]byte, error) {
	return s.readLines(ctx, filePlayers)
}

func (s *FileSource) Games(ctx context.Context) ([][]byte, error) {
	return s.readLines(ctx, fileGames)
}

func (s *FileSource) PlayerGameStats(ctx context.Context) ([][]byte, error) {
	return s.readLines(ctx, filePlayerGameStats)
}

func (s *FileSource) InjuryReports(ctx context.Context) ([][]byte, error) {
	return s.readLines(ctx, fileInjuryReports)
}

func (s *FileSource) OddsSnapshots(ctx context.Context) ([][]byte, error) {
	return s.readLines(ctx, fileOddsSnapshots)
}

func (s *FileSource) IdentityMappings(ctx context.Context) ([][]byte, error) {
	return s.readLines(ctx, fileIdentityMappings)
}

func (s *FileSource) readLines(ctx context.Context, name string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open landing file %s: %w", path, err)
	}
	defer f.Close()

	var out [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		out = append(out, append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read landing file %s: %w", path, err)
	}

	return out, nil
}
