package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/courtsight/featuremart/internal/domain/boxscore"
	"github.com/courtsight/featuremart/internal/domain/injury"
)

func TestDecoder_PlayerGameStat(t *testing.T) {
	d := NewDecoder()

	stat, err := d.PlayerGameStat([]byte(`{
		"player_id": "p1",
		"game_id": "g1",
		"team_id": "t1",
		"stat_type": "points",
		"value": 31,
		"minutes_played": 36.5,
		"game_date": "2025-01-02"
	}`))
	require.NoError(t, err)
	require.Equal(t, boxscore.StatPoints, stat.StatType)
	require.Equal(t, 31.0, stat.Value)
	require.True(t, stat.Played())
}

func TestDecoder_PlayerGameStat_ZeroValueIsNotDrift(t *testing.T) {
	d := NewDecoder()

	// A DNP line carries value 0 and minutes 0; both are legitimate values,
	// only their absence is drift.
	stat, err := d.PlayerGameStat([]byte(`{
		"player_id": "p1",
		"game_id": "g1",
		"team_id": "t1",
		"stat_type": "points",
		"value": 0,
		"minutes_played": 0,
		"game_date": "2025-01-02"
	}`))
	require.NoError(t, err)
	require.False(t, stat.Played())
}

func TestDecoder_SchemaDriftIsMarked(t *testing.T) {
	d := NewDecoder()

	cases := map[string]string{
		"missing field":  `{"player_id": "p1", "game_id": "g1", "team_id": "t1", "stat_type": "points", "value": 3}`,
		"bad stat type":  `{"player_id": "p1", "game_id": "g1", "team_id": "t1", "stat_type": "dunks", "value": 3, "minutes_played": 10, "game_date": "2025-01-02"}`,
		"bad date":       `{"player_id": "p1", "game_id": "g1", "team_id": "t1", "stat_type": "points", "value": 3, "minutes_played": 10, "game_date": "01/02/2025"}`,
		"not json":       `points,3`,
	}

	for name, payload := range cases {
		_, err := d.PlayerGameStat([]byte(payload))
		require.Error(t, err, name)
		require.True(t, IsSchemaDrift(err), name)
	}
}

func TestDecoder_InjuryReport(t *testing.T) {
	d := NewDecoder()

	report, err := d.InjuryReport([]byte(`{
		"player_name": "LeBron James",
		"status": "questionable",
		"report_date": "2025-01-14",
		"report_time": "05:30 PM",
		"ingested_at": "2025-01-14T22:40:00Z"
	}`))
	require.NoError(t, err)
	require.Equal(t, injury.StatusQuestionable, report.Status)

	_, err = d.InjuryReport([]byte(`{
		"player_name": "LeBron James",
		"status": "probable",
		"report_date": "2025-01-14",
		"ingested_at": "2025-01-14T22:40:00Z"
	}`))
	require.True(t, IsSchemaDrift(err))
}

func TestDecoder_IdentityMapping_ConfidenceBounds(t *testing.T) {
	d := NewDecoder()

	_, err := d.IdentityMapping([]byte(`{
		"source_system": "odds",
		"source_name": "L. James",
		"canonical_player_id": "p1",
		"confidence_score": 101,
		"updated_at": "2025-01-14T22:40:00Z"
	}`))
	require.True(t, IsSchemaDrift(err))

	mapping, err := d.IdentityMapping([]byte(`{
		"source_system": "odds",
		"source_name": "L. James",
		"canonical_player_id": "p1",
		"confidence_score": 0,
		"updated_at": "2025-01-14T22:40:00Z"
	}`))
	require.NoError(t, err)
	require.Equal(t, 0, mapping.ConfidenceScore)
}
