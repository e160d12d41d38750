package export

import (
	"bytes"
	"testing"

	"hackathon_hub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleEntries() []model.LeaderboardEntry {
	return []model.LeaderboardEntry{
		{Rank: 1, TeamID: "t-1", TeamName: "Byte Me", AverageScore: 42.5, JudgeCount: 2},
		{Rank: 2, TeamID: "t-2", TeamName: "Null Pointers", AverageScore: 38, JudgeCount: 3},
	}
}

func TestWriteLeaderboardXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeaderboardXLSX(&buf, sampleEntries()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{leaderboardSheet}, f.GetSheetList())
	rows, err := f.GetRows(leaderboardSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Team", "Average Score", "Judges"}, rows[0])
	assert.Equal(t, []string{"1", "Byte Me", "42.5", "2"}, rows[1])
	assert.Equal(t, "Null Pointers", rows[2][1])
}

func TestWriteLeaderboardXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeaderboardXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(leaderboardSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLeaderboardChart(t *testing.T) {
	png, err := LeaderboardChart("Spring Hack", sampleEntries())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	placeholder, err := LeaderboardChart("Spring Hack", nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(placeholder, pngMagic))
}

func TestLeaderboardChartFlatScores(t *testing.T) {
	tests := map[string][]model.LeaderboardEntry{
		"single team": {{Rank: 1, TeamID: "t-1", TeamName: "Solo", AverageScore: 7.5, JudgeCount: 1}},
		"tied teams": {
			{Rank: 1, TeamID: "t-1", TeamName: "A", AverageScore: 8, JudgeCount: 2},
			{Rank: 2, TeamID: "t-2", TeamName: "B", AverageScore: 8, JudgeCount: 2},
		},
		"all zero": {
			{Rank: 1, TeamID: "t-1", TeamName: "A", JudgeCount: 1},
			{Rank: 2, TeamID: "t-2", TeamName: "B", JudgeCount: 1},
		},
	}
	for name, entries := range tests {
		t.Run(name, func(t *testing.T) {
			png, err := LeaderboardChart("Spring Hack", entries)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngMagic))
		})
	}
}
