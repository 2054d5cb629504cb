package output

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seichijunrei/seichijunrei/internal/core"
	"github.com/seichijunrei/seichijunrei/internal/core/engine"
)

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestJSON(t *testing.T) {
	out, err := JSON(core.Station{Name: "東京駅"})
	require.NoError(t, err)
	require.Contains(t, out, `"name": "東京駅"`)
}

func TestNearStationTable(t *testing.T) {
	result := engine.NearStationResult{
		Station: core.Station{
			Name:        "東京駅",
			Coordinates: core.Coordinates{Latitude: 35.681236, Longitude: 139.767125},
			City:        "Tokyo",
		},
		Bangumi: []core.Bangumi{
			{ID: "115908", Title: "Lycoris Recoil", TitleCN: "莉可丽丝", PointsCount: 42, DistanceKm: 1.2},
		},
	}

	out := NearStationTable(result)
	require.Contains(t, out, "東京駅")
	require.Contains(t, out, "35.681236,139.767125")
	require.Contains(t, out, "Lycoris Recoil (莉可丽丝)")
	require.Contains(t, out, "1.2 km")
	require.Contains(t, out, "1 bangumi")
}

func TestPointsTable(t *testing.T) {
	out := PointsTable([]core.Point{
		{Name: "ステーション前", Episode: 3, TimeSeconds: 754, Coordinates: core.Coordinates{Latitude: 35.1, Longitude: 139.1}, Address: "Chiyoda"},
	})

	require.Contains(t, out, "12:34")
	require.Contains(t, out, "ステーション前")
	require.Contains(t, out, "1 points")
}

func TestSubjectTables(t *testing.T) {
	subjects := []core.Subject{
		{ID: 364450, Name: "リコリス・リコイル", NameCN: "莉可丽丝", AirDate: "2022-07-02", Rank: 512, Score: 7.6},
		{ID: 1, Name: "Unranked"},
	}

	list := SubjectsTable(subjects)
	require.Contains(t, list, "#512")
	require.Contains(t, list, "7.6")
	require.Contains(t, list, "-")

	detail := SubjectTable(subjects[0])
	require.Contains(t, detail, "364450")
	require.Contains(t, detail, "2022-07-02")
}
