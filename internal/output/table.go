package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/seichijunrei/seichijunrei/internal/core"
	"github.com/seichijunrei/seichijunrei/internal/core/engine"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

// StationTable renders one resolved station.
func StationTable(station core.Station) string {
	t := newTable()
	t.AppendHeader(table.Row{"Station", "Coordinates", "City", "Prefecture"})
	t.AppendRow(table.Row{
		station.Name,
		station.Coordinates.String(),
		station.City,
		station.Prefecture,
	})
	return t.Render()
}

// NearStationTable renders a near-station search: the station header and
// the bangumi found around it, nearest first.
func NearStationTable(result engine.NearStationResult) string {
	rendered := StationTable(result.Station)

	t := newTable()
	t.AppendHeader(table.Row{"ID", "Title", "Points", "Distance"})
	for _, b := range result.Bangumi {
		title := b.Title
		if b.TitleCN != "" {
			title = fmt.Sprintf("%s (%s)", b.Title, b.TitleCN)
		}
		t.AppendRow(table.Row{
			b.ID,
			title,
			b.PointsCount,
			fmt.Sprintf("%.1f km", b.DistanceKm),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d bangumi", len(result.Bangumi)), "", ""})

	return rendered + "\n" + t.Render()
}

// PointsTable renders pilgrimage points ordered by episode and scene time.
func PointsTable(points []core.Point) string {
	t := newTable()
	t.AppendHeader(table.Row{"Ep", "Time", "Name", "Coordinates", "Address"})
	for _, p := range points {
		name := p.Name
		if p.NameCN != "" {
			name = fmt.Sprintf("%s (%s)", p.Name, p.NameCN)
		}
		t.AppendRow(table.Row{
			p.Episode,
			p.TimeFormatted(),
			name,
			p.Coordinates.String(),
			p.Address,
		})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d points", len(points)), "", ""})
	return t.Render()
}

// SubjectsTable renders subject search results.
func SubjectsTable(subjects []core.Subject) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Air Date", "Rank", "Score"})
	for _, s := range subjects {
		name := s.Name
		if s.NameCN != "" {
			name = fmt.Sprintf("%s (%s)", s.Name, s.NameCN)
		}
		t.AppendRow(table.Row{s.ID, name, s.AirDate, rankLabel(s.Rank), scoreLabel(s.Score)})
	}
	return t.Render()
}

// SubjectTable renders one subject in detail.
func SubjectTable(s core.Subject) string {
	t := newTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"ID", s.ID})
	t.AppendRow(table.Row{"Name", s.Name})
	if s.NameCN != "" {
		t.AppendRow(table.Row{"Name (CN)", s.NameCN})
	}
	if s.AirDate != "" {
		t.AppendRow(table.Row{"Air Date", s.AirDate})
	}
	if s.Rank > 0 {
		t.AppendRow(table.Row{"Rank", s.Rank})
	}
	if s.Score > 0 {
		t.AppendRow(table.Row{"Score", scoreLabel(s.Score)})
	}
	if s.Summary != "" {
		t.AppendRow(table.Row{"Summary", truncate(s.Summary, 300)})
	}
	return t.Render()
}

func rankLabel(rank int) string {
	if rank <= 0 {
		return "-"
	}
	return fmt.Sprintf("#%d", rank)
}

func scoreLabel(score float64) string {
	if score <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", score)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
