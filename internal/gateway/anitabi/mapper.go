package anitabi

import (
	"encoding/json"
	"fmt"

	"github.com/seichijunrei/seichijunrei/internal/core"
	"github.com/seichijunrei/seichijunrei/internal/gateway"
)

// Payload shapes follow the upstream wire format. Pointer fields let the
// mappers tell "absent" from "zero"; unknown fields are ignored.

type stationPayload struct {
	Data *struct {
		Name       *string  `json:"name"`
		Lat        *float64 `json:"lat"`
		Lng        *float64 `json:"lng"`
		City       string   `json:"city"`
		Prefecture string   `json:"prefecture"`
	} `json:"data"`
}

type nearPayload struct {
	Data []nearItem `json:"data"`
}

type nearItem struct {
	ID          *json.Number `json:"id"`
	Title       *string      `json:"title"`
	TitleCN     string       `json:"cn_title"`
	Cover       string       `json:"cover"`
	PointsCount *int         `json:"points_count"`
	Distance    *float64     `json:"distance"`
	Color       string       `json:"color"`
}

type pointsPayload struct {
	Data []pointItem `json:"data"`
}

type pointItem struct {
	ID           *json.Number `json:"id"`
	Name         *string      `json:"name"`
	NameCN       string       `json:"cn_name"`
	Lat          *float64     `json:"lat"`
	Lng          *float64     `json:"lng"`
	BangumiID    *json.Number `json:"bangumi_id"`
	BangumiTitle string       `json:"bangumi_title"`
	Episode      *int         `json:"episode"`
	TimeSeconds  *int         `json:"time_seconds"`
	Screenshot   string       `json:"screenshot"`
	Address      string       `json:"address"`
}

// mapStation validates and converts a station response. Missing data means
// the catalog does not know the station.
func mapStation(body []byte, requested string) (core.Station, error) {
	var payload stationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return core.Station{}, &gateway.MalformedError{Reason: err.Error()}
	}

	if payload.Data == nil {
		return core.Station{}, gateway.NotFoundError(gateway.ProviderAnitabi, "station", "station not found: "+requested)
	}

	data := payload.Data
	if data.Name == nil || *data.Name == "" {
		return core.Station{}, &gateway.MalformedError{Field: "name", Reason: "missing"}
	}
	if data.Lat == nil {
		return core.Station{}, &gateway.MalformedError{Field: "lat", Reason: "missing"}
	}
	if data.Lng == nil {
		return core.Station{}, &gateway.MalformedError{Field: "lng", Reason: "missing"}
	}

	coords := core.Coordinates{Latitude: *data.Lat, Longitude: *data.Lng}
	if !coords.Valid() {
		return core.Station{}, &gateway.MalformedError{Field: "lat/lng", Reason: "out of range"}
	}

	return core.Station{
		Name:        *data.Name,
		Coordinates: coords,
		City:        data.City,
		Prefecture:  data.Prefecture,
	}, nil
}

// mapBangumiList validates and converts a near-search response. An empty
// list is a NotFound, not a success: the caller asked for bangumi and the
// catalog has none in the radius.
func mapBangumiList(body []byte, stationName string, radiusKm float64) ([]core.Bangumi, error) {
	var payload nearPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &gateway.MalformedError{Reason: err.Error()}
	}

	if len(payload.Data) == 0 {
		message := fmt.Sprintf("no bangumi within %.1fkm of %s", radiusKm, stationName)
		return nil, gateway.NotFoundError(gateway.ProviderAnitabi, "bangumi", message)
	}

	list := make([]core.Bangumi, 0, len(payload.Data))
	for i, item := range payload.Data {
		bangumi, err := mapBangumi(item, i)
		if err != nil {
			return nil, err
		}
		list = append(list, bangumi)
	}
	return list, nil
}

func mapBangumi(item nearItem, index int) (core.Bangumi, error) {
	field := func(name string) string { return fmt.Sprintf("data[%d].%s", index, name) }

	if item.ID == nil {
		return core.Bangumi{}, &gateway.MalformedError{Field: field("id"), Reason: "missing"}
	}
	if item.Title == nil || *item.Title == "" {
		return core.Bangumi{}, &gateway.MalformedError{Field: field("title"), Reason: "missing"}
	}

	pointsCount := 0
	if item.PointsCount != nil {
		pointsCount = *item.PointsCount
	}
	if pointsCount < 0 {
		return core.Bangumi{}, &gateway.MalformedError{Field: field("points_count"), Reason: "negative"}
	}

	distance := 0.0
	if item.Distance != nil {
		distance = *item.Distance
	}
	if distance < 0 {
		return core.Bangumi{}, &gateway.MalformedError{Field: field("distance"), Reason: "negative"}
	}

	return core.Bangumi{
		ID:           item.ID.String(),
		Title:        *item.Title,
		TitleCN:      item.TitleCN,
		CoverURL:     item.Cover,
		PointsCount:  pointsCount,
		DistanceKm:   distance,
		PrimaryColor: item.Color,
	}, nil
}

// mapPoints validates and converts a points response. A bangumi with no
// points is a legitimate empty result.
func mapPoints(body []byte) ([]core.Point, error) {
	var payload pointsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &gateway.MalformedError{Reason: err.Error()}
	}

	points := make([]core.Point, 0, len(payload.Data))
	for i, item := range payload.Data {
		point, err := mapPoint(item, i)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

func mapPoint(item pointItem, index int) (core.Point, error) {
	field := func(name string) string { return fmt.Sprintf("data[%d].%s", index, name) }

	if item.ID == nil {
		return core.Point{}, &gateway.MalformedError{Field: field("id"), Reason: "missing"}
	}
	if item.Name == nil || *item.Name == "" {
		return core.Point{}, &gateway.MalformedError{Field: field("name"), Reason: "missing"}
	}
	if item.Lat == nil || item.Lng == nil {
		return core.Point{}, &gateway.MalformedError{Field: field("lat/lng"), Reason: "missing"}
	}

	coords := core.Coordinates{Latitude: *item.Lat, Longitude: *item.Lng}
	if !coords.Valid() {
		return core.Point{}, &gateway.MalformedError{Field: field("lat/lng"), Reason: "out of range"}
	}

	episode := 1
	if item.Episode != nil {
		episode = *item.Episode
	}
	if episode < 1 {
		return core.Point{}, &gateway.MalformedError{Field: field("episode"), Reason: "must be >= 1"}
	}

	timeSeconds := 0
	if item.TimeSeconds != nil {
		timeSeconds = *item.TimeSeconds
	}
	if timeSeconds < 0 {
		return core.Point{}, &gateway.MalformedError{Field: field("time_seconds"), Reason: "negative"}
	}

	bangumiID := ""
	if item.BangumiID != nil {
		bangumiID = item.BangumiID.String()
	}

	return core.Point{
		ID:            item.ID.String(),
		Name:          *item.Name,
		NameCN:        item.NameCN,
		Coordinates:   coords,
		BangumiID:     bangumiID,
		BangumiTitle:  item.BangumiTitle,
		Episode:       episode,
		TimeSeconds:   timeSeconds,
		ScreenshotURL: item.Screenshot,
		Address:       item.Address,
	}, nil
}
