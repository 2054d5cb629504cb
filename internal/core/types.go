package core

import "fmt"

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the pair is inside the WGS84 envelope.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// String renders the pair as "lat,lng" for logs and query params.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Station is a train station resolved from the location catalog.
type Station struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	City        string      `json:"city,omitempty"`
	Prefecture  string      `json:"prefecture,omitempty"`
}

// Bangumi is an anime series with pilgrimage points near a location.
type Bangumi struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	TitleCN      string  `json:"title_cn,omitempty"`
	CoverURL     string  `json:"cover_url"`
	PointsCount  int     `json:"points_count"`
	DistanceKm   float64 `json:"distance_km"`
	PrimaryColor string  `json:"primary_color,omitempty"`
}

// Point is a single pilgrimage location belonging to a bangumi.
type Point struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	NameCN        string      `json:"name_cn,omitempty"`
	Coordinates   Coordinates `json:"coordinates"`
	BangumiID     string      `json:"bangumi_id"`
	BangumiTitle  string      `json:"bangumi_title,omitempty"`
	Episode       int         `json:"episode"`
	TimeSeconds   int         `json:"time_seconds"`
	ScreenshotURL string      `json:"screenshot_url"`
	Address       string      `json:"address,omitempty"`
}

// TimeFormatted renders the scene timestamp as mm:ss.
func (p Point) TimeFormatted() string {
	return fmt.Sprintf("%02d:%02d", p.TimeSeconds/60, p.TimeSeconds%60)
}

// Subject is catalog metadata for an anime from the metadata provider.
type Subject struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	NameCN   string  `json:"name_cn,omitempty"`
	Summary  string  `json:"summary,omitempty"`
	AirDate  string  `json:"air_date,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
	Rank     int     `json:"rank,omitempty"`
	Score    float64 `json:"score,omitempty"`
}
