// Package engine orchestrates the pilgrimage use cases over the two
// provider catalogs. It holds no transport or retry logic of its own;
// resilience lives in the gateway layer underneath the catalogs.
package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/seichijunrei/seichijunrei/internal/core"
)

// DefaultRadiusKm is the near-station search radius when the caller does
// not pick one.
const DefaultRadiusKm = 5.0

// LocationCatalog resolves stations and pilgrimage geography.
type LocationCatalog interface {
	StationInfo(ctx context.Context, name string) (core.Station, error)
	SearchBangumi(ctx context.Context, station core.Station, radiusKm float64) ([]core.Bangumi, error)
	BangumiPoints(ctx context.Context, bangumiID string) ([]core.Point, error)
}

// SubjectCatalog resolves anime metadata.
type SubjectCatalog interface {
	SearchSubjects(ctx context.Context, keyword string, subjectType, maxResults int) ([]core.Subject, error)
	GetSubject(ctx context.Context, subjectID int) (core.Subject, error)
}

// NearStationResult bundles the resolved station with the bangumi found
// around it, nearest first.
type NearStationResult struct {
	Station core.Station   `json:"station"`
	Bangumi []core.Bangumi `json:"bangumi"`
}

// Engine wires the catalogs behind the use-case operations.
type Engine struct {
	Anitabi LocationCatalog
	Bangumi SubjectCatalog
	Logger  *zap.Logger
}

// SearchNearStation resolves the station by name and lists the bangumi
// with pilgrimage points within radiusKm of it. radiusKm <= 0 falls back
// to DefaultRadiusKm.
func (e *Engine) SearchNearStation(ctx context.Context, stationName string, radiusKm float64) (NearStationResult, error) {
	if e.Anitabi == nil {
		return NearStationResult{}, fmt.Errorf("location catalog not configured")
	}

	stationName = strings.TrimSpace(stationName)
	if stationName == "" {
		return NearStationResult{}, fmt.Errorf("station name is required")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	station, err := e.Anitabi.StationInfo(ctx, stationName)
	if err != nil {
		return NearStationResult{}, err
	}

	bangumi, err := e.Anitabi.SearchBangumi(ctx, station, radiusKm)
	if err != nil {
		return NearStationResult{}, err
	}

	e.log().Info("near-station search complete",
		zap.String("station", station.Name),
		zap.Float64("radius_km", radiusKm),
		zap.Int("bangumi", len(bangumi)))
	return NearStationResult{Station: station, Bangumi: bangumi}, nil
}

// FetchBangumiPoints lists the pilgrimage points of one bangumi, ordered
// by episode and scene time.
func (e *Engine) FetchBangumiPoints(ctx context.Context, bangumiID string) ([]core.Point, error) {
	if e.Anitabi == nil {
		return nil, fmt.Errorf("location catalog not configured")
	}

	bangumiID = strings.TrimSpace(bangumiID)
	if bangumiID == "" {
		return nil, fmt.Errorf("bangumi id is required")
	}

	return e.Anitabi.BangumiPoints(ctx, bangumiID)
}

// SearchSubjects searches anime metadata by keyword. Zero subjectType and
// maxResults take the catalog defaults.
func (e *Engine) SearchSubjects(ctx context.Context, keyword string, subjectType, maxResults int) ([]core.Subject, error) {
	if e.Bangumi == nil {
		return nil, fmt.Errorf("subject catalog not configured")
	}

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}

	return e.Bangumi.SearchSubjects(ctx, keyword, subjectType, maxResults)
}

// GetSubject fetches one subject's metadata by ID.
func (e *Engine) GetSubject(ctx context.Context, subjectID int) (core.Subject, error) {
	if e.Bangumi == nil {
		return core.Subject{}, fmt.Errorf("subject catalog not configured")
	}
	if subjectID <= 0 {
		return core.Subject{}, fmt.Errorf("subject id must be positive")
	}

	return e.Bangumi.GetSubject(ctx, subjectID)
}

func (e *Engine) log() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}
