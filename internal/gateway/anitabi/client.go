// Package anitabi is the typed client for the anime location catalog. All
// calls go through the shared resilient gateway; this package only builds
// descriptors and maps payloads into domain records.
package anitabi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/seichijunrei/seichijunrei/internal/core"
	"github.com/seichijunrei/seichijunrei/internal/gateway"
)

// DefaultBaseURL is the public Anitabi API root.
const DefaultBaseURL = "https://api.anitabi.cn/bangumi"

// Client exposes the Anitabi catalog operations.
type Client struct {
	gw     *gateway.Client
	logger *zap.Logger
}

// New builds an Anitabi client over the shared gateway.
func New(gw *gateway.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{gw: gw, logger: logger}
}

// StationInfo resolves a station by name. A station that the catalog does
// not know yields a NotFound error carrying resource "station".
func (c *Client) StationInfo(ctx context.Context, name string) (core.Station, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Station{}, errors.New("station name is required")
	}

	d := gateway.Descriptor{
		Provider: gateway.ProviderAnitabi,
		Endpoint: "/station",
		Params:   url.Values{"name": {name}},
		Resource: "station",
	}

	station, err := gateway.Call(ctx, c.gw, d, func(body []byte) (core.Station, error) {
		return mapStation(body, name)
	})
	if err != nil {
		return core.Station{}, err
	}

	c.logger.Debug("station resolved",
		zap.String("station", station.Name),
		zap.String("coordinates", station.Coordinates.String()))
	return station, nil
}

// SearchBangumi lists anime with pilgrimage points within radiusKm of the
// station, nearest first. An empty result yields NotFound{"bangumi"}.
func (c *Client) SearchBangumi(ctx context.Context, station core.Station, radiusKm float64) ([]core.Bangumi, error) {
	if radiusKm <= 0 {
		return nil, errors.New("radius must be positive")
	}

	radiusMeters := int(radiusKm * 1000)
	d := gateway.Descriptor{
		Provider: gateway.ProviderAnitabi,
		Endpoint: "/near",
		Params: url.Values{
			"lat":    {strconv.FormatFloat(station.Coordinates.Latitude, 'f', 6, 64)},
			"lng":    {strconv.FormatFloat(station.Coordinates.Longitude, 'f', 6, 64)},
			"radius": {strconv.Itoa(radiusMeters)},
		},
		Resource: "bangumi",
	}

	list, err := gateway.Call(ctx, c.gw, d, func(body []byte) ([]core.Bangumi, error) {
		return mapBangumiList(body, station.Name, radiusKm)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].DistanceKm < list[j].DistanceKm
	})

	c.logger.Debug("bangumi search complete",
		zap.String("station", station.Name),
		zap.Float64("radius_km", radiusKm),
		zap.Int("found", len(list)))
	return list, nil
}

// BangumiPoints fetches the pilgrimage points of one bangumi, ordered by
// (episode, scene time).
func (c *Client) BangumiPoints(ctx context.Context, bangumiID string) ([]core.Point, error) {
	bangumiID = strings.TrimSpace(bangumiID)
	if bangumiID == "" {
		return nil, errors.New("bangumi id is required")
	}

	d := gateway.Descriptor{
		Provider: gateway.ProviderAnitabi,
		Endpoint: fmt.Sprintf("/%s/points/detail", url.PathEscape(bangumiID)),
		Params:   url.Values{"haveImage": {"true"}},
		Resource: "points",
	}

	points, err := gateway.Call(ctx, c.gw, d, mapPoints)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Episode != points[j].Episode {
			return points[i].Episode < points[j].Episode
		}
		return points[i].TimeSeconds < points[j].TimeSeconds
	})

	c.logger.Debug("points retrieved",
		zap.String("bangumi_id", bangumiID),
		zap.Int("count", len(points)))
	return points, nil
}
