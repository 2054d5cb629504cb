package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoordinatesValid(t *testing.T) {
	require.True(t, Coordinates{Latitude: 35.681236, Longitude: 139.767125}.Valid())
	require.True(t, Coordinates{Latitude: -90, Longitude: 180}.Valid())
	require.False(t, Coordinates{Latitude: 90.01, Longitude: 0}.Valid())
	require.False(t, Coordinates{Latitude: 0, Longitude: -180.5}.Valid())
}

func TestPointTimeFormatted(t *testing.T) {
	require.Equal(t, "00:00", Point{TimeSeconds: 0}.TimeFormatted())
	require.Equal(t, "01:05", Point{TimeSeconds: 65}.TimeFormatted())
	require.Equal(t, "21:09", Point{TimeSeconds: 1269}.TimeFormatted())
}
