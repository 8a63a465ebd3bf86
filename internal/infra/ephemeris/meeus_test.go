package ephemeris

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLongitudesAtReferenceEpochs(t *testing.T) {
	// 1992-04-12 0h TD, lunar longitude 133.162655
	_, moon := longitudesAt(2448724.5)
	require.InDelta(t, 133.162655, moon, 0.001)

	// 1992-10-13 0h TD, apparent solar longitude 199.90895
	sun, _ := longitudesAt(2448908.5)
	require.InDelta(t, 199.90895, sun, 0.01)
}

func TestLongitudesForInstant(t *testing.T) {
	eph := NewMeeus()
	at := time.Date(2025, 10, 16, 6, 30, 0, 0, time.UTC)

	sun, moon, err := eph.Longitudes(context.Background(), at)
	require.NoError(t, err)
	require.GreaterOrEqual(t, sun, 0.0)
	require.Less(t, sun, 360.0)
	require.GreaterOrEqual(t, moon, 0.0)
	require.Less(t, moon, 360.0)
	// about 24 days past the September equinox
	require.InDelta(t, 203.3, sun, 1.0)

	again, _, err := eph.Longitudes(context.Background(), at.In(time.FixedZone("IST", 19800)))
	require.NoError(t, err)
	require.Equal(t, sun, again)
}

func TestLongitudesHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewMeeus().Longitudes(ctx, time.Now())
	require.ErrorIs(t, err, context.Canceled)

	_, _, err = NewMeeus().Longitudes(context.Background(), time.Time{})
	require.Error(t, err)
}
