package cfbf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFiletimeToTimeZeroIsNil(t *testing.T) {
	require.Nil(t, filetimeToTime(0))
}

func TestFiletimeToTimeKnownValue(t *testing.T) {
	// 2020-01-01T00:00:00Z in 100ns ticks since 1601-01-01.
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	ft := uint64(want.Unix())*10_000_000 + filetimeEpochOffset100ns

	got := filetimeToTime(ft)
	require.NotNil(t, got)
	require.True(t, got.Equal(want), "got %v, want %v", got, want)
}
