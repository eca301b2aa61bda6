package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadHubTable(t *testing.T) {
	hubs, err := LoadHubTable()
	require.NoError(t, err)
	require.NotEmpty(t, hubs.Hubs())
}

func TestNearestHub(t *testing.T) {
	hubs, err := LoadHubTable()
	require.NoError(t, err)

	require.Equal(t, "HAN", hubs.Nearest(hanoi).Code)
	require.Equal(t, "SGN", hubs.Nearest(saigon).Code)
	require.Equal(t, "DAD", hubs.Nearest(danang).Code)
}
