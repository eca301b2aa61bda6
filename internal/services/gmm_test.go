package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitGaussianMixtureGuards(t *testing.T) {
	require.Nil(t, fitGaussianMixture(nil, 3, 42))

	features := [][]float64{{0, 0}, {1, 1}}
	require.Equal(t, []int{0, 0}, fitGaussianMixture(features, 1, 42))

	// More components than samples collapses to one point per component.
	assign := fitGaussianMixture(features, 5, 42)
	require.Equal(t, []int{0, 1}, assign)
}

func TestFitGaussianMixtureSeparatesBlobs(t *testing.T) {
	features := [][]float64{
		{0.01, 0.02}, {0.02, 0.01}, {0.00, 0.03},
		{0.95, 0.97}, {0.98, 0.94}, {1.00, 0.96},
	}
	assign := fitGaussianMixture(features, 2, 42)
	require.Len(t, assign, 6)

	require.Equal(t, assign[0], assign[1])
	require.Equal(t, assign[0], assign[2])
	require.Equal(t, assign[3], assign[4])
	require.Equal(t, assign[3], assign[5])
	require.NotEqual(t, assign[0], assign[3])
}

func TestFitGaussianMixtureDeterministic(t *testing.T) {
	features := [][]float64{
		{0.1, 0.9}, {0.2, 0.8}, {0.8, 0.2}, {0.9, 0.1}, {0.5, 0.5},
	}
	first := fitGaussianMixture(features, 2, 42)
	second := fitGaussianMixture(features, 2, 42)
	require.Equal(t, first, second)
}
