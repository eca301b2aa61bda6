package services

import (
	"math"
	"math/rand"
)

// fitGaussianMixture fits a diagonal-covariance Gaussian mixture with k
// components to the feature rows via EM and returns a hard assignment per
// row. The fit is fully deterministic for a given seed; ties resolve to the
// lower component index.
func fitGaussianMixture(features [][]float64, k int, seed int64) []int {
	n := len(features)
	if n == 0 {
		return nil
	}
	if k <= 1 {
		return make([]int, n)
	}
	if k >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	d := len(features[0])
	rng := rand.New(rand.NewSource(seed))

	means := initMeans(features, k, rng)
	vars := make([][]float64, k)
	weights := make([]float64, k)
	globalVar := dimensionVariance(features)
	for c := 0; c < k; c++ {
		vars[c] = append([]float64(nil), globalVar...)
		weights[c] = 1 / float64(k)
	}

	resp := make([][]float64, n)
	for i := range resp {
		resp[i] = make([]float64, k)
	}

	const (
		maxIter  = 100
		tol      = 1e-6
		varFloor = 1e-4
	)

	prevLL := math.Inf(-1)
	for iter := 0; iter < maxIter; iter++ {
		// E step: responsibilities in log space for stability.
		ll := 0.0
		for i, x := range features {
			logs := make([]float64, k)
			for c := 0; c < k; c++ {
				logs[c] = math.Log(weights[c]) + logGaussianDiag(x, means[c], vars[c])
			}
			norm := logSumExp(logs)
			ll += norm
			for c := 0; c < k; c++ {
				resp[i][c] = math.Exp(logs[c] - norm)
			}
		}

		// M step.
		for c := 0; c < k; c++ {
			total := 0.0
			for i := 0; i < n; i++ {
				total += resp[i][c]
			}
			if total < 1e-12 {
				// Dead component; floor the mass so the update stays finite.
				total = 1e-12
			}
			weights[c] = total / float64(n)
			for j := 0; j < d; j++ {
				mean := 0.0
				for i := 0; i < n; i++ {
					mean += resp[i][c] * features[i][j]
				}
				mean /= total
				variance := 0.0
				for i := 0; i < n; i++ {
					diff := features[i][j] - mean
					variance += resp[i][c] * diff * diff
				}
				variance /= total
				if variance < varFloor {
					variance = varFloor
				}
				means[c][j] = mean
				vars[c][j] = variance
			}
		}

		if math.Abs(ll-prevLL) < tol {
			break
		}
		prevLL = ll
	}

	assign := make([]int, n)
	for i := 0; i < n; i++ {
		best, bestVal := 0, resp[i][0]
		for c := 1; c < k; c++ {
			if resp[i][c] > bestVal {
				best, bestVal = c, resp[i][c]
			}
		}
		assign[i] = best
	}
	return assign
}

// initMeans seeds component means k-means++-style: the first center is drawn
// uniformly, later ones proportionally to squared distance from the chosen
// set.
func initMeans(features [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(features)
	d := len(features[0])

	chosen := make([]int, 0, k)
	chosen = append(chosen, rng.Intn(n))

	dist2 := make([]float64, n)
	for len(chosen) < k {
		total := 0.0
		for i, x := range features {
			best := math.Inf(1)
			for _, c := range chosen {
				if v := sqDist(x, features[c]); v < best {
					best = v
				}
			}
			dist2[i] = best
			total += best
		}
		next := chosen[len(chosen)-1]
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, v := range dist2 {
				acc += v
				if acc >= target {
					next = i
					break
				}
			}
		}
		chosen = append(chosen, next)
	}

	means := make([][]float64, k)
	for c, idx := range chosen {
		means[c] = make([]float64, d)
		copy(means[c], features[idx])
	}
	return means
}

func sqDist(a, b []float64) float64 {
	total := 0.0
	for j := range a {
		diff := a[j] - b[j]
		total += diff * diff
	}
	return total
}

func dimensionVariance(features [][]float64) []float64 {
	n := len(features)
	d := len(features[0])
	mean := make([]float64, d)
	for _, x := range features {
		for j, v := range x {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	variance := make([]float64, d)
	for _, x := range features {
		for j, v := range x {
			diff := v - mean[j]
			variance[j] += diff * diff
		}
	}
	for j := range variance {
		variance[j] /= float64(n)
		if variance[j] < 1e-4 {
			variance[j] = 1e-4
		}
	}
	return variance
}

func logGaussianDiag(x, mean, variance []float64) float64 {
	total := 0.0
	for j := range x {
		diff := x[j] - mean[j]
		total += -0.5*math.Log(2*math.Pi*variance[j]) - diff*diff/(2*variance[j])
	}
	return total
}

func logSumExp(logs []float64) float64 {
	max := math.Inf(-1)
	for _, v := range logs {
		if v > max {
			max = v
		}
	}
	if math.IsInf(max, -1) {
		return max
	}
	total := 0.0
	for _, v := range logs {
		total += math.Exp(v - max)
	}
	return max + math.Log(total)
}
