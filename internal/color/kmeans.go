package color

import (
	"math"
	"math/rand/v2"
	"sort"
)

type point [3]float64

// Cluster - центр кластера и сколько пикселей к нему отнесено
type Cluster struct {
	Center RGB
	Count  int
}

// KMeansConfig - критерии остановки как у классического k-means:
// лимит итераций или сдвиг центров меньше Epsilon
type KMeansConfig struct {
	K             int
	MaxIterations int
	Epsilon       float64
	Attempts      int
	Seed          uint64
}

func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		K:             5,
		MaxIterations: 100,
		Epsilon:       0.2,
		Attempts:      3,
		Seed:          42,
	}
}

// KMeans кластеризует точки и возвращает непустые кластеры по убыванию размера.
// Совпадающие после округления центры склеиваются.
func KMeans(points []point, cfg KMeansConfig) []Cluster {
	if len(points) == 0 || cfg.K <= 0 {
		return nil
	}
	k := min(cfg.K, len(points))
	attempts := max(cfg.Attempts, 1)

	var (
		bestCenters []point
		bestLabels  []int
		bestInertia = math.Inf(1)
	)
	for a := 0; a < attempts; a++ {
		rng := rand.New(rand.NewPCG(cfg.Seed, uint64(a)))
		centers, labels, inertia := kmeansOnce(points, k, cfg, rng)
		if inertia < bestInertia {
			bestCenters, bestLabels, bestInertia = centers, labels, inertia
		}
	}

	return collect(bestCenters, bestLabels)
}

func kmeansOnce(points []point, k int, cfg KMeansConfig, rng *rand.Rand) ([]point, []int, float64) {
	centers := seedPlusPlus(points, k, rng)
	labels := make([]int, len(points))

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		for i, p := range points {
			labels[i] = nearest(p, centers)
		}

		sums := make([]point, k)
		counts := make([]int, k)
		for i, p := range points {
			l := labels[i]
			counts[l]++
			for c := 0; c < 3; c++ {
				sums[l][c] += p[c]
			}
		}

		shift := 0.0
		for j := range centers {
			if counts[j] == 0 {
				// пустой кластер оставляем на месте
				continue
			}
			var next point
			for c := 0; c < 3; c++ {
				next[c] = sums[j][c] / float64(counts[j])
			}
			shift = math.Max(shift, math.Sqrt(sqDist(next, centers[j])))
			centers[j] = next
		}

		if shift <= cfg.Epsilon {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		labels[i] = nearest(p, centers)
		inertia += sqDist(p, centers[labels[i]])
	}
	return centers, labels, inertia
}

// seedPlusPlus - инициализация k-means++
func seedPlusPlus(points []point, k int, rng *rand.Rand) []point {
	centers := make([]point, 0, k)
	centers = append(centers, points[rng.IntN(len(points))])

	dist := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		for i, p := range points {
			dist[i] = sqDist(p, centers[nearest(p, centers)])
			total += dist[i]
		}
		if total == 0 {
			// все точки совпадают с центрами, дальше делить нечего
			centers = append(centers, centers[len(centers)-1])
			continue
		}
		target := rng.Float64() * total
		idx := len(points) - 1
		for i, d := range dist {
			target -= d
			if target <= 0 {
				idx = i
				break
			}
		}
		centers = append(centers, points[idx])
	}
	return centers
}

func collect(centers []point, labels []int) []Cluster {
	counts := make([]int, len(centers))
	for _, l := range labels {
		counts[l]++
	}

	merged := make(map[RGB]int)
	order := make([]RGB, 0, len(centers))
	for j, c := range centers {
		if counts[j] == 0 {
			continue
		}
		rgb := toRGB(c)
		if _, ok := merged[rgb]; !ok {
			order = append(order, rgb)
		}
		merged[rgb] += counts[j]
	}

	out := make([]Cluster, 0, len(order))
	for _, rgb := range order {
		out = append(out, Cluster{Center: rgb, Count: merged[rgb]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func nearest(p point, centers []point) int {
	best, bestD := 0, math.Inf(1)
	for j, c := range centers {
		if d := sqDist(p, c); d < bestD {
			best, bestD = j, d
		}
	}
	return best
}

func sqDist(a, b point) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return d0*d0 + d1*d1 + d2*d2
}

func toRGB(p point) RGB {
	clip := func(v float64) uint8 {
		return uint8(math.Min(255, math.Max(0, math.Round(v))))
	}
	return RGB{R: clip(p[0]), G: clip(p[1]), B: clip(p[2])}
}
