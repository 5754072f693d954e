package color

import (
	"sort"
)

type box struct {
	pts []point
}

func (b box) widest() (channel int, span float64) {
	for c := 0; c < 3; c++ {
		lo, hi := b.pts[0][c], b.pts[0][c]
		for _, p := range b.pts[1:] {
			lo = min(lo, p[c])
			hi = max(hi, p[c])
		}
		if hi-lo > span {
			channel, span = c, hi-lo
		}
	}
	return channel, span
}

func (b box) average() RGB {
	var sum point
	for _, p := range b.pts {
		for c := 0; c < 3; c++ {
			sum[c] += p[c]
		}
	}
	n := float64(len(b.pts))
	return toRGB(point{sum[0] / n, sum[1] / n, sum[2] / n})
}

// MedianCut строит палитру до n цветов, делая медианные разрезы
// по самому широкому каналу. Тяжелые коробки идут первыми.
func MedianCut(points []point, n int) []RGB {
	if len(points) == 0 || n <= 0 {
		return nil
	}

	initial := make([]point, len(points))
	copy(initial, points)
	boxes := []box{{pts: initial}}

	for len(boxes) < n {
		idx, ch, best := -1, 0, 0.0
		for i, b := range boxes {
			if len(b.pts) < 2 {
				continue
			}
			c, span := b.widest()
			if span > best {
				idx, ch, best = i, c, span
			}
		}
		if idx < 0 {
			break
		}

		pts := boxes[idx].pts
		sort.Slice(pts, func(i, j int) bool { return pts[i][ch] < pts[j][ch] })
		mid := len(pts) / 2
		boxes[idx] = box{pts: pts[:mid]}
		boxes = append(boxes, box{pts: pts[mid:]})
	}

	sort.SliceStable(boxes, func(i, j int) bool { return len(boxes[i].pts) > len(boxes[j].pts) })

	seen := make(map[RGB]bool)
	out := make([]RGB, 0, len(boxes))
	for _, b := range boxes {
		c := b.average()
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
