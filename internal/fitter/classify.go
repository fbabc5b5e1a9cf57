package fitter

import (
	"cmp"
	"math"
	"slices"

	"court-fitter/internal/monitoring"
	"court-fitter/pkg/geometry"

	"github.com/emirpasic/gods/trees/binaryheap"
)

// Label tags a line with its orientation cluster.
type Label int

const (
	Unassigned Label = 0
	Vertical   Label = 1
	Horizontal Label = -1
)

func (l Label) String() string {
	switch l {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unassigned"
	}
}

// Classification is the outcome of splitting a line set by orientation.
type Classification struct {
	Horizontal []geometry.Line
	Vertical   []geometry.Line

	// Labels holds the final label of each input line, by input index.
	Labels []Label

	// Seed is the most perpendicular pair, by input index. Seed[0] is the
	// line that sorts first by coordinates.
	Seed [2]int

	// Residual counts lines that were left unlabeled and dropped.
	Residual int
}

// weightedEdge connects two lines of the perpendicularity graph. ra and rb
// are the coordinate ranks of a and b.
type weightedEdge struct {
	weight float64
	a, b   int
	ra, rb int
}

// edgeOrder sorts heaviest first, then by coordinate rank, so pops do not
// depend on input order.
func edgeOrder(x, y interface{}) int {
	ex := x.(weightedEdge)
	ey := y.(weightedEdge)
	switch {
	case ex.weight > ey.weight:
		return -1
	case ex.weight < ey.weight:
		return 1
	case ex.ra != ey.ra:
		return ex.ra - ey.ra
	default:
		return ex.rb - ey.rb
	}
}

// coordinateOrder returns line indices sorted by point then direction.
// Equal lines keep their input order.
func coordinateOrder(lines []geometry.Line) (order, rank []int) {
	order = make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		a, b := lines[i], lines[j]
		return cmp.Or(
			cmp.Compare(a.Point.X, b.Point.X),
			cmp.Compare(a.Point.Y, b.Point.Y),
			cmp.Compare(a.Vector.X, b.Vector.X),
			cmp.Compare(a.Vector.Y, b.Vector.Y),
		)
	})
	rank = make([]int, len(lines))
	for r, i := range order {
		rank[i] = r
	}
	return order, rank
}

// perpendicularWeight grows without bound as the angle between the two
// lines approaches 90° and falls towards zero otherwise.
func perpendicularWeight(a, b geometry.Line, weightConst float64) float64 {
	angle := a.AngleTo(b)
	w := math.Pow(1/(math.Abs(angle-math.Pi/2)+weightConst), 2)
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return w
}

// Classify splits lines into horizontal and vertical clusters without
// reference to the image axes. The most perpendicular pair seeds the two
// clusters; every other line then joins, heaviest edge first, the cluster
// opposite to the one it is most perpendicular to in aggregate. Ties are
// broken on line coordinates, never on input position.
func Classify(lines []geometry.Line, weightConst float64) Classification {
	n := len(lines)
	labels := make([]Label, n)
	result := Classification{Labels: labels}

	switch n {
	case 0:
		return result
	case 1:
		// A lone line has no partner to compare against; fall back to its slope.
		if lines[0].SlopeMagnitude() > 1 {
			labels[0] = Vertical
		} else {
			labels[0] = Horizontal
		}
		result.partition(lines)
		return result
	}

	adj := make([][]float64, n)
	for i := range adj {
		adj[i] = make([]float64, n)
	}

	order, rank := coordinateOrder(lines)

	maxWeight := 0.0
	seedA, seedB := order[0], order[1]
	for x := 0; x < n; x++ {
		for y := x + 1; y < n; y++ {
			i, j := order[x], order[y]
			w := perpendicularWeight(lines[i], lines[j], weightConst)
			adj[i][j] = w
			adj[j][i] = w
			if w > maxWeight {
				maxWeight = w
				seedA, seedB = i, j
			}
		}
	}
	result.Seed = [2]int{seedA, seedB}

	if lines[seedA].SlopeMagnitude() > lines[seedB].SlopeMagnitude() {
		labels[seedA] = Vertical
		labels[seedB] = Horizontal
	} else {
		labels[seedA] = Horizontal
		labels[seedB] = Vertical
	}

	pool := binaryheap.NewWith(edgeOrder)
	register := func(from int) {
		for k := 0; k < n; k++ {
			if labels[k] == Unassigned {
				pool.Push(weightedEdge{weight: adj[from][k], a: from, b: k, ra: rank[from], rb: rank[k]})
			}
		}
	}
	register(seedA)
	register(seedB)

	labeled := 2
	for labeled < n {
		v, ok := pool.Pop()
		if !ok {
			break
		}
		e := v.(weightedEdge)

		from, to := e.a, e.b
		if labels[to] != Unassigned {
			from, to = to, from
		}
		if labels[from] == Unassigned || labels[to] != Unassigned {
			// stale: both ends unlabeled or both already labeled
			continue
		}

		var affinity float64
		for _, k := range order {
			affinity += adj[to][k] * float64(labels[k])
		}
		if affinity > 0 {
			labels[to] = Horizontal
		} else {
			labels[to] = Vertical
		}
		labeled++
		register(to)
	}

	result.partition(lines)
	return result
}

// partition fills the clusters from the labels, dropping unlabeled lines.
func (c *Classification) partition(lines []geometry.Line) {
	for i, l := range lines {
		switch c.Labels[i] {
		case Vertical:
			c.Vertical = append(c.Vertical, l)
		case Horizontal:
			c.Horizontal = append(c.Horizontal, l)
		default:
			c.Residual++
			monitoring.Logf("WARNING: line %d was left unlabeled and is dropped", i)
		}
	}
}
