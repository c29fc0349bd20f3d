package geom

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/svg"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// PieValues coerces a pie cell to slice magnitudes. Accepted are numeric
// slices and strings of numbers separated by ";" or ",". Entries that are not
// numbers count as zero.
func PieValues(value any) ([]float64, bool) {
	var items []any
	switch t := value.(type) {
	case []float64:
		out := make([]float64, len(t))
		for i, v := range t {
			out[i] = clampNonNegative(v)
		}
		return out, len(out) > 0
	case []int:
		for _, v := range t {
			items = append(items, v)
		}
	case []any:
		items = t
	case string:
		sep := ";"
		if !strings.Contains(t, sep) {
			sep = ","
		}
		for _, part := range strings.Split(t, sep) {
			items = append(items, part)
		}
	default:
		return nil, false
	}
	out := make([]float64, len(items))
	for i, it := range items {
		f, _ := table.Number(it)
		out[i] = clampNonNegative(f)
	}
	return out, len(out) > 0
}

func pie(value any, e Encoding, s Style, p config.Position) *svg.Node {
	values, ok := PieValues(value)
	if !ok {
		return nil
	}

	nonZero, nonZeroIdx, total := 0, 0, 0.0
	for i, v := range values {
		if v > 0 {
			nonZero++
			nonZeroIdx = i
			total += v
		}
	}
	r := p.GeomSize / 2
	c := p.RowHeight / 2
	switch nonZero {
	case 0:
		return nil
	case 1:
		return outlined(svg.Circle(c, c, r), e.fill(nonZeroIdx), s)
	}

	g := svg.Group()
	extent := svg.Rectangle(-r, -r, 2*r, 2*r)
	angle := 0.0
	for i, v := range values {
		if v == 0 {
			continue
		}
		end := angle + 2*math.Pi*v/total
		slice := svg.Path(arcPath(angle, end, r), extent).Translate(c, c)
		g.Append(outlined(slice, e.fill(i), s))
		angle = end
	}
	return g
}

// arcPath returns a pie slice from angle a0 to a1, measured clockwise from
// twelve o'clock.
func arcPath(a0, a1, r float64) string {
	x0, y0 := r*math.Sin(a0), -r*math.Cos(a0)
	x1, y1 := r*math.Sin(a1), -r*math.Cos(a1)
	large := 0
	if a1-a0 > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M%s,%sA%s,%s,0,%d,1,%s,%sL0,0Z",
		svg.Num(x0), svg.Num(y0), svg.Num(r), svg.Num(r), large, svg.Num(x1), svg.Num(y1))
}
