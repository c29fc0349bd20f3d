// Package interact drives a built heatmap interactively: sorting by column
// and hit-testing the pointer for tooltips.
//
// Every sort triggers a full layout pass. Render requests are serialized
// with queue-and-replace semantics: a request arriving while another pass
// runs cancels that pass, which then fails with a SUPERSEDED error, and the
// latest request wins.
package interact

import (
	"context"
	"slices"
	"sync"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/layout"
)

// Tooltip is the hover text shown for the cell under the pointer.
type Tooltip struct {
	Row    int     `json:"row"`
	Column string  `json:"column"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Controller owns the display order and sort state of one heatmap.
type Controller struct {
	h *heatmap.Heatmap
	m layout.Measurer

	// pass serializes layout passes and sort state changes.
	pass  sync.Mutex
	order []int

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	last    *layout.Result
	tooltip *Tooltip
}

// New returns a controller showing h in data order.
func New(h *heatmap.Heatmap, m layout.Measurer) *Controller {
	order := make([]int, h.Table.Len())
	for i := range order {
		order[i] = i
	}
	return &Controller{h: h, m: m, order: order}
}

// Heatmap returns the controlled heatmap.
func (c *Controller) Heatmap() *heatmap.Heatmap { return c.h }

// Order returns the current display order.
func (c *Controller) Order() []int {
	c.pass.Lock()
	defer c.pass.Unlock()
	return slices.Clone(c.order)
}

// Sort handles a click on the label of column id: the column's sort state
// advances, every other column is reset, and rows are re-sorted within
// their row groups. Groups never change places. The tooltip is hidden.
func (c *Controller) Sort(id string) (column.SortState, error) {
	col, ok := c.h.Column(id)
	if !ok {
		return column.Unsorted, ferrors.New(ferrors.ErrCodeNotFound, "column %q not found", id)
	}

	c.pass.Lock()
	defer c.pass.Unlock()

	for _, other := range c.h.Columns {
		if other != col {
			other.ResetSort()
		}
	}
	cmp := col.Sort()

	rows := c.h.Table.Rows()
	var order []int
	for _, bucket := range c.h.Rows.Buckets(c.order) {
		slices.SortStableFunc(bucket, func(a, b int) int { return cmp(rows[a], rows[b]) })
		order = append(order, bucket...)
	}
	c.order = order

	c.Hide()
	return col.SortState(), nil
}

// SortTo clicks column id until it reaches state. Unsorted resets all
// columns and restores the data order.
func (c *Controller) SortTo(id string, state column.SortState) error {
	if state == column.Unsorted {
		c.Reset()
		return nil
	}
	for range 2 {
		got, err := c.Sort(id)
		if err != nil {
			return err
		}
		if got == state {
			return nil
		}
	}
	return nil
}

// Reset clears every sort and restores the data order.
func (c *Controller) Reset() {
	c.pass.Lock()
	defer c.pass.Unlock()
	for _, col := range c.h.Columns {
		col.ResetSort()
	}
	for i := range c.order {
		c.order[i] = i
	}
	c.Hide()
}

// Sorted returns the sorted column and its direction. ok is false when no
// column is sorted.
func (c *Controller) Sorted() (id string, state column.SortState, ok bool) {
	c.pass.Lock()
	defer c.pass.Unlock()
	for _, col := range c.h.Columns {
		if st := col.SortState(); st != column.Unsorted {
			return col.ID, st, true
		}
	}
	return "", column.Unsorted, false
}

// Restore replaces the display order and sort state, as saved from Order
// and Sorted. An empty order restores the data order; an empty id leaves
// every column unsorted.
func (c *Controller) Restore(order []int, id string, state column.SortState) error {
	n := c.h.Table.Len()
	if len(order) == 0 {
		order = make([]int, n)
		for i := range order {
			order[i] = i
		}
	}
	if !isPermutation(order, n) {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "order is not a permutation of %d rows", n)
	}
	var col *column.Column
	if id != "" {
		var ok bool
		if col, ok = c.h.Column(id); !ok {
			return ferrors.New(ferrors.ErrCodeNotFound, "column %q not found", id)
		}
	}

	c.pass.Lock()
	defer c.pass.Unlock()
	for _, other := range c.h.Columns {
		other.ResetSort()
	}
	if col != nil && state != column.Unsorted {
		col.Sort()
		if state == column.Ascending {
			col.Sort()
		}
	}
	c.order = slices.Clone(order)
	c.Hide()
	return nil
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

// Render runs a full layout pass for the current order. If another request
// arrives before this pass finishes, this pass is abandoned and returns an
// error with code SUPERSEDED.
func (c *Controller) Render(ctx context.Context) (*layout.Result, error) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	c.pass.Lock()
	defer c.pass.Unlock()

	if !c.current(gen) {
		return nil, superseded()
	}
	res, err := c.h.Layout(ctx, c.m, slices.Clone(c.order))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return nil, superseded()
	}
	if err != nil {
		return nil, err
	}
	c.last = res
	c.cancel = nil
	return res, nil
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

func superseded() error {
	return ferrors.New(ferrors.ErrCodeSuperseded, "render superseded by a newer request")
}

// Last returns the result of the latest completed pass, or nil.
func (c *Controller) Last() *layout.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Move hit-tests the pointer at canvas coordinates (x, y) against the latest
// pass and shows the hover text of the cell under it. Pointing at a cell
// without hover text, or outside the body, hides the tooltip.
func (c *Controller) Move(x, y float64) (Tooltip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tooltip = nil
	if c.last == nil {
		return Tooltip{}, false
	}
	row, id, ok := c.last.Geometry.CellAt(x, y, c.h.Options.RowHeight)
	if !ok {
		return Tooltip{}, false
	}
	col, _ := c.h.Column(id)
	text := col.GetHoverText(c.h.Table.Row(row), c.h.Options.Precision)
	if text == "" {
		return Tooltip{}, false
	}
	c.tooltip = &Tooltip{Row: row, Column: id, Text: text, X: x, Y: y}
	return *c.tooltip, true
}

// Tooltip returns the tooltip currently shown.
func (c *Controller) Tooltip() (Tooltip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tooltip == nil {
		return Tooltip{}, false
	}
	return *c.tooltip, true
}

// Hide hides the tooltip. Hiding twice is harmless.
func (c *Controller) Hide() {
	c.mu.Lock()
	c.tooltip = nil
	c.mu.Unlock()
}
