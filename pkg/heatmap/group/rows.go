package group

import (
	"slices"
	"strings"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
)

// RowGroup names a block of rows. Level1 is the display label drawn above
// the block.
type RowGroup struct {
	Group  string `toml:"group,omitempty" json:"group" yaml:"group"`
	Level1 string `toml:"level1,omitempty" json:"level1,omitempty" yaml:"level1,omitempty"`
}

// Rows is the resolved row grouping.
type Rows struct {
	// Active is false when rows are laid out as one unnamed block.
	Active bool
	Groups []RowGroup
	// Keys holds each row's group key, in data order.
	Keys []string
}

// BuildRows resolves row groups. rowKeys holds each row's group key; it is
// nil when the rows carry no group field. Grouping is only active when
// groups with display labels exist; otherwise all rows form one block.
func BuildRows(groups []RowGroup, rowKeys []string, diag *ferrors.Diagnostics) (Rows, error) {
	if key, ok := duplicate(groups, func(g RowGroup) string { return g.Group }); ok {
		return Rows{}, ferrors.New(ferrors.ErrCodeUnknownGroup, "row group %q is specified more than once", key)
	}
	labelled := slices.ContainsFunc(groups, func(g RowGroup) bool { return g.Level1 != "" })
	if rowKeys == nil || !labelled {
		if len(groups) > 0 {
			diag.Info("Row groups have no display labels or rows have no group field, laying out rows as one block")
		}
		return Rows{Keys: rowKeys}, nil
	}

	used := distinct(rowKeys)
	for _, key := range used {
		if !slices.ContainsFunc(groups, func(g RowGroup) bool { return g.Group == key }) {
			return Rows{}, ferrors.New(ferrors.ErrCodeUnknownGroup, "row group %q is not specified in row groups", key)
		}
	}
	if slices.Contains(rowKeys, "") {
		return Rows{}, ferrors.New(ferrors.ErrCodeUnknownGroup, "row %d has no group while row groups are active", slices.Index(rowKeys, ""))
	}
	var unused []string
	for _, g := range groups {
		if !slices.Contains(used, g.Group) {
			unused = append(unused, g.Group)
		}
	}
	if len(unused) > 0 {
		diag.Warn(ferrors.WarnUnusedGroup, strings.Join(unused, ", "), "unused row groups: %s", strings.Join(unused, ", "))
	}
	return Rows{Active: true, Groups: slices.Clone(groups), Keys: rowKeys}, nil
}

// Buckets returns the row indices of every group in group order, each bucket
// keeping the given row order. Inactive grouping yields a single bucket.
// Empty groups are omitted.
func (r Rows) Buckets(order []int) [][]int {
	if !r.Active {
		return [][]int{slices.Clone(order)}
	}
	var out [][]int
	for _, g := range r.Groups {
		var bucket []int
		for _, i := range order {
			if r.Keys[i] == g.Group {
				bucket = append(bucket, i)
			}
		}
		if len(bucket) > 0 {
			out = append(out, bucket)
		}
	}
	return out
}

// Label returns the display label of a group key.
func (r Rows) Label(key string) string {
	for _, g := range r.Groups {
		if g.Group == key {
			return g.Level1
		}
	}
	return key
}
