// Package group validates and completes column and row grouping metadata.
package group

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
)

// ColumnGroup labels a run of columns in the header. Level1 is the innermost
// label; Level2 and Level3 stack above it.
type ColumnGroup struct {
	Group   string `toml:"group,omitempty" json:"group" yaml:"group"`
	Palette string `toml:"palette,omitempty" json:"palette,omitempty" yaml:"palette,omitempty"`
	Level1  string `toml:"level1,omitempty" json:"level1,omitempty" yaml:"level1,omitempty"`
	Level2  string `toml:"level2,omitempty" json:"level2,omitempty" yaml:"level2,omitempty"`
	Level3  string `toml:"level3,omitempty" json:"level3,omitempty" yaml:"level3,omitempty"`
}

// Levels returns the labels from the innermost level outwards, dropping
// trailing empty levels.
func (g ColumnGroup) Levels() []string {
	levels := []string{g.Level1, g.Level2, g.Level3}
	for len(levels) > 0 && levels[len(levels)-1] == "" {
		levels = levels[:len(levels)-1]
	}
	return levels
}

// Columns completes the column groups. columnGroups holds each column's
// group key in column order ("" for ungrouped columns).
//
// Without explicit groups, one group per distinct key is synthesized in
// first-seen order. Every referenced key must have a group; unused groups are
// reported as warnings. When the first group has no palette, all groups use
// "none". Missing level1 labels default to the capitalized key, and labelAbc
// prefixes them with a), b), ...
func Columns(groups []ColumnGroup, columnGroups []string, labelAbc bool, diag *ferrors.Diagnostics) ([]ColumnGroup, error) {
	used := distinct(columnGroups)
	if len(groups) == 0 && len(used) > 0 {
		diag.Info("No column groups specified, but some columns have group, building automatically")
		for _, key := range used {
			groups = append(groups, ColumnGroup{Group: key})
		}
	}
	if len(groups) == 0 {
		return nil, nil
	}
	if key, ok := duplicate(groups, func(g ColumnGroup) string { return g.Group }); ok {
		return nil, ferrors.New(ferrors.ErrCodeUnknownGroup, "column group %q is specified more than once", key)
	}
	groups = slices.Clone(groups)

	for _, key := range used {
		if !slices.ContainsFunc(groups, func(g ColumnGroup) bool { return g.Group == key }) {
			return nil, ferrors.New(ferrors.ErrCodeUnknownGroup, "column group %q is not specified in column groups", key)
		}
	}
	var unused []string
	for _, g := range groups {
		if !slices.Contains(used, g.Group) {
			unused = append(unused, g.Group)
		}
	}
	if len(unused) > 0 {
		diag.Warn(ferrors.WarnUnusedGroup, strings.Join(unused, ", "), "unused column groups: %s", strings.Join(unused, ", "))
	}

	if groups[0].Palette == "" {
		diag.Info("Column groups did not specify `palette`. Assuming no colours")
		for i := range groups {
			groups[i].Palette = palette.None
		}
	}
	for _, g := range groups {
		if g.Palette == "" {
			return nil, ferrors.New(ferrors.ErrCodeUnknownPalette, "column group %q did not specify palette", g.Group)
		}
	}

	for i := range groups {
		if groups[i].Level1 == "" {
			groups[i].Level1 = Capitalize(groups[i].Group)
		}
		if labelAbc {
			groups[i].Level1 = fmt.Sprintf("%s) %s", abc(i), groups[i].Level1)
		}
	}
	return groups, nil
}

// Find returns the group with the given key.
func Find(groups []ColumnGroup, key string) (ColumnGroup, bool) {
	i := slices.IndexFunc(groups, func(g ColumnGroup) bool { return g.Group == key })
	if i < 0 {
		return ColumnGroup{}, false
	}
	return groups[i], true
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// abc returns a, b, ..., z, aa, ab, ... for 0, 1, ...
func abc(i int) string {
	s := ""
	for i >= 0 {
		s = string(rune('a'+i%26)) + s
		i = i/26 - 1
	}
	return s
}

// duplicate returns the first key that occurs twice in items.
func duplicate[T any](items []T, key func(T) string) (string, bool) {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		k := key(it)
		if seen[k] {
			return k, true
		}
		seen[k] = true
	}
	return "", false
}

func distinct(keys []string) []string {
	var out []string
	for _, k := range keys {
		if k != "" && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// Run is a maximal range of adjacent items sharing a non-empty key.
// End is exclusive.
type Run struct {
	Key        string
	Start, End int
}

// Runs splits keys into runs of equal, non-empty adjacent keys.
func Runs(keys []string) []Run {
	var out []Run
	for i := 0; i < len(keys); {
		j := i + 1
		for j < len(keys) && keys[j] == keys[i] {
			j++
		}
		if keys[i] != "" {
			out = append(out, Run{Key: keys[i], Start: i, End: j})
		}
		i = j
	}
	return out
}
