package column

// Spec configures one column. Empty strings and nil pointers mean "not set"
// and are filled in by the defaults cascade in [New].
type Spec struct {
	ID          string   `toml:"id,omitempty" json:"id" yaml:"id"`
	Name        string   `toml:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Geom        string   `toml:"geom,omitempty" json:"geom,omitempty" yaml:"geom,omitempty"`
	Group       string   `toml:"group,omitempty" json:"group,omitempty" yaml:"group,omitempty"`
	Palette     string   `toml:"palette,omitempty" json:"palette,omitempty" yaml:"palette,omitempty"`
	Width       *float64 `toml:"width,omitempty" json:"width,omitempty" yaml:"width,omitempty"`
	IDSize      string   `toml:"id_size,omitempty" json:"id_size,omitempty" yaml:"id_size,omitempty"`
	IDColor     string   `toml:"id_color,omitempty" json:"id_color,omitempty" yaml:"id_color,omitempty"`
	Label       string   `toml:"label,omitempty" json:"label,omitempty" yaml:"label,omitempty"`
	IDHoverText string   `toml:"id_hover_text,omitempty" json:"id_hover_text,omitempty" yaml:"id_hover_text,omitempty"`
	Overlay     bool     `toml:"overlay,omitempty" json:"overlay,omitempty" yaml:"overlay,omitempty"`
	ColorByRank *bool    `toml:"color_by_rank,omitempty" json:"color_by_rank,omitempty" yaml:"color_by_rank,omitempty"`
	ScaleColumn *bool    `toml:"scale_column,omitempty" json:"scale_column,omitempty" yaml:"scale_column,omitempty"`
	Options     Options  `toml:"options,omitempty" json:"options,omitempty" yaml:"options,omitempty"`
}

// Options is the per-column options record.
type Options struct {
	Align     string   `toml:"align,omitempty" json:"align,omitempty" yaml:"align,omitempty"`
	FontSize  float64  `toml:"font_size,omitempty" json:"font_size,omitempty" yaml:"font_size,omitempty"`
	Width     *float64 `toml:"width,omitempty" json:"width,omitempty" yaml:"width,omitempty"`
	Palette   string   `toml:"palette,omitempty" json:"palette,omitempty" yaml:"palette,omitempty"`
	Legend    *bool    `toml:"legend,omitempty" json:"legend,omitempty" yaml:"legend,omitempty"`
	DrawGuide *bool    `toml:"draw_guide,omitempty" json:"draw_guide,omitempty" yaml:"draw_guide,omitempty"`
}

// Accessors returns the fields this spec reads besides its own id, keyed by
// the accessor name.
func (s Spec) Accessors() map[string]string {
	out := map[string]string{}
	for name, field := range map[string]string{
		"id_size":       s.IDSize,
		"id_color":      s.IDColor,
		"label":         s.Label,
		"id_hover_text": s.IDHoverText,
	} {
		if field != "" {
			out[name] = field
		}
	}
	return out
}
