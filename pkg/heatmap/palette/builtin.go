package palette

import "slices"

// Numerical holds the built-in sequential ramps, ordered light to dark so
// larger values get darker colors.
var Numerical = map[string][]string{
	"Blues": {
		"#F7FBFF", "#DEEBF7", "#C6DBEF", "#9ECAE1", "#6BAED6", "#4292C6", "#2171B5", "#08519C",
		"#08306B", "#011636",
	},
	"Greens": {
		"#E5F5E0", "#C7E9C0", "#A1D99B", "#74C476", "#41AB5D", "#238B45", "#006D2C", "#00441B",
		"#00250f",
	},
	"Greys": {
		"#F0F0F0", "#D9D9D9", "#BDBDBD", "#969696", "#737373", "#525252", "#252525", "#000000",
	},
	"Reds": {
		"#FFF5F0", "#FEE0D2", "#FCBBA1", "#FC9272", "#FB6A4A", "#EF3B2C", "#CB181D",
	},
	"YlOrBr": {
		"#FFFFE5", "#FFF7BC", "#FEE391", "#FEC44F", "#FE9929", "#EC7014",
	},
}

// Categorical holds the built-in qualitative palettes.
var Categorical = map[string][]string{
	"Set1": {
		"#E41A1C", "#377EB8", "#4DAF4A", "#984EA3", "#FF7F00", "#FFFF33", "#A65628", "#F781BF",
		"#999999",
	},
	"Set2": {
		"#66C2A5", "#FC8D62", "#8DA0CB", "#E78AC3", "#A6D854", "#FFD92F", "#E5C494", "#B3B3B3",
	},
	"Set3": {
		"#8DD3C7", "#FFFFB3", "#BEBADA", "#FB8072", "#80B1D3", "#FDB462", "#B3DE69", "#FCCDE5",
		"#D9D9D9", "#BC80BD", "#CCEBC5", "#FFED6F",
	},
	"Dark2": {
		"#1B9E77", "#D95F02", "#7570B3", "#E7298A", "#66A61E", "#E6AB02", "#A6761D", "#666666",
	},
}

// Default names used when a column references the generic palettes.
const (
	DefaultNumerical   = "Blues"
	DefaultCategorical = "Set1"
)

// Reserved palette references.
const (
	None           = "none"
	RefNumerical   = "numerical"
	RefCategorical = "categorical"
)

// BuiltinNames returns all built-in palette names, numerical first, each
// group sorted.
func BuiltinNames() []string {
	num := make([]string, 0, len(Numerical))
	for k := range Numerical {
		num = append(num, k)
	}
	slices.Sort(num)
	cat := make([]string, 0, len(Categorical))
	for k := range Categorical {
		cat = append(cat, k)
	}
	slices.Sort(cat)
	return append(num, cat...)
}

func builtin(name string) ([]string, bool) {
	if c, ok := Numerical[name]; ok {
		return c, true
	}
	c, ok := Categorical[name]
	return c, ok
}
