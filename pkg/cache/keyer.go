package cache

// Keyer derives cache keys for rendered artifacts.
type Keyer interface {
	// ArtifactKey names one rendered output of a heatmap.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change artifact bytes.
type ArtifactKeyOpts struct {
	Format      string   `json:"format"`
	Sort        []string `json:"sort,omitempty"` // "column:dir" pairs in application order
	Interactive bool     `json:"interactive,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Measurer    string   `json:"measurer,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the input hash together with opts.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

var _ Keyer = DefaultKeyer{}
