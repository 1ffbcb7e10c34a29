package cache

// Keyer derives cache keys.
type Keyer interface {
	// SnapshotKey identifies a loaded snapshot by its source description.
	SnapshotKey(source string) string
	// LayoutKey identifies a layout computed from a snapshot.
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout.
type LayoutKeyOpts struct {
	Roots       []string `json:"roots"`
	Generations int      `json:"generations"`
	Style       string   `json:"style"`
	Decorations bool     `json:"decorations"`
	ConfigHash  string   `json:"config_hash"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	VizType     string  `json:"viz_type"`
	Style       string  `json:"style"`
	Scale       float64 `json:"scale,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key derivation.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SnapshotKey returns "snapshot:<hash>".
func (DefaultKeyer) SnapshotKey(source string) string {
	return hashKey("snapshot", source)
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", snapshotHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
