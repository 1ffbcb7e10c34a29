// Package pipeline provides the load → layout → render pipeline shared by
// the CLI and the HTTP server.
//
// # Stages
//
//  1. Load: read a [family.Snapshot] from a [source.Source]
//  2. Layout: layer the tree from its roots and compute node positions
//  3. Render: produce artifacts (SVG, PNG, PDF, JSON, DOT)
//
// [ComputeLayout] and [Render] are pure. [Runner] wraps them with caching,
// logging and observability hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Roots:       []string{"p1"},
//	    Generations: 4,
//	    Formats:     []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultGenerations is the number of generations laid out when a caller
	// does not choose. Zero in Options means unlimited.
	DefaultGenerations = 4

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// MaxScale bounds PNG output size.
	MaxScale = 8.0
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeFlow

// DefaultStyle is the default visual style.
const DefaultStyle = graph.StyleSimple

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	graph.StyleSimple:   true,
	graph.StyleDetailed: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeFlow:     true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Roots           []string `json:"roots,omitempty"`
	Generations     int      `json:"generations,omitempty"` // 0 = unlimited
	ShowDecorations bool     `json:"show_decorations,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	VizType     string   `json:"viz_type,omitempty"`
	Style       string   `json:"style,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`

	// Refresh bypasses the snapshot cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Layout layout.Config `json:"-"`
	Logger *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the loaded family data.
	Snapshot *family.Snapshot

	// SnapshotHash is the content hash of the snapshot.
	SnapshotHash string

	// Layout is the computed node/edge list.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Persons     int
	Generations int
	NodeCount   int
	EdgeCount   int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SnapshotHit bool // Whether the snapshot came from cache
	LayoutHit   bool // Whether the layout came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: simple, detailed)", style)
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid viz_type: %q (must be one of: flow, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// Roots may still be empty: sources can supply them later.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, id := range o.Roots {
		if err := errors.ValidatePersonID(id); err != nil {
			return err
		}
	}
	if err := errors.ValidateGenerations(o.Generations); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.Layout = o.Layout.WithDefaults()

	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, o.Scale)
	}
	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout config")
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfgHash, _ := cache.HashJSON(o.Layout)
	return cache.LayoutKeyOpts{
		Roots:       o.Roots,
		Generations: o.Generations,
		Style:       o.Style,
		Decorations: o.ShowDecorations,
		ConfigHash:  cfgHash,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  format,
		VizType: o.VizType,
		Style:   o.Style,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if format == FormatSVG {
		k.Interactive = o.Interactive
	}
	return k
}

// String summarizes the options for logs.
func (o *Options) String() string {
	return fmt.Sprintf("roots=%v generations=%d formats=%v style=%s", o.Roots, o.Generations, o.Formats, o.Style)
}
