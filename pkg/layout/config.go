package layout

import (
	"fmt"
)

// Default dimensions, in pixels.
const (
	DefaultPersonWidth         = 180.0
	DefaultPersonHeight        = 80.0
	DefaultHorizontalGap       = 40.0
	DefaultRootGap             = 120.0
	DefaultGenerationHeight    = 360.0
	DefaultRelationshipSize    = 24.0
	DefaultRelationshipOffsetY = 110.0
	DefaultSpouseOffsetY       = 170.0
	DefaultGenerationPadding   = 40.0
)

// Config holds the dimensions used by the position calculator and renderer.
// It is passed by value and never modified by a layout pass.
type Config struct {
	PersonWidth         float64 `toml:"person_width" json:"personWidth"`
	PersonHeight        float64 `toml:"person_height" json:"personHeight"`
	HorizontalGap       float64 `toml:"horizontal_gap" json:"horizontalGap"`
	RootGap             float64 `toml:"root_gap" json:"rootGap"`
	GenerationHeight    float64 `toml:"generation_height" json:"generationHeight"`
	RelationshipSize    float64 `toml:"relationship_size" json:"relationshipSize"`
	RelationshipOffsetY float64 `toml:"relationship_offset_y" json:"relationshipOffsetY"`
	SpouseOffsetY       float64 `toml:"spouse_offset_y" json:"spouseOffsetY"`
	GenerationPadding   float64 `toml:"generation_padding" json:"generationPadding"`
}

// DefaultConfig returns the default dimensions.
func DefaultConfig() Config {
	return Config{
		PersonWidth:         DefaultPersonWidth,
		PersonHeight:        DefaultPersonHeight,
		HorizontalGap:       DefaultHorizontalGap,
		RootGap:             DefaultRootGap,
		GenerationHeight:    DefaultGenerationHeight,
		RelationshipSize:    DefaultRelationshipSize,
		RelationshipOffsetY: DefaultRelationshipOffsetY,
		SpouseOffsetY:       DefaultSpouseOffsetY,
		GenerationPadding:   DefaultGenerationPadding,
	}
}

// WithDefaults returns c with every zero field replaced by its default.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&c.PersonWidth, d.PersonWidth)
	fill(&c.PersonHeight, d.PersonHeight)
	fill(&c.HorizontalGap, d.HorizontalGap)
	fill(&c.RootGap, d.RootGap)
	fill(&c.GenerationHeight, d.GenerationHeight)
	fill(&c.RelationshipSize, d.RelationshipSize)
	fill(&c.RelationshipOffsetY, d.RelationshipOffsetY)
	fill(&c.SpouseOffsetY, d.SpouseOffsetY)
	fill(&c.GenerationPadding, d.GenerationPadding)
	return c
}

// Validate reports the first dimension that is out of range. Node sizes and
// the generation height must be positive; gaps and offsets must not be
// negative. The spouse row must fit inside a generation.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"person width", c.PersonWidth},
		{"person height", c.PersonHeight},
		{"generation height", c.GenerationHeight},
		{"relationship size", c.RelationshipSize},
	}
	for _, f := range positive {
		if f.v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", f.name, f.v)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"horizontal gap", c.HorizontalGap},
		{"root gap", c.RootGap},
		{"relationship offset", c.RelationshipOffsetY},
		{"spouse offset", c.SpouseOffsetY},
		{"generation padding", c.GenerationPadding},
	}
	for _, f := range nonNegative {
		if f.v < 0 {
			return fmt.Errorf("%s cannot be negative, got %g", f.name, f.v)
		}
	}

	if c.SpouseOffsetY+c.PersonHeight > c.GenerationHeight {
		return fmt.Errorf("spouse row (%g + %g) exceeds generation height %g",
			c.SpouseOffsetY, c.PersonHeight, c.GenerationHeight)
	}
	return nil
}
