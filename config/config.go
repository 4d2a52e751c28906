// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/jjtimmons/alnmerge/internal/aln"
	"github.com/jjtimmons/alnmerge/internal/input"
	"github.com/jjtimmons/alnmerge/internal/merge"
)

// MergeConfig is settings for merging alignments
type MergeConfig struct {
	// the merge algorithm: merge-all, query-only or preserve-rows
	Algo string `mapstructure:"algo"`

	// whether one row can hold ranges of both strands
	MixedStrand bool `mapstructure:"mixed-strand"`

	// whether ranges out of order on the second sequence can share a row
	Translocation bool `mapstructure:"translocation"`

	// whether to drop the parts of alignments already covered by better ones
	Truncate bool `mapstructure:"truncate"`

	// whether to keep the input order rather than sorting by score
	SkipSort bool `mapstructure:"skip-sort"`

	// whether rows holding both strands are split in two after merging
	SplitStrands bool `mapstructure:"split-strands"`
}

// InputConfig is settings for reading alignments
type InputConfig struct {
	// the format of the input files, detected from the file names if empty
	Format string `mapstructure:"format"`

	// the anchor sequence, the first sequence of the input alignments if empty
	Anchor string `mapstructure:"anchor"`

	// the minimum length of a BLAST hit on the query
	MinLength int `mapstructure:"min-length"`

	// subject names with these words are dropped from BLAST results
	Exclude []string `mapstructure:"exclude"`

	// whether BLAST hits self-contained in larger ones are dropped
	Cull bool `mapstructure:"cull"`

	// base width of the anchor coordinates (1 for protein, 3 for nucleotide)
	AnchorWidth int `mapstructure:"anchor-width"`

	// base width of the other rows' coordinates
	RowWidth int `mapstructure:"row-width"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// Merge settings
	Merge MergeConfig `mapstructure:"merge"`

	// Input settings
	Input InputConfig `mapstructure:"input"`

	// Synonyms of sequence names, from synonym to canonical name
	Synonyms map[string]string `mapstructure:"synonyms"`

	// Verbose logging
	Verbose bool `mapstructure:"verbose"`
}

func init() {
	SetDefaults(viper.GetViper())
}

// SetDefaults registers the default settings with v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("merge.algo", merge.MergeAll.String())
	v.SetDefault("merge.mixed-strand", false)
	v.SetDefault("merge.translocation", false)
	v.SetDefault("merge.truncate", true)
	v.SetDefault("merge.skip-sort", false)
	v.SetDefault("merge.split-strands", false)

	v.SetDefault("input.format", "")
	v.SetDefault("input.anchor", "")
	v.SetDefault("input.min-length", 0)
	v.SetDefault("input.exclude", []string{})
	v.SetDefault("input.cull", false)
	v.SetDefault("input.anchor-width", aln.ProteinWidth)
	v.SetDefault("input.row-width", aln.ProteinWidth)

	v.SetDefault("synonyms", map[string]string{})
	v.SetDefault("verbose", false)
}

// New returns a new Config struct populated by
// Viper settings (either from a settings file)
// and/or command line arguments
func New() *Config {
	c, err := FromViper(viper.GetViper())
	if err != nil {
		log.Fatal(err)
	}
	return c
}

// FromViper decodes the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadSettings merges a YAML settings file into the global settings.
func ReadSettings(path string) error {
	viper.SetConfigFile(path)
	if err := viper.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to read settings from %s: %v", path, err)
	}
	return nil
}

// Validate checks the settings that can be checked before reading any input.
func (c *Config) Validate() error {
	if _, err := merge.ParseAlgo(c.Merge.Algo); err != nil {
		return err
	}
	if _, err := input.ParseFormat(c.Input.Format); err != nil {
		return err
	}
	for name, width := range map[string]int{"anchor-width": c.Input.AnchorWidth, "row-width": c.Input.RowWidth} {
		if width != aln.ProteinWidth && width != aln.CodonWidth {
			return fmt.Errorf("%s must be %d or %d, not %d", name, aln.ProteinWidth, aln.CodonWidth, width)
		}
	}
	if c.Input.MinLength < 0 {
		return fmt.Errorf("min-length must not be negative, not %d", c.Input.MinLength)
	}
	return nil
}

// MergeOptions turns the merge settings into options for merge.BuildAln.
func (c *Config) MergeOptions() (merge.Options, error) {
	algo, err := merge.ParseAlgo(c.Merge.Algo)
	if err != nil {
		return merge.Options{}, err
	}

	opts := merge.Options{Algo: algo}
	if c.Merge.MixedStrand {
		opts.Flags |= merge.AllowMixedStrand
	}
	if c.Merge.Translocation {
		opts.Flags |= merge.AllowTranslocation
	}
	if c.Merge.Truncate {
		opts.Flags |= merge.TruncateOverlaps
	}
	if c.Merge.SkipSort {
		opts.Flags |= merge.SkipSortByScore
	}
	return opts, nil
}

// Filter is the BLAST hit filter of the input settings.
func (c *Config) Filter() input.Filter {
	return input.Filter{
		Exclude:   c.Input.Exclude,
		MinLength: c.Input.MinLength,
		Cull:      c.Input.Cull,
	}
}

// BuildOptions are the options for turning input records into alignments.
func (c *Config) BuildOptions() input.BuildOptions {
	return input.BuildOptions{
		Anchor:      c.Input.Anchor,
		AnchorWidth: c.Input.AnchorWidth,
		RowWidth:    c.Input.RowWidth,
	}
}

// Format is the input format, empty to detect it from file names.
func (c *Config) Format() input.Format {
	f, _ := input.ParseFormat(c.Input.Format)
	return f
}

// IDTable returns a table for sequence ids that resolves the configured synonyms.
func (c *Config) IDTable() *aln.IDTable {
	if len(c.Synonyms) == 0 {
		return aln.NewIDTable(nil)
	}
	return aln.NewIDTable(aln.NewSynonymMap(c.Synonyms))
}
