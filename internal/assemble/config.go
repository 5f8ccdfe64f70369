// Package assemble builds gene models from spliced alignments.
package assemble

import (
	"errors"
	"fmt"

	"github.com/ged-lab/gimme/internal/splice"
)

// Config holds the assembly parameters. Field tags match the CLI flag
// and config file keys.
type Config struct {
	GapSize           int  `mapstructure:"gap-size" yaml:"gap-size"`
	MaxIntron         int  `mapstructure:"max-intron" yaml:"max-intron"`
	MinUTR            int  `mapstructure:"min-utr" yaml:"min-utr"`
	MinTranscriptLen  int  `mapstructure:"min-transcript-len" yaml:"min-transcript-len"`
	MinSingleExonLen  int  `mapstructure:"min-single-exon-len" yaml:"min-single-exon-len"`
	MaxIsoforms       int  `mapstructure:"max-isoforms" yaml:"max-isoforms"`
	ReportAllIsoforms bool `mapstructure:"report-all-isoforms" yaml:"report-all-isoforms"`
	Workers           int  `mapstructure:"workers" yaml:"workers"`
	MaxCoverRounds    int  `mapstructure:"max-cover-rounds" yaml:"max-cover-rounds"`
	Debug             bool `mapstructure:"debug" yaml:"debug"`
}

// DefaultConfig returns the standard assembly parameters.
func DefaultConfig() Config {
	return Config{
		GapSize:          50,
		MaxIntron:        300000,
		MinUTR:           100,
		MinTranscriptLen: 300,
		MinSingleExonLen: 500,
		MaxIsoforms:      20,
	}
}

// DebugConfig returns parameters that keep every splice junction:
// no gap filling, no intron splitting, no UTR merging, and all isoforms.
func DebugConfig() Config {
	return Config{
		GapSize:           0,
		MaxIntron:         -1,
		MinUTR:            0,
		MinTranscriptLen:  1,
		MinSingleExonLen:  1,
		MaxIsoforms:       20,
		ReportAllIsoforms: true,
		Debug:             true,
	}
}

// Validate checks parameter ranges. Debug configs are not checked.
func (c Config) Validate() error {
	if c.Debug {
		return nil
	}
	var errs []error
	if c.MinUTR <= 0 {
		errs = append(errs, fmt.Errorf("min-utr must be positive, got %d", c.MinUTR))
	}
	if c.GapSize < 0 {
		errs = append(errs, fmt.Errorf("gap-size must not be negative, got %d", c.GapSize))
	}
	if c.MaxIntron == 0 {
		errs = append(errs, errors.New("max-intron must be positive, or negative to disable"))
	}
	if c.MaxIsoforms <= 0 {
		errs = append(errs, fmt.Errorf("max-isoforms must be positive, got %d", c.MaxIsoforms))
	}
	if c.MinTranscriptLen <= 0 {
		errs = append(errs, fmt.Errorf("min-transcript-len must be positive, got %d", c.MinTranscriptLen))
	}
	if c.MinSingleExonLen <= 0 {
		errs = append(errs, fmt.Errorf("min-single-exon-len must be positive, got %d", c.MinSingleExonLen))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	return errors.Join(errs...)
}

func (c Config) enumerateOptions() splice.EnumerateOptions {
	return splice.EnumerateOptions{
		MaxIsoforms:    c.MaxIsoforms,
		ReportAll:      c.ReportAllIsoforms,
		MaxCoverRounds: c.MaxCoverRounds,
	}
}
