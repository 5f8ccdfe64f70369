package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ged-lab/gimme/internal/alignment"
	"github.com/ged-lab/gimme/internal/assemble"
	"github.com/ged-lab/gimme/internal/bed"
	"github.com/ged-lab/gimme/internal/duckdb"
	"github.com/ged-lab/gimme/internal/genome"
)

type assembleOptions struct {
	inputs    []string
	format    string
	output    string
	reference string
	duckdb    string
}

// flagKeys maps assemble flags to their viper keys.
var flagKeys = map[string]string{
	"gap-size":            "gap-size",
	"max-intron":          "max-intron",
	"min-utr":             "min-utr",
	"min-transcript-len":  "min-transcript-len",
	"min-single-exon-len": "min-single-exon-len",
	"max-isoforms":        "max-isoforms",
	"max":                 "report-all-isoforms",
	"workers":             "workers",
	"max-cover-rounds":    "max-cover-rounds",
	"debug":               "debug",
}

func newAssembleCmd() *cobra.Command {
	var opts assembleOptions

	cmd := &cobra.Command{
		Use:   "assemble [flags] <input.psl|bed>...",
		Short: "Assemble gene models from spliced alignments",
		Long: `Assemble gene models from PSL or BED12 alignments and write them as BED12.

Without --reference every model has unknown strand. Parameters can also
be set in ~/.gimme.yaml with "gimme config set".`,
		Example: `  gimme assemble reads.psl > models.bed
  gimme assemble -r genome.fa -o models.bed reads.psl more.bed.gz
  gimme assemble --duckdb models.duckdb reads.psl
  cat reads.psl | gimme assemble -f psl -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputs = args

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Debug)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			return runAssemble(cmd.Context(), opts, cfg, cmd.OutOrStdout(), logger)
		},
	}

	d := assemble.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output BED file (default: stdout)")
	flags.StringVarP(&opts.reference, "reference", "r", "", "Reference genome FASTA used to assign strands")
	flags.StringVar(&opts.duckdb, "duckdb", "", "Also store gene models in this DuckDB database")
	flags.StringVarP(&opts.format, "format", "f", "", "Input format: psl, bed (auto-detected if not specified)")
	flags.Int("gap-size", d.GapSize, "Merge exons separated by at most this many bases")
	flags.Int("max-intron", d.MaxIntron, "Split alignments at introns longer than this (negative disables)")
	flags.Int("min-utr", d.MinUTR, "UTR length difference below which terminal exons are merged")
	flags.Int("min-transcript-len", d.MinTranscriptLen, "Report multi-exon transcripts longer than this")
	flags.Int("min-single-exon-len", d.MinSingleExonLen, "Report single-exon genes longer than this")
	flags.Int("max-isoforms", d.MaxIsoforms, "Report a minimal isoform set for genes with more isoforms than this")
	flags.BoolP("max", "x", false, "Report all isoforms of every gene")
	flags.Int("workers", 0, "Number of loci built in parallel (default: number of CPUs)")
	flags.Int("max-cover-rounds", 0, "Round limit for the minimal isoform search (default: edge count + 1)")
	flags.Bool("debug", false, "Keep every splice junction and log verbosely; for debugging only")
	bindFlags(flags)

	return cmd
}

func bindFlags(flags *pflag.FlagSet) {
	for name, key := range flagKeys {
		viper.BindPFlag(key, flags.Lookup(name))
	}
}

// loadConfig assembles parameters from defaults, the config file and
// flags, in increasing precedence.
func loadConfig() (assemble.Config, error) {
	if viper.GetBool("debug") {
		cfg := assemble.DebugConfig()
		cfg.Workers = viper.GetInt("workers")
		cfg.MaxCoverRounds = viper.GetInt("max-cover-rounds")
		return cfg, nil
	}

	cfg := assemble.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid parameters: %w", err)
	}
	return cfg, nil
}

func runAssemble(ctx context.Context, opts assembleOptions, cfg assemble.Config, stdout io.Writer, logger *zap.Logger) error {
	var format alignment.Format
	if opts.format != "" {
		f, err := alignment.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		format = f
	}

	session := assemble.NewSession(cfg)
	session.SetLogger(logger)

	if opts.reference != "" {
		ref, err := genome.Load(opts.reference)
		if err != nil {
			return err
		}
		logger.Info("loaded reference",
			zap.String("path", opts.reference),
			zap.Int("chromosomes", len(ref.Chromosomes())))
		session.SetSequence(ref)
	}

	for _, path := range opts.inputs {
		if err := readAlignments(session, path, format, logger); err != nil {
			return err
		}
	}

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	w := bed.NewWriter(out)

	var store *duckdb.Store
	if opts.duckdb != "" {
		s, err := duckdb.Open(opts.duckdb)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	var records []bed.Record
	sum, err := session.Build(ctx, func(r bed.Record) error {
		if store != nil {
			records = append(records, r)
		}
		return w.Write(r)
	})
	if err != nil {
		return fmt.Errorf("build gene models: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if store != nil {
		if err := saveModels(store, records, opts.inputs); err != nil {
			return err
		}
		logger.Info("stored gene models",
			zap.String("path", opts.duckdb),
			zap.Int("transcripts", len(records)))
	}

	logger.Info("assembly finished",
		zap.Int("alignments", sum.Alignments),
		zap.Int("malformed", sum.Malformed),
		zap.Int("genes", sum.Genes),
		zap.Int("isoforms", sum.Isoforms),
		zap.Int("single_exon_genes", sum.SingleExonGenes),
		zap.Int("excluded", sum.Excluded),
		zap.Int("failed_loci", sum.FailedLoci))
	return nil
}

// readAlignments adds every alignment of one input to the session.
// Malformed alignments are logged and skipped.
func readAlignments(s *assemble.Session, path string, format alignment.Format, logger *zap.Logger) error {
	r, err := alignment.Open(path, format)
	if err != nil {
		return err
	}
	defer r.Close()

	n := 0
	for {
		exons, err := r.Next()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if exons == nil {
			break
		}
		if err := s.AddTranscript(exons); err != nil {
			logger.Warn("skipping alignment",
				zap.String("file", path),
				zap.Int("line", r.LineNumber()),
				zap.Error(err))
			continue
		}
		n++
	}
	logger.Info("read alignments", zap.String("file", path), zap.Int("alignments", n))
	return nil
}

// saveModels replaces the stored gene models and records the inputs
// they were built from.
func saveModels(store *duckdb.Store, records []bed.Record, inputs []string) error {
	if err := store.ClearGeneModels(); err != nil {
		return fmt.Errorf("clear gene models: %w", err)
	}
	if err := store.WriteGeneModels(records); err != nil {
		return fmt.Errorf("store gene models: %w", err)
	}

	var fps []duckdb.FileFingerprint
	for _, path := range inputs {
		if path == "-" {
			continue
		}
		fp, err := duckdb.StatFile(path)
		if err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
		fps = append(fps, fp)
	}
	return store.RecordSources(fps)
}
