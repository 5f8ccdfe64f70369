package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ged-lab/gimme/internal/bed"
	"github.com/ged-lab/gimme/internal/splice"
)

func newMinPathsCmd() *cobra.Command {
	var (
		output string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "minpaths [flags] <models.bed>",
		Short: "Reduce gene models to a minimal isoform set",
		Long: `Read BED12 gene models named chrom:gene.transcript, rebuild each gene's
exon graph and replace its transcripts with a minimal set of isoforms
covering every splice junction. Genes whose minimal set is not smaller
keep their original transcripts.`,
		Example: `  gimme minpaths models.bed > minimal.bed`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(debug)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return runMinPaths(args[0], out, logger)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output BED file (default: stdout)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Log verbosely")

	return cmd
}

func runMinPaths(input string, out io.Writer, logger *zap.Logger) error {
	p, err := bed.NewParser(input)
	if err != nil {
		return err
	}
	defer p.Close()

	var (
		genes  []string
		byGene = make(map[string][]bed.Record)
	)
	for {
		r, err := p.Next()
		if err != nil {
			return err
		}
		if r == nil {
			break
		}
		id := r.GeneID()
		if _, ok := byGene[id]; !ok {
			genes = append(genes, id)
		}
		byGene[id] = append(byGene[id], *r)
	}

	w := bed.NewWriter(out)
	var before, after int
	for _, id := range genes {
		recs := byGene[id]
		reduced, err := reduceGene(id, recs)
		if err != nil {
			logger.Warn("keeping original isoforms", zap.String("gene", id), zap.Error(err))
			reduced = recs
		}
		before += len(recs)
		after += len(reduced)
		for _, r := range reduced {
			if err := w.Write(r); err != nil {
				return fmt.Errorf("write gene model: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	logger.Info("reduced isoforms",
		zap.Int("genes", len(genes)),
		zap.Int("isoforms_before", before),
		zap.Int("isoforms_after", after))
	return nil
}

// reduceGene returns a minimal path cover of the gene's exon graph as
// new records, or recs unchanged if the cover is not smaller.
func reduceGene(geneID string, recs []bed.Record) ([]bed.Record, error) {
	g := splice.NewGraph()
	for _, r := range recs {
		if r.BlockCount() < 2 {
			return recs, nil
		}
		exons := r.Exons()
		for i := 1; i < len(exons); i++ {
			g.AddEdge(exons[i-1], exons[i])
		}
	}

	paths, err := splice.MinimumPathCover(g, 0)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 || len(paths) >= len(recs) {
		return recs, nil
	}

	first := recs[0]
	out := make([]bed.Record, len(paths))
	for i, p := range paths {
		r := bed.NewRecord(first.Chrom, p, splice.StrandUnknown, 0, 0)
		r.Name = fmt.Sprintf("%s.%d", geneID, i+1)
		r.Strand = first.Strand
		out[i] = r
	}
	return out, nil
}
