package assemble

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ged-lab/gimme/internal/bed"
	"github.com/ged-lab/gimme/internal/splice"
)

// Summary counts the outcome of a run.
type Summary struct {
	Alignments      int
	Malformed       int
	Genes           int
	Isoforms        int
	SingleExonGenes int
	Excluded        int
	FailedLoci      int
}

// Build turns the ingested alignments into gene models and passes each
// record to emit: multi-exon genes in locus order, then single-exon
// genes. A locus that fails is logged, counted and skipped. Cancelling
// ctx stops scheduling new loci.
func (s *Session) Build(ctx context.Context, emit func(bed.Record) error) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sum := Summary{Alignments: s.alignments, Malformed: s.malformed}

	loci := MergeClusters(s.reg).Loci(s.reg, s.Clusters())
	singles, err := NewSingleExonIndex(MergeSingleExons(s.singles))
	if err != nil {
		return sum, err
	}
	s.logger.Info("clusters merged",
		zap.Int("clusters", len(s.clusters)),
		zap.Int("loci", len(loci)),
		zap.Int("exons", s.reg.ExonCount()),
		zap.Int("introns", s.reg.IntronCount()))

	items := make(chan WorkItem)
	go func() {
		defer close(items)
		for i, l := range loci {
			select {
			case items <- WorkItem{Seq: i, Locus: l}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		geneID  int
		seenTwo = make(map[splice.Edge]bool)
	)
	err = OrderedCollect(s.ParallelBuild(items, singles, s.cfg.Workers), func(r WorkResult) error {
		if r.Err != nil {
			sum.FailedLoci++
			s.logger.Warn("skipping locus",
				zap.String("chrom", r.Locus.Chrom),
				zap.Int("start", r.Locus.Start),
				zap.Int("end", r.Locus.End),
				zap.Int("exons", r.Locus.Graph.NodeCount()),
				zap.Error(r.Err))
			return nil
		}
		for _, m := range r.Models {
			transcripts := 0
			for _, p := range m.Paths {
				if !s.accept(p, seenTwo) {
					sum.Excluded++
					continue
				}
				if transcripts == 0 {
					geneID++
					sum.Genes++
				}
				transcripts++
				sum.Isoforms++
				if err := emit(bed.NewRecord(r.Locus.Chrom, p, m.Strand, geneID, transcripts)); err != nil {
					// Stop the feeder so the workers drain.
					cancel()
					return fmt.Errorf("emit gene model: %w", err)
				}
			}
			if m.Mode == splice.ModeMinimal {
				s.logger.Debug("reported minimal isoforms",
					zap.String("chrom", r.Locus.Chrom),
					zap.Int("start", r.Locus.Start),
					zap.Int("isoforms", len(m.Paths)))
			}
		}
		return nil
	})
	if err != nil {
		return sum, err
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	for _, se := range singles.Exons() {
		if se.Removed || se.Key.Len() <= s.cfg.MinSingleExonLen {
			sum.Excluded++
			continue
		}
		geneID++
		sum.SingleExonGenes++
		rec := bed.NewRecord(se.Key.Chrom, []splice.ExonKey{se.Key}, splice.StrandUnknown, geneID, 1)
		if err := emit(rec); err != nil {
			return sum, fmt.Errorf("emit single-exon gene: %w", err)
		}
	}
	return sum, nil
}

// accept applies the transcript filters. Two-exon transcripts are
// reported once per run.
func (s *Session) accept(path []splice.ExonKey, seenTwo map[splice.Edge]bool) bool {
	if splice.Length(path) <= s.cfg.MinTranscriptLen {
		return false
	}
	if len(path) == 2 {
		e := splice.Edge{From: path[0], To: path[1]}
		if seenTwo[e] {
			return false
		}
		seenTwo[e] = true
	}
	return true
}

// buildLocus collapses, strand-splits and enumerates one locus.
func (s *Session) buildLocus(l Locus, singles *SingleExonIndex) ([]Model, error) {
	g := l.Graph.Clone()
	Collapse(g, s.reg, s.cfg.MinUTR, singles)

	var models []Model
	for _, sub := range SplitStrand(g, s.seq) {
		if sub.NodeCount() <= 1 {
			continue
		}
		Collapse(sub, splice.TopologyRoles(sub), s.cfg.MinUTR, nil)
		res, err := splice.Enumerate(sub, s.cfg.enumerateOptions())
		if err != nil {
			return nil, &LocusError{
				Chrom: l.Chrom,
				Start: l.Start,
				End:   l.End,
				Exons: sub.NodeCount(),
				Err:   err,
			}
		}
		models = append(models, Model{Strand: sub.Strand, Mode: res.Mode, Paths: res.Paths})
	}
	return models, nil
}
