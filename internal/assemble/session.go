package assemble

import (
	"go.uber.org/zap"

	"github.com/ged-lab/gimme/internal/splice"
)

// Session owns the state of one assembly run: the exon/intron registry,
// the intron clusters and the single-exon alignments.
type Session struct {
	cfg         Config
	reg         *Registry
	clusters    map[int]*Cluster
	nextCluster int
	singles     map[string][]splice.ExonKey
	seq         SequenceFetcher
	logger      *zap.Logger

	alignments int
	malformed  int
}

// NewSession creates an empty session with the given parameters.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:      cfg,
		reg:      NewRegistry(),
		clusters: make(map[int]*Cluster),
		singles:  make(map[string][]splice.ExonKey),
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (s *Session) SetLogger(l *zap.Logger) {
	s.logger = l
}

// SetSequence sets the reference used to assign strands. Without one,
// every gene model has unknown strand.
func (s *Session) SetSequence(seq SequenceFetcher) {
	s.seq = seq
}

// Config returns the session parameters.
func (s *Session) Config() Config {
	return s.cfg
}

// Registry returns the exon/intron registry.
func (s *Session) Registry() *Registry {
	return s.reg
}

// AddTranscript ingests the exons of one alignment. Exons must be on one
// chromosome, sorted and non-overlapping; otherwise an error wrapping
// ErrMalformedTranscript is returned and the alignment is counted as
// malformed.
func (s *Session) AddTranscript(exons []splice.ExonKey) error {
	s.alignments++
	if err := validateExons(exons); err != nil {
		s.malformed++
		return err
	}

	exons = DeleteGap(exons, s.cfg.GapSize)
	for _, group := range SplitLargeIntrons(exons, s.cfg.MaxIntron) {
		if len(group) == 1 {
			chrom := group[0].Chrom
			s.singles[chrom] = append(s.singles[chrom], group[0])
			continue
		}
		s.reg.AddExons(group)
		s.addIntrons(group)
	}
	return nil
}

// SingleExons returns the raw single-exon alignments per chromosome.
func (s *Session) SingleExons() map[string][]splice.ExonKey {
	return s.singles
}
