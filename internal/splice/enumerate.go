package splice

// Mode records which enumeration produced a set of isoforms.
type Mode uint8

const (
	// ModeMaximal lists every source-to-sink path.
	ModeMaximal Mode = iota
	// ModeMinimal lists a minimum path cover.
	ModeMinimal
)

func (m Mode) String() string {
	if m == ModeMinimal {
		return "minimal"
	}
	return "maximal"
}

// EnumerateOptions controls isoform enumeration.
type EnumerateOptions struct {
	// MaxIsoforms is the path count above which a minimum path cover is
	// reported instead of all paths. Zero or less disables the switch.
	MaxIsoforms int
	// ReportAll forces maximal enumeration.
	ReportAll bool
	// MaxCoverRounds bounds MinimumPathCover; zero selects the default.
	MaxCoverRounds int
}

// Result holds the enumerated isoforms of one graph.
type Result struct {
	Paths [][]ExonKey
	Mode  Mode
}

// Enumerate lists isoforms of g. All maximal paths are returned unless
// their count exceeds opts.MaxIsoforms, in which case a minimum path
// cover is returned.
func Enumerate(g *Graph, opts EnumerateOptions) (Result, error) {
	if opts.ReportAll || opts.MaxIsoforms <= 0 {
		paths, err := MaximalPaths(g, 0)
		if err != nil {
			return Result{}, err
		}
		return Result{Paths: paths, Mode: ModeMaximal}, nil
	}

	paths, err := MaximalPaths(g, opts.MaxIsoforms+1)
	if err != nil {
		return Result{}, err
	}
	if len(paths) <= opts.MaxIsoforms {
		return Result{Paths: paths, Mode: ModeMaximal}, nil
	}

	cover, err := MinimumPathCover(g, opts.MaxCoverRounds)
	if err != nil {
		return Result{}, err
	}
	return Result{Paths: cover, Mode: ModeMinimal}, nil
}
