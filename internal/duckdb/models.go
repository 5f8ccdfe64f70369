package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/ged-lab/gimme/internal/bed"
	"github.com/ged-lab/gimme/internal/splice"
)

const modelColumns = `name, chrom, chrom_start, chrom_end, strand,
	block_sizes, block_starts`

// WriteGeneModels batch-inserts gene models into DuckDB using the Appender API.
// Records with a name already in the batch are skipped.
func (s *Store) WriteGeneModels(records []bed.Record) error {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(records))
	deduped := make([]bed.Record, 0, len(records))
	for _, r := range records {
		if !seen[r.Name] {
			seen[r.Name] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "gene_models")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		f := r.Fields()
		if err := appender.AppendRow(
			r.Name, r.GeneID(), r.Chrom,
			int64(r.ChromStart), int64(r.ChromEnd), r.Strand,
			int64(r.BlockCount()), f[10], f[11],
			int64(splice.Length(r.Exons())),
		); err != nil {
			return fmt.Errorf("append gene model %s: %w", r.Name, err)
		}
	}

	return appender.Flush()
}

// ClearGeneModels removes all stored gene models.
func (s *Store) ClearGeneModels() error {
	_, err := s.db.Exec("DELETE FROM gene_models")
	return err
}

// CountGeneModels returns the number of stored transcripts.
func (s *Store) CountGeneModels() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM gene_models").Scan(&n); err != nil {
		return 0, fmt.Errorf("count gene models: %w", err)
	}
	return n, nil
}

// LookupRegion returns the gene models overlapping the half-open
// interval [start, end) of chrom, ordered by position and name.
func (s *Store) LookupRegion(chrom string, start, end int) ([]bed.Record, error) {
	rows, err := s.db.Query(`SELECT `+modelColumns+`
		FROM gene_models
		WHERE chrom=? AND chrom_start < ? AND chrom_end > ?
		ORDER BY chrom_start, chrom_end, name`,
		chrom, int64(end), int64(start))
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	defer rows.Close()

	return scanGeneModels(rows)
}

// SearchByGene returns the transcripts of one gene, such as "chr1:3".
func (s *Store) SearchByGene(geneID string) ([]bed.Record, error) {
	rows, err := s.db.Query(`SELECT `+modelColumns+`
		FROM gene_models
		WHERE gene_id=?
		ORDER BY name`, geneID)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	return scanGeneModels(rows)
}

// scanGeneModels scans rows into records.
func scanGeneModels(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]bed.Record, error) {
	var records []bed.Record
	for rows.Next() {
		var (
			name, chrom, strand string
			start, end          int64
			sizes, starts       string
		)
		if err := rows.Scan(&name, &chrom, &start, &end, &strand, &sizes, &starts); err != nil {
			return nil, fmt.Errorf("scan gene model: %w", err)
		}

		r := bed.Record{
			Chrom:      chrom,
			ChromStart: int(start),
			ChromEnd:   int(end),
			Name:       name,
			Score:      bed.DefaultScore,
			Strand:     strand,
			ThickStart: int(start),
			ThickEnd:   int(end),
			ItemRGB:    bed.DefaultRGB,
		}
		var err error
		if r.BlockSizes, err = parseInts(sizes); err != nil {
			return nil, fmt.Errorf("gene model %s block sizes: %w", name, err)
		}
		if r.BlockStarts, err = parseInts(starts); err != nil {
			return nil, fmt.Errorf("gene model %s block starts: %w", name, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gene models: %w", err)
	}
	return records, nil
}

func parseInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
