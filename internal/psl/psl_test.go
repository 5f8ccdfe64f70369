package psl

import (
	"errors"
	"strings"
	"testing"

	"github.com/ged-lab/gimme/internal/splice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `psLayout version 3

match	mis- 	rep. 	N's	Q gap	Q gap	T gap	T gap	strand	Q        	Q   	Q    	Q  	T        	T   	T    	T  	block	blockSizes 	qStarts	 tStarts
     	match	match	   	count	bases	count	bases	      	name     	size	start	end	name     	size	start	end	count
---------------------------------------------------------------------------------------------------------------------------------------------------------------
`

const line = "300\t0\t0\t0\t0\t0\t2\t500\t+\tread1\t300\t0\t300\tchr1\t10000\t1000\t1600\t3\t100,100,100,\t0,100,200,\t1000,1300,1500,"

func TestParser(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(header + line + "\n"))
	require.NoError(t, err)
	defer p.Close()

	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "read1", r.QName)
	assert.Equal(t, "chr1", r.TName)
	assert.Equal(t, 1000, r.TStart)
	assert.Equal(t, 1600, r.TEnd)
	assert.Equal(t, []splice.ExonKey{
		{Chrom: "chr1", Start: 1000, End: 1100},
		{Chrom: "chr1", Start: 1300, End: 1400},
		{Chrom: "chr1", Start: 1500, End: 1600},
	}, r.Exons())

	r, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestParser_NoHeader(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(line))
	require.NoError(t, err)
	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Len(t, r.TStarts, 3)
}

func TestParser_BlockMismatch(t *testing.T) {
	bad := strings.Replace(line, "\t3\t", "\t2\t", 1)
	p, err := NewParserFromReader(strings.NewReader(bad))
	require.NoError(t, err)
	_, err = p.Next()
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Message, "block count")
}
