// Package alnmerge reads alignment files, merges them onto one anchor and
// writes the result. It is the glue between the cobra commands and the
// aln, merge, input and output packages.
package alnmerge

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jjtimmons/alnmerge/config"
	"github.com/jjtimmons/alnmerge/internal/aln"
	"github.com/jjtimmons/alnmerge/internal/input"
	"github.com/jjtimmons/alnmerge/internal/merge"
	"github.com/jjtimmons/alnmerge/internal/output"
)

// Result is a merged alignment and what went into it.
type Result struct {
	// Aln is the merged alignment
	Aln *aln.AnchoredAln

	// Inputs is the number of alignments read from the input files
	Inputs int

	// Elapsed is the time spent reading and merging
	Elapsed time.Duration
}

// Load reads the alignment files into anchored alignments that all share the
// same id table.
func Load(paths []string, conf *config.Config) ([]*aln.AnchoredAln, error) {
	table := conf.IDTable()

	var alns []*aln.AnchoredAln
	for _, path := range paths {
		records, err := input.Read(path, conf.Format(), conf.Filter())
		if err != nil {
			return nil, err
		}

		built, err := input.Build(records, table, conf.BuildOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to build alignments from %s: %w", path, err)
		}
		log.Debugf("read %d records from %s into %d alignments", len(records), path, len(built))
		alns = append(alns, built...)
	}

	if len(alns) == 0 {
		return nil, fmt.Errorf("%w: no alignments found in %v", aln.ErrInvalidRequest, paths)
	}
	for _, a := range alns[1:] {
		if a.AnchorID() != alns[0].AnchorID() {
			return nil, fmt.Errorf("%w: alignments are anchored on both %v and %v, choose one with --anchor", aln.ErrInvalidRequest, alns[0].AnchorID(), a.AnchorID())
		}
	}
	return alns, nil
}

// Merge reads the alignment files and merges them into one alignment.
func Merge(paths []string, conf *config.Config) (*Result, error) {
	start := time.Now()

	opts, err := conf.MergeOptions()
	if err != nil {
		return nil, err
	}

	alns, err := Load(paths, conf)
	if err != nil {
		return nil, err
	}

	merged, err := merge.BuildAln(alns, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to merge %d alignments: %w", len(alns), err)
	}
	if conf.Merge.SplitStrands && merged.SplitStrands() {
		log.Debugf("split mixed strand rows, %d rows now", merged.Dim())
	}

	return &Result{Aln: merged, Inputs: len(alns), Elapsed: time.Since(start)}, nil
}

// Write writes the merged alignment as JSON to out, or stdout when out is empty.
func (r *Result) Write(out string) (err error) {
	var w io.Writer = os.Stdout
	if out != "" {
		f, ferr := os.Create(out)
		if ferr != nil {
			return fmt.Errorf("failed to create %s: %v", out, ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return output.WriteJSON(w, r.Aln)
}

// Summary describes the merge.
func (r *Result) Summary() output.Summary {
	return output.Summarize(r.Aln, r.Inputs, r.Elapsed)
}
