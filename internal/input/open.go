package input

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Format is an alignment file format.
type Format string

const (
	// BLAST is tabular BLAST output (-outfmt 6 or 7)
	BLAST Format = "blast"

	// PAF is the minimap2 pairwise mapping format
	PAF Format = "paf"

	// SAM is the text sequence alignment/map format
	SAM Format = "sam"
)

// extensions maps file extensions to their format.
var extensions = map[string]Format{
	".blast":  BLAST,
	".tsv":    BLAST,
	".outfmt": BLAST,
	".paf":    PAF,
	".sam":    SAM,
}

// ParseFormat turns a format name into a Format. An empty name is returned
// as an empty Format so it can be detected from the file name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", BLAST, PAF, SAM:
		return f, nil
	default:
		return "", fmt.Errorf("unknown alignment format %q (blast, paf, sam)", name)
	}
}

// DetectFormat guesses the format of a file from its extension, ignoring a
// trailing .gz.
func DetectFormat(path string) (Format, error) {
	name := strings.TrimSuffix(strings.ToLower(path), ".gz")
	if f, ok := extensions[filepath.Ext(name)]; ok {
		return f, nil
	}
	return "", fmt.Errorf("failed to detect the alignment format of %s, set it explicitly", path)
}

// file is an opened, possibly decompressed, alignment file.
type file struct {
	io.Reader
	closers []io.Closer
}

// Close closes the decompressor and the file.
func (f *file) Close() (err error) {
	for i := len(f.closers) - 1; i >= 0; i-- {
		if cerr := f.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return
}

// Open opens an alignment file, decompressing it if it ends in .gz.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}

	opened := &file{Reader: f, closers: []io.Closer{f}}
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to decompress %s: %v", path, err)
		}
		opened.Reader = gz
		opened.closers = append(opened.closers, gz)
	}
	return opened, nil
}

// Read parses the alignment records of a file. An empty format is detected
// from the file name. The filter is only applied to BLAST output.
func Read(path string, format Format, filter Filter) (records []Record, err error) {
	if format == "" {
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	switch format {
	case BLAST:
		records, err = ReadBLAST(f, filter)
	case PAF:
		records, err = ReadPAF(f)
	case SAM:
		records, err = ReadSAM(f)
	default:
		return nil, fmt.Errorf("unknown alignment format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %v", path, err)
	}
	return records, nil
}
