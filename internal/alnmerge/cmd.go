package alnmerge

import (
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jjtimmons/alnmerge/config"
	"github.com/jjtimmons/alnmerge/internal/aln"
	"github.com/jjtimmons/alnmerge/internal/output"
)

// Flags contains parsed cobra Flags that are used by multiple commands.
type Flags struct {
	// the paths of the alignment files to merge
	in []string

	// the name of the file to write the output to, stdout if empty
	out string

	// window on the anchor, nil for the whole alignment
	sel *aln.Interval
}

// parseCmdFlags gathers the in paths, out path and window from a cobra cmd
// object. Returns Flags and a Config struct for Merge.
func parseCmdFlags(cmd *cobra.Command, args []string) (*Flags, *config.Config) {
	fs := &Flags{in: args}
	c := config.New()

	if len(fs.in) == 0 {
		cmd.Help()
		log.Fatal("no alignment files to merge")
	}

	if cmd.Flags().Lookup("out") != nil {
		fs.out, _ = cmd.Flags().GetString("out")
	}

	from, fromErr := cmd.Flags().GetInt("from")
	to, toErr := cmd.Flags().GetInt("to")
	if fromErr == nil && toErr == nil && (from >= 0 || to >= 0) {
		fs.sel = &aln.Interval{From: from, To: to}
	}

	if c.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	return fs, c
}

// MergeCmd merges the alignment files passed as arguments and writes the
// result as JSON.
func MergeCmd(cmd *cobra.Command, args []string) {
	fs, c := parseCmdFlags(cmd, args)

	result, err := Merge(fs.in, c)
	if err != nil {
		log.Fatal(err)
	}
	if err := result.Write(fs.out); err != nil {
		log.Fatal(err)
	}
	if err := result.Summary().Write(os.Stderr); err != nil {
		log.Fatal(err)
	}
}

// SegmentsCmd prints the aligned and gap segments of a merged alignment. A
// single .json argument is read as an already merged alignment.
func SegmentsCmd(cmd *cobra.Command, args []string) {
	fs, c := parseCmdFlags(cmd, args)
	if fs.sel != nil && (fs.sel.From < 0 || fs.sel.To < fs.sel.From) {
		log.Fatalf("invalid window %d-%d on the anchor, set both --from and --to", fs.sel.From, fs.sel.To)
	}

	var merged *aln.AnchoredAln
	if len(fs.in) == 1 && strings.EqualFold(filepath.Ext(fs.in[0]), ".json") {
		f, err := os.Open(fs.in[0])
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		if merged, err = output.ReadJSON(f, c.IDTable(), c.Input.AnchorWidth, c.Input.RowWidth); err != nil {
			log.Fatalf("failed to read %s: %v", fs.in[0], err)
		}
	} else {
		result, err := Merge(fs.in, c)
		if err != nil {
			log.Fatal(err)
		}
		merged = result.Aln
	}

	if err := output.WriteSegments(os.Stdout, merged, fs.sel); err != nil {
		log.Fatal(err)
	}
}
