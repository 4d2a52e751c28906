package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jjtimmons/alnmerge/internal/alnmerge"
)

// mergeCmd is for merging alignment files into one anchored alignment
var mergeCmd = &cobra.Command{
	Use:   "merge [alignment files]",
	Short: "Merge pairwise alignments into one alignment against their anchor",
	Long: `Merge pairwise alignments into one alignment against their anchor

"alnmerge merge" reads BLAST tabular output, minimap2 PAF or SAM files and
combines their alignments into a single alignment with one row per sequence
and the anchor (the BLAST query or the mapping reference) as the last row.
Better scoring alignments are merged first. With --truncate the parts of
worse alignments already covered on the anchor are dropped.`,
	PreRun:                     bindMergeFlags,
	Run:                        alnmerge.MergeCmd,
	Args:                       cobra.MinimumNArgs(1),
	SuggestionsMinimumDistance: 2,
	Example:                    "  alnmerge merge hits.blast --out merged.json --exclude vector --min-length 30",
}

func init() {
	mergeCmd.Flags().StringP("out", "o", "", "output file name, stdout if not set")
	addMergeFlags(mergeCmd.Flags())

	RootCmd.AddCommand(mergeCmd)
}

// addMergeFlags adds the flags for reading and merging alignments. They are
// shared by the merge and segments commands.
func addMergeFlags(flags *pflag.FlagSet) {
	flags.StringP("format", "f", "", "input format: blast, paf or sam (default from the file extension)")
	flags.StringP("anchor", "a", "", "name of the anchor sequence, required if inputs have more than one")
	flags.String("algo", "merge-all", "merge algorithm: merge-all, query-only or preserve-rows")
	flags.Bool("mixed-strand", false, "let a row hold ranges on both strands")
	flags.Bool("translocation", false, "let a row hold ranges out of order on its sequence")
	flags.Bool("truncate", true, "drop the parts of alignments already covered on the anchor")
	flags.Bool("skip-sort", false, "merge in the input order rather than by descending score")
	flags.Bool("split-strands", false, "split rows holding both strands after merging")
	flags.StringSliceP("exclude", "e", nil, "keywords for excluding BLAST subjects by name")
	flags.Int("min-length", 0, "minimum length of a BLAST hit on the query")
	flags.Bool("cull", false, "drop BLAST hits contained in a larger hit against the same subject")
	flags.Int("anchor-width", 1, "base width of anchor coordinates: 1 for protein, 3 for nucleotide")
	flags.Int("row-width", 1, "base width of the other sequences' coordinates")
}

// bindMergeFlags binds the merge flags of the command being run to viper.
func bindMergeFlags(cmd *cobra.Command, args []string) {
	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"input.format":        "format",
		"input.anchor":        "anchor",
		"input.exclude":       "exclude",
		"input.min-length":    "min-length",
		"input.cull":          "cull",
		"input.anchor-width":  "anchor-width",
		"input.row-width":     "row-width",
		"merge.algo":          "algo",
		"merge.mixed-strand":  "mixed-strand",
		"merge.translocation": "translocation",
		"merge.truncate":      "truncate",
		"merge.skip-sort":     "skip-sort",
		"merge.split-strands": "split-strands",
	} {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
}
