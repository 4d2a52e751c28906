package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jjtimmons/alnmerge/internal/alnmerge"
)

// segmentsCmd is for listing the aligned and gap segments of a merged alignment
var segmentsCmd = &cobra.Command{
	Use:   "segments [alignment files or merged.json]",
	Short: "List the aligned and gap segments of each row along the anchor",
	Long: `List the aligned and gap segments of each row along the anchor

The alignment files are merged as by "alnmerge merge", or a single JSON file
written by it is read back. --from and --to limit the table to a window of
the anchor (0-based, closed).`,
	PreRun:                     bindMergeFlags,
	Run:                        alnmerge.SegmentsCmd,
	Args:                       cobra.MinimumNArgs(1),
	SuggestionsMinimumDistance: 2,
	Example:                    "  alnmerge segments merged.json --from 100 --to 250",
}

func init() {
	segmentsCmd.Flags().Int("from", -1, "start of the window on the anchor")
	segmentsCmd.Flags().Int("to", -1, "end of the window on the anchor")
	addMergeFlags(segmentsCmd.Flags())

	RootCmd.AddCommand(segmentsCmd)
}
