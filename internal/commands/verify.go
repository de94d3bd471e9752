package commands

import (
	"github.com/spf13/cobra"

	"github.com/okian/kundali/internal/verify"
)

var (
	verifyCount   int
	verifyWorkers int
	verifyVerbose bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Stress-check chart invariants with random inputs",
	Long: `Compute a batch of charts for random birth inputs against an
in-process service and check every structural invariant on each one:
longitude ranges, canonical planet order, the Rahu/Ketu opposition,
the house partition, panchanga coherence, dasha timeline coverage,
the D1 identity and panchanga determinism.

The command exits nonzero when any chart fails to compute or any
invariant is violated.

Examples:
  kundali verify                      # 100 charts, 4 workers
  kundali verify --count 5000 --workers 16
  kundali verify --count 50 --verbose # log each violation`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().IntVarP(&verifyCount, "count", "c", 100, "number of random charts to compute")
	verifyCmd.Flags().IntVarP(&verifyWorkers, "workers", "w", 4, "concurrent verification workers")
	verifyCmd.Flags().BoolVar(&verifyVerbose, "verbose", false, "log each violation as it is found")
}

func runVerify(cmd *cobra.Command, _ []string) error {
	return verify.Run(cmd.Context(), &verify.Config{
		Count:   verifyCount,
		Workers: verifyWorkers,
		Verbose: verifyVerbose,
	})
}
