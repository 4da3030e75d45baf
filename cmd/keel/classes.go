// Package main implements the keel CLI.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"keel/internal/scenario"
	"keel/internal/testkit"
)

var classesCmd = &cobra.Command{
	Use:   "classes [flags] <manifest>...",
	Short: "Resolve class manifests into variant registries",
	Long:  "Resolve one or more TOML manifests, minting a variant registry per file and reporting what every call produced.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  classesExecution,
}

func classesExecution(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	checkFlag, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	dumpFlag, err := cmd.Flags().GetBool("dump")
	if err != nil {
		return err
	}
	summaryFlag, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	timingsFlag, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}

	if dumpFlag && summaryFlag {
		return fmt.Errorf("--dump and --summary are mutually exclusive")
	}

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := scenario.BatchOptions{
		Jobs:          jobs,
		EnableTimings: timingsFlag,
	}
	if checkFlag {
		opts.Check = testkit.CheckRegistry
	}

	useTUI := shouldUseTUI(uiModeValue) && !quiet
	var results []scenario.FileResult
	if useTUI {
		results, err = runBatchWithUI(cmd.Context(), "keel classes", args, opts)
	} else {
		results, err = scenario.RunFiles(cmd.Context(), args, opts)
	}
	if err != nil {
		return err
	}

	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
		printFileReport(os.Stdout, res, reportOptions{
			Color:   useColor,
			Quiet:   quiet,
			Dump:    dumpFlag,
			Summary: summaryFlag,
			Timings: timingsFlag,
		})
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d manifest(s) failed", failed, len(results))
	}
	return nil
}

func init() {
	classesCmd.Flags().Int("jobs", 0, "max parallel manifest runs (0=auto)")
	classesCmd.Flags().Bool("check", false, "sweep every resolved registry for torn state")
	classesCmd.Flags().Bool("dump", false, "print full template and variant dumps")
	classesCmd.Flags().Bool("summary", false, "print one line per manifest")
	classesCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
}
