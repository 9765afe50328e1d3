// Command diff runs the cross-implementation diff-testing harness of
// spec §4.8/§6: load a directory of JSON vectors, execute each one,
// compare against its expected outcome, and emit a pass/fail report.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/r3e-network/neo-go-core/pkg/diff"
)

func main() {
	app := cli.NewApp()
	app.Name = "neo-diff"
	app.Usage = "Neo N3 diff test harness"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "vectors", Value: "vectors", Usage: "directory of vector JSON files"},
		cli.StringFlag{Name: "output", Value: "", Usage: "write JSON report to this path"},
		cli.Int64Flag{Name: "gas-tolerance", Value: 0, Usage: "allowed gas_consumed drift"},
		cli.StringFlag{Name: "timestamp", Value: "", Usage: "report timestamp (caller-supplied, e.g. from `date -Iseconds`)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	vectors, err := diff.LoadVectorDir(c.String("vectors"))
	if err != nil {
		return err
	}

	reporter := diff.NewDiffReporter(c.String("timestamp"))
	comparator := diff.ResultComparator{GasTolerance: c.Int64("gas-tolerance")}
	checklist := diff.NewChecklist()

	for _, v := range vectors {
		if v.Category != "" {
			if err := checklist.Record(v.Category, v.Name); err != nil {
				reporter.AddResult(diff.ComparisonResult{VectorName: v.Name}, true)
				continue
			}
		}

		actual, err := diff.Execute(v, nil)
		if err != nil {
			reporter.AddResult(diff.ComparisonResult{VectorName: v.Name}, true)
			continue
		}

		result := comparator.Compare(v.Name, diff.ExpectedResultFromVector(v), actual)
		reporter.AddResult(result, false)
	}

	return outputReport(reporter, c.String("output"))
}

// outputReport writes the text report to stdout always, and the JSON
// report to outputPath when one is given, returning a nonzero-signaling
// error when any vector failed or errored. Grounded on
// `original_source/src/neo/tools/diff/cli.py`'s `_output_report`.
func outputReport(reporter *diff.DiffReporter, outputPath string) error {
	if err := reporter.WriteText(os.Stdout); err != nil {
		return err
	}
	if outputPath != "" {
		if err := reporter.WriteJSON(outputPath); err != nil {
			return err
		}
	}
	if reporter.Report.Failed > 0 || reporter.Report.Errors > 0 {
		return fmt.Errorf("diff: %d failed, %d errored", reporter.Report.Failed, reporter.Report.Errors)
	}
	return nil
}
