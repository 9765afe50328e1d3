package diff

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffReport is the accumulated outcome of a diff run, grounded on
// `original_source/src/neo/tools/diff/reporter.py`'s DiffReport
// dataclass.
type DiffReport struct {
	Timestamp string             `json:"timestamp"`
	Total     int                `json:"total"`
	Passed    int                `json:"passed"`
	Failed    int                `json:"failed"`
	Errors    int                `json:"errors"`
	Results   []ComparisonResult `json:"-"`
}

// PassRate is the percentage of vectors that matched, 0 when no
// vectors have been recorded yet.
func (r DiffReport) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total) * 100
}

type jsonDifference struct {
	Type     DiffType `json:"type"`
	Message  string   `json:"message"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
}

type jsonResult struct {
	VectorName  string            `json:"vector_name"`
	IsMatch     bool              `json:"is_match"`
	Differences []jsonDifference  `json:"differences,omitempty"`
}

type jsonReport struct {
	Timestamp string       `json:"timestamp"`
	Summary   jsonSummary  `json:"summary"`
	Results   []jsonResult `json:"results"`
}

type jsonSummary struct {
	Total    int    `json:"total"`
	Passed   int    `json:"passed"`
	Failed   int    `json:"failed"`
	Errors   int    `json:"errors"`
	PassRate string `json:"pass_rate"`
}

// DiffReporter accumulates ComparisonResults into a DiffReport and
// renders it as JSON or text. Grounded on reporter.py's DiffReporter.
type DiffReporter struct {
	Report DiffReport
}

// NewDiffReporter returns a reporter stamped with timestamp (callers
// supply it since this package cannot call time.Now() internally).
func NewDiffReporter(timestamp string) *DiffReporter {
	return &DiffReporter{Report: DiffReport{Timestamp: timestamp}}
}

// AddResult records one vector's outcome. isError marks a vector that
// could not even be executed (a load or engine failure), counted
// separately from a clean pass/fail.
func (r *DiffReporter) AddResult(result ComparisonResult, isError bool) {
	r.Report.Total++
	r.Report.Results = append(r.Report.Results, result)

	switch {
	case isError:
		r.Report.Errors++
	case result.IsMatch:
		r.Report.Passed++
	default:
		r.Report.Failed++
	}
}

// WriteJSON writes the report as JSON to path.
func (r *DiffReporter) WriteJSON(path string) error {
	jr := jsonReport{
		Timestamp: r.Report.Timestamp,
		Summary: jsonSummary{
			Total:    r.Report.Total,
			Passed:   r.Report.Passed,
			Failed:   r.Report.Failed,
			Errors:   r.Report.Errors,
			PassRate: fmt.Sprintf("%.2f%%", r.Report.PassRate()),
		},
	}
	for _, res := range r.Report.Results {
		jres := jsonResult{VectorName: res.VectorName, IsMatch: res.IsMatch}
		for _, d := range res.Differences {
			jres.Differences = append(jres.Differences, jsonDifference{
				Type: d.Type, Message: d.Message, Expected: d.Expected, Actual: d.Actual,
			})
		}
		jr.Results = append(jr.Results, jres)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(jr)
}

// WriteText writes a human-readable summary to w, listing each
// failure's differences.
func (r *DiffReporter) WriteText(w io.Writer) error {
	rep := r.Report
	bar := strings.Repeat("=", 60)

	fmt.Fprintf(w, "%s\n", bar)
	fmt.Fprintf(w, "NEO DIFF TEST REPORT\n")
	fmt.Fprintf(w, "%s\n\n", bar)

	fmt.Fprintf(w, "Timestamp: %s\n", rep.Timestamp)
	fmt.Fprintf(w, "Total:     %d\n", rep.Total)
	fmt.Fprintf(w, "Passed:    %d\n", rep.Passed)
	fmt.Fprintf(w, "Failed:    %d\n", rep.Failed)
	fmt.Fprintf(w, "Errors:    %d\n", rep.Errors)
	fmt.Fprintf(w, "Pass Rate: %.2f%%\n\n", rep.PassRate())

	if rep.Failed == 0 {
		return nil
	}

	dash := strings.Repeat("-", 60)
	fmt.Fprintf(w, "%s\nFAILURES\n%s\n\n", dash, dash)

	for _, res := range rep.Results {
		if res.IsMatch {
			continue
		}
		fmt.Fprintf(w, "Vector: %s\n", res.VectorName)
		for _, d := range res.Differences {
			fmt.Fprintf(w, "  - %s: %s\n", d.Type, d.Message)
			if d.Expected != "" || d.Actual != "" {
				text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
					A:        difflib.SplitLines(d.Expected),
					B:        difflib.SplitLines(d.Actual),
					FromFile: "expected",
					ToFile:   "actual",
					Context:  1,
				})
				if err == nil {
					for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
						fmt.Fprintf(w, "    %s\n", line)
					}
				}
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}
