package classify

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/merenlab/ibd-classifier/internal/table"
)

// buildPPCN produces the samples x modules PPCN matrix, either by
// loading it directly or by deriving it from module copy numbers and
// per-sample population sizes.
func buildPPCN(opts Options) (*table.Table, error) {
	if opts.PPCNTable != "" {
		return table.ReadTSV(opts.PPCNTable)
	}
	return derivePPCN(opts.CopyNumbers, opts.Populations)
}

// derivePPCN divides each module's copy number by the sample's
// population size and transposes the result so rows are samples.
// Population sizes are taken as-is: a zero or negative value
// propagates into the ratios unguarded.
func derivePPCN(copyNumbersFile, populationsFile string) (*table.Table, error) {
	copies, err := table.ReadTSV(copyNumbersFile)
	if err != nil {
		return nil, err
	}
	if copies.IndexName() != "module" {
		return nil, inputErrorf("the first column of your copy number matrix should be named 'module'")
	}

	pops, err := table.ReadTSV(populationsFile)
	if err != nil {
		return nil, err
	}
	if !pops.HasCol("num_populations") {
		return nil, inputErrorf("your populations table should include a column called 'num_populations'")
	}

	// Every sample column in the copy-number matrix must have a
	// population size. Report all offenders, not just the first.
	sampleRows := make(map[string]bool, len(pops.Rows()))
	for _, s := range pops.Rows() {
		sampleRows[s] = true
	}
	var missing []string
	for _, s := range copies.Cols() {
		if !sampleRows[s] {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, inputErrorf("some of the samples in your copy number matrix are not present in the populations table. Here are the affected samples: %s", strings.Join(missing, ", "))
	}

	slog.Info("Computing PPCN matrix", "samples", len(copies.Cols()), "modules", len(copies.Rows()))
	ppcn, err := table.New("sample", copies.Cols(), copies.Rows())
	if err != nil {
		return nil, err
	}
	for _, sample := range copies.Cols() {
		size := pops.At(sample, "num_populations")
		for _, module := range copies.Rows() {
			ppcn.Set(sample, module, copies.At(module, sample)/size)
		}
	}
	return ppcn, nil
}
