package classify

import (
	"fmt"
	"os"
)

// printSummary prints the per-label distribution of predicted classes.
func printSummary(predictions []Prediction) {
	counts := make(map[string]int, 2)
	for _, p := range predictions {
		counts[p.Label]++
	}
	fmt.Println("Distribution of classes predicted by classifier:")
	for _, label := range []string{LabelHealthy, LabelIBD} {
		if n, ok := counts[label]; ok {
			fmt.Printf("%s\t%d\n", label, n)
		}
	}
}

// writePredictions persists the predictions as a tab-delimited table
// with one row per sample, in input order.
func writePredictions(path string, predictions []Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to write predictions to %s: %w", path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "sample\tclass\tclass_string"); err != nil {
		return err
	}
	for _, p := range predictions {
		if _, err := fmt.Fprintf(f, "%s\t%d\t%s\n", p.Sample, p.Class, p.Label); err != nil {
			return err
		}
	}
	return f.Close()
}
