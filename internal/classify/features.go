package classify

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/merenlab/ibd-classifier/internal/table"
)

// LoadModuleCatalog reads the reference list of IBD-enriched modules
// the classifier was trained on. The file is tab-delimited with a
// column named 'module'; the file order defines the feature order.
func LoadModuleCatalog(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("module list is empty")
	}

	col := -1
	for j, name := range records[0] {
		if name == "module" {
			col = j
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("module list has no 'module' column")
	}
	modules := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		modules = append(modules, rec[col])
	}
	return modules, nil
}

// selectFeatures restricts and reorders the PPCN matrix to exactly
// the catalog modules. Classification is all-or-nothing: if any
// catalog module is absent, the run fails naming every missing one.
func selectFeatures(ppcn *table.Table, catalog []string) (*table.Table, error) {
	if missing := ppcn.Missing(catalog); len(missing) > 0 {
		return nil, inputErrorf("some of the IBD-enriched modules used to train the classifier were not found in the input data. Here they are: %s", strings.Join(missing, ", "))
	}
	features, err := ppcn.Select(catalog)
	if err != nil {
		return nil, err
	}
	if len(features.Cols()) != len(catalog) {
		return nil, fmt.Errorf("feature selection produced %d columns for %d catalog modules", len(features.Cols()), len(catalog))
	}
	return features, nil
}
