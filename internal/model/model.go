// Package model loads and runs the pre-trained classifier artifact.
// The artifact is read-only: it is loaded once per run and never
// updated by this tool.
package model

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Classifier assigns a class to every row of a feature matrix.
type Classifier interface {
	Predict(features *mat.Dense) ([]int, error)
}

// LogisticRegression is a binary logistic regression model with
// trained weights. Classes holds the class labels in the order the
// model was fitted with; the decision function picks Classes[1] for
// positive scores and Classes[0] otherwise.
type LogisticRegression struct {
	Coef      []float64
	Intercept float64
	Classes   []int
}

// Predict returns one class per row of the feature matrix. The column
// count must match the number of model coefficients.
func (m *LogisticRegression) Predict(features *mat.Dense) ([]int, error) {
	nrows, ncols := features.Dims()
	if ncols != len(m.Coef) {
		return nil, fmt.Errorf("model expects %d features but input has %d columns", len(m.Coef), ncols)
	}
	if len(m.Classes) != 2 {
		return nil, fmt.Errorf("model is not a binary classifier: %d classes", len(m.Classes))
	}
	out := make([]int, nrows)
	row := make([]float64, ncols)
	for i := 0; i < nrows; i++ {
		mat.Row(row, i, features)
		score := m.Intercept + floats.Dot(m.Coef, row)
		if score > 0 {
			out[i] = m.Classes[1]
		} else {
			out[i] = m.Classes[0]
		}
	}
	return out, nil
}

// Load reads a classifier artifact. Pickled scikit-learn estimators
// (.pickle/.pkl) and exported-weight archives (.npz) are supported.
func Load(path string) (Classifier, error) {
	switch filepath.Ext(path) {
	case ".pickle", ".pkl":
		return LoadPickle(path)
	case ".npz":
		return LoadNpz(path)
	default:
		return nil, fmt.Errorf("unsupported classifier artifact %s: expected a .pickle, .pkl or .npz file", path)
	}
}
