package model

import (
	"fmt"

	"github.com/sbinet/npyio/npz"
)

// LoadNpz reads a classifier whose weights were exported with numpy
// (numpy.savez with keys "coef", "intercept" and "classes"). This
// avoids shipping a pickle when only the fitted weights are needed.
func LoadNpz(path string) (*LogisticRegression, error) {
	f, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	var coef []float64
	if err := f.Read("coef", &coef); err != nil {
		return nil, fmt.Errorf("unable to read coef from %s: %w", path, err)
	}

	var intercept []float64
	if err := f.Read("intercept", &intercept); err != nil {
		return nil, fmt.Errorf("unable to read intercept from %s: %w", path, err)
	}
	if len(intercept) != 1 {
		return nil, fmt.Errorf("expected a single intercept in %s, got %d", path, len(intercept))
	}

	var rawClasses []float64
	if err := f.Read("classes", &rawClasses); err != nil {
		return nil, fmt.Errorf("unable to read classes from %s: %w", path, err)
	}
	classes := make([]int, len(rawClasses))
	for i, c := range rawClasses {
		classes[i] = int(c)
	}

	return &LogisticRegression{Coef: coef, Intercept: intercept[0], Classes: classes}, nil
}
