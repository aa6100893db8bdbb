// Package classify implements the IBD classification pipeline: input
// validation, PPCN matrix construction, feature selection against the
// trained module catalog, prediction and output reporting. The stages
// run strictly in sequence, once per invocation.
package classify

import (
	"fmt"
	"log/slog"

	"github.com/merenlab/ibd-classifier/internal/model"
)

// Labels assigned to the two classifier outputs.
const (
	LabelHealthy = "HEALTHY"
	LabelIBD     = "IBD"
)

// Options carries everything one run needs. ModulesFile and
// ClassifierFile point at deploy-time fixtures; the remaining fields
// come from the command line.
type Options struct {
	PPCNTable      string // input option 1: ready-made PPCN matrix
	CopyNumbers    string // input option 2: module copy-number matrix ...
	Populations    string // ... plus per-sample population sizes
	OutputFile     string
	AlsoOutputPPCN bool
	PPCNOutputFile string

	ModulesFile    string // reference list of IBD-enriched modules
	ClassifierFile string // serialized pre-trained classifier
}

// ValidateOptions checks the argument combination before any file is
// read. It is a pure gate with no side effects.
func ValidateOptions(opts Options) error {
	if (opts.PPCNTable == "") == (opts.CopyNumbers == "") {
		return inputErrorf("please choose one of the input options: either provide --ppcn-table, or provide --copy-numbers and --populations")
	}
	if opts.CopyNumbers != "" && opts.Populations == "" {
		return inputErrorf("providing module copy numbers with --copy-numbers requires that you also provide population sizes with the --populations flag")
	}
	if opts.PPCNTable != "" && opts.AlsoOutputPPCN {
		return inputErrorf("the --also-output-ppcn flag doesn't work with --ppcn-table input")
	}
	if opts.PPCNOutputFile != "" && !opts.AlsoOutputPPCN {
		return inputErrorf("if you specify the --ppcn-output-file parameter, you should probably also specify --also-output-ppcn")
	}
	return nil
}

// Prediction is the classifier verdict for one sample.
type Prediction struct {
	Sample string
	Class  int
	Label  string
}

// Run executes the whole pipeline. Any error is fatal to the run and
// propagates to the caller; nothing is retried.
func Run(opts Options) error {
	if err := ValidateOptions(opts); err != nil {
		return err
	}

	ppcn, err := buildPPCN(opts)
	if err != nil {
		return err
	}

	catalog, err := LoadModuleCatalog(opts.ModulesFile)
	if err != nil {
		return fmt.Errorf("unable to load the module list %s: %w", opts.ModulesFile, err)
	}
	features, err := selectFeatures(ppcn, catalog)
	if err != nil {
		return err
	}

	clf, err := model.Load(opts.ClassifierFile)
	if err != nil {
		return fmt.Errorf("unable to load the classifier %s: %w", opts.ClassifierFile, err)
	}
	slog.Info("Classifying samples", "samples", len(features.Rows()), "modules", len(catalog))
	classes, err := clf.Predict(features.Matrix())
	if err != nil {
		return err
	}
	predictions, err := labelPredictions(features.Rows(), classes)
	if err != nil {
		return err
	}

	printSummary(predictions)
	if err := writePredictions(opts.OutputFile, predictions); err != nil {
		return err
	}
	fmt.Printf("Predictions saved to %s\n", opts.OutputFile)

	if opts.AlsoOutputPPCN {
		out := opts.PPCNOutputFile
		if out == "" {
			out = "PPCN_matrix.txt"
		}
		if err := features.WriteTSV(out); err != nil {
			return fmt.Errorf("unable to write the PPCN matrix to %s: %w", out, err)
		}
		fmt.Printf("PPCN matrix saved to %s\n", out)
	}
	return nil
}

// labelPredictions attaches sample identifiers and human-readable
// labels to the raw classes, preserving input row order. A class other
// than 0 or 1 means the model artifact and this tool disagree about
// what the classifier is; that is fatal.
func labelPredictions(samples []string, classes []int) ([]Prediction, error) {
	predictions := make([]Prediction, len(samples))
	for i, sample := range samples {
		var label string
		switch classes[i] {
		case 0:
			label = LabelHealthy
		case 1:
			label = LabelIBD
		default:
			return nil, fmt.Errorf("the classifier returned unknown class %d for sample %s; only classes 0 (%s) and 1 (%s) are defined", classes[i], sample, LabelHealthy, LabelIBD)
		}
		predictions[i] = Prediction{Sample: sample, Class: classes[i], Label: label}
	}
	return predictions, nil
}
