package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/merenlab/ibd-classifier/docs"
	"github.com/merenlab/ibd-classifier/internal/classify"
)

// Deploy-time fixtures: the module list the classifier was trained on
// and the serialized classifier itself ship next to the binary and are
// not user-supplied per run.
const (
	ibdEnrichedModulesFile = "TRAINING_DATA/IBD_ENRICHED_MODULES.txt"
	classifierFile         = "classifier.pickle"
)

var (
	ppcnTable      string // input option 1
	copyNumbers    string // input option 2 ...
	populations    string // ... with population sizes
	outputFile     string
	alsoOutputPPCN bool
	ppcnOutputFile string
)

func main() {
	Cmd := &cli.Command{
		Name:      "ibdclassify",
		Version:   "1.0.0",
		Copyright: "Copyright (c) " + time.Now().Format("2006") + " Meren Lab",
		Usage:     "classify human gut metagenomes as IBD or healthy from KEGG module copy numbers",
		UsageText: "ibdclassify [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "ppcn-table",
				Usage:       "A tab-delimited matrix where rows are sample names, columns are modules, and values are per-population copy numbers.",
				TakesFile:   true,
				Destination: &ppcnTable,
				Action: func(ctx context.Context, cmd *cli.Command, v string) error {
					if _, err := os.Stat(v); os.IsNotExist(err) {
						return cli.Exit("Error: PPCN table file does not exist", 1)
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:        "copy-numbers",
				Usage:       "A matrix where rows are modules, columns are sample names, and values are unnormalized module copy numbers. The header for the module column should be 'module'.",
				TakesFile:   true,
				Destination: &copyNumbers,
				Action: func(ctx context.Context, cmd *cli.Command, v string) error {
					if _, err := os.Stat(v); os.IsNotExist(err) {
						return cli.Exit("Error: Copy number file does not exist", 1)
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:        "populations",
				Usage:       "A tab-delimited table where the first column contains sample names, and there is a column called 'num_populations' with the number of microbial populations estimated to be present in each sample.",
				TakesFile:   true,
				Destination: &populations,
				Action: func(ctx context.Context, cmd *cli.Command, v string) error {
					if _, err := os.Stat(v); os.IsNotExist(err) {
						return cli.Exit("Error: Populations file does not exist", 1)
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:        "output-file",
				Aliases:     []string{"o"},
				Usage:       "The name of the output file in which to store the classifier predictions.",
				Value:       "predictions.txt",
				DefaultText: "predictions.txt",
				Destination: &outputFile,
			},
			&cli.BoolFlag{
				Name:        "also-output-ppcn",
				Usage:       "If you use --copy-numbers input, this flag will ensure that the computed PPCN values are stored in an output file.",
				Value:       false,
				Destination: &alsoOutputPPCN,
			},
			&cli.StringFlag{
				Name:        "ppcn-output-file",
				Usage:       "The name for the computed PPCN output matrix, if requested.",
				DefaultText: "PPCN_matrix.txt",
				Destination: &ppcnOutputFile,
			},
		},
		Commands: []*cli.Command{
			&docs.BuildCmd,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			err := classify.Run(classify.Options{
				PPCNTable:      ppcnTable,
				CopyNumbers:    copyNumbers,
				Populations:    populations,
				OutputFile:     outputFile,
				AlsoOutputPPCN: alsoOutputPPCN,
				PPCNOutputFile: ppcnOutputFile,
				ModulesFile:    ibdEnrichedModulesFile,
				ClassifierFile: classifierFile,
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
		EnableShellCompletion: true,
	}

	if err := Cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
