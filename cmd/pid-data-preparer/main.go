// Package main is the CLI entry point for pid-data-preparer: it dedupes a
// dataset's id_ column into the single-column file the PID matcher expects.
package main

import (
	"bufio"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/facebookresearch/fbpcs-sub002/internal/pidprep"
)

type preparerFlags struct {
	inputPath  string
	outputPath string
	logEveryN  int64
}

func main() {
	flags := &preparerFlags{}
	cmd := &cobra.Command{
		Use:   "pid-data-preparer",
		Short: "Dedupe a dataset's id_ column into a single-column PID matcher input",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(flags)
		},
	}

	cmd.Flags().StringVar(&flags.inputPath, "input_path", "", "path to the input file")
	cmd.Flags().StringVar(&flags.outputPath, "output_path", "", "path to write the deduped single-column output")
	cmd.Flags().Int64Var(&flags.logEveryN, "log_every_n", 1000, "log a milestone every N processed lines (0 disables)")

	cobra.CheckErr(cmd.MarkFlagRequired("input_path"))
	cobra.CheckErr(cmd.MarkFlagRequired("output_path"))

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(flags *preparerFlags) error {
	in, err := os.Open(flags.inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(flags.outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	w := bufio.NewWriter(out)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	res, err := pidprep.Prepare(in, w, flags.logEveryN, logger)
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	logger.Printf("pid-data-preparer: processed %d lines, %d duplicates", res.LinesProcessed, res.DuplicateIdCount)
	return nil
}
