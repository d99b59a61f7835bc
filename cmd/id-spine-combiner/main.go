// Package main is the CLI entry point for id-spine-combiner: it binds CLI
// flags into an engine.Config and runs the Lift or Attribution orchestrator
// against one (data, spine) file pair, mirroring Pieczasz-smf's cobra-based
// cmd/smf layout.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facebookresearch/fbpcs-sub002/internal/engine"
)

type combinerFlags struct {
	dataPath             string
	spinePath            string
	outputPath           string
	protocolType         string
	gameType             string
	sortStrategy         string
	maxIDColumnCnt       int
	paddingSize          int
	multiConversionLimit int
}

func main() {
	flags := &combinerFlags{}
	cmd := &cobra.Command{
		Use:   "id-spine-combiner",
		Short: "Join a publisher/partner dataset against an identity spine and reshape it for an MPC game",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(flags)
		},
	}

	cmd.Flags().StringVar(&flags.dataPath, "data_path", "", "path to the publisher/partner input file (ignored for protocol_type=MR_PID)")
	cmd.Flags().StringVar(&flags.spinePath, "spine_path", "", "path to the identity spine (or the already-joined file, for MR_PID)")
	cmd.Flags().StringVar(&flags.outputPath, "output_path", "", "path to write the combined output file")
	cmd.Flags().StringVar(&flags.protocolType, "protocol_type", "PID", "upstream PID matcher variant: PID or MR_PID")
	cmd.Flags().StringVar(&flags.gameType, "game_type", "", "downstream MPC game: LIFT or ATTRIBUTION")
	cmd.Flags().StringVar(&flags.sortStrategy, "sort_strategy", "sort", "sort or keep_original")
	cmd.Flags().IntVar(&flags.maxIDColumnCnt, "max_id_column_cnt", 1, "maximum number of id_* columns consulted per row")
	cmd.Flags().IntVar(&flags.paddingSize, "padding_size", 4, "attribution list-column width")
	cmd.Flags().IntVar(&flags.multiConversionLimit, "multi_conversion_limit", 4, "lift conversion list-column width")

	cobra.CheckErr(cmd.MarkFlagRequired("spine_path"))
	cobra.CheckErr(cmd.MarkFlagRequired("output_path"))
	cobra.CheckErr(cmd.MarkFlagRequired("game_type"))

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(flags *combinerFlags) error {
	protocol, err := engine.ParseProtocol(flags.protocolType)
	if err != nil {
		return err
	}
	game, err := engine.ParseGame(flags.gameType)
	if err != nil {
		return err
	}
	sortStrategy, err := engine.ParseSortStrategy(flags.sortStrategy)
	if err != nil {
		return err
	}

	cfg := engine.Config{
		Protocol:             protocol,
		Game:                 game,
		SortStrategy:         sortStrategy,
		MaxIDColumnCnt:       flags.maxIDColumnCnt,
		PaddingSize:          flags.paddingSize,
		MultiConversionLimit: flags.multiConversionLimit,
	}

	var dataFile *os.File
	if protocol != engine.MRPID {
		if flags.dataPath == "" {
			return fmt.Errorf("id-spine-combiner: --data_path is required for protocol_type=%s", protocol)
		}
		dataFile, err = os.Open(flags.dataPath)
		if err != nil {
			return err
		}
		defer dataFile.Close()
	}

	spineFile, err := os.Open(flags.spinePath)
	if err != nil {
		return err
	}
	defer spineFile.Close()

	out, err := os.Create(flags.outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	defer w.Flush()

	switch game {
	case engine.Lift:
		err = engine.RunLift(cfg, dataFile, spineFile, w)
	case engine.Attribution:
		err = engine.RunAttribution(cfg, dataFile, spineFile, w)
	}
	if err != nil {
		return err
	}
	return w.Flush()
}
