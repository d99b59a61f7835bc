// Package main is the outer multi-file concurrency driver: it discovers a
// glob of per-shard input files, then runs the id-spine-combiner engine
// against each one concurrently, bounded by --concurrency. See
// internal/driver for the worker pool.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/facebookresearch/fbpcs-sub002/internal/driver"
	"github.com/facebookresearch/fbpcs-sub002/internal/engine"
)

type driverFlags struct {
	config               string
	inputGlob            string
	spineGlob            string
	outputDir            string
	tempDirBase          string
	concurrency          int
	protocolType         string
	gameType             string
	sortStrategy         string
	maxIDColumnCnt       int
	paddingSize          int
	multiConversionLimit int
}

func main() {
	flags := &driverFlags{}
	cmd := &cobra.Command{
		Use:   "pipeline-driver",
		Short: "Run id-spine-combiner over a glob of sharded input files concurrently",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(flags)
		},
	}

	cmd.Flags().StringVar(&flags.config, "config", "", "optional YAML file with input_glob/output_dir/temp_dir_base/concurrency")
	cmd.Flags().StringVar(&flags.inputGlob, "input_glob", "", "glob (doublestar-capable) matching every data shard to process")
	cmd.Flags().StringVar(&flags.spineGlob, "spine_glob", "", "glob matching each shard's identity spine; must produce one match per input_glob match; the n-th spine match is paired with the n-th input match")
	cmd.Flags().StringVar(&flags.outputDir, "output_dir", "", "directory to write each shard's combined output into")
	cmd.Flags().StringVar(&flags.tempDirBase, "temp_dir_base", os.TempDir(), "parent directory for per-job scratch directories")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 4, "maximum number of shards processed at once")
	cmd.Flags().StringVar(&flags.protocolType, "protocol_type", "PID", "PID or MR_PID")
	cmd.Flags().StringVar(&flags.gameType, "game_type", "", "LIFT or ATTRIBUTION")
	cmd.Flags().StringVar(&flags.sortStrategy, "sort_strategy", "sort", "sort or keep_original")
	cmd.Flags().IntVar(&flags.maxIDColumnCnt, "max_id_column_cnt", 1, "maximum number of id_* columns consulted per row")
	cmd.Flags().IntVar(&flags.paddingSize, "padding_size", 4, "attribution list-column width")
	cmd.Flags().IntVar(&flags.multiConversionLimit, "multi_conversion_limit", 4, "lift conversion list-column width")

	cobra.CheckErr(cmd.MarkFlagRequired("game_type"))

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(flags *driverFlags) error {
	if flags.config != "" {
		yamlCfg, err := driver.LoadYAMLConfig(flags.config)
		if err != nil {
			return fmt.Errorf("pipeline-driver: loading --config: %w", err)
		}
		if flags.inputGlob == "" {
			flags.inputGlob = yamlCfg.InputGlob
		}
		if flags.outputDir == "" {
			flags.outputDir = yamlCfg.OutputDir
		}
		if yamlCfg.TempDirBase != "" {
			flags.tempDirBase = yamlCfg.TempDirBase
		}
		if yamlCfg.Concurrency > 0 {
			flags.concurrency = yamlCfg.Concurrency
		}
	}
	if flags.inputGlob == "" || flags.spineGlob == "" || flags.outputDir == "" {
		return fmt.Errorf("pipeline-driver: --input_glob, --spine_glob, and --output_dir are all required")
	}

	driver.IgnoreBrokenPipe()

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

	dataPaths, err := driver.DiscoverFiles(flags.inputGlob)
	if err != nil {
		return fmt.Errorf("pipeline-driver: resolving --input_glob: %w", err)
	}
	spinePaths, err := driver.DiscoverFiles(flags.spineGlob)
	if err != nil {
		return fmt.Errorf("pipeline-driver: resolving --spine_glob: %w", err)
	}
	if len(dataPaths) != len(spinePaths) {
		return fmt.Errorf("pipeline-driver: input_glob matched %d files but spine_glob matched %d; they must pair up one-to-one",
			len(dataPaths), len(spinePaths))
	}

	if err := os.MkdirAll(flags.outputDir, 0o755); err != nil {
		return err
	}

	jobs := make([]driver.Job, len(dataPaths))
	spineByJob := make(map[string]string, len(dataPaths))
	for i, dataPath := range dataPaths {
		outputPath := filepath.Join(flags.outputDir, strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))+".out")
		jobs[i] = driver.Job{InputPath: dataPath, OutputPath: outputPath}
		spineByJob[dataPath] = spinePaths[i]
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	driverCfg := driver.Config{Concurrency: flags.concurrency, TempDirBase: flags.tempDirBase}

	err = driver.Run(context.Background(), jobs, driverCfg, func(_ context.Context, job driver.Job, _ string) error {
		return combineOne(cfg, job.InputPath, spineByJob[job.InputPath], job.OutputPath)
	})
	if err != nil {
		return err
	}
	logger.Printf("pipeline-driver: processed %d shard(s)", len(jobs))
	return nil
}

func combineOne(cfg engine.Config, dataPath, spinePath, outputPath string) error {
	var dataFile *os.File
	if cfg.Protocol != engine.MRPID {
		f, err := os.Open(dataPath)
		if err != nil {
			return err
		}
		defer f.Close()
		dataFile = f
	}

	spineFile, err := os.Open(spinePath)
	if err != nil {
		return err
	}
	defer spineFile.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	w := bufio.NewWriter(out)

	switch cfg.Game {
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
