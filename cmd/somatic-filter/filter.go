package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/somatic-filter/internal/annotate"
	"github.com/inodb/somatic-filter/internal/config"
	"github.com/inodb/somatic-filter/internal/datasource/cosmic"
	"github.com/inodb/somatic-filter/internal/datasource/exac"
	"github.com/inodb/somatic-filter/internal/datasource/whitelist"
	"github.com/inodb/somatic-filter/internal/filter"
	"github.com/inodb/somatic-filter/internal/output"
	"github.com/inodb/somatic-filter/internal/schema"
	"github.com/inodb/somatic-filter/internal/table"
	"github.com/inodb/somatic-filter/internal/variant"
)

func newFilterCmd(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Split a variant table into pass and reject files",
		Long: `Annotate every variant with read depth, coding status, ExAC allele counts,
COSMIC recurrence and whitelist membership, then write <prefix>pass.txt and
<prefix>reject.txt. All inputs are loaded and validated before any output
file is created.`,
		Example: `  somatic-filter filter --maf tumor.maf --exac ExAC.r0.3.txt --whitelist whitelist.txt
  somatic-filter filter --maf tumor.maf --exac ExAC.r0.3.txt --mode germline --min-exac-ac 10
  somatic-filter filter --maf tumor.maf --exac ExAC.r0.3.txt --mode recurrence \
      --cosmic cosmic_counts.tsv --cosmic-version 84`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("binding flags: %w", err)
			}
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			logger, err := newLogger(*verbose)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			return runFilter(cfg, logger, cmd.ErrOrStderr())
		},
	}

	files := output.DefaultFiles()
	f := cmd.Flags()
	f.String(config.KeyMAF, "", "Variant table in MAF format (use '-' for stdin)")
	f.String(config.KeyExAC, "", "ExAC population allele count table")
	f.String(config.KeyWhitelist, "", "Headerless whitelist of somatic sites (chrom, start, end, gene:protein)")
	f.String(config.KeyCosmic, "", "COSMIC recurrence counts (Gene name, Mutation AA, count)")
	f.String(config.KeyCosmicVersion, "", "COSMIC release, used to name the counts column")
	f.String(config.KeyMode, filter.ModeSomatic.String(), "Decision mode: somatic, germline or recurrence")
	f.Int(config.KeyMinDepth, 0, "Reject variants with read depth at or below this value")
	f.Bool(config.KeyFilterSyn, false, "Reject variants other than missense, nonsense and splice site")
	f.Int(config.KeyMinExACAC, exac.DefaultThreshold, "Population allele count above which a variant is common")
	f.String(config.KeyExACAggregate, exac.AggregateAny.String(), "Compare each population (any) or their sum (sum) to the threshold")
	f.Int(config.KeyMinCosmicCount, cosmic.DefaultMinCount, "COSMIC count at which recurrence mode passes an ExAC variant")
	f.String(config.KeyEngine, config.EngineMemory.String(), "ExAC engine: memory or duckdb")
	f.StringP(config.KeyOutputDir, "o", files.Dir, "Directory for the output files")
	f.String(config.KeyPrefix, "", "Prefix for the output file names")
	f.String(config.KeyPassName, files.PassName, "Pass file name")
	f.String(config.KeyRejectName, files.RejectName, "Reject file name")

	return cmd
}

// runFilter executes one filter run.
func runFilter(cfg config.Config, logger *zap.Logger, summaryOut io.Writer) error {
	raw, err := table.Read(cfg.MAF, table.Options{Name: "maf"})
	if err != nil {
		return fmt.Errorf("reading variants: %w", err)
	}
	normalized, err := schema.MAF().Normalize(raw)
	if err != nil {
		return fmt.Errorf("reading variants: %w", err)
	}
	records, err := variant.FromTable(normalized)
	if err != nil {
		return fmt.Errorf("reading variants: %w", err)
	}
	logger.Info("loaded variants", zap.String("path", cfg.MAF), zap.Int("variants", len(records)))

	ref, closeRef, err := openExAC(cfg, logger)
	if err != nil {
		return fmt.Errorf("loading ExAC: %w", err)
	}
	defer closeRef()

	wl := whitelist.Empty()
	if cfg.Whitelist != "" {
		wl, err = whitelist.Load(cfg.Whitelist)
		if err != nil {
			return fmt.Errorf("loading whitelist: %w", err)
		}
		logger.Info("loaded whitelist", zap.String("path", cfg.Whitelist), zap.Int("entries", wl.Len()))
	}

	var counts cosmic.Counts
	if cfg.Cosmic != "" {
		counts, err = cosmic.Load(cfg.Cosmic)
		if err != nil {
			return fmt.Errorf("loading COSMIC: %w", err)
		}
		logger.Info("loaded COSMIC", zap.String("path", cfg.Cosmic), zap.Int("entries", len(counts)))
	}

	ann := annotate.NewAnnotator(cfg.MinDepth)
	ann.SetLogger(logger)

	exacSrc := exac.NewSource(ref, cfg.Commonality())
	exacSrc.SetLogger(logger)
	ann.AddSource(exacSrc)

	if counts != nil {
		cosmicSrc := cosmic.NewSource(counts, cfg.CosmicVersion)
		cosmicSrc.SetLogger(logger)
		ann.AddSource(cosmicSrc)
	}

	wlSrc := whitelist.NewSource(wl)
	wlSrc.SetLogger(logger)
	ann.AddSource(wlSrc)

	if err := ann.AnnotateAll(records); err != nil {
		return err
	}
	if err := filter.Decide(records, cfg.Policy()); err != nil {
		return err
	}
	pass, reject, err := filter.Partition(records)
	if err != nil {
		return err
	}

	files := cfg.Files()
	if err := output.WritePartition(files, raw.Header, ann.Columns(), pass, reject); err != nil {
		return err
	}
	logger.Info("wrote partitions",
		zap.String("mode", cfg.Mode.String()),
		zap.String("pass", files.PassPath()),
		zap.Int("passed", len(pass)),
		zap.String("reject", files.RejectPath()),
		zap.Int("rejected", len(reject)))

	return output.NewSummaryWriter(summaryOut).Write(output.Summarize(pass, reject))
}

// openExAC loads the population table with the configured engine. The
// returned close function is always safe to call.
func openExAC(cfg config.Config, logger *zap.Logger) (exac.Reference, func(), error) {
	if cfg.Engine == config.EngineDuckDB {
		store, err := exac.OpenDuckDB()
		if err != nil {
			return nil, func() {}, err
		}
		if err := store.Load(cfg.ExAC); err != nil {
			store.Close()
			return nil, func() {}, err
		}
		n, err := store.Count()
		if err != nil {
			store.Close()
			return nil, func() {}, err
		}
		logger.Info("loaded ExAC", zap.String("path", cfg.ExAC), zap.String("engine", cfg.Engine.String()), zap.Int64("entries", n))
		return store, func() { store.Close() }, nil
	}

	t, err := exac.Load(cfg.ExAC)
	if err != nil {
		return nil, func() {}, err
	}
	logger.Info("loaded ExAC", zap.String("path", cfg.ExAC), zap.String("engine", cfg.Engine.String()), zap.Int("entries", t.Len()))
	return t, func() {}, nil
}
