package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Antagata/Month-recap-AVU/internal/catalog"
	"github.com/Antagata/Month-recap-AVU/internal/extract"
	"github.com/Antagata/Month-recap-AVU/internal/pricing"
	"github.com/Antagata/Month-recap-AVU/internal/report"
	"github.com/Antagata/Month-recap-AVU/internal/resolve"
	"github.com/Antagata/Month-recap-AVU/pkg/deepl"
)

var convertInput string

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a campaign text file from CHF to EUR",
	Long:  "Scans the input for CHF prices, resolves each mention against the catalog, rewrites the text with EUR amounts, and emits the match report, corrections file and Lines spreadsheet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(convertInput)
		if err != nil {
			return eris.Wrapf(err, "convert: read %s", convertInput)
		}
		text := string(raw)

		opts, sizeKeywords := cascadeSettings()

		mentions, sites := extract.ScanWith(text, sizeKeywords)
		zap.L().Info("convert: scanned input",
			zap.String("input", convertInput),
			zap.Int("mentions", len(mentions)),
		)
		if len(mentions) == 0 {
			zap.L().Warn("convert: no prices found, nothing to do")
			return nil
		}

		items, err := catalog.LoadXLSX(cfg.Catalog.Path, cfg.Catalog.Columns)
		if err != nil {
			return err
		}
		idx := catalog.NewIndex(items)

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		conv := pricing.Converter{Factor: cfg.Pricing.Factor, RoundAbove: cfg.Pricing.RoundAbove}
		resolver := resolve.New(idx, store, conv, opts)

		results, err := resolver.ResolveAll(ctx, mentions)
		if err != nil {
			return err
		}

		stamp := time.Now()
		converted := extract.Rewrite(text, sites, results)
		outPath := outputPath(cfg.Output.Dir, convertInput, stamp)
		if err := writeFile(outPath, converted); err != nil {
			return err
		}
		zap.L().Info("convert: wrote converted text", zap.String("path", outPath))

		entries := report.Build(idx, mentions, results)
		if err := writeReports(entries, stamp); err != nil {
			return err
		}

		if cfg.Translate.Enabled {
			translateOutput(ctx, converted, stamp)
		}
		return nil
	},
}

// translateOutput writes translated copies of the converted text. A
// failed translation is logged and skipped; it never fails the
// conversion itself.
func translateOutput(ctx context.Context, text string, stamp time.Time) {
	if cfg.Translate.APIKey == "" {
		zap.L().Warn("convert: translations enabled but no API key set, skipping")
		return
	}

	opts := []deepl.Option{}
	if cfg.Translate.BaseURL != "" {
		opts = append(opts, deepl.WithBaseURL(cfg.Translate.BaseURL))
	}
	client := deepl.NewClient(cfg.Translate.APIKey, opts...)

	base := strings.TrimSuffix(filepath.Base(convertInput), filepath.Ext(convertInput))
	for _, lang := range cfg.Translate.Languages {
		lang = strings.ToUpper(lang)
		translated, err := client.Translate(ctx, text, lang)
		if err != nil {
			zap.L().Warn("convert: translation failed",
				zap.String("language", lang),
				zap.Error(err),
			)
			continue
		}

		name := base + "_" + lang
		if cfg.Output.TimestampName {
			name += "_" + stamp.Format("20060102_150405")
		}
		path := filepath.Join(cfg.Translate.Dir, name+".txt")
		if err := writeFile(path, translated); err != nil {
			zap.L().Warn("convert: write translation failed", zap.Error(err))
			continue
		}
		zap.L().Info("convert: wrote translation",
			zap.String("language", lang),
			zap.String("path", path),
		)
	}
}

// cascadeSettings resolves cascade tuning and size keywords: the rules
// file wins when configured, otherwise the config values apply.
func cascadeSettings() (resolve.Options, map[string]float64) {
	if cfg.Cascade.RulesPath != "" {
		rules, err := resolve.LoadRules(cfg.Cascade.RulesPath)
		if err != nil {
			zap.L().Warn("convert: rules file unusable, using config values", zap.Error(err))
		} else {
			keywords := extract.DefaultSizeKeywords
			if len(rules.SizeKeywords) > 0 {
				keywords = rules.SizeKeywords
			}
			return rules.Options(), keywords
		}
	}
	return resolve.Options{
		Threshold:    cfg.Cascade.Threshold,
		VintageBonus: cfg.Cascade.VintageBonus,
		BulkQuantity: cfg.Cascade.BulkQuantity,
		DefaultSize:  cfg.Cascade.DefaultSize,
		Workers:      cfg.Cascade.Workers,
	}, extract.DefaultSizeKeywords
}

func writeReports(entries []report.Entry, stamp time.Time) error {
	suffix := ""
	if cfg.Output.TimestampName {
		suffix = "_" + stamp.Format("20060102_150405")
	}

	resultsPath := filepath.Join(cfg.Output.ReportsDir, "match_results"+suffix+".txt")
	f, err := createFile(resultsPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.WriteResults(f, entries, stamp); err != nil {
		return err
	}
	zap.L().Info("convert: wrote match report", zap.String("path", resultsPath))

	correctionsPath := filepath.Join(cfg.Output.ReportsDir, "corrections_needed"+suffix+".txt")
	var buf strings.Builder
	n, err := report.WriteCorrections(&buf, entries, stamp)
	if err != nil {
		return err
	}
	if n > 0 {
		if err := writeFile(correctionsPath, buf.String()); err != nil {
			return err
		}
		zap.L().Warn("convert: some mentions need review",
			zap.Int("entries", n),
			zap.String("path", correctionsPath),
		)
	}

	linesPath := filepath.Join(cfg.Output.LinesDir, "lines"+suffix+".xlsx")
	if err := os.MkdirAll(cfg.Output.LinesDir, 0o755); err != nil {
		return eris.Wrapf(err, "convert: mkdir %s", cfg.Output.LinesDir)
	}
	if err := report.WriteLines(linesPath, entries); err != nil {
		return err
	}
	zap.L().Info("convert: wrote lines export", zap.String("path", linesPath))
	return nil
}

func outputPath(dir, input string, stamp time.Time) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := fmt.Sprintf("%s_converted", base)
	if cfg.Output.TimestampName {
		name += "_" + stamp.Format("20060102_150405")
	}
	return filepath.Join(dir, name+".txt")
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrapf(err, "convert: mkdir %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "convert: create %s", path)
	}
	return f, nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "convert: mkdir %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return eris.Wrapf(err, "convert: write %s", path)
	}
	return nil
}

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "inputs/Multi.txt", "input text file")
	rootCmd.AddCommand(convertCmd)
}
