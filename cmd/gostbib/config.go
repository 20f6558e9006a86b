// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/gostbib/internal/bibliography"
	"github.com/pdiddy/gostbib/internal/textio"
	"github.com/pdiddy/gostbib/pkg/types"
)

func setDefaults() {
	viper.SetDefault("encoding", textio.DefaultEncoding)
	viper.SetDefault("output_encoding", "")
	viper.SetDefault("capitals", []string{"Москва=М."})
	viper.SetDefault("catalog.dir", "catalog")
	viper.SetDefault("catalog.max_results", 50)
}

// loadConfig assembles the settings from flags, environment, config file
// and defaults.
func loadConfig() (types.Config, error) {
	capitals, err := parseCapitals(viper.GetStringSlice("capitals"))
	if err != nil {
		return types.Config{}, err
	}

	cfg := types.Config{
		Render: types.RenderConfig{
			Encoding:       viper.GetString("encoding"),
			OutputEncoding: viper.GetString("output_encoding"),
			Capitals:       capitals,
		},
		Catalog: types.CatalogConfig{
			Dir:        viper.GetString("catalog.dir"),
			MaxResults: viper.GetInt("catalog.max_results"),
		},
	}
	if cfg.Render.OutputEncoding == "" {
		cfg.Render.OutputEncoding = cfg.Render.Encoding
	}

	for _, name := range []string{cfg.Render.Encoding, cfg.Render.OutputEncoding} {
		if _, err := textio.Lookup(name); err != nil {
			return types.Config{}, err
		}
	}

	logger.Debug("configuration loaded",
		zap.String("encoding", cfg.Render.Encoding),
		zap.String("output_encoding", cfg.Render.OutputEncoding),
		zap.Any("capitals", cfg.Render.Capitals),
		zap.String("catalog_dir", cfg.Catalog.Dir))
	return cfg, nil
}

// parseCapitals turns "City=Abbr" pairs into the address table. Pairs are
// kept as a list because viper lowercases map keys.
func parseCapitals(pairs []string) (map[string]string, error) {
	capitals := make(map[string]string, len(pairs))
	for _, p := range pairs {
		city, abbr, ok := strings.Cut(p, "=")
		city, abbr = strings.TrimSpace(city), strings.TrimSpace(abbr)
		if !ok || city == "" || abbr == "" {
			return nil, fmt.Errorf("invalid capital %q: want City=Abbr", p)
		}
		capitals[city] = abbr
	}
	return capitals, nil
}

func newEngine(cfg types.Config) *bibliography.Engine {
	return bibliography.NewEngine(
		bibliography.WithLogger(logger),
		bibliography.WithCapitals(cfg.Render.Capitals),
	)
}

// processFile reads and converts one bibliography database.
func processFile(path string, cfg types.Config) (bibliography.Result, error) {
	logger.Debug("reading database", zap.String("path", path), zap.String("encoding", cfg.Render.Encoding))
	text, err := textio.ReadFile(path, cfg.Render.Encoding)
	if err != nil {
		return bibliography.Result{}, err
	}
	return newEngine(cfg).Process(text), nil
}
