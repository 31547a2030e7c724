package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/loopcontext/localecat"
)

type chainConfig struct {
	configPath string
	locale     string
}

func parseChainFlags(args []string) (chainConfig, error) {
	var cfg chainConfig
	fs := flag.NewFlagSet("chain", flag.ContinueOnError)
	fs.StringVar(&cfg.configPath, "config", "localecat.yaml", "path to the catalog config file")
	fs.StringVar(&cfg.locale, "locale", "", "locale to inspect (defaults to the configured default)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runChain(cfg chainConfig, out io.Writer) error {
	fileCfg, err := loadFileConfig(cfg.configPath)
	if err != nil {
		return err
	}

	catalog, err := localecat.NewLocaleCatalog(fileCfg.engineConfig())
	if err != nil {
		return err
	}

	locale := cfg.locale
	if locale == "" {
		locale = fileCfg.Default
	}
	chain, err := localecat.ChainOf(catalog, locale)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, strings.Join(chain, " -> "))
	return nil
}
