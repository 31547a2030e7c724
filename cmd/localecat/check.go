package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/loopcontext/localecat"
)

type checkConfig struct {
	configPath string
	strict     bool
}

func parseCheckFlags(args []string) (checkConfig, error) {
	var cfg checkConfig
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.StringVar(&cfg.configPath, "config", "localecat.yaml", "path to the catalog config file")
	fs.BoolVar(&cfg.strict, "strict", false, "exit non-zero when any locale has translation gaps")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runCheck loads every declared locale under the accumulate policy and
// reports ids defined in the default locale but missing elsewhere.
func runCheck(cfg checkConfig, out io.Writer) error {
	fileCfg, err := loadFileConfig(cfg.configPath)
	if err != nil {
		return err
	}
	engineCfg := fileCfg.engineConfig()
	engineCfg.Clean = false

	catalog, err := localecat.NewLocaleCatalog(engineCfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	loaded, err := catalog.Load(ctx, "")
	if err != nil {
		return err
	}
	if !loaded {
		return fmt.Errorf("resources for the default locale failed to load")
	}
	defaultLocale := catalog.CurrentLocale()
	baseIDs := catalog.BundleFor(defaultLocale).IDs()
	fmt.Fprintf(out, "locale %s: %d message(s) (default)\n", defaultLocale, len(baseIDs))

	gaps := 0
	for _, locale := range catalog.SupportedLocales() {
		if locale == defaultLocale {
			continue
		}
		loaded, err := catalog.Load(ctx, locale)
		if err != nil {
			return err
		}
		if !loaded {
			fmt.Fprintf(out, "locale %s: resources failed to load\n", locale)
			gaps++
			continue
		}
		bundle := catalog.BundleFor(locale)
		var missing []string
		for _, id := range baseIDs {
			if !bundle.Has(id) {
				missing = append(missing, id)
			}
		}
		if len(missing) == 0 {
			fmt.Fprintf(out, "locale %s: ok (%d message(s))\n", locale, len(bundle.IDs()))
			continue
		}
		gaps += len(missing)
		fmt.Fprintf(out, "locale %s: missing %d message(s): %s\n", locale, len(missing), strings.Join(missing, ", "))
	}

	if cfg.strict && gaps > 0 {
		return fmt.Errorf("%d translation gap(s)", gaps)
	}
	return nil
}
