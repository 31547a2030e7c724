package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	sub := os.Args[1]
	args := os.Args[2:]
	var err error
	switch sub {
	case "check":
		cfg, e := parseCheckFlags(args)
		if e != nil {
			err = e
			break
		}
		err = runCheck(cfg, os.Stdout)
	case "chain":
		cfg, e := parseChainFlags(args)
		if e != nil {
			err = e
			break
		}
		err = runChain(cfg, os.Stdout)
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "localecat: unknown subcommand %q\n", sub)
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "localecat: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `localecat - locale catalog CLI for resource inspection

usage: localecat <command> [options]

commands:
  check      Load every declared locale and report message ids missing
             relative to the default locale.
  chain      Print the fallback chain of a locale.

Use 'localecat check -h' or 'localecat chain -h' for command-specific flags.
`)
}
