package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Media-Manager/mediamanager-test-harness/framework/testfilter"
)

type commandParams struct {
	port          int
	host          string
	shortname     string
	responsesFile string
	seed          int64
	check         bool
	filters       testfilter.RegexFilters
	debug         bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.IntVar(&c.port, "port", defaultPort, "port that the mock API will listen on")
	fs.StringVar(&c.host, "host", "localhost", "external hostname of the mock API")
	fs.StringVar(&c.shortname, "shortname", defaultShortname, "media manager client shortname")
	fs.StringVar(&c.responsesFile, "responses", "", "JSON or YAML file of canned responses")
	fs.Int64Var(&c.seed, "seed", 0, "seed for generating identifiers (0 = use the clock)")
	fs.BoolVar(&c.check, "check", false, "call every API function over HTTP, report, and exit")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select functions for -check")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select functions for -check to skip")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.shortname == "" {
		fmt.Fprintln(os.Stderr, "-shortname must not be empty")
		fs.Usage()
		return false
	}
	if c.filters.IsDefined() && !c.check {
		fmt.Fprintln(os.Stderr, "-run and -skip only apply with -check")
		fs.Usage()
		return false
	}
	return true
}
