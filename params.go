package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/qaengine/webtest-harness/framework"
)

const defaultPort = 8222

type commandParams struct {
	host        string
	port        int
	environment string
	configFile  string
	filters     framework.RegexFilters
	debug       bool
	debugAll    bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.host, "host", "localhost", "external hostname of the test harness")
	fs.IntVar(&c.port, "port", defaultPort, "port that the test harness will listen on")
	fs.StringVar(&c.environment, "env", "", "environment to test against (dev, staging, prod)")
	fs.StringVar(&c.configFile, "config", "", "path to a YAML file with environment overrides")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand builds a command line that would re-run only the tests that
// failed, keeping the environment selection from this run.
func (c commandParams) rerunCommand(program string, results framework.Results) string {
	var b commandBuilder
	b.add(program)
	if c.environment != "" {
		b.add("-env", c.environment)
	}
	if c.configFile != "" {
		b.add("-config", c.configFile)
	}
	for _, f := range results.Failures {
		b.add("-run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	return b.String()
}
