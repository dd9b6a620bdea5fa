package main

import (
	"fmt"
	"log"
	"os"

	"github.com/qaengine/webtest-harness/config"
	"github.com/qaengine/webtest-harness/framework"
	"github.com/qaengine/webtest-harness/sampleapp"
	"github.com/qaengine/webtest-harness/webtests"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	cfg, err := config.Load(params.environment, params.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		os.Exit(1)
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	app := sampleapp.New(sampleapp.Options{
		Username: cfg.Username,
		Password: cfg.Password,
		Logger:   mainDebugLogger,
	})

	harness, err := framework.NewTestHarness(
		app.Handler(),
		params.host,
		params.port,
		mainDebugLogger,
		os.Stdout,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Startup error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Printf("Running test suite against the %s environment\n", cfg.Name)

	testLogger := ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := webtests.RunTestSuite(harness, cfg, params.filters.AsFilter, &testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To rerun only the failed tests:")
		fmt.Printf("  %s\n", params.rerunCommand(os.Args[0], results))
		os.Exit(1)
	}
}
