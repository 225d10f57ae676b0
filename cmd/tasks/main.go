package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/tasks/internal/cli"
	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/logging"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/ui"
)

func main() {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	// Root flags (apply to every subcommand)
	groupPending := fs.Bool("group", false, "group ls output by pending/done")
	fs.Usage = func() {
		cli.PrintHelp()
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		ui.Fail("config: " + err.Error())
		os.Exit(2)
	}
	if err := ui.SetTheme(cfg.Theme); err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}

	logger, closer, err := logging.Open(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		ui.Fail("log: " + err.Error())
		os.Exit(1)
	}

	code := cli.Run(fs.Args(), cli.Options{
		Group:        *groupPending,
		Backend:      store.NewFileBackend(cfg.DataDir),
		Slot:         cfg.Slot,
		RepeatWindow: cfg.RepeatDelay,
		Logger:       logger,
	})
	closer.Close()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
