package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/SimonWaldherr/xtcreader/internal/config"
	"github.com/SimonWaldherr/xtcreader/internal/library"
	"github.com/SimonWaldherr/xtcreader/internal/position"
	"github.com/SimonWaldherr/xtcreader/internal/sdk/fake"
	"github.com/SimonWaldherr/xtcreader/internal/xlog"
)

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("usage: xtci watch <config.yaml>")
	}

	cfg, err := config.Load(fs.Arg(0))
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	log := xlog.New(os.Stderr, xlog.Info)
	store := position.NewStore(fake.NewNVS())

	rebuild := func() {
		entries, _, err := library.RefreshBooks(osFS{}, store, cfg.BooksDir, cfg.CatalogPath, log)
		if err != nil {
			log.Error("rebuild catalog: %v", err)
			return
		}
		log.Info("rebuilt catalog with %d entries", len(entries))
	}

	c := cron.New()
	schedule := fmt.Sprintf("@every %s", cfg.WatchInterval())
	if _, err := c.AddFunc(schedule, rebuild); err != nil {
		return errors.Wrap(err, "schedule watch")
	}

	log.Info("watching %s every %s, writing %s", cfg.BooksDir, cfg.WatchInterval(), cfg.CatalogPath)
	rebuild() // seed the catalog immediately rather than waiting for the first tick
	c.Start()
	defer c.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")
	return nil
}
