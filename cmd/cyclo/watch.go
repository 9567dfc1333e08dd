package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/cyclo/internal/analyzer"
	"github.com/panbanda/cyclo/pkg/watch"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch for file changes and re-analyze",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: 500 * time.Millisecond,
				Usage: "Quiet period before a changed file is re-analyzed",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	path := "."
	if c.Args().Len() > 0 {
		path = c.Args().First()
	}

	cfg := loadConfig(c)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	watcher, err := watch.New(absPath, cfg, c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	opts := analyzer.DefaultOptions()
	opts.IncludeDeclarations = cfg.Analysis.IncludeDeclarations
	opts.Strict = cfg.Analysis.Strict

	watcher.SetCallback(func(changedPath string) {
		a := analyzer.NewWithOptions(opts)
		defer a.Close()

		fr, err := a.AnalyzeFile(changedPath)
		if err != nil {
			color.Red("Analysis error: %v", err)
			return
		}

		for _, rec := range fr.Records {
			fmt.Println(rec.String())
		}
		fmt.Printf("%d functions, max %d, avg %.1f\n",
			len(fr.Records), fr.MaxComplexity, fr.AvgComplexity)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nStopping watch...")
		cancel()
	}()

	return watcher.Start(ctx)
}
