// Command client is the notekeeper CLI.
//
// Usage:
//
//	client [flags]                  interactive mode
//	client [flags] <command> [args] run one command, e.g. "params a@b.c"
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/notekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/notekeeper/internal/client/cli"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	args := flagx.Positional(os.Args[1:], append(config.Flags, flagx.ConfigFlags...))

	if len(args) == 0 {
		buildinfo.PrintBuildData(os.Stdout)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(ctx, args)
	_ = app.Close()
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
