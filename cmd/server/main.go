// Command server runs the notekeeper account service.
//
// Usage:
//
//	server [flags]                serve gRPC until interrupted
//	server [flags] token <email>  print an access token for an account
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/server"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	args := flagx.Positional(os.Args[1:], append(config.Flags, flagx.ConfigFlags...))

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if len(args) > 0 && args[0] == "token" {
		err := runToken(ctx, app, args[1:], os.Stdout)
		app.Close()
		if err != nil {
			log.Printf("%v", err)
			os.Exit(1)
		}
		return
	}

	buildinfo.PrintBuildData(os.Stdout)
	app.Run(ctx)
}

type tokenIssuer interface {
	IssueToken(ctx context.Context, email string) (string, error)
}

var errTokenUsage = errors.New("usage: server token <email>")

// runToken prints an access token for the single email in args.
func runToken(ctx context.Context, app tokenIssuer, args []string, w io.Writer) error {
	if len(args) != 1 {
		return errTokenUsage
	}
	tok, err := app.IssueToken(ctx, args[0])
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	_, err = fmt.Fprintln(w, tok)
	return err
}
