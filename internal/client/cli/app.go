package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
)

type App struct {
	config  *config.Config
	keys    services.KeyService
	account services.AccountService
	closers []func() error
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.AccessToken, c.RequestTimeout)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	return &App{
		config:  c,
		keys:    services.NewKeyService(apiClient, repos.KeyParams),
		account: services.NewAccountService(apiClient),
		closers: []func() error{apiClient.Close, repos.Close},
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run executes args as a single command, or starts the interactive loop when
// args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) > 0 {
		_, err := dispatch(ctx, a, args[0], args[1:])
		return err
	}
	a.Root(ctx)
	return nil
}

// Root runs the interactive loop until exit or EOF.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to notekeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s)", a.config.ServerEndpointAddr)
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
