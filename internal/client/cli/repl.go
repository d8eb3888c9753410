package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errUsage = errors.New("usage")

const helpText = `Available commands:
  params <email> [extended] [refresh]   show key parameters
  derive <email>                        derive the server password
  note <email>                          store a sealed note
  cached | forget <email>               key parameter cache
  whoami | ping
  size | rank | signature
  backup [dir]                          export a backup
  enable-mfa [recovery] | disable-mfa
  enable-email-backups | disable-email-backups
  exit`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Params(ctx context.Context, email string, extended, refresh bool) error
	Derive(ctx context.Context, email string) error
	Note(ctx context.Context, email string) error
	Cached(ctx context.Context) error
	Forget(ctx context.Context, email string) error
	Whoami(ctx context.Context) error
	Ping(ctx context.Context) error
	Size(ctx context.Context) error
	Rank(ctx context.Context) error
	Signature(ctx context.Context) error
	Backup(ctx context.Context, dir string) error
	EnableMFA(ctx context.Context, allowEmailRecovery bool) error
	DisableMFA(ctx context.Context) error
	EnableEmailBackups(ctx context.Context) error
	DisableEmailBackups(ctx context.Context) error
}

// dispatch runs one command. quit is set for exit/quit.
func dispatch(ctx context.Context, a execIface, cmd string, args []string) (quit bool, err error) {
	needEmail := func(run func(string) error) error {
		if len(args) == 0 {
			return fmt.Errorf("%w: %s <email>", errUsage, cmd)
		}
		return run(args[0])
	}

	switch cmd {
	case "help":
		printlnFn(helpText)
	case "params":
		return false, needEmail(func(email string) error {
			return a.Params(ctx, email, hasWord(args[1:], "extended"), hasWord(args[1:], "refresh"))
		})
	case "derive":
		return false, needEmail(func(email string) error { return a.Derive(ctx, email) })
	case "note":
		return false, needEmail(func(email string) error { return a.Note(ctx, email) })
	case "forget":
		return false, needEmail(func(email string) error { return a.Forget(ctx, email) })
	case "cached":
		return false, a.Cached(ctx)
	case "whoami":
		return false, a.Whoami(ctx)
	case "ping":
		return false, a.Ping(ctx)
	case "size":
		return false, a.Size(ctx)
	case "rank":
		return false, a.Rank(ctx)
	case "signature":
		return false, a.Signature(ctx)
	case "backup":
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		return false, a.Backup(ctx, dir)
	case "enable-mfa":
		return false, a.EnableMFA(ctx, hasWord(args, "recovery"))
	case "disable-mfa":
		return false, a.DisableMFA(ctx)
	case "enable-email-backups":
		return false, a.EnableEmailBackups(ctx)
	case "disable-email-backups":
		return false, a.DisableEmailBackups(ctx)
	case "exit", "quit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %s", cmd)
	}
	return false, nil
}

func hasWord(args []string, word string) bool {
	for _, a := range args {
		if a == word {
			return true
		}
	}
	return false
}

// runREPL reads commands from reader until EOF or exit. Command errors are
// printed and the loop keeps going. Commands that prompt for more input read
// from the same reader.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("nk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		quit, err := dispatch(ctx, a, parts[0], parts[1:])
		if err != nil {
			printlnFn("Error:", err)
		}
		if quit {
			printlnFn("Bye!")
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}
