package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

func (a *App) Params(ctx context.Context, email string, extended, refresh bool) error {
	params, src, err := a.keys.Params(ctx, email, extended, refresh)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(a.out, "key parameters for %s (%s):\n", email, src)
	for _, k := range keys {
		fmt.Fprintf(a.out, "  %s: %s\n", k, formatValue(params[k]))
	}
	return nil
}

func (a *App) Derive(ctx context.Context, email string) error {
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	keys, err := a.keys.Derive(ctx, email, pw)
	if err != nil {
		return err
	}
	defer keys.Wipe()

	fmt.Fprintln(a.out, keys.ServerPasswordHex())
	return nil
}

func (a *App) Note(ctx context.Context, email string) error {
	text, err := GetMultiline(a.reader, "Note text", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		return errors.New("empty note")
	}

	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	keys, err := a.keys.Derive(ctx, email, pw)
	if err != nil {
		return err
	}
	defer keys.Wipe()

	id, err := a.account.AddNote(ctx, keys, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "note %s stored\n", id)
	return nil
}

func (a *App) Cached(ctx context.Context) error {
	emails, err := a.keys.Cached(ctx)
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		fmt.Fprintln(a.out, "cache is empty")
		return nil
	}
	for _, e := range emails {
		fmt.Fprintln(a.out, e)
	}
	return nil
}

func (a *App) Forget(ctx context.Context, email string) error {
	if err := a.keys.Forget(ctx, email); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "forgot %s\n", email)
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	p, err := a.account.Whoami(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", p.Email, p.UUID)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.account.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func (a *App) Size(ctx context.Context) error {
	ds, err := a.account.Size(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%d bytes)\n", ds.Label, ds.Bytes)
	return nil
}

func (a *App) Rank(ctx context.Context) error {
	items, err := a.account.Rank(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "no items")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UUID\tTYPE\tSIZE")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\n", it.UUID, it.ContentType, it.Size)
	}
	return w.Flush()
}

func (a *App) Signature(ctx context.Context) error {
	sig, err := a.account.Signature(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, sig)
	return nil
}

func (a *App) Backup(ctx context.Context, dir string) error {
	location, saved, err := a.account.Backup(ctx, dir)
	if err != nil {
		return err
	}
	if saved != "" {
		fmt.Fprintf(a.out, "backup downloaded to %s\n", saved)
		return nil
	}
	fmt.Fprintf(a.out, "backup written to %s\n", location)
	return nil
}

func (a *App) EnableMFA(ctx context.Context, allowEmailRecovery bool) error {
	id, err := a.account.EnableMFA(ctx, allowEmailRecovery)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "mfa item %s created\n", id)
	return nil
}

func (a *App) DisableMFA(ctx context.Context) error {
	ok, err := a.account.DisableMFA(ctx)
	return a.reportDisabled("mfa", ok, err)
}

func (a *App) EnableEmailBackups(ctx context.Context) error {
	id, err := a.account.EnableEmailBackups(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "email backups item %s created\n", id)
	return nil
}

func (a *App) DisableEmailBackups(ctx context.Context) error {
	ok, err := a.account.DisableEmailBackups(ctx)
	return a.reportDisabled("email backups", ok, err)
}

func (a *App) reportDisabled(feature string, ok bool, err error) error {
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(a.out, "%s disabled\n", feature)
	} else {
		fmt.Fprintf(a.out, "%s not disabled\n", feature)
	}
	return nil
}

// formatValue prints numbers without exponent; structpb delivers them as
// float64.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
