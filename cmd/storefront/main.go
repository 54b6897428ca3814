// Command storefront is the terminal front end of the storefront client:
// browse products, keep a cart, check out, upload payment receipts and run
// the admin back office.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/joao-fontenele/storefront/internal/config"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"products": {"list and show products", runProducts},
	"cart":     {"show and change the cart", runCart},
	"checkout": {"place an order from the cart", runCheckout},
	"orders":   {"list and show your orders", runOrders},
	"receipt":  {"upload a payment receipt", runReceipt},
	"auth":     {"login, register, logout, profile", runAuth},
	"admin":    {"back office: products, orders, payment review", runAdmin},
	"events":   {"watch storefront events", runEvents},
}

// errUsage makes main print the usage text and exit with status 2.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", ".env", "dotenv file to load")
	profile := fs.String("profile", "default", "local profile; each profile keeps its own cart and session")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "config:", err)
		return 1
	}

	a, err := newApp(ctx, cfg, *profile, stdout, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	defer a.Close()

	if err := cmd.run(ctx, a, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		_, _ = fmt.Fprintln(stderr, "error:", displayError(err))
		return 1
	}
	return 0
}

func usage(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintln(w, "usage: storefront [flags] <command> [args]")
	_, _ = fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	_, _ = fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}

// subcommand splits args into a verb and its arguments, reporting valid
// verbs when none matches.
func subcommand(w io.Writer, group string, args []string, verbs ...string) (string, []string, error) {
	if len(args) > 0 {
		for _, v := range verbs {
			if args[0] == v {
				return v, args[1:], nil
			}
		}
	}
	_, _ = fmt.Fprintf(w, "usage: storefront %s <%s>\n", group, strings.Join(verbs, "|"))
	return "", nil, errUsage
}
