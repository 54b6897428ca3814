package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var errRejected = errors.New("cart unchanged")

func runCart(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	verb, rest, err := subcommand(a.errOut, "cart", args, "show", "add", "remove", "set", "clear")
	if err != nil {
		return err
	}

	switch verb {
	case "show":
		printCart(a)
		return nil

	case "clear":
		a.cart.ClearCart(ctx)
		return nil

	case "add":
		if len(rest) < 1 || len(rest) > 2 {
			_, _ = fmt.Fprintln(a.errOut, "usage: storefront cart add <product-id> [quantity]")
			return errUsage
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		qty := 1
		if len(rest) == 2 {
			if qty, err = strconv.Atoi(rest[1]); err != nil {
				return fmt.Errorf("invalid quantity %q", rest[1])
			}
		}
		// Stock and price come from the API, never from the local snapshot.
		p, err := a.catalog.Get(ctx, id)
		if err != nil {
			return err
		}
		if !a.cart.AddToCart(ctx, p, qty) {
			return errRejected
		}
		return nil

	case "remove":
		if len(rest) != 1 {
			_, _ = fmt.Fprintln(a.errOut, "usage: storefront cart remove <product-id>")
			return errUsage
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		a.cart.RemoveFromCart(ctx, id)
		return nil

	default:
		if len(rest) != 2 {
			_, _ = fmt.Fprintln(a.errOut, "usage: storefront cart set <product-id> <quantity>")
			return errUsage
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", rest[1])
		}
		if !a.cart.UpdateQuantity(ctx, id, qty) {
			return errRejected
		}
		return nil
	}
}

func printCart(a *app) {
	lines := a.cart.Lines()
	if len(lines) == 0 {
		_, _ = fmt.Fprintln(a.out, "Your cart is empty.")
		return
	}

	tw := table(a.out)
	_, _ = fmt.Fprintln(tw, "ID\tPRODUCT\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d/%d\t%s\t%s\n", l.ID, l.Name, l.Quantity, l.Stock, money(l.Price), money(l.Subtotal()))
	}
	_, _ = fmt.Fprintf(tw, "\t%d items\t\t\t%s\n", a.cart.ItemsCount(), money(a.cart.Total()))
	_ = tw.Flush()
}
