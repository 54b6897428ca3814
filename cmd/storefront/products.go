package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joao-fontenele/storefront/internal/domain"
)

func runProducts(ctx context.Context, a *app, args []string) error {
	verb, rest, err := subcommand(a.errOut, "products", args, "list", "show")
	if err != nil {
		return err
	}

	switch verb {
	case "list":
		fs := flag.NewFlagSet("products list", flag.ContinueOnError)
		fs.SetOutput(a.errOut)
		q := domain.ProductQuery{ActiveOnly: true}
		fs.StringVar(&q.Search, "search", "", "name or description contains")
		fs.StringVar(&q.Category, "category", "", "category")
		fs.IntVar(&q.Page, "page", 1, "page number")
		fs.IntVar(&q.Limit, "limit", 20, "products per page")
		all := fs.Bool("all", false, "include inactive products")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *all {
			q.ActiveOnly = false
		}

		products, err := a.catalog.List(ctx, q)
		if err != nil {
			return err
		}
		printProducts(a.out, products)
		return nil

	default:
		if len(rest) != 1 {
			_, _ = fmt.Fprintln(a.errOut, "usage: storefront products show <id>")
			return errUsage
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		p, err := a.catalog.Get(ctx, id)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(a.out, "%s (#%d)\n%s\n\nPrice: %s\nStock: %d\n", p.Name, p.ID, p.Description, money(p.Price), p.Stock)
		if q := a.cart.ItemQuantity(p.ID); q > 0 {
			_, _ = fmt.Fprintf(a.out, "In your cart: %d\n", q)
		}
		return nil
	}
}
