package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/gateway"
	"github.com/joao-fontenele/storefront/internal/notify"
)

func runAdmin(ctx context.Context, a *app, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	verb, rest, err := subcommand(a.errOut, "admin", args, "orders", "order", "approve", "reject", "product")
	if err != nil {
		return err
	}

	switch verb {
	case "orders":
		fs := flag.NewFlagSet("admin orders", flag.ContinueOnError)
		fs.SetOutput(a.errOut)
		pending := fs.Bool("pending", false, "only orders awaiting payment review")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		list, err := listOrders(ctx, a, *pending)
		if err != nil {
			return err
		}
		printOrders(a.out, list)
		return nil

	case "order":
		if len(rest) != 1 {
			_, _ = fmt.Fprintln(a.errOut, "usage: storefront admin order <id>")
			return errUsage
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		order, err := a.history.Get(ctx, id)
		if err != nil {
			return err
		}
		printOrder(a.out, order)
		return nil

	case "approve", "reject":
		return reviewPayment(ctx, a, verb, rest)

	default:
		return runAdminProduct(ctx, a, rest)
	}
}

func listOrders(ctx context.Context, a *app, pending bool) ([]domain.Order, error) {
	if pending {
		return a.history.PendingReview(ctx)
	}
	return a.history.All(ctx)
}

func reviewPayment(ctx context.Context, a *app, verb string, args []string) error {
	fs := flag.NewFlagSet("admin "+verb, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	notes := fs.String("notes", "", "notes shown to the customer (required to reject)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		_, _ = fmt.Fprintf(a.errOut, "usage: storefront admin %s [-notes text] <order-id>\n", verb)
		return errUsage
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	order, err := a.history.Get(ctx, id)
	if err != nil {
		return err
	}

	var updated *domain.Order
	if verb == "approve" {
		updated, err = a.review.Approve(ctx, order, *notes)
	} else {
		updated, err = a.review.Reject(ctx, order, *notes)
	}
	if err != nil {
		return err
	}

	a.notifier.Success(notify.CategoryGeneral, fmt.Sprintf("Order #%d: %s", updated.ID, updated.Status.Text()))
	return nil
}

func runAdminProduct(ctx context.Context, a *app, args []string) error {
	verb, rest, err := subcommand(a.errOut, "admin product", args, "create", "update", "delete", "image")
	if err != nil {
		return err
	}

	switch verb {
	case "delete":
		if len(rest) != 1 {
			_, _ = fmt.Fprintln(a.errOut, "usage: storefront admin product delete <id>")
			return errUsage
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if err := a.catalog.Delete(ctx, id); err != nil {
			return err
		}
		a.notifier.Success(notify.CategoryGeneral, fmt.Sprintf("Product #%d deleted", id))
		return nil

	case "image":
		if len(rest) != 2 {
			_, _ = fmt.Fprintln(a.errOut, "usage: storefront admin product image <id> <file>")
			return errUsage
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		file, closeFile, err := openImage(rest[1])
		if err != nil {
			return err
		}
		defer closeFile()
		p, err := a.catalog.UploadImage(ctx, id, *file)
		if err != nil {
			return err
		}
		a.notifier.Success(notify.CategoryGeneral, fmt.Sprintf("Image set for %s", p.Name))
		return nil
	}

	fs := flag.NewFlagSet("admin product "+verb, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "description")
	price := fs.String("price", "0", "unit price")
	stock := fs.Int("stock", 0, "units in stock")
	active := fs.Bool("active", true, "visible in the storefront")
	category := fs.String("category", "", "category")
	imagePath := fs.String("image", "", "main image file")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	p, err := decimal.NewFromString(*price)
	if err != nil {
		return fmt.Errorf("invalid price %q", *price)
	}
	in := domain.ProductInput{
		Name:        *name,
		Description: *description,
		Price:       p,
		Stock:       *stock,
		IsActive:    *active,
		Category:    *category,
	}

	var image *gateway.File
	if *imagePath != "" {
		f, closeFile, err := openImage(*imagePath)
		if err != nil {
			return err
		}
		defer closeFile()
		image = f
	}

	var product *domain.Product
	if verb == "create" {
		product, err = a.catalog.Create(ctx, in, image)
	} else {
		if fs.NArg() != 1 {
			_, _ = fmt.Fprintln(a.errOut, "usage: storefront admin product update [flags] <id>")
			return errUsage
		}
		id, idErr := parseID(fs.Arg(0))
		if idErr != nil {
			return idErr
		}
		product, err = a.catalog.Update(ctx, id, in, image)
	}
	if err != nil {
		return err
	}

	printProducts(a.out, []domain.Product{*product})
	return nil
}

func openImage(path string) (*gateway.File, func(), error) {
	f, err := openUpload(path)
	if err != nil {
		return nil, nil, err
	}
	return &f, func() { closeUpload(f) }, nil
}
