package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/joao-fontenele/storefront/internal/gateway"
	"github.com/joao-fontenele/storefront/internal/notify"
	"github.com/joao-fontenele/storefront/internal/orders"
)

func runCheckout(ctx context.Context, a *app, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	user := a.session.Snapshot().User

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	c := orders.Customer{}
	fs.StringVar(&c.Name, "name", user.FullName(), "customer name")
	fs.StringVar(&c.Email, "email", user.Email, "customer email")
	fs.StringVar(&c.Phone, "phone", user.Phone, "customer phone")
	fs.Int64Var(&c.ShippingAddressID, "address", 0, "saved shipping address id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	printCart(a)
	order, err := a.checkout.PlaceOrder(ctx, c)
	if err != nil {
		return err
	}

	a.notifier.Success(notify.CategoryGeneral, fmt.Sprintf("Order #%d placed", order.ID))
	_, _ = fmt.Fprintln(a.out)
	printOrder(a.out, order)
	return nil
}

func runOrders(ctx context.Context, a *app, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}
	verb, rest, err := subcommand(a.errOut, "orders", args, "list", "show")
	if err != nil {
		return err
	}

	if verb == "list" {
		list, err := a.history.MyOrders(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			_, _ = fmt.Fprintln(a.out, "You have no orders yet.")
			return nil
		}
		printOrders(a.out, list)
		return nil
	}

	if len(rest) != 1 {
		_, _ = fmt.Fprintln(a.errOut, "usage: storefront orders show <id>")
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
}

func runReceipt(ctx context.Context, a *app, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 2 {
		_, _ = fmt.Fprintln(a.errOut, "usage: storefront receipt <order-id> <file>")
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	order, err := a.history.Get(ctx, id)
	if err != nil {
		return err
	}

	file, err := openUpload(args[1])
	if err != nil {
		return err
	}
	defer closeUpload(file)

	updated, err := a.receipts.Upload(ctx, order, file)
	if err != nil {
		return err
	}

	a.notifier.Success(notify.CategoryGeneral, "Receipt uploaded, we will confirm your payment shortly")
	printOrder(a.out, updated)
	return nil
}

func openUpload(path string) (gateway.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return gateway.File{}, err
	}
	return gateway.File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Body:        f,
	}, nil
}

func closeUpload(f gateway.File) {
	if c, ok := f.Body.(io.Closer); ok {
		_ = c.Close()
	}
}
