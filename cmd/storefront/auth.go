package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/gateway"
	"github.com/joao-fontenele/storefront/internal/notify"
	"github.com/joao-fontenele/storefront/internal/session"
)

func runAuth(ctx context.Context, a *app, args []string) error {
	verb, rest, err := subcommand(a.errOut, "auth", args, "login", "register", "logout", "whoami", "profile")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("auth "+verb, flag.ContinueOnError)
	fs.SetOutput(a.errOut)

	switch verb {
	case "login":
		var creds domain.Credentials
		fs.StringVar(&creds.Email, "email", "", "account email")
		fs.StringVar(&creds.Password, "password", "", "account password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return authResult(a, a.session.Login(ctx, creds))

	case "register":
		var req domain.RegisterRequest
		fs.StringVar(&req.Email, "email", "", "account email")
		fs.StringVar(&req.Password, "password", "", "account password")
		fs.StringVar(&req.FirstName, "first-name", "", "first name")
		fs.StringVar(&req.LastName, "last-name", "", "last name")
		fs.StringVar(&req.Phone, "phone", "", "phone number")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return authResult(a, a.session.Register(ctx, req))

	case "logout":
		a.session.Logout(ctx)
		a.notifier.Info("Logged out")
		return nil

	case "whoami":
		snap := a.session.Snapshot()
		if !snap.IsAuthenticated() {
			_, _ = fmt.Fprintln(a.out, "Not logged in.")
			return nil
		}
		_, _ = fmt.Fprintf(a.out, "%s <%s> (%s)\n", snap.User.FullName(), snap.User.Email, snap.User.Role)
		return nil

	default:
		if err := a.requireLogin(); err != nil {
			return err
		}
		var upd domain.ProfileUpdate
		fs.StringVar(&upd.FirstName, "first-name", "", "new first name")
		fs.StringVar(&upd.LastName, "last-name", "", "new last name")
		fs.StringVar(&upd.Phone, "phone", "", "new phone number")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := a.session.UpdateProfile(ctx, upd); err != nil {
			a.notifier.Error(gateway.Message(err))
			return err
		}
		a.notifier.Success(notify.CategoryGeneral, "Profile updated")
		return nil
	}
}

func authResult(a *app, res session.Result) error {
	if !res.Success {
		return errors.New(res.Error)
	}
	user := a.session.Snapshot().User
	a.notifier.Success(notify.CategoryGeneral, fmt.Sprintf("Welcome, %s", user.FullName()))
	return nil
}
