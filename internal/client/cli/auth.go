package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/dmitrijs2005/gophledger/internal/client/client"
	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/filex"
	"github.com/google/subcommands"
)

// ask returns v, or prompts for it when empty.
func (a *App) ask(v, prompt string) (string, error) {
	if v != "" {
		return v, nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

type registerCmd struct {
	app      *App
	userName string
	email    string
	fullName string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a new account" }
func (*registerCmd) Usage() string {
	return `finctl register [-u <username>] [-e <email>] [-n <full name>]

  Creates an account. Missing values and the password are prompted for.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.userName, "u", "", "username")
	f.StringVar(&c.email, "e", "", "email address")
	f.StringVar(&c.fullName, "n", "", "full name")
}

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app

	userName, err := a.ask(c.userName, "Enter username")
	if err != nil {
		return a.fail(err)
	}
	email, err := a.ask(c.email, "Enter email")
	if err != nil {
		return a.fail(err)
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return a.fail(errors.New("passwords do not match"))
	}

	u, err := a.api("").Register(ctx, client.Registration{
		UserName: userName,
		Email:    email,
		FullName: c.fullName,
		Password: string(password),
	})
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Registered %s (%s). Run 'finctl login' to sign in.\n", u.UserName, u.ID)
	return subcommands.ExitSuccess
}

type loginCmd struct {
	app      *App
	userName string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in and store the access token" }
func (*loginCmd) Usage() string {
	return `finctl login [-u <username>]

  Signs in and saves the access token to the token file.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.userName, "u", "", "username")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app

	userName, err := a.ask(c.userName, "Enter username")
	if err != nil {
		return a.fail(err)
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	token, err := a.api("").Login(ctx, userName, password)
	if err != nil {
		return a.fail(err)
	}

	if err := filex.WritePrivate(a.config.TokenFile, []byte(token)); err != nil {
		return a.fail(fmt.Errorf("save token: %w", err))
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", userName)
	return subcommands.ExitSuccess
}

type logoutCmd struct {
	app *App
}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "forget the stored access token" }
func (*logoutCmd) Usage() string            { return "finctl logout\n" }
func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (c *logoutCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	removed, err := filex.RemoveIfExists(c.app.config.TokenFile)
	if err != nil {
		return c.app.fail(err)
	}
	if removed {
		fmt.Fprintln(c.app.out, "Logged out")
	} else {
		fmt.Fprintln(c.app.out, "Not logged in")
	}
	return subcommands.ExitSuccess
}
