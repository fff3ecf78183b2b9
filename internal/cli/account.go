package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/netx"
	"github.com/dmitrijs2005/domca/internal/services"
)

// putPresigned is a seam for tests.
var putPresigned = netx.PutPresigned

func (a *App) migrate(ctx context.Context, args []string) error {
	if err := a.rm.RunMigrations(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	user := fs.String("user", "", "user name")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	in := services.RegisterInput{}
	var err error
	for _, f := range []struct {
		dst    *string
		v      string
		prompt string
	}{
		{&in.Email, *email, "Email"},
		{&in.FirstName, *first, "First name"},
		{&in.LastName, *last, "Last name"},
		{&in.UserName, *user, "User name"},
	} {
		if *f.dst, err = a.textOrPrompt(f.v, f.prompt); err != nil {
			return err
		}
	}

	pw, err := a.newPassword()
	if err != nil {
		return err
	}
	in.Password = pw

	u, err := a.accounts.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered %s (%s)\n", u.UserName(), u.ID())
	return nil
}

// newPassword asks for a password twice.
func (a *App) newPassword() (string, error) {
	pw, err := GetPassword("Password", a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)

	again, err := GetPassword("Repeat password", a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(again)

	if string(pw) != string(again) {
		return "", errors.New("passwords do not match")
	}
	return string(pw), nil
}

func (a *App) currentPassword() (string, error) {
	pw, err := GetPassword("Password", a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) signIn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signin", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required("email", *email); err != nil {
		return err
	}

	pw, err := a.currentPassword()
	if err != nil {
		return err
	}

	sess, err := a.accounts.SignIn(ctx, *email, pw)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "token: %s\nexpires: %s\n", sess.Token(), sess.ExpiresAt().Format(time.RFC3339))
	return nil
}

func (a *App) signOut(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signout", flag.ContinueOnError)
	token := fs.String("token", "", "session token")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required("token", *token); err != nil {
		return err
	}

	if err := a.accounts.SignOut(ctx, *token); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func (a *App) whoAmI(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	token := fs.String("token", "", "session token")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required("token", *token); err != nil {
		return err
	}

	sess, err := a.accounts.Authenticate(ctx, *token)
	if err != nil {
		return err
	}
	u, err := a.rm.Users().GetByID(ctx, sess.UserID())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s <%s>, session valid until %s\n",
		u.FirstName(), u.LastName(), u.Email(), sess.ExpiresAt().Format(time.RFC3339))
	return nil
}

func (a *App) passwd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	u, err := a.userByEmail(ctx, *email)
	if err != nil {
		return err
	}

	current, err := a.currentPassword()
	if err != nil {
		return err
	}
	next, err := a.newPassword()
	if err != nil {
		return err
	}

	if err := a.accounts.ChangePassword(ctx, u.ID(), current, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "password changed")
	return nil
}

func (a *App) avatar(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("avatar", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	file := fs.String("file", "", "image to upload (default: only print the URL)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	u, err := a.userByEmail(ctx, *email)
	if err != nil {
		return err
	}

	var img []byte
	if *file != "" {
		if img, err = os.ReadFile(*file); err != nil {
			return err
		}
	}

	up, err := a.accounts.RequestAvatarUpload(ctx, u.ID())
	if err != nil {
		return err
	}

	if img == nil {
		fmt.Fprintf(a.out, "PUT the image to:\n%s\nvalid for %s\n", up.URL, a.config.AvatarUploadTTL)
		return nil
	}
	if err := putPresigned(ctx, up.URL, http.DetectContentType(img), img); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "avatar uploaded to %s\n", up.Reference)
	return nil
}

func (a *App) purgeSessions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("purge-sessions", flag.ContinueOnError)
	before := fs.String("before", "", "cut-off time, RFC3339 (default now)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cut := time.Now()
	if *before != "" {
		t, err := time.Parse(time.RFC3339, *before)
		if err != nil {
			return fmt.Errorf("%w: -before: %v", ErrUsage, err)
		}
		cut = t
	}

	n, err := a.accounts.PurgeExpiredSessions(ctx, cut)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "removed %d sessions\n", n)
	return nil
}
