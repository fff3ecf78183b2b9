// Package cli implements the domca command line: one subcommand per
// invocation, each running inside its own repository scope.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dmitrijs2005/domca/internal/avatars"
	"github.com/dmitrijs2005/domca/internal/config"
	"github.com/dmitrijs2005/domca/internal/flagx"
	"github.com/dmitrijs2005/domca/internal/logging"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/dmitrijs2005/domca/internal/repositories/repomanager"
	"github.com/dmitrijs2005/domca/internal/services"
)

// ErrUsage is returned when the command line cannot be understood.
var ErrUsage = errors.New("usage error")

// openDB is a seam for tests.
var openDB = repomanager.Open

type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	rm        repomanager.RepositoryManager
	accounts  *services.AccountService
	hydration *services.HydrationService
	gradebook *services.GradebookService
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp connects to the database named by cfg. Close releases it.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, db, log, os.Stdin, os.Stdout), nil
}

func newApp(cfg *config.Config, db *sql.DB, log logging.Logger, in io.Reader, out io.Writer) *App {
	rm := repomanager.New(db, log)
	return &App{
		config:    cfg,
		log:       log,
		db:        db,
		rm:        rm,
		accounts:  services.NewAccountService(rm, avatars.NewStore(cfg), cfg, log),
		hydration: services.NewHydrationService(rm, log),
		gradebook: services.NewGradebookService(rm, log),
		reader:    bufio.NewReader(in),
		out:       out,
	}
}

func (a *App) Close() error {
	return a.db.Close()
}

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"migrate":        {"apply database migrations", (*App).migrate},
	"register":       {"-email -first -last -user: create an account", (*App).register},
	"signin":         {"-email: open a session and print its token", (*App).signIn},
	"signout":        {"-token: close a session", (*App).signOut},
	"whoami":         {"-token: show the user behind a session token", (*App).whoAmI},
	"passwd":         {"-email: change the password", (*App).passwd},
	"avatar":         {"-email [-file path]: upload an avatar or print its upload URL", (*App).avatar},
	"purge-sessions": {"[-before RFC3339]: delete expired sessions", (*App).purgeSessions},
	"drink":          {"-email -ml [-at RFC3339]: log water intake", (*App).drink},
	"today":          {"-email: today's intake", (*App).today},
	"stats":          {"-email -period day|week|month|year [-date YYYY-MM-DD]: intake per period", (*App).stats},
	"add-teacher":    {"-first -last: add a teacher", (*App).addTeacher},
	"add-year":       {"-start -end: add a school year", (*App).addYear},
	"add-subject":    {"-name -teacher -year: add a subject", (*App).addSubject},
	"mark":           {"-subject -value -weight: record a mark", (*App).mark},
	"average":        {"-subject: weighted average of a subject", (*App).average},
}

// Run executes the subcommand named by args[0]. Global configuration flags
// may appear anywhere; each subcommand only looks at its own flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		a.usage()
		return ErrUsage
	}

	cmd, ok := commands[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd.run(a, ctx, args[1:])
}

func (a *App) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "usage: domca <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %-15s %s\n", name, commands[name].usage)
	}
}

// parseFlags parses the flags of one subcommand out of args.
func parseFlags(fs *flag.FlagSet, args []string) error {
	names := make([]string, 0)
	fs.VisitAll(func(f *flag.Flag) {
		names = append(names, "-"+f.Name)
	})
	fs.SetOutput(io.Discard)
	if err := fs.Parse(flagx.FilterArgs(args, names)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return nil
}

func required(name, v string) error {
	if v == "" {
		return fmt.Errorf("%w: -%s is required", ErrUsage, name)
	}
	return nil
}

func (a *App) userByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := required("email", email); err != nil {
		return nil, err
	}
	u, err := a.rm.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", email, err)
	}
	return u, nil
}
