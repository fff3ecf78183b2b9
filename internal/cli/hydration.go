package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/domca/internal/services"
)

func (a *App) drink(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("drink", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	ml := fs.Int("ml", 0, "amount of water, ml")
	at := fs.String("at", "", "time of intake, RFC3339 (default now)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var when time.Time
	if *at != "" {
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("%w: -at: %v", ErrUsage, err)
		}
		when = t
	}

	u, err := a.userByEmail(ctx, *email)
	if err != nil {
		return err
	}

	r, err := a.hydration.Log(ctx, u.ID(), *ml, when)
	if err != nil {
		return err
	}

	sum, err := a.hydration.Day(ctx, u.ID(), r.Date())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged %d ml, %d ml on %s\n", r.AmountMl(), sum.TotalMl, sum.From.Format(time.DateOnly))
	return nil
}

func (a *App) today(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("today", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	u, err := a.userByEmail(ctx, *email)
	if err != nil {
		return err
	}

	sum, err := a.hydration.Today(ctx, u.ID())
	if err != nil {
		return err
	}
	a.printSummary(sum)
	return nil
}

func (a *App) stats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	period := fs.String("period", "week", "day, week, month or year")
	date := fs.String("date", "", "any date inside the period, YYYY-MM-DD (default today)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	switch *period {
	case "day", "week", "month", "year":
	default:
		return fmt.Errorf("%w: unknown period %q", ErrUsage, *period)
	}

	ref := time.Now().UTC()
	if *date != "" {
		t, err := time.Parse(time.DateOnly, *date)
		if err != nil {
			return fmt.Errorf("%w: -date: %v", ErrUsage, err)
		}
		ref = t
	}

	u, err := a.userByEmail(ctx, *email)
	if err != nil {
		return err
	}

	var sum *services.Summary
	switch *period {
	case "day":
		sum, err = a.hydration.Day(ctx, u.ID(), ref)
	case "week":
		sum, err = a.hydration.Week(ctx, u.ID(), ref)
	case "month":
		sum, err = a.hydration.Month(ctx, u.ID(), ref.Month(), ref.Year())
	case "year":
		sum, err = a.hydration.Year(ctx, u.ID(), ref.Year())
	}
	if err != nil {
		return err
	}
	a.printSummary(sum)
	return nil
}

func (a *App) printSummary(sum *services.Summary) {
	fmt.Fprintf(a.out, "%s .. %s: %d ml in %d drinks\n",
		sum.From.Format(time.DateOnly), sum.To.AddDate(0, 0, -1).Format(time.DateOnly), sum.TotalMl, sum.Count)
	for _, r := range sum.Records {
		fmt.Fprintf(a.out, "  %s  %5d ml\n", r.Date().Format("2006-01-02 15:04"), r.AmountMl())
	}
}
