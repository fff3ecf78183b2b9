package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/dmitrijs2005/domca/internal/ids"
)

func (a *App) addTeacher(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-teacher", flag.ContinueOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	t, err := a.gradebook.AddTeacher(ctx, *first, *last)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "teacher %s: %s\n", t.ID, t.FullName())
	return nil
}

func (a *App) addYear(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-year", flag.ContinueOnError)
	start := fs.Int("start", 0, "first calendar year")
	end := fs.Int("end", 0, "last calendar year (default start+1)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *end == 0 {
		*end = *start + 1
	}

	sy, err := a.gradebook.AddSchoolYear(ctx, *start, *end)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "school year %s: %s\n", sy.ID, sy.Label())
	return nil
}

func (a *App) addSubject(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-subject", flag.ContinueOnError)
	name := fs.String("name", "", "subject name")
	teacher := fs.String("teacher", "", "teacher ID")
	year := fs.String("year", "", "school year ID")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	teacherID, err := ids.TeacherIDFrom(*teacher)
	if err != nil {
		return err
	}
	yearID, err := ids.SchoolYearIDFrom(*year)
	if err != nil {
		return err
	}

	s, err := a.gradebook.AddSubject(ctx, *name, teacherID, yearID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "subject %s: %s\n", s.ID, s.Name)
	return nil
}

func (a *App) mark(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mark", flag.ContinueOnError)
	subject := fs.String("subject", "", "subject ID")
	value := fs.Int("value", 0, "mark value")
	weight := fs.Int("weight", 1, "mark weight")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	subjectID, err := ids.SubjectIDFrom(*subject)
	if err != nil {
		return err
	}

	m, err := a.gradebook.RecordMark(ctx, subjectID, *value, *weight)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "mark %s: %d (weight %d)\n", m.ID, m.Value, m.Weight)
	return nil
}

func (a *App) average(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("average", flag.ContinueOnError)
	subject := fs.String("subject", "", "subject ID")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	subjectID, err := ids.SubjectIDFrom(*subject)
	if err != nil {
		return err
	}

	avg, err := a.gradebook.SubjectAverage(ctx, subjectID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%.2f\n", avg)
	return nil
}
