// Package printers renders programs, days and exercises for the terminal.
package printers

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	isatty "github.com/mattn/go-isatty"

	"github.com/repbook/repbook/pkg/program"
	"github.com/repbook/repbook/pkg/timeutil"
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// PrettyPrint writes colored tabular output.
type PrettyPrint struct {
	ShowID bool
}

// Title prints a bold, underlined section heading.
func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

// Programs prints the program list.
func (pp *PrettyPrint) Programs(programs ...program.Program) {
	if len(programs) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	if pp.ShowID {
		tbl.AddRow("ID", "Name", "Client", "Notes")
	} else {
		tbl.AddRow("Name", "Client", "Notes")
	}
	for _, p := range programs {
		if pp.ShowID {
			tbl.AddRow(p.ID, p.Name, p.Client, p.Notes)
		} else {
			tbl.AddRow(p.Name, p.Client, p.Notes)
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Days prints a program's days in order.
func (pp *PrettyPrint) Days(days ...program.Day) {
	if len(days) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, d := range days {
		if pp.ShowID {
			tbl.AddRow(d.ID, fmt.Sprintf("%d.", d.Order+1), d.Title)
		} else {
			tbl.AddRow(fmt.Sprintf("%d.", d.Order+1), d.Title)
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Exercises prints a day's exercise rows.
func (pp *PrettyPrint) Exercises(exercises ...program.Exercise) {
	if len(exercises) == 0 {
		pp.none()
		return
	}
	done := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow("", "Exercise", "Kind", "Sets", "Reps", "Rest", "Target", "Tags")
	for _, e := range exercises {
		mark := " "
		name := e.Name
		if e.Done {
			mark = "x"
			name = done.Sprint(name)
		}
		row := []interface{}{
			fmt.Sprintf("[%s]", mark), name, e.Kind,
			e.Sets, e.Reps, timeutil.FormatRest(e.RestSec), e.Target,
			strings.Join(e.Tags, ","),
		}
		if pp.ShowID {
			row = append([]interface{}{e.ID}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Println(" none")
}
