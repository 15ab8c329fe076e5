package get

import (
	"context"
	"fmt"
	"strings"

	"github.com/repbook/repbook/pkg/printers"
	"github.com/repbook/repbook/pkg/program"
	"github.com/repbook/repbook/pkg/store"
)

// Get lists programs, or the days and exercises of one program.
type Get struct {
	Persistence store.Persistence
	ShowID      bool
	// Program filters by program name (case-insensitive). Empty lists all
	// programs.
	Program string
	// Day additionally filters to one day title and prints its exercises.
	Day string
}

// Do runs the listing.
func (g *Get) Do(ctx context.Context) error {
	pp := &printers.PrettyPrint{ShowID: g.ShowID}

	programs, err := g.Persistence.Programs(ctx)
	if err != nil {
		return err
	}
	if g.Program == "" {
		pp.Title("Programs")
		pp.Programs(programs...)
		return nil
	}

	target, ok := findProgram(programs, g.Program)
	if !ok {
		return fmt.Errorf("no program named %q", g.Program)
	}
	days, err := g.Persistence.Days(ctx, target.ID)
	if err != nil {
		return err
	}

	if g.Day == "" {
		pp.Title(target.Name)
		pp.Days(days...)
		return nil
	}

	for _, d := range days {
		if !strings.EqualFold(d.Title, g.Day) {
			continue
		}
		exercises, err := g.Persistence.Exercises(ctx, d.ID)
		if err != nil {
			return err
		}
		pp.Title(fmt.Sprintf("%s / %s", target.Name, d.Title))
		pp.Exercises(exercises...)
		return nil
	}
	return fmt.Errorf("no day named %q in %q", g.Day, target.Name)
}

func findProgram(programs []program.Program, name string) (program.Program, bool) {
	for _, p := range programs {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return program.Program{}, false
}
