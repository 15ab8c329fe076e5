package add

import (
	"context"
	"fmt"
	"strings"

	"github.com/repbook/repbook/pkg/program"
	"github.com/repbook/repbook/pkg/store"
)

// Add creates a program, or a day within an existing program.
type Add struct {
	Persistence store.Persistence
	// Program is the program name: the target when adding a day, the new
	// name otherwise.
	Program string
	Client  string
	// Day, when set, adds a day with this title to Program.
	Day string
}

// Do performs the creation.
func (a *Add) Do(ctx context.Context) error {
	if strings.TrimSpace(a.Program) == "" {
		return program.ErrEmptyName
	}

	if a.Day == "" {
		p := program.Program{
			ID:     program.NewID(),
			Name:   strings.TrimSpace(a.Program),
			Client: strings.TrimSpace(a.Client),
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if err := a.Persistence.SaveProgram(ctx, p); err != nil {
			return err
		}
		fmt.Printf("created program %q\n", p.Name)
		return nil
	}

	programs, err := a.Persistence.Programs(ctx)
	if err != nil {
		return err
	}
	var target *program.Program
	for i := range programs {
		if strings.EqualFold(programs[i].Name, a.Program) {
			target = &programs[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no program named %q", a.Program)
	}

	days, err := a.Persistence.Days(ctx, target.ID)
	if err != nil {
		return err
	}
	d := program.Day{
		ID:        program.NewID(),
		ProgramID: target.ID,
		Title:     strings.TrimSpace(a.Day),
		Order:     program.NextDayOrder(days),
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if err := a.Persistence.SaveDay(ctx, d); err != nil {
		return err
	}
	fmt.Printf("added day %q to %q\n", d.Title, target.Name)
	return nil
}
