package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"github.com/repbook/repbook/pkg/prompt"
	"github.com/repbook/repbook/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	showID := false
	day := ""
	interactive := false
	cmd := &cobra.Command{
		Use:   "get [program]",
		Short: "list programs, or one program's days and exercises",
		Example: `
repbook get
repbook get "Strength Block"
repbook get "Strength Block" --day "Day 1"
repbook get -i
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := context.Background()
			g := get.Get{Persistence: s, ShowID: showID, Day: day}
			if len(args) == 1 {
				g.Program = args[0]
			}
			if interactive {
				programs, err := s.Programs(ctx)
				if err != nil {
					return err
				}
				p, err := prompt.SelectProgram(programs)
				if err != nil {
					return err
				}
				days, err := s.Days(ctx, p.ID)
				if err != nil {
					return err
				}
				d, err := prompt.SelectDay(days)
				if err != nil {
					return err
				}
				g.Program = p.Name
				g.Day = d.Title
			}
			return oo.HandleError(g.Do(ctx))
		},
	}
	cmd.Flags().BoolVar(&showID, "show-id", false, "Include row identities in the output.")
	cmd.Flags().StringVar(&day, "day", "", "Print the exercises of this day.")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		`Pick the program and day interactively.`)

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
