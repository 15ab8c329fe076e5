package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"github.com/repbook/repbook/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	client := ""
	day := ""
	cmd := &cobra.Command{
		Use:   "add <program>",
		Short: "create a program, or add a day to one",
		Example: `
repbook add "Strength Block" --client Alex
repbook add "Strength Block" --day "Day 3"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			a := add.Add{Persistence: s, Program: args[0], Client: client, Day: day}
			return oo.HandleError(a.Do(context.Background()))
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "Client the program is written for.")
	cmd.Flags().StringVar(&day, "day", "", "Add a training day with this title instead of a new program.")

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
