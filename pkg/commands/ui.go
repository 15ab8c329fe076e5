package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/repbook/repbook/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	clientMode := false
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the interactive program editor",
		Example: `
repbook ui
repbook ui --client
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, p, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			u := ui.UI{Persistence: s, Prefs: p, ClientMode: clientMode}
			return u.Do(context.Background())
		},
	}
	cmd.Flags().BoolVar(&clientMode, "client", false, "Open read-only, as a client following the program.")

	topLevel.AddCommand(cmd)
}
