package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"github.com/repbook/repbook/pkg/prefs"
	"github.com/repbook/repbook/pkg/store"
)

var (
	oo = &base.OutputOptions{}
)

// New builds the root repbook command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repbook",
		Short: base.Wrap80("Training programs for coaches and their clients."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

// AddCommands attaches every subcommand to the root.
func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addGet(topLevel)
	addAdd(topLevel)
	addVersion(topLevel)
}

// openStore loads config and opens the sqlite store plus the prefs store.
func openStore() (*store.SQLiteStore, *prefs.Store, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	p := prefs.New(prefs.NewDiskvBacking(cfg.PrefsPath()))
	if err := p.Load(); err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, p, nil
}
