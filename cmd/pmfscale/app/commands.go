package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/pmfscale/cmd/pmfscale/cmd/inspect"
	"github.com/agentstation/pmfscale/cmd/pmfscale/cmd/scale"
)

// CreateScaleCommand creates the scale command with app dependencies.
func (a *App) CreateScaleCommand() *cobra.Command {
	return scale.NewCommand(a)
}

// CreateInspectCommand creates the inspect command with app dependencies.
func (a *App) CreateInspectCommand() *cobra.Command {
	return inspect.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("pmfscale %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
