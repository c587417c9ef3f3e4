package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/medcov/pkg/runtime/terminal/commands"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	loader  commands.Loader
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Loader commands.Loader
	Output io.Writer
	Args   []string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		loader: opts.Loader,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	if opts.Args != nil {
		cli.rootCmd.SetArgs(opts.Args)
	}
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "medcov",
		Short:         "Medication coverage and payer analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewBoundsCmd(cli.loader))
	cmd.AddCommand(commands.NewDashboardCmd(cli.loader))
	cmd.AddCommand(commands.NewReportCmd(cli.loader))
	cmd.AddCommand(commands.NewExportCmd(cli.loader))

	return cmd
}
