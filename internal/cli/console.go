package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/bistro/internal/admin"
	"github.com/rshade/bistro/internal/api"
	"github.com/rshade/bistro/internal/config"
	"github.com/rshade/bistro/internal/tui"
)

// errNotInteractive is returned when the console is started without a terminal.
var errNotInteractive = errors.New("console requires an interactive terminal, use 'bistro list' instead")

// NewConsoleCmd creates the console command, which opens the interactive admin console.
func NewConsoleCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:       "console [resource]",
		Short:     "Open the interactive admin console",
		Long:      "Browse every admin list in a full-screen terminal UI with live search, filters, sorting and paging.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: admin.Names(),
		Example: `  # Open the console on the orders tab
  bistro console

  # Start on the menu, with orders scoped to this week
  bistro console dishes --period week`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resource := ""
			if len(args) == 1 {
				resource = args[0]
			}
			return runConsole(cmd, resource, period)
		},
	}

	cmd.Flags().StringVar(&period, "period", string(admin.PeriodToday),
		"initial reporting period of orders: today, week, month, all")

	return cmd
}

func runConsole(cmd *cobra.Command, resource, periodFlag string) error {
	period, err := admin.ParsePeriod(periodFlag)
	if err != nil {
		return err
	}
	if tui.DetectOutputMode(false, false, false) != tui.OutputModeInteractive || !isTerminal(os.Stdin) {
		return errNotInteractive
	}
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if skip, _ := cmd.Flags().GetBool("skip-version-check"); !skip {
		if err = checkBackend(cmd, client); err != nil {
			return err
		}
	}

	// Log lines on the terminal would corrupt the screen.
	consoleLogger := zerolog.Nop()
	if logsToFile(cmd) {
		consoleLogger = logger
	}

	model, err := tui.NewConsoleModel(ctx, client, tui.ConsoleOptions{
		PageSize: config.GetPageSize(),
		Debounce: config.GetDebounce(),
		Resource: resource,
		Period:   period,
		Logger:   &consoleLogger,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	if _, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}

// checkBackend verifies the backend version. An unreachable backend only warns so the
// console can show its own fetch errors; an incompatible one is fatal.
func checkBackend(cmd *cobra.Command, client *api.Client) error {
	constraint := config.GetAPIConfig().Compatibility
	v, err := client.CheckCompatibility(cmd.Context(), constraint)
	switch {
	case errors.Is(err, api.ErrIncompatibleServer):
		return err
	case err != nil:
		logger.Warn().Ctx(cmd.Context()).Err(err).Msg("backend version check failed")
		cmd.PrintErrf("Warning: could not check backend version: %v\n", err)
		return nil
	default:
		logger.Debug().Ctx(cmd.Context()).Str("backend_version", v.String()).Msg("backend compatible")
		return nil
	}
}
