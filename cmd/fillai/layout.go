package main

import (
	"fmt"
	"io"
	"math"

	"fillai-backend/application/commands"
	"fillai-backend/application/queries"
	domainconfig "fillai-backend/domain/config"
	"fillai-backend/infrastructure/config"

	"github.com/spf13/cobra"
)

type layoutOptions struct {
	steps  int
	mode   string
	expand bool
	settle bool
}

func layoutCmd(flags *globalFlags) *cobra.Command {
	opts := &layoutOptions{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Simulate the knowledge graph offline and print node positions",
		Long: `Builds the knowledge graph from the demo catalog on in-memory storage,
runs the physics simulation for the given number of steps and prints where
every visible node ended up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, flags, opts)
		},
	}
	cmd.Flags().IntVar(&opts.steps, "steps", 300, "number of simulation steps")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "layout mode: radial or tree (defaults to the configured mode)")
	cmd.Flags().BoolVar(&opts.expand, "expand", false, "expand every category before simulating")
	cmd.Flags().BoolVar(&opts.settle, "settle", false, "simulate until the layout comes to rest, using --steps as the limit")
	return cmd
}

func runLayout(cmd *cobra.Command, flags *globalFlags, opts *layoutOptions) error {
	if opts.steps < 0 {
		return fmt.Errorf("--steps cannot be negative")
	}
	ctx := cmd.Context()

	c, cleanup, err := flags.offlineContainer(ctx, func(cfg *config.Config) {
		cfg.SeedDemo = true
	})
	if err != nil {
		return err
	}
	defer cleanup()

	if err := c.State.Load(ctx); err != nil {
		return err
	}
	if opts.mode != "" {
		if err := c.CommandBus.Send(ctx, commands.SetLayoutModeCommand{Mode: domainconfig.LayoutMode(opts.mode)}); err != nil {
			return err
		}
	}
	if opts.expand {
		raw, err := c.QueryBus.Ask(ctx, queries.ListCategoriesQuery{})
		if err != nil {
			return err
		}
		for _, cat := range raw.([]queries.CategorySummary) {
			if err := c.CommandBus.Send(ctx, commands.ToggleCategoryCommand{CategoryID: cat.ID}); err != nil {
				return err
			}
		}
	}

	steps := opts.steps
	if opts.settle {
		steps, _ = c.Simulation.Settle(opts.steps)
	} else {
		for i := 0; i < opts.steps; i++ {
			c.Simulation.Tick()
		}
	}

	raw, err := c.QueryBus.Ask(ctx, queries.GetGraphDataQuery{})
	if err != nil {
		return err
	}
	printLayout(cmd.OutOrStdout(), raw.(*queries.GetGraphDataResult), steps)
	return nil
}

func printLayout(w io.Writer, g *queries.GetGraphDataResult, steps int) {
	banner(w, fmt.Sprintf("%s layout after %d steps", g.Mode, steps))

	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		rows = append(rows, []string{
			n.ID,
			n.Type,
			fmt.Sprintf("%.1f", n.X),
			fmt.Sprintf("%.1f", n.Y),
			fmt.Sprintf("%.3f", math.Hypot(n.VX, n.VY)),
		})
	}
	table(w, []string{"NODE", "TYPE", "X", "Y", "SPEED"}, rows, func(_, col int, cell string) string {
		if col != 1 {
			return cell
		}
		if c, ok := nodeColors[cell]; ok {
			return c.Sprint(cell)
		}
		return cell
	})

	fmt.Fprintf(w, "\n  %s %d nodes, %d links visible · kinetic energy %.4f",
		statusIcon(g.Stats.Settled), g.Stats.VisibleNodeCount, g.Stats.VisibleLinkCount, g.Stats.KineticEnergy)
	if g.Stats.Settled {
		fmt.Fprintln(w, " · settled")
	} else {
		fmt.Fprintln(w, " · still moving")
	}
}
