package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agrikit/pkg/graph"
	"github.com/matzehuels/agrikit/pkg/toolkit"
)

// topologyCommand creates the topology command group.
func (c *CLI) topologyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "topology",
		Aliases: []string{"topo"},
		Short:   "Query and draw the field network topology",
		Long: `Query a network topology stored as JSON:

  {"nodes": [{"id": "hub"}], "edges": [{"from": "hub", "to": "tower-1", "weight": 2}]}

Links are undirected. Extra links can be seeded from [topology] in the
config file.`,
	}

	cmd.AddCommand(c.topologyReachCommand())
	cmd.AddCommand(c.topologyPathCommand())
	cmd.AddCommand(c.topologyDOTCommand())
	cmd.AddCommand(c.topologySVGCommand())

	return cmd
}

// openTopology loads path into a toolkit. An empty path uses the configured
// topology only.
func (c *CLI) openTopology(cmd *cobra.Command, path string) (*toolkit.Toolkit, error) {
	var opts []toolkit.Option
	if path != "" {
		g, err := graph.ReadTopologyFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, toolkit.WithTopology(g))
	}
	return c.newToolkit(cmd.Context(), opts...)
}

func (c *CLI) topologyReachCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "reach [start]",
		Short: "List nodes reachable from start, nearest layers first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := c.openTopology(cmd, file)
			if err != nil {
				return err
			}
			defer tk.Close()

			nodes := tk.Reachable(args[0])
			for _, n := range nodes {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			printSuccess("%s reaches %s", args[0], StyleNumber.Render(strconv.Itoa(len(nodes)-1))+" nodes")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "topology JSON file")
	return cmd
}

func (c *CLI) topologyPathCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "path [from] [to]",
		Short: "Find the lowest-weight route between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := c.openTopology(cmd, file)
			if err != nil {
				return err
			}
			defer tk.Close()

			path, cost, ok := tk.Route(args[0], args[1])
			if !ok {
				printWarning("No route from %s to %s", args[0], args[1])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(path, " "+iconArrow+" "))
			printKeyValue(statusOut, "cost", strconv.FormatFloat(cost, 'f', -1, 64))
			printKeyValue(statusOut, "hops", strconv.Itoa(len(path)-1))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "topology JSON file")
	return cmd
}

func (c *CLI) topologyDOTCommand() *cobra.Command {
	var file, output string
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Print the topology as Graphviz DOT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := c.openTopology(cmd, file)
			if err != nil {
				return err
			}
			defer tk.Close()
			return writeData(cmd.OutOrStdout(), output, []byte(tk.TopologyDOT()))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "topology JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) topologySVGCommand() *cobra.Command {
	var file, output string
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Render the topology to SVG with Graphviz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tk, err := c.openTopology(cmd, file)
			if err != nil {
				return err
			}
			defer tk.Close()

			spinner := newSpinnerWithContext(ctx, "Rendering topology...")
			spinner.Start()
			svg, err := graph.RenderSVG(ctx, tk.TopologyDOT())
			if err != nil {
				spinner.StopWithError("Render failed")
				return fmt.Errorf("render: %w", err)
			}
			spinner.StopWithSuccess("Rendered topology")
			return writeData(cmd.OutOrStdout(), output, svg)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "topology JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "topology.svg", "output file (- for stdout)")
	return cmd
}
