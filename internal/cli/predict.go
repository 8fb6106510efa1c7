package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agrikit/pkg/decision"
	"github.com/matzehuels/agrikit/pkg/errors"
)

// predictCommand creates the predict command.
func (c *CLI) predictCommand() *cobra.Command {
	var features []string

	cmd := &cobra.Command{
		Use:   "predict [tree.json]",
		Short: "Evaluate a threshold decision tree, e.g. a crop recommendation",
		Long: `Walk a decision tree for the given features. Each split sends values at or
below its threshold left. Features that are not given read as 0.`,
		Example: `  agrikit predict crops.json -f rainfall=180 -f temperature=31`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := decision.ReadFile(args[0])
			if err != nil {
				return err
			}
			values, err := parseFeatures(features)
			if err != nil {
				return err
			}
			label := tree.Predict(values)
			loggerFromContext(cmd.Context()).Debug("prediction", "depth", tree.Depth(), "features", len(values))
			fmt.Fprintln(cmd.OutOrStdout(), label)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&features, "feature", "f", nil, "feature as name=value (repeatable)")
	return cmd
}

func parseFeatures(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "feature %q must be name=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "feature %q", name)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}
