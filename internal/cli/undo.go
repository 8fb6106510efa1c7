package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/agrikit/pkg/errors"
	"github.com/matzehuels/agrikit/pkg/store"
	"github.com/matzehuels/agrikit/pkg/toolkit"
	"github.com/matzehuels/agrikit/pkg/undo"
)

// undoCommand creates the undo command group.
func (c *CLI) undoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Inspect and roll back logged admin actions",
		Long: `Work with an admin action log: a JSON array of action records, oldest
first, as written by the platform when admins create, update or delete
entities.

Undo writes to an entity store. With --state the store is a JSON file of
entities ({"user": {"12": {...}}}); without it the store configured under
[store] is used.`,
	}

	cmd.AddCommand(c.undoHistoryCommand())
	cmd.AddCommand(c.undoReplayCommand())

	return cmd
}

func (c *CLI) undoHistoryCommand() *cobra.Command {
	var logPath string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged actions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := c.newToolkit(cmd.Context(), toolkit.WithStore(store.NewMemoryStore()))
			if err != nil {
				return err
			}
			defer tk.Close()
			if err := loadActionLog(cmd.Context(), tk, logPath); err != nil {
				return err
			}

			history := tk.UndoHistory()
			rows := make([][]string, len(history))
			for i, r := range history {
				rows[i] = []string{strconv.Itoa(i + 1), r.Kind.String(), fmt.Sprintf("%s #%d", r.EntityType, r.EntityID),
					r.Description, r.Timestamp.Format("2006-01-02 15:04")}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Action", "Entity", "Description", "At"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&logPath, "log", "l", "", "action log JSON file (required)")
	_ = cmd.MarkFlagRequired("log")
	return cmd
}

type replayOpts struct {
	logPath   string
	statePath string
	output    string
	count     int
	pick      bool
}

func (c *CLI) undoReplayCommand() *cobra.Command {
	opts := replayOpts{}
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Undo the most recent actions against an entity store",
		Example: `  # Undo the last action and print the resulting entities
  agrikit undo replay --log actions.json --state entities.json

  # Choose interactively how far to roll back
  agrikit undo replay --log actions.json --state entities.json --pick -o restored.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.logPath, "log", "l", "", "action log JSON file (required)")
	cmd.Flags().StringVarP(&opts.statePath, "state", "s", "", "entity state JSON file (default: configured store)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "where to write the resulting state (default stdout)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "number of actions to undo")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the rollback depth interactively")
	_ = cmd.MarkFlagRequired("log")
	return cmd
}

func (c *CLI) runReplay(ctx context.Context, out io.Writer, opts replayOpts) error {
	var mem *store.MemoryStore
	var tkOpts []toolkit.Option
	if opts.statePath != "" {
		mem = store.NewMemoryStore()
		f, err := os.Open(opts.statePath)
		if err != nil {
			return fmt.Errorf("open state: %w", err)
		}
		err = mem.ReadJSON(f)
		f.Close()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read state %s", opts.statePath)
		}
		tkOpts = append(tkOpts, toolkit.WithStore(mem))
	}

	tk, err := c.newToolkit(ctx, tkOpts...)
	if err != nil {
		return err
	}
	defer tk.Close()
	if err := loadActionLog(ctx, tk, opts.logPath); err != nil {
		return err
	}

	count := opts.count
	if opts.pick {
		model, err := tea.NewProgram(NewHistoryModel(tk.UndoHistory()), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		count = model.(HistoryModel).Selected
		if count == 0 {
			printInfo("Nothing undone")
			return nil
		}
	}

	failed := 0
	for i := 0; i < count; i++ {
		res := tk.Undo(ctx)
		if errors.Is(res.Err, errors.ErrCodeNotFound) {
			printInfo("Action log exhausted after %d undo(s)", i)
			break
		}
		switch {
		case res.Err != nil:
			failed++
			printError("%s", res.Summary())
			printDetail("%s", res.Err)
		case res.NeedsSecretReissue():
			printWarning("%s", res.Summary())
			printDetail("placeholder written to: %v", res.Placeholders)
		default:
			printSuccess("%s", res.Summary())
		}
	}

	if mem != nil {
		if opts.output == "" || opts.output == "-" {
			if err := mem.WriteJSON(out); err != nil {
				return err
			}
		} else {
			f, err := os.Create(opts.output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := mem.WriteJSON(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printFile(opts.output)
		}
	}

	if failed > 0 {
		return errors.New(errors.ErrCodeRestorationFailed, "%d undo(s) failed", failed)
	}
	return nil
}

// loadActionLog pushes the records in path onto tk's undo log, oldest
// first.
func loadActionLog(ctx context.Context, tk *toolkit.Toolkit, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read action log: %w", err)
	}
	var records []undo.ActionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode action log %s", path)
	}
	for _, r := range records {
		tk.Record(ctx, r)
	}
	loggerFromContext(ctx).Debug("loaded action log", "records", len(records))
	return nil
}
