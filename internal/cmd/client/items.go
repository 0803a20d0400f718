package client

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rzbill/lodex/internal/catalog"
)

// newSeedCommand constructs the `seed` subcommand.
func newSeedCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert generated items into the collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetUint64("seed")
			if count <= 0 {
				return errors.New("--count must be positive")
			}
			if seed == 0 {
				seed = rand.Uint64()
			}
			n, err := admin(o).Seed(cmd.Context(), count, seed)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"collection": o.collection, "inserted": n, "seed": seed})
		},
	}
	cmd.Flags().Int("count", 1000, "Number of items to generate")
	cmd.Flags().Uint64("seed", 0, "Generator seed (0 picks one at random)")
	return cmd
}

// newClearCommand constructs the `clear` subcommand.
func newClearCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every item of the collection (requires --confirm)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, _ := cmd.Flags().GetBool("confirm")
			if !ok {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return errors.New("refusing to clear without --confirm")
				}
				err := huh.NewConfirm().
					Title("Delete every item of " + o.collection + "?").
					Value(&ok).
					Run()
				if errors.Is(err, huh.ErrUserAborted) || (err == nil && !ok) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "status:", "cancelled")
					return nil
				}
				if err != nil {
					return err
				}
			}
			if err := admin(o).Clear(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "status:", "OK")
			return nil
		},
	}
	cmd.Flags().Bool("confirm", false, "Confirm deletion")
	return cmd
}

// newCountCommand constructs the `count` subcommand.
func newCountCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count items matching a filter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			search, _ := cmd.Flags().GetString("search")
			t, err := openTransport(o)
			if err != nil {
				return err
			}
			defer func() { _ = t.Close() }()
			n, err := t.Count(cmd.Context(), combineFilter(filter, search))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"collection": o.collection, "count": n})
		},
	}
	cmd.Flags().String("filter", "", "CEL filter over item fields")
	cmd.Flags().String("search", "", "Name substring")
	return cmd
}

// newQueryCommand constructs the `query` subcommand.
func newQueryCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run one forward or reverse range query",
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			offset, _ := cmd.Flags().GetInt("offset")
			limit, _ := cmd.Flags().GetInt("limit")
			reverse, _ := cmd.Flags().GetBool("reverse")
			filter, _ := cmd.Flags().GetString("filter")
			search, _ := cmd.Flags().GetString("search")
			if !reverse && to != "" {
				return errors.New("--to requires --reverse")
			}
			if reverse && offset != 0 {
				return errors.New("--offset is not supported with --reverse")
			}
			filter = combineFilter(filter, search)

			t, err := openTransport(o)
			if err != nil {
				return err
			}
			defer func() { _ = t.Close() }()

			var items []catalog.Item
			if reverse {
				items, err = t.Reverse(cmd.Context(), catalog.ReverseQuery{Lower: from, Upper: to, Limit: limit, Filter: filter})
			} else {
				items, err = t.Forward(cmd.Context(), catalog.ForwardQuery{Lower: from, Offset: offset, Limit: limit, Filter: filter})
			}
			if err != nil {
				return err
			}
			if items == nil {
				items = []catalog.Item{}
			}
			return printJSON(cmd.OutOrStdout(), struct {
				Collection string         `json:"collection"`
				Items      []catalog.Item `json:"items"`
			}{o.collection, items})
		},
	}
	cmd.Flags().String("from", "", "Inclusive lower name bound")
	cmd.Flags().String("to", "", "Exclusive upper name bound (reverse only)")
	cmd.Flags().Int("offset", 0, "Matches to skip (forward only)")
	cmd.Flags().Int("limit", 50, "Max items to return")
	cmd.Flags().Bool("reverse", false, "Read descending below --to")
	cmd.Flags().String("filter", "", "CEL filter over item fields")
	cmd.Flags().String("search", "", "Name substring")
	return cmd
}

// newHealthCommand constructs the `health` subcommand.
func newHealthCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := openTransport(o)
			if err != nil {
				return err
			}
			defer func() { _ = t.Close() }()
			status, err := t.Health(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			return nil
		},
	}
}
