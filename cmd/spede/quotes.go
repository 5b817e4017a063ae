package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/spede/internal/config"
	"github.com/verte-zerg/spede/internal/model"
	"github.com/verte-zerg/spede/internal/store"
	"github.com/verte-zerg/spede/internal/textfmt"
	"github.com/verte-zerg/spede/internal/words"
)

const (
	dbTimeout       = 10 * time.Second
	listQuoteWidth  = 60
	shortIDLen      = 8
	searchResultMax = 20
)

var (
	quoteAuthor string
	quoteTags   []string
	quoteSearch string
)

func newQuotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Manage the local quote library",
	}

	addCmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a quote to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuotesAddCmd,
	}
	addCmd.Flags().StringVar(&quoteAuthor, "author", "", "quote author")
	addCmd.Flags().StringSliceVar(&quoteTags, "tag", nil, "tag (repeatable)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes in the library",
		Args:  cobra.NoArgs,
		RunE:  runQuotesListCmd,
	}
	listCmd.Flags().StringVar(&quoteSearch, "search", "", "fuzzy filter on text and author")

	removeCmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a quote from the library",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuotesRemoveCmd,
	}

	cmd.AddCommand(addCmd, listCmd, removeCmd)
	return cmd
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

func runQuotesAddCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := withTimeout(dbTimeout)
	defer cancel()
	q, err := st.AddQuote(ctx, model.Quote{
		Content: strings.Join(args, " "),
		Author:  quoteAuthor,
		Tags:    quoteTags,
	})
	if err != nil {
		return fmt.Errorf("failed to add quote: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", q.ID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runQuotesListCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := withTimeout(dbTimeout)
	defer cancel()
	quotes, err := st.ListQuotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list quotes: %w", err)
	}
	if len(quotes) == 0 {
		logErrf("No quotes yet. Add one with: spede quotes add --author NAME TEXT\n")
		return nil
	}
	quotes = filterQuotes(quotes, quoteSearch)
	return writeQuoteTable(cmd.OutOrStdout(), quotes)
}

func runQuotesRemoveCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := withTimeout(dbTimeout)
	defer cancel()
	id, err := resolveQuoteID(ctx, st, args[0])
	if err != nil {
		return err
	}
	if err := st.RemoveQuote(ctx, id); err != nil {
		return fmt.Errorf("failed to remove quote: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// resolveQuoteID expands an ID prefix, as printed by list, to a full ID.
func resolveQuoteID(ctx context.Context, st *store.Store, prefix string) (string, error) {
	quotes, err := st.ListQuotes(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list quotes: %w", err)
	}
	var found []string
	for _, q := range quotes {
		if q.ID == prefix {
			return q.ID, nil
		}
		if strings.HasPrefix(q.ID, prefix) {
			found = append(found, q.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("ambiguous quote id %q matches %d quotes", prefix, len(found))
	}
}

// filterQuotes keeps quotes matching term, best match first. An empty term
// keeps everything in library order.
func filterQuotes(quotes []model.StoredQuote, term string) []model.StoredQuote {
	term = strings.TrimSpace(term)
	if term == "" {
		return quotes
	}
	targets := make([]string, len(quotes))
	for i, q := range quotes {
		targets[i] = q.Output()
	}
	matches := fuzzy.Find(term, targets)
	if len(matches) > searchResultMax {
		matches = matches[:searchResultMax]
	}
	out := make([]model.StoredQuote, 0, len(matches))
	for _, match := range matches {
		out = append(out, quotes[match.Index])
	}
	return out
}

func writeQuoteTable(w io.Writer, quotes []model.StoredQuote) error {
	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, []string{
			shortID(q.ID),
			textfmt.Truncate(q.Content, listQuoteWidth),
			q.Author,
			fmt.Sprintf("%d", len(words.Fields(q.Content))),
		})
	}
	lines := textfmt.FormatTable([]string{"ID", "Quote", "Author", "Words"}, rows, map[int]bool{3: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
