package cmd

import (
	"context"
	"fmt"

	"synapse-digest/internal/card"
	"synapse-digest/internal/model"

	"github.com/spf13/cobra"
)

func (a *app) card(art model.Article) *card.Card {
	return card.New(art, card.Deps{
		Reactor:   a.api,
		Bookmarks: a.api,
		Session:   a.session,
		Nav:       a.nav,
		Calls:     a.calls,
	})
}

// resolveArticle accepts a slug, or "random".
func (a *app) resolveArticle(ctx context.Context, ref string) (model.Article, error) {
	if ref == "random" {
		return a.api.RandomArticle(ctx)
	}
	return a.api.ArticleBySlug(ctx, ref)
}

var reactCmd = &cobra.Command{
	Use:   "react <slug> <fire|mindblown|skeptical>...",
	Short: "Click reactions on an article, in order",
	Long: "Each tag is one click: a new tag selects it, the active tag clears it,\n" +
		"another tag switches. Counters update locally and sync in the background.",
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		art, err := a.resolveArticle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		c := a.card(art)
		for _, tag := range args[1:] {
			if err := c.Select(model.Reaction(tag)); err != nil {
				return fmt.Errorf("%w: %q", err, tag)
			}
			active, _ := c.Active()
			printCounters(cmd.OutOrStdout(), c.Counters(), active)
		}
		return nil
	},
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <slug>",
	Short: "Save an article to your bookmarks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		art, err := a.resolveArticle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		res := a.card(art).Bookmark(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), res)
		if res == card.BookmarkFailed {
			return fmt.Errorf("bookmark %s failed", art.ID)
		}
		return nil
	},
}

var unbookmark bool

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks [article-id]",
	Short: "List bookmarks, or remove one with --remove",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireSession(); err != nil {
			return err
		}
		if unbookmark {
			if len(args) != 1 {
				return fmt.Errorf("--remove needs an article id")
			}
			if err := a.api.RemoveBookmark(cmd.Context(), a.session.Token(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed")
			return nil
		}
		items, err := a.api.Bookmarks(cmd.Context(), a.session.Token())
		if err != nil {
			return err
		}
		if model.StateOf(len(items), nil) == model.StateEmpty {
			fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks yet.")
			return nil
		}
		w := newTable(cmd.OutOrStdout())
		for _, b := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", b.ArticleID, b.Title, b.URL)
		}
		return w.Flush()
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <slug> <twitter|linkedin>",
	Short: "Print a share link for an article",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		art, err := a.resolveArticle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		u, err := card.ShareURL(card.Platform(args[1]), art)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	},
}

func init() {
	bookmarksCmd.Flags().BoolVar(&unbookmark, "remove", false, "remove the given bookmark")
	rootCmd.AddCommand(reactCmd, bookmarkCmd, bookmarksCmd, shareCmd)
}
