package cmd

import (
	"fmt"

	"synapse-digest/internal/feed"

	"github.com/spf13/cobra"
)

func (a *app) composer() *feed.Composer {
	return feed.NewComposer(a.api, a.session, feed.Options{
		PageSize:      a.cfg.Feed.PageSize,
		TrendingLimit: a.cfg.Feed.TrendingLimit,
	})
}

var feedCmd = &cobra.Command{
	Use:   "feed [query...]",
	Short: "Show feed sections (today, trending, personalized, category:<name>, archive[:<page>])",
	Example: "  synapse-digest feed today trending\n" +
		"  synapse-digest feed category:ai archive:2",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"today"}
		}
		qs, err := feed.ParseQueries(args)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		printPage(cmd.OutOrStdout(), a.composer().Compose(cmd.Context(), qs...))
		return nil
	},
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the landing page: today, trending and each category",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		page := a.composer().Home(cmd.Context(), a.cfg.Feed.Categories, a.cfg.Feed.SectionPreview)
		if len(page.Sections) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No articles yet. Check back after the next crawl.")
			return nil
		}
		printPage(cmd.OutOrStdout(), page)
		return nil
	},
}

var foryouCmd = &cobra.Command{
	Use:   "foryou",
	Short: "Show articles picked for your interests",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		fy := feed.NewForYou(a.composer())
		defer fy.Deactivate()
		s := fy.Activate(cmd.Context())
		if s.Locked {
			a.nav.ToLogin()
		}
		printSection(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedCmd, homeCmd, foryouCmd)
}
