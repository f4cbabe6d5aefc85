package cmd

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"synapse-digest/internal/model"

	"github.com/spf13/cobra"
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <email>",
	Short: "Subscribe an email address to the daily digest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := mail.ParseAddress(args[0]); err != nil {
			return fmt.Errorf("invalid email: %w", err)
		}
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		msg, err := a.api.Subscribe(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg.Message)
		return nil
	},
}

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Show today's quotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		qs, err := a.api.DailyQuotes(cmd.Context())
		if err != nil {
			return err
		}
		if len(qs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No quotes today.")
			return nil
		}
		for _, q := range qs {
			who := q.Author
			if q.Role != "" {
				who += ", " + q.Role
			}
			fmt.Fprintf(cmd.OutOrStdout(), "“%s”\n  - %s\n\n", q.Content, who)
		}
		return nil
	},
}

var (
	settingsDigest    string
	settingsMarketing string
)

func parseToggle(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change email preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireSession(); err != nil {
			return err
		}
		u, err := a.api.Me(cmd.Context(), a.session.Token())
		if err != nil {
			return err
		}
		cur := model.EmailSettings{}
		if u.EmailSettings != nil {
			cur = *u.EmailSettings
		}
		if settingsDigest != "" || settingsMarketing != "" {
			next := cur
			if settingsDigest != "" {
				if next.IsSubscribed, err = parseToggle(settingsDigest); err != nil {
					return err
				}
			}
			if settingsMarketing != "" {
				if next.MarketingOptIn, err = parseToggle(settingsMarketing); err != nil {
					return err
				}
			}
			if cur, err = a.api.UpdateSubscription(cmd.Context(), a.session.Token(), next); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "digest email: %t\nmarketing: %t\n", cur.IsSubscribed, cur.MarketingOptIn)
		return nil
	},
}

var (
	onboardInterests []string
	onboardDigest    bool
	onboardMarketing bool
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Pick interests for the personalized feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(onboardInterests) == 0 {
			return errors.New("pick at least one interest with --interests")
		}
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireSession(); err != nil {
			return err
		}
		in := model.Onboarding{
			Interests:       onboardInterests,
			SubscribeDigest: onboardDigest,
			MarketingOptIn:  onboardMarketing,
		}
		if err := a.api.CompleteOnboarding(cmd.Context(), a.session.Token(), in); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved. Try `synapse-digest foryou`.")
		return nil
	},
}

func init() {
	settingsCmd.Flags().StringVar(&settingsDigest, "digest", "", "daily digest email: on or off")
	settingsCmd.Flags().StringVar(&settingsMarketing, "marketing", "", "product emails: on or off")
	onboardCmd.Flags().StringSliceVar(&onboardInterests, "interests", nil, "comma separated interests, e.g. ai,rust,security")
	onboardCmd.Flags().BoolVar(&onboardDigest, "digest", true, "subscribe to the daily digest email")
	onboardCmd.Flags().BoolVar(&onboardMarketing, "marketing", false, "receive product emails")
	rootCmd.AddCommand(subscribeCmd, quotesCmd, settingsCmd, onboardCmd)
}
