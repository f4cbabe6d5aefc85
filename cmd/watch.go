package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"synapse-digest/internal/config"
	"synapse-digest/internal/metrics"
	"synapse-digest/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	watchComments  []string
	watchAdminLogs bool
	watchMetrics   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll notifications (and optionally comment threads or server logs) until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg := GetConfig()
		reg := prometheus.NewRegistry()
		rec := metrics.NewCollector(reg)

		a, err := newApp(ctx, cmd, rec)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		var outMu sync.Mutex
		printf := func(format string, args ...any) {
			outMu.Lock()
			defer outMu.Unlock()
			fmt.Fprintf(out, format, args...)
		}

		mgr := worker.NewManager()
		mgr.Add(&worker.Interval{
			Name:     "session",
			Every:    time.Minute,
			Tick:     func(ctx context.Context) { a.session.Refresh(ctx) },
			Metrics:  rec,
			SkipInit: true,
		})

		if a.session.Authenticated() {
			inbox := a.inbox()
			defer inbox.Close()
			last := -1
			var lastMu sync.Mutex
			mgr.Add(&worker.Interval{
				Name:  "notifications",
				Every: config.Duration(cfg.Pollers.Notifications, 60*time.Second),
				Stop:  a.session.Watch(),
				Tick: func(ctx context.Context) {
					if err := inbox.Refresh(ctx); err != nil {
						slog.Warn("watch: notifications refresh failed", "error", err)
						return
					}
					n := inbox.Unread()
					lastMu.Lock()
					changed := n != last
					last = n
					lastMu.Unlock()
					if changed {
						printf("[%s] %d unread notifications\n", time.Now().Format("15:04:05"), n)
					}
				},
				Metrics: rec,
			})
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "Not signed in: notifications are not polled.")
		}

		for _, ref := range watchComments {
			t, err := a.thread(ref)
			if err != nil {
				return err
			}
			defer t.Close()
			ref := ref
			seen := -1
			var seenMu sync.Mutex
			mgr.Add(&worker.Interval{
				Name:  "comments",
				Every: config.Duration(cfg.Pollers.Comments, 30*time.Second),
				Tick: func(ctx context.Context) {
					if err := t.Load(ctx); err != nil {
						slog.Warn("watch: comments refresh failed", "resource", ref, "error", err)
						return
					}
					n := len(t.Comments())
					seenMu.Lock()
					changed := n != seen
					seen = n
					seenMu.Unlock()
					if changed {
						printf("[%s] %s: %d comments\n", time.Now().Format("15:04:05"), ref, n)
					}
				},
				Metrics: rec,
			})
		}

		if watchAdminLogs {
			if err := a.requireSession(); err != nil {
				return err
			}
			tail := a.console().NewLogTail(cfg.Pollers.AdminLogLines)
			defer tail.Close()
			mgr.Add(&worker.Interval{
				Name:  "admin_logs",
				Every: config.Duration(cfg.Pollers.AdminLogs, 5*time.Second),
				Stop:  a.session.Watch(),
				Tick: func(ctx context.Context) {
					if err := tail.Refresh(ctx); err != nil {
						slog.Warn("watch: log refresh failed", "error", err)
						return
					}
					lines := tail.Lines()
					if len(lines) > 0 {
						printf("%s\n", lines[len(lines)-1])
					}
				},
				Metrics: rec,
			})
		}

		addr := watchMetrics
		if addr == "" {
			addr = cfg.Metrics.Addr
		}
		if addr != "" {
			srv := &http.Server{Addr: addr, Handler: metricsMux(reg), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				slog.Info("watch: metrics listening", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("watch: metrics server failed", "error", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		slog.Info("watch: started", "pollers", mgr.Len())
		return mgr.Start(ctx)
	},
}

func metricsMux(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	return mux
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchComments, "comments", nil, "comment threads to poll, e.g. article:<id>,poll:<id>")
	watchCmd.Flags().BoolVar(&watchAdminLogs, "admin-logs", false, "tail the server log (admin only)")
	watchCmd.Flags().StringVar(&watchMetrics, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	rootCmd.AddCommand(watchCmd)
}
