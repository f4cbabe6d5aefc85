package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"synapse-digest/internal/api"
	"synapse-digest/internal/authprovider"
	"synapse-digest/internal/config"
	"synapse-digest/internal/detach"
	"synapse-digest/internal/metrics"
	"synapse-digest/internal/redisclient"
	"synapse-digest/internal/session"
	"synapse-digest/internal/storage"

	"github.com/spf13/cobra"
)

// app bundles the collaborators every command builds on.
type app struct {
	cfg     config.Config
	kv      storage.KV
	auth    *authprovider.Client
	session *session.Store
	api     *api.Client
	calls   *detach.Queue
	nav     session.Navigator
	closers []func() error
}

// openStore opens the configured device store.
func openStore(cfg config.Config) (storage.KV, func() error, error) {
	switch strings.ToLower(cfg.Store.Driver) {
	case "redis":
		rdb := redisclient.New(cfg.Redis)
		return storage.NewRedisStore(rdb, cfg.Store.Prefix), rdb.Close, nil
	case "memory":
		return storage.NewMemoryStore(), func() error { return nil }, nil
	case "file", "":
		fs, err := storage.NewFileStore(os.ExpandEnv(cfg.Store.Path))
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// newApp wires config, device store, auth provider, session store and API
// client. The session store subscribes for the lifetime of ctx.
func newApp(ctx context.Context, cmd *cobra.Command, rec metrics.Recorder) (*app, error) {
	cfg := GetConfig()
	kv, closeKV, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	timeout := config.Duration(cfg.API.Timeout, 10*time.Second)

	a := &app{cfg: cfg, kv: kv, closers: []func() error{closeKV}}
	a.auth = authprovider.New(cfg.Auth.BaseURL, cfg.Auth.APIKey, kv, timeout)
	a.session = session.New(a.auth)
	a.session.Start(ctx)
	a.session.Refresh(ctx)
	a.api = api.New(cfg.API.BaseURL, api.Options{
		Timeout:   timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Metrics:   rec,
	})
	a.calls = detach.New(context.Background(), timeout)
	a.nav = loginPrompt{w: cmd.ErrOrStderr(), url: cfg.App.LoginURL}
	return a, nil
}

// Close drains detached calls before releasing the store.
func (a *app) Close() {
	a.calls.Close()
	a.session.Close()
	for _, c := range a.closers {
		if err := c(); err != nil {
			slog.Warn("close failed", "error", err)
		}
	}
}

// requireSession fails with a login hint when nobody is signed in.
func (a *app) requireSession() error {
	if a.session.Authenticated() {
		return nil
	}
	a.nav.ToLogin()
	return session.ErrUnauthenticated
}

// loginPrompt is the terminal stand-in for redirecting to the login page.
type loginPrompt struct {
	w   io.Writer
	url string
}

func (p loginPrompt) ToLogin() {
	fmt.Fprintf(p.w, "Sign in first: run `synapse-digest login` (web: %s)\n", p.url)
}

const privacyNotice = "privacy-notice"

// showPrivacyNotice prints the one-time storage notice on first run.
func showPrivacyNotice(cmd *cobra.Command) error {
	kv, closeKV, err := openStore(GetConfig())
	if err != nil {
		slog.Debug("privacy notice skipped", "error", err)
		return nil
	}
	defer closeKV()
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
	defer cancel()
	acks := storage.NewAcknowledgments(kv)
	seen, err := acks.Acknowledged(ctx, privacyNotice)
	if err != nil || seen {
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "SynapseDigest stores your session and poll votes on this device and nothing else. Reactions are anonymous.")
	if err := acks.Acknowledge(ctx, privacyNotice); err != nil {
		slog.Warn("privacy notice: acknowledge failed", "error", err)
	}
	return nil
}
