// Package poll implements the daily poll widget with optimistic voting and
// a per-device vote receipt.
package poll

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"

	"synapse-digest/internal/detach"
	"synapse-digest/internal/model"
)

var (
	ErrNoPoll        = errors.New("no active poll")
	ErrUnknownOption = errors.New("unknown poll option")
)

// Source reads the daily poll and records votes.
type Source interface {
	DailyPoll(ctx context.Context) (*model.Poll, error)
	Vote(ctx context.Context, token, pollID, optionID string) error
}

// ReceiptStore persists which option this device chose, per poll.
type ReceiptStore interface {
	Lookup(ctx context.Context, pollID string) (string, bool, error)
	Record(ctx context.Context, pollID, optionText string) error
}

// TokenSource yields the bearer token at call time.
type TokenSource interface {
	Token() string
}

// State is the widget render state.
type State int

const (
	Loading State = iota
	Empty
	Open
	Voted
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Open:
		return "open"
	case Voted:
		return "voted"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Widget holds one daily poll and this device's vote.
type Widget struct {
	src      Source
	receipts ReceiptStore
	tokens   TokenSource
	calls    *detach.Queue

	mu     sync.Mutex
	state  State
	poll   *model.Poll
	choice string
	err    error
	closed bool
}

// New builds a widget. calls runs the vote request off the caller's path.
func New(src Source, receipts ReceiptStore, tokens TokenSource, calls *detach.Queue) *Widget {
	return &Widget{src: src, receipts: receipts, tokens: tokens, calls: calls}
}

// Load fetches the daily poll. A stored receipt for the same poll id puts
// the widget straight into Voted.
func (w *Widget) Load(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.state = Loading
	w.mu.Unlock()

	p, err := w.src.DailyPoll(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if err != nil {
		w.state, w.err, w.poll = Failed, err, nil
		return err
	}
	w.err = nil
	if p == nil {
		w.state, w.poll = Empty, nil
		return nil
	}
	w.poll = p
	w.state = Open
	w.choice = ""
	if w.receipts == nil {
		return nil
	}
	text, ok, rerr := w.receipts.Lookup(ctx, p.ID)
	if rerr != nil {
		slog.Warn("poll: read receipt failed", "poll", p.ID, "error", rerr)
		return nil
	}
	if ok {
		w.state, w.choice = Voted, text
	}
	return nil
}

// Vote counts optionID locally, stores the receipt and sends the vote in
// the background. Voting again is a no-op. The local count is kept when the
// server call fails.
func (w *Widget) Vote(ctx context.Context, optionID string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	if w.poll == nil {
		w.mu.Unlock()
		return ErrNoPoll
	}
	if w.state == Voted {
		w.mu.Unlock()
		return nil
	}
	idx := -1
	for i, o := range w.poll.Options {
		if o.ID == optionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.mu.Unlock()
		return ErrUnknownOption
	}
	w.poll.Options[idx].Votes++
	w.state = Voted
	w.choice = w.poll.Options[idx].Text
	pollID, text := w.poll.ID, w.choice
	w.mu.Unlock()

	if w.receipts != nil {
		if err := w.receipts.Record(ctx, pollID, text); err != nil {
			slog.Warn("poll: store receipt failed", "poll", pollID, "error", err)
		}
	}
	token := ""
	if w.tokens != nil {
		token = w.tokens.Token()
	}
	send := func(ctx context.Context) {
		if err := w.src.Vote(ctx, token, pollID, optionID); err != nil {
			slog.Warn("poll: vote sync failed", "poll", pollID, "option", optionID, "error", err)
		}
	}
	if w.calls == nil || !w.calls.Go(send) {
		send(ctx)
	}
	return nil
}

// Close stops the widget from applying further responses.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// State returns the render state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Err is the load error when State is Failed.
func (w *Widget) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Poll returns a copy of the displayed poll, nil when there is none.
func (w *Widget) Poll() *model.Poll {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.poll == nil {
		return nil
	}
	cp := *w.poll
	cp.Options = append([]model.PollOption(nil), w.poll.Options...)
	return &cp
}

// Choice is the text of the option this device voted for.
func (w *Widget) Choice() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.choice, w.state == Voted
}

// TotalVotes sums the displayed option counts.
func (w *Widget) TotalVotes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.poll == nil {
		return 0
	}
	return total(w.poll.Options)
}

// Percentages returns one rounded share per option in display order.
func (w *Widget) Percentages() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.poll == nil {
		return nil
	}
	return Percentages(w.poll.Options)
}

// Percentages computes round(votes/total*100) per option; all zero when no
// votes were cast.
func Percentages(opts []model.PollOption) []int {
	out := make([]int, len(opts))
	t := total(opts)
	if t == 0 {
		return out
	}
	for i, o := range opts {
		out[i] = int(math.Round(float64(o.Votes) / float64(t) * 100))
	}
	return out
}

func total(opts []model.PollOption) int {
	n := 0
	for _, o := range opts {
		n += o.Votes
	}
	return n
}
