package feed

import (
	"context"
	"sync"
)

// ForYou is the personalized tab. It fetches at most once per activation.
type ForYou struct {
	c *Composer

	mu      sync.Mutex
	fetched bool
	section Section
}

func NewForYou(c *Composer) *ForYou {
	return &ForYou{c: c}
}

// Activate fetches the personalized section unless this activation already
// has it. A failed or locked fetch leaves the view un-fetched.
func (f *ForYou) Activate(ctx context.Context) Section {
	f.mu.Lock()
	if f.fetched {
		s := f.section
		f.mu.Unlock()
		return s
	}
	f.mu.Unlock()
	return f.Refresh(ctx)
}

// Refresh fetches regardless of activation state.
func (f *ForYou) Refresh(ctx context.Context) Section {
	s := f.c.fetch(ctx, Query{Kind: Personalized})
	f.mu.Lock()
	defer f.mu.Unlock()
	f.section = s
	f.fetched = s.Err == nil && !s.Locked
	return s
}

// Deactivate ends the activation; the next Activate fetches again.
func (f *ForYou) Deactivate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = false
	f.section = Section{}
}
