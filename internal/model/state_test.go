package model

import (
	"errors"
	"testing"
)

func TestStateOf(t *testing.T) {
	if got := StateOf(0, nil); got != StateEmpty {
		t.Errorf("StateOf(0, nil) = %v, want empty", got)
	}
	if got := StateOf(3, nil); got != StatePopulated {
		t.Errorf("StateOf(3, nil) = %v, want populated", got)
	}
	if got := StateOf(3, errors.New("boom")); got != StateFailed {
		t.Errorf("StateOf(3, err) = %v, want failed", got)
	}
}

func TestReactionValid(t *testing.T) {
	for _, r := range Reactions {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if Reaction("heart").Valid() {
		t.Error("heart should not be valid")
	}
}
