package storage

import (
	"context"
	"errors"
	"fmt"
)

func receiptKey(pollID string) string {
	return fmt.Sprintf("poll:voted:%s", pollID)
}

func ackKey(name string) string {
	return fmt.Sprintf("ui:ack:%s", name)
}

// Receipts records which option this device voted for, per poll id.
type Receipts struct {
	kv KV
}

func NewReceipts(kv KV) *Receipts {
	return &Receipts{kv: kv}
}

// Lookup returns the chosen option text and whether a receipt exists.
func (r *Receipts) Lookup(ctx context.Context, pollID string) (string, bool, error) {
	v, err := r.kv.Get(ctx, receiptKey(pollID))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Record persists the receipt for pollID.
func (r *Receipts) Record(ctx context.Context, pollID, optionText string) error {
	return r.kv.Set(ctx, receiptKey(pollID), optionText)
}

// Acknowledgments stores one-time UI flags such as a dismissed notice.
type Acknowledgments struct {
	kv KV
}

func NewAcknowledgments(kv KV) *Acknowledgments {
	return &Acknowledgments{kv: kv}
}

func (a *Acknowledgments) Acknowledged(ctx context.Context, name string) (bool, error) {
	return Has(ctx, a.kv, ackKey(name))
}

func (a *Acknowledgments) Acknowledge(ctx context.Context, name string) error {
	return a.kv.Set(ctx, ackKey(name), "true")
}
