package chat

import "errors"

var (
	// ErrEmptyMessage rejects blank submissions before any session mutation.
	ErrEmptyMessage = errors.New("chat: empty message")
	// ErrBusy rejects a submission while the previous answer is streaming.
	ErrBusy = errors.New("chat: previous message still streaming")
)
