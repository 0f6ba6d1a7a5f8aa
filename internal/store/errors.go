package store

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateHandle = errors.New("handle_taken")
	ErrNegativeBalance = errors.New("negative_balance")
)
