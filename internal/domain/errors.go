package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidTicket     = errors.New("invalid ticket token")
)
