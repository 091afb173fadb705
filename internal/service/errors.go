package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")                 // 404
	ErrUnavailable        = errors.New("product unavailable")       // 409
	ErrInsufficientStock  = errors.New("insufficient stock")        // 409
	ErrInvalidTransition  = errors.New("invalid status transition") // 409
	ErrTransactionAborted = errors.New("transaction aborted")       // 503
	ErrUnauthorized       = errors.New("unauthorized")              // 401
)
