package domain

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrGatewayUnavailable    = errors.New("payment gateway unavailable")
	ErrSignatureMismatch     = errors.New("signature mismatch")
	ErrRecordNotFound        = errors.New("record not found")
	ErrStorageFailure        = errors.New("storage failure")
	ErrDuplicateRecord       = errors.New("duplicate record")
	ErrEventAlreadyProcessed = errors.New("event already processed")
	ErrMalformedEvent        = errors.New("malformed gateway event")
	ErrQueueUnavailable      = errors.New("webhook queue unavailable")
)
