// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Kind is a stable machine-readable error category. Controllers map kinds
// to HTTP status codes; callers branch on them instead of message text.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindInvalidAudience   Kind = "invalid_audience"
	KindNoRecipients      Kind = "no_recipients"
	KindIllegalTransition Kind = "illegal_transition"
	KindAlreadySent       Kind = "already_sent"
	KindAlreadySending    Kind = "already_sending"
	KindNotSupported      Kind = "not_supported"
	KindDelivery          Kind = "delivery"
)

// Error carries a kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the kind from err, or "" for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is lets errors.Is match two kinded errors by kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func NewValidation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewCampaignNotFound(id int) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("campaign with ID %d not found", id)}
}

func NewInvalidAudience(msg string) error {
	return &Error{Kind: KindInvalidAudience, Message: msg}
}

func NewNoRecipients(id int) error {
	return &Error{Kind: KindNoRecipients, Message: fmt.Sprintf("campaign %d resolved to zero eligible recipients", id)}
}

func NewIllegalTransition(id int, status, op string) error {
	return &Error{Kind: KindIllegalTransition, Message: fmt.Sprintf("cannot %s campaign %d in status %q", op, id, status)}
}

func NewAlreadySent(id int) error {
	return &Error{Kind: KindAlreadySent, Message: fmt.Sprintf("campaign %d was already sent", id)}
}

func NewAlreadySending(id int) error {
	return &Error{Kind: KindAlreadySending, Message: fmt.Sprintf("campaign %d is already sending", id)}
}

func NewNotSupported(msg string) error {
	return &Error{Kind: KindNotSupported, Message: msg}
}

func NewDelivery(msg string, err error) error {
	return &Error{Kind: KindDelivery, Message: msg, Err: err}
}
