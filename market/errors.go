package market

import (
	"errors"
	"fmt"
)

// ErrorKind names a parsing or allocation failure. Every kind aborts the
// batch it occurs in.
type ErrorKind string

const (
	KindBrokerNotIdentified           ErrorKind = "broker_not_identified"
	KindDateNotFound                  ErrorKind = "date_not_found"
	KindTickerNotFound                ErrorKind = "ticker_not_found"
	KindSuffixNotFound                ErrorKind = "suffix_not_found"
	KindOperationTypeUnrecognized     ErrorKind = "operation_type_unrecognized"
	KindLineGrammarMismatch           ErrorKind = "line_grammar_mismatch"
	KindRequiredAggregateFieldMissing ErrorKind = "required_aggregate_field_missing"
	KindNoteNumberExhausted           ErrorKind = "note_number_exhausted"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrBrokerNotIdentified           = errors.New("broker not identified")
	ErrDateNotFound                  = errors.New("date not found")
	ErrTickerNotFound                = errors.New("ticker not found")
	ErrSuffixNotFound                = errors.New("suffix not found")
	ErrOperationTypeUnrecognized     = errors.New("unrecognized operation type")
	ErrLineGrammarMismatch           = errors.New("line does not match grammar")
	ErrRequiredAggregateFieldMissing = errors.New("required aggregate field missing")
	ErrNoteNumberExhausted           = errors.New("no free fallback note number")
)

var sentinels = map[ErrorKind]error{
	KindBrokerNotIdentified:           ErrBrokerNotIdentified,
	KindDateNotFound:                  ErrDateNotFound,
	KindTickerNotFound:                ErrTickerNotFound,
	KindSuffixNotFound:                ErrSuffixNotFound,
	KindOperationTypeUnrecognized:     ErrOperationTypeUnrecognized,
	KindLineGrammarMismatch:           ErrLineGrammarMismatch,
	KindRequiredAggregateFieldMissing: ErrRequiredAggregateFieldMissing,
	KindNoteNumberExhausted:           ErrNoteNumberExhausted,
}

// Error is a named failure with the context it happened in. Document and
// Note are filled in as the error travels up the pipeline.
type Error struct {
	Kind     ErrorKind
	Detail   string
	Document string
	Note     string
	Cause    error
}

// NewError builds an *Error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e == nil {
		return "unknown error"
	}
	msg := sentinels[e.Kind].Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Note != "" {
		msg = fmt.Sprintf("note %s: %s", e.Note, msg)
	}
	if e.Document != "" {
		msg = fmt.Sprintf("%s: %s", e.Document, msg)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	return sentinels[e.Kind] == target
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// WithContext annotates the first *Error in err's chain with the document
// and note it was raised for, keeping values that are already set.
func WithContext(err error, document, note string) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Document == "" {
			e.Document = document
		}
		if e.Note == "" {
			e.Note = note
		}
	}
	return err
}
