package command

import "fmt"

// ParseError reports a custom command string that cannot be tokenized,
// typically from unbalanced quotes.
type ParseError struct {
	Raw string
	Err error
}

// Error formats the parse failure for logs and UI.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid command syntax: %v", e.Err)
}

// Unwrap exposes the underlying tokenizer error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError reports an assembled vector that failed the shallow
// structural check. It is produced before any process is spawned.
type ValidationError struct {
	Reason string
}

// Error returns the rejection reason.
func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Reason
}
