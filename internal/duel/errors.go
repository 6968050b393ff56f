package duel

import "fmt"

// IntegrityError reports a broken engine invariant: the caller bypassed
// the validate-then-apply protocol, or state references an instance or
// template that does not exist. These are programmer errors, distinct
// from ordinary rule rejections (which are data, not errors).
type IntegrityError struct {
	msg string
}

func (e *IntegrityError) Error() string {
	return "duel: integrity violation: " + e.msg
}

func errIntegrity(format string, args ...any) *IntegrityError {
	return &IntegrityError{msg: fmt.Sprintf(format, args...)}
}
