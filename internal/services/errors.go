package services

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("client not found")

const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// ConflictError reports a write that would break name or email uniqueness.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	if e.Field == FieldEmail {
		return fmt.Sprintf("Email '%s' already exists.", e.Value)
	}
	return fmt.Sprintf("Client '%s' already exists.", e.Value)
}

// ValidationError maps a form field to a human message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range []string{FieldName, FieldEmail, FieldPhone} {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, " ")
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// UserMessage returns the text shown on a form for conflict and validation
// errors, and false for anything else.
func UserMessage(err error) (string, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Error(), true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error(), true
	}
	return "", false
}
