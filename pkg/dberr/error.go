// Package dberr provides the core's structured error type and the
// return-code enum shared by the binder, planner and execution engine.
package dberr

import (
	"fmt"
	"runtime"
	"strings"
)

// Code is the return-code enum from the external-interfaces contract.
// RecordEOF is a normal control value, never an error that escapes the
// execution root.
type Code string

const (
	Success                 Code = "SUCCESS"
	InvalidArgument         Code = "INVALID_ARGUMENT"
	Internal                Code = "INTERNAL"
	Unimplemented           Code = "UNIMPLEMENTED"
	RecordEOF               Code = "RECORD_EOF"
	SchemaTableNotExist     Code = "SCHEMA_TABLE_NOT_EXIST"
	SchemaFieldMissing      Code = "SCHEMA_FIELD_MISSING"
	SchemaFieldNotExist     Code = "SCHEMA_FIELD_NOT_EXIST"
	SchemaFieldTypeMismatch Code = "SCHEMA_FIELD_TYPE_MISMATCH"
)

// Category classifies an error for handling strategy, independent of its
// exact Code.
type Category int

const (
	CategoryUser Category = iota
	CategorySystem
	CategoryInternal
)

// DBError is a structured error carrying a return Code, a classification
// Category, and enough context to diagnose where in the pipeline it
// originated.
type DBError struct {
	Code      Code
	Category  Category
	Message   string
	Detail    string
	Operation string
	Component string
	Cause     error
	Stack     []uintptr
}

// New creates a DBError with the given code and message.
func New(code Code, category Category, message string) *DBError {
	return &DBError{
		Code:     code,
		Category: category,
		Message:  message,
		Stack:    captureStack(),
	}
}

// Newf is New with a formatted message.
func Newf(code Code, category Category, format string, args ...any) *DBError {
	return New(code, category, fmt.Sprintf(format, args...))
}

// Wrap attaches operation/component context to err. If err is already a
// DBError, the context fills in only the fields that are still empty.
func Wrap(err error, code Code, operation, component string) *DBError {
	if err == nil {
		return nil
	}
	if dbErr, ok := err.(*DBError); ok {
		if dbErr.Operation == "" {
			dbErr.Operation = operation
		}
		if dbErr.Component == "" {
			dbErr.Component = component
		}
		return dbErr
	}
	return &DBError{
		Code:      code,
		Category:  CategoryInternal,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
		Stack:     captureStack(),
	}
}

func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}

func (e *DBError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}
	if e.Operation != "" {
		b.WriteString(fmt.Sprintf(" (operation: %s", e.Operation))
		if e.Component != "" {
			b.WriteString(fmt.Sprintf(", component: %s", e.Component))
		}
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}
	return b.String()
}

func (e *DBError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, dberr.New(code, ...)) match purely on Code.
func (e *DBError) Is(target error) bool {
	t, ok := target.(*DBError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// FormatStack renders the stack captured when the error was created as a
// human-readable trace, one function and file:line pair per frame.
func (e *DBError) FormatStack() string {
	if len(e.Stack) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(e.Stack)
	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	return b.String()
}

// ErrRecordEOF is the sentinel no-more-rows value operators return from
// Next(). It is a normal control signal and must never escape the
// execution root as a reported error.
var ErrRecordEOF = New(RecordEOF, CategoryInternal, "no more records")

// IsEOF reports whether err is the RecordEOF sentinel.
func IsEOF(err error) bool {
	dbErr, ok := err.(*DBError)
	return ok && dbErr.Code == RecordEOF
}
