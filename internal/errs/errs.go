// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package errs implements the error-code taxonomy of DESIGN.md /
// SPEC_FULL.md §A: a small set of tagged constructors plus predicates that
// callers use to decide whether to treat a failure as an idempotent no-op,
// a permanent conflict, or a transient condition worth retrying.
package errs

import "fmt"

// Code classifies an error for programmatic handling.
type Code string

const (
	Conflict   Code = "conflict"
	NotFound   Code = "not_found"
	BadRequest Code = "bad_request"
	Transient  Code = "transient"
)

// Error is a code-tagged error.
type Error struct {
	code Code
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the tagged error code, or "" if err is not one of ours.
func GetCode(err error) Code {
	var e *Error
	if as(err, &e) {
		return e.code
	}
	return ""
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func NewConflict(msg string) error   { return &Error{code: Conflict, msg: msg} }
func NewNotFound(msg string) error   { return &Error{code: NotFound, msg: msg} }
func NewBadRequest(msg string) error { return &Error{code: BadRequest, msg: msg} }

// NewTransient wraps an external failure (scheduler CLI, RPC disconnect,
// database busy) that is worth retrying under a bounded envelope.
func NewTransient(msg string, cause error) error {
	return &Error{code: Transient, msg: msg, err: cause}
}

func IsConflict(err error) bool   { return GetCode(err) == Conflict }
func IsNotFound(err error) bool   { return GetCode(err) == NotFound }
func IsBadRequest(err error) bool { return GetCode(err) == BadRequest }
func IsTransient(err error) bool  { return GetCode(err) == Transient }
