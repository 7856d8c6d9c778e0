package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSettled is reported by a Result that was never assigned.
	ErrNotSettled = errors.New("task did not complete")

	ErrNoPrivilegedSession = errors.New("no privileged session for region")

	// ErrNoScopedSession is the skip reason when no tenant session was handed over.
	ErrNoScopedSession = errors.New("no scoped session available")
)

// AuthError means the region-level identity exchange failed. It degrades the
// session-dependent fields of every tenant in the region.
type AuthError struct {
	Region Region
	Cause  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth [%s]: %v", e.Region, e.Cause)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// ScopeError means the role assumption for a single tenant failed.
type ScopeError struct {
	TenantID string
	Cause    error
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("scope [%s]: %v", e.TenantID, e.Cause)
}

func (e *ScopeError) Unwrap() error {
	return e.Cause
}

// SourceError means one fetcher could not produce its signal.
type SourceError struct {
	Source Source
	Cause  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Cause)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// SkippedError means a fetcher was deliberately not attempted because a
// prerequisite was unavailable.
type SkippedError struct {
	Source Source
	Reason error
}

func (e *SkippedError) Error() string {
	return fmt.Sprintf("%s skipped: %v", e.Source, e.Reason)
}

func (e *SkippedError) Unwrap() error {
	return e.Reason
}
