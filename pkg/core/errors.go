package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oneconcern/cmon/pkg/core/status"
	"github.com/oneconcern/cmon/pkg/loader"
	"github.com/oneconcern/cmon/pkg/model"
)

// MissingDependenciesError reports the components of a batch which have unresolved issues.
// Nothing is versioned when it is returned.
type MissingDependenciesError struct {
	IDs    model.IDs
	Issues map[string][]loader.Issue
}

func (e *MissingDependenciesError) Error() string {
	var b strings.Builder
	b.WriteString(status.ErrMissingDependencies.Error())
	b.WriteString(":")
	for _, id := range e.IDs {
		b.WriteString("\n  ")
		b.WriteString(id.String())
		issues := e.Issues[id.String()]
		details := make([]string, 0, len(issues))
		for _, issue := range issues {
			details = append(details, issue.Kind.String()+" "+issue.Details)
		}
		if len(details) > 0 {
			b.WriteString(": ")
			b.WriteString(strings.Join(details, "; "))
		}
	}
	return b.String()
}

func (e *MissingDependenciesError) Unwrap() error {
	return status.ErrMissingDependencies
}

// PendingImportError reports components which must be imported before being versioned
type PendingImportError struct {
	IDs model.IDs
}

func (e *PendingImportError) Error() string {
	return fmt.Sprintf("%v: %s", status.ErrPendingImport, e.IDs)
}

func (e *PendingImportError) Unwrap() error {
	return status.ErrPendingImport
}

// OutOfSyncError reports a component tracked without version while it has a history
type OutOfSyncError struct {
	ID model.ID
}

func (e *OutOfSyncError) Error() string {
	return fmt.Sprintf("component %s: %v", e.ID, status.ErrOutOfSync)
}

func (e *OutOfSyncError) Unwrap() error {
	return status.ErrOutOfSync
}

// IntegrityError reports a version missing from the history or the objects of a component
type IntegrityError struct {
	ID      model.ID
	Version string
	Reason  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%v: version %s of %s: %s", status.ErrIntegrity, e.Version, e.ID.StringWithoutVersion(), e.Reason)
}

func (e *IntegrityError) Unwrap() error {
	return status.ErrIntegrity
}

// ValidationError reports invalid input. It matches both ErrValidation and the specific error.
type ValidationError struct {
	Subject string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %v", status.ErrValidation, e.Subject, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{status.ErrValidation, e.Err}
}

func newMissingDependenciesError(components []*loader.Component) *MissingDependenciesError {
	e := &MissingDependenciesError{Issues: make(map[string][]loader.Issue, len(components))}
	for _, c := range components {
		e.IDs = append(e.IDs, c.ID)
		e.Issues[c.ID.String()] = c.Issues
	}
	sort.Sort(e.IDs)
	return e
}
