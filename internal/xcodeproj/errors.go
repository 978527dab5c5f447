package xcodeproj

import (
	"fmt"
	"strings"
)

// TemplateError represents an error executing one of the embedded templates
type TemplateError struct {
	Name    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s: %s", e.Name, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// ArchiveError represents a failure while compressing or packaging the file tree
type ArchiveError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ArchiveError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("archive error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("archive error: %s", msg)
}

func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

// GraphError lists every consistency problem found in a project graph
type GraphError struct {
	Problems []string
}

func (e *GraphError) Error() string {
	return "invalid project graph: " + strings.Join(e.Problems, "; ")
}
