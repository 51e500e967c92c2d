package nodes

import (
	"errors"
	"fmt"
)

var (
	ErrNodeTypeNameRequired        = errors.New("nodes: node type name is required")
	ErrNodeAggregateIDRequired     = errors.New("nodes: node aggregate id is required")
	ErrContentRepositoryIDRequired = errors.New("nodes: content repository id is required")
	ErrContentStreamRequired       = errors.New("nodes: content stream id is required")
	ErrPropertiesInvalid           = errors.New("nodes: properties do not match node type schema")
	ErrAncestorCycle               = errors.New("nodes: ancestor chain contains a cycle")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
