package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ProviderNotFoundError means a category has no registered content provider.
// This is a configuration problem, not a content problem.
type ProviderNotFoundError struct {
	Category string
}

func (e ProviderNotFoundError) Error() string {
	return fmt.Sprintf("no content provider registered for category %q", e.Category)
}

func (e ProviderNotFoundError) Is(target error) bool {
	_, ok := target.(ProviderNotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*ProviderNotFoundError)
	return ok
}

var ErrProviderNotFound = ProviderNotFoundError{}

// NoContentAvailableError means the category corpus is empty even after the
// allow-repeats fallback. Retrying will not help until content is added.
type NoContentAvailableError struct {
	Category string
}

func (e NoContentAvailableError) Error() string {
	return fmt.Sprintf("no content available for category: %s", e.Category)
}

func (e NoContentAvailableError) Is(target error) bool {
	_, ok := target.(NoContentAvailableError)
	if ok {
		return true
	}
	_, ok = target.(*NoContentAvailableError)
	return ok
}

var ErrNoContentAvailable = NoContentAvailableError{}

// ItemDetailsMissingError means a persisted record's item id no longer
// resolves via its provider. The stale record stays in history; a future
// rotation will pick something else once its window passes.
type ItemDetailsMissingError struct {
	Category string
	ItemID   string
}

func (e ItemDetailsMissingError) Error() string {
	return fmt.Sprintf("item %s no longer resolves for category %s", e.ItemID, e.Category)
}

func (e ItemDetailsMissingError) Is(target error) bool {
	_, ok := target.(ItemDetailsMissingError)
	if ok {
		return true
	}
	_, ok = target.(*ItemDetailsMissingError)
	return ok
}

var ErrItemDetailsMissing = ItemDetailsMissingError{}

// DuplicateError represents an insert that collided with an existing row.
type DuplicateError struct {
	Resource string
}

func (e DuplicateError) Error() string {
	if e.Resource == "" {
		return "already exists"
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

func (e DuplicateError) Is(target error) bool {
	_, ok := target.(DuplicateError)
	if ok {
		return true
	}
	_, ok = target.(*DuplicateError)
	return ok
}

var ErrDuplicate = DuplicateError{}
