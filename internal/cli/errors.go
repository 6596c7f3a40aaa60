package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type confirmRequiredError struct {
	count int
}

func (e confirmRequiredError) Error() string {
	return fmt.Sprintf("refusing to delete %d project(s) without --yes", e.count)
}

func errNeedsConfirm(count int) error {
	return confirmRequiredError{count: count}
}
