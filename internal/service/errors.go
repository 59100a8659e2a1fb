package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/objectives/internal/repository"
)

var (
	// ErrInvalidInput marks a request missing a required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrHasChildren rejects a non-cascading delete of an objective that
	// still has children.
	ErrHasChildren = fmt.Errorf("objective has children: %w", repository.ErrConstraint)
	// ErrCycle rejects a parent assignment that would make an objective its
	// own ancestor, and is reported when stored data already contains one.
	ErrCycle = fmt.Errorf("objective hierarchy cycle: %w", repository.ErrConstraint)
)
