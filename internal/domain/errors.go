package domain

import "errors"

var (
	// ErrCatalogEmpty indicates the content source yielded no games.
	ErrCatalogEmpty = errors.New("catalog is empty")
	// ErrNoActiveSession is returned when a session operation arrives with no run in progress.
	ErrNoActiveSession = errors.New("no active session")
	// ErrNotPresenting is returned when an answer arrives outside the question phase.
	ErrNotPresenting = errors.New("session is not presenting a question")
	// ErrNotAnswered is returned when advance is requested before an answer was recorded.
	ErrNotAnswered = errors.New("current question has not been answered")
	// ErrSessionCompleted is returned when a finished session receives further input.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrOptionOutOfRange indicates a selected option index outside the scenario's options.
	ErrOptionOutOfRange = errors.New("option index out of range")
)
