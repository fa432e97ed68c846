package services

import "errors"

// Errors shared by the services and mapped to HTTP statuses by the handlers.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrPlayerNotFound     = errors.New("player not found")

	// Validation
	ErrValidationFailed   = errors.New("validation failed")
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrPlayerNameTooLong  = errors.New("player name is too long")
	ErrPlayerSkillInvalid = errors.New("player skill must be between 1 and 5")
	ErrInvalidRoster      = errors.New("invalid roster")
	ErrInvalidScore       = errors.New("invalid score")
	ErrScoreRequired      = errors.New("both scores are required")

	// State
	ErrInvalidStateTransition = errors.New("invalid tournament state transition")
	ErrTournamentFinished     = errors.New("tournament is already finished")
	ErrInvalidMatchState      = errors.New("match cannot take a result in its current state")

	// Auth
	ErrAuthDisabled           = errors.New("organizer authentication is not configured")
	ErrAuthInvalidCredentials = errors.New("invalid organizer password")
)
