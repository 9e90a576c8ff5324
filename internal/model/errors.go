package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionCompleted     = errors.New("session is completed and cannot be modified")
	ErrSessionNotCalculated = errors.New("session has not been calculated")
	ErrNoParticipants       = errors.New("session has no participants")

	// Participant errors
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrEmptyParticipantName = errors.New("participant name must not be empty")

	// Item errors
	ErrInvalidPrice  = errors.New("item price must be a non-negative finite number")
	ErrEmptyItemName = errors.New("item name must not be empty")

	// Bill errors
	ErrBillNotFound = errors.New("bill not found")

	// Receipt file errors
	ErrReceiptNotFound = errors.New("receipt file not found")
)
