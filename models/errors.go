package models

import "errors"

var (
	// ErrSourceUnavailable is returned when today's challenge or its metadata cannot be fetched
	ErrSourceUnavailable = errors.New("submission source unavailable")

	// ErrMemberFetchFailed marks a single member whose submission history could not be fetched
	ErrMemberFetchFailed = errors.New("member submission fetch failed")

	// ErrConfigMissing is returned when a guild configuration no longer resolves
	ErrConfigMissing = errors.New("guild configuration missing")

	// ErrPermissionDenied is returned when the bot cannot post to the announcement channel
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDuplicateWrite is returned by the store when a completion record already exists
	ErrDuplicateWrite = errors.New("completion record already exists")

	// ErrNotFound is returned when a schedule or tracked user does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a schedule or tracked user already exists
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidSchedule is returned for hours outside 0-23 or minutes outside 0-59
	ErrInvalidSchedule = errors.New("invalid schedule")
)
