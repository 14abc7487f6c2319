/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "errors"

// Sentinel errors for the normalization and lifecycle engine.
//
// The pure engine functions never fail on fuzzy input: unresolvable temporal
// phrases and malformed draft fields degrade to documented defaults. Only
// genuine caller contract violations are reported as errors.
var (
	// ErrMissingTitle is returned when normalization cannot extract any title
	// from the raw text or the supplied draft.
	ErrMissingTitle = errors.New("task title is missing")

	// ErrReflectionTooShort is returned when a reflection does not meet the
	// configured minimum word count. The transition does not occur and the
	// caller must re-prompt.
	ErrReflectionTooShort = errors.New("reflection does not meet the minimum length")

	// ErrInvalidRecheckAnswer is returned for any priority-recheck answer
	// other than "changed" or "avoiding".
	ErrInvalidRecheckAnswer = errors.New(`recheck answer must be "changed" or "avoiding"`)

	// ErrTaskNotFound is returned by stores when a task id does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrParseUnavailable wraps failures of the external text-understanding
	// collaborator (timeout, transport error, unusable response). It is
	// non-fatal: the pending record remains the final state.
	ErrParseUnavailable = errors.New("task parsing is unavailable")
)
