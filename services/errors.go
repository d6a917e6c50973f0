package services

import "errors"

// Sentinel errors shared across services and the HTTP mapping layer.
var (
	// Not found (404-equivalent).
	ErrNotFound            = errors.New("requested resource not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrDrawNotFound        = errors.New("draw not found")

	// Invalid input (400-equivalent): the caller sent something malformed.
	ErrValidationFailed         = errors.New("validation failed")
	ErrNotEnoughParticipants    = errors.New("not enough participants (minimum 2 required)")
	ErrRatingRequired           = errors.New("rating-based seeding requires a rating on every participant")
	ErrUnknownSeedingMethod     = errors.New("unknown seeding method")
	ErrUnknownBracketSource     = errors.New("bracket source type must be CUSTOM, RANDOM or GROUP_RANK")
	ErrGroupSizeOptionRequired  = errors.New("exactly one of number_of_groups or participants_per_group must be set")
	ErrInvalidGroupCount        = errors.New("number of groups must leave at least two participants per group")
	ErrInvalidAdvancingCount    = errors.New("participants advancing must be between 1 and the smallest group size")
	ErrInvalidMatchupsPerPair   = errors.New("matchups per pair must be at least 1")
	ErrWinnerNotInMatch         = errors.New("winner must be one of the match sides")
	ErrVirtualCannotAdvance     = errors.New("a virtual participant cannot fill an advancing slot")
	ErrNotVirtualParticipant    = errors.New("participant is not a virtual placeholder")
	ErrParticipantInactive      = errors.New("participant has withdrawn or been disqualified")
	ErrNoMatchingSource         = errors.New("no virtual participant matches the given advancing source")
	ErrTournamentNameRequired   = errors.New("tournament name is required")
	ErrDisplayNameRequired      = errors.New("participant display name is required")
	ErrUnsupportedLogoType      = errors.New("logo must be a PNG or JPEG image")
	ErrTournamentInvalidDates   = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidCap     = errors.New("tournament max participants must be positive")
	ErrTournamentInvalidStatus  = errors.New("invalid tournament status provided")
	ErrInvalidStatusTransition  = errors.New("invalid tournament status transition")

	// Invalid state (409-equivalent): the operation clashes with what already
	// exists.
	ErrParticipantsNotLocked  = errors.New("participants must be locked before generating a draw")
	ErrParticipantsLocked     = errors.New("participant list is locked for draw generation")
	ErrBracketAlreadyExists   = errors.New("a bracket has already been generated for this tournament")
	ErrGroupsAlreadyExist     = errors.New("groups have already been generated for this tournament")
	ErrGroupsNotGenerated     = errors.New("groups must be generated before a group-fed bracket")
	ErrGroupAlreadyScheduled  = errors.New("group already has matches")
	ErrGroupTooSmall          = errors.New("group needs at least two members")
	ErrDrawNotDraft           = errors.New("draw is not in draft status")
	ErrMatchAlreadyFinal      = errors.New("match result can no longer change")
	ErrMatchSelfPlay          = errors.New("both sides of a match would reference the same participant")
	ErrRegistrationNotOpen    = errors.New("tournament registration is not open")
	ErrTournamentFull         = errors.New("tournament registration is full")
	ErrCannotUnlockAfterDraw  = errors.New("cannot unlock participants after a draw has been applied")
	ErrAlreadyResolved        = errors.New("virtual participant has already been resolved")
	ErrStorageNotConfigured   = errors.New("object storage is not configured")
)
