package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors, rejected before any write.
	ErrValidationFailed           = errors.New("validation failed")
	ErrTournamentNameRequired     = errors.New("tournament name is required")
	ErrTournamentInvalidRegDate   = errors.New("tournament registration end date must be before start date")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidCapacity  = errors.New("tournament team capacity must be positive")
	ErrTournamentInvalidFormat    = errors.New("invalid tournament format")
	ErrRegistrationNotOpen        = errors.New("tournament registration is not open")
	ErrTournamentFull             = errors.New("tournament registration is full")
	ErrTeamNameRequired           = errors.New("team name is required")
	ErrRosterEmpty                = errors.New("team roster must include at least one player")
	ErrReportScoresRequired       = errors.New("report must include both scores")
	ErrEvidenceRequired           = errors.New("report must include at least one evidence item")

	// Authorization errors.
	ErrForbiddenOperation  = errors.New("operation not allowed for the current user")
	ErrNotMatchParticipant = errors.New("team is not a participant of this match")
	ErrNotTeamCaptain      = errors.New("only the team captain can act for this team")
	ErrOrganizerOnly       = errors.New("only the tournament organizer can perform this action")

	// State-invariant violations.
	ErrMatchNotReportable      = errors.New("match is not accepting reports in its current state")
	ErrMatchAlreadyApproved    = errors.New("match result has already been approved")
	ErrMatchNotApproved        = errors.New("match result has not been approved")
	ErrReportAlreadySubmitted  = errors.New("team has already submitted a report for this stage")
	ErrSecondaryNotRequested   = errors.New("secondary evidence has not been requested for this match")
	ErrKnockoutDrawNotAllowed  = errors.New("knockout match cannot end drawn without penalties enabled")
	ErrStageNotComplete        = errors.New("stage has unapproved matches")
	ErrStageAlreadyProgressed  = errors.New("next stage fixtures already exist")
	ErrNoFurtherStages         = errors.New("tournament has no further stages to generate")
	ErrTournamentNotInProgress = errors.New("tournament is not in progress")
	ErrFixturesAlreadyExist    = errors.New("fixtures have already been generated for this tournament")
	ErrNotEnoughApprovedTeams  = errors.New("not enough approved teams to start the tournament")
	ErrReplayNotRequested      = errors.New("no replay request is pending on this match")
	ErrReplayAlreadyRequested  = errors.New("a replay request is already pending on this match")
	ErrReplayNotAccepted       = errors.New("replay request has not been accepted by the opponent")

	// Entity-specific not-found errors.
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
)
