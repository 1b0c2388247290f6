package profiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Outcome is what a presentation layer shows after a submission.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeDuplicateUsername Outcome = "duplicate_username"
	OutcomeFailure           Outcome = "failure"
)

// User-facing messages for each outcome.
const (
	MessageSuccess           = "Your videographer profile has been submitted successfully!"
	MessageDuplicateUsername = "The username %q already exists. Please choose a different one."
	MessageFailure           = "Your profile could not be saved. Please try again later."
)

// Result is the outcome of one submission together with its message.
type Result struct {
	Outcome   Outcome `json:"outcome"`
	Message   string  `json:"message"`
	ProfileID uint    `json:"id,omitempty"`
}

// Submitter persists candidate profiles. Each call inserts at most one row.
type Submitter struct {
	store  Store
	logger *slog.Logger
}

// NewSubmitter creates a Submitter writing to store.
func NewSubmitter(store Store, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{store: store, logger: logger}
}

// Submit normalizes and validates candidate and inserts it. It returns the stored
// profile with its new ID, an error matching ErrDuplicateUsername when the
// username is taken, or any other error unclassified. Nothing is retried.
func (s *Submitter) Submit(ctx context.Context, candidate Candidate) (*Profile, error) {
	candidate = candidate.Normalize()
	if err := candidate.Validate(); err != nil {
		s.logger.Debug("Rejected invalid profile candidate", slog.Any("error", err))
		return nil, err
	}

	profile := candidate.Profile()
	if err := s.store.Insert(ctx, profile); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			s.logger.Info("Profile rejected, username taken", slog.String("username", profile.Username))
			return nil, &DuplicateUsernameError{Username: profile.Username}
		}
		s.logger.Error("Failed to insert profile", slog.String("username", profile.Username), slog.Any("error", err))
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	s.logger.Info("Profile submitted", slog.Uint64("id", uint64(profile.ID)), slog.String("username", profile.Username))
	return profile, nil
}

// ResultFor maps the return values of Submit to the result shown to the user.
func ResultFor(profile *Profile, err error) Result {
	switch {
	case err == nil && profile != nil:
		return Result{Outcome: OutcomeSuccess, Message: MessageSuccess, ProfileID: profile.ID}
	case errors.Is(err, ErrDuplicateUsername):
		var dup *DuplicateUsernameError
		username := ""
		if errors.As(err, &dup) {
			username = dup.Username
		}
		return Result{Outcome: OutcomeDuplicateUsername, Message: fmt.Sprintf(MessageDuplicateUsername, username)}
	default:
		return Result{Outcome: OutcomeFailure, Message: MessageFailure}
	}
}
