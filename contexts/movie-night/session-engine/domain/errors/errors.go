package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNameRequired     = errors.New("session name is required")
	ErrDateRequired     = errors.New("session date is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrMovieRequired    = errors.New("movie payload with tmdb id and title is required")

	ErrSessionNotFound  = errors.New("session not found")
	ErrProposalNotFound = errors.New("proposal not found in this session")

	ErrTokenTaken          = errors.New("session token is already taken")
	ErrTokenSpaceExhausted = errors.New("session token space exhausted")

	ErrDuplicateProposal = errors.New("movie already proposed in this session")
	ErrAlreadyVoted      = errors.New("participant already voted for this proposal")

	ErrProposalLimitReached = errors.New("session proposal limit reached")
	ErrVoteLimitReached     = errors.New("participant vote limit reached")
)

const (
	LimitKindProposals = "proposals"
	LimitKindVotes     = "votes"
)

// LimitError carries the numeric cap that was hit so transports can render a
// precise message. errors.Is still matches the corresponding sentinel.
type LimitError struct {
	Kind  string
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s limit of %d reached", e.Kind, e.Limit)
}

func (e *LimitError) Is(target error) bool {
	switch e.Kind {
	case LimitKindProposals:
		return target == ErrProposalLimitReached
	case LimitKindVotes:
		return target == ErrVoteLimitReached
	default:
		return false
	}
}

func NewProposalLimitError(limit int) error {
	return &LimitError{Kind: LimitKindProposals, Limit: limit}
}

func NewVoteLimitError(limit int) error {
	return &LimitError{Kind: LimitKindVotes, Limit: limit}
}
