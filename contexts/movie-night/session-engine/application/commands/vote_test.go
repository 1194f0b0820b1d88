package commands

import (
	"context"
	"errors"
	"testing"

	"movienight/contexts/movie-night/session-engine/adapters/memory"
	"movienight/contexts/movie-night/session-engine/domain/entities"
	domainerrors "movienight/contexts/movie-night/session-engine/domain/errors"
)

func voteUseCase(store *memory.Store) VoteUseCase {
	return VoteUseCase{Sessions: store, Clock: testClock()}
}

func sessionWithProposal(maxVotes *int) entities.Session {
	return entities.Session{
		Token:                  "NIGHT",
		MaxVotesPerParticipant: maxVotes,
		Proposals: []entities.Proposal{{
			ProposalID: "prop-1",
			TMDBID:     603,
			Title:      "The Matrix",
			ProposedBy: "alice",
			Votes:      1,
			Voters:     []string{"alice"},
		}},
		Participants: []entities.Participant{{
			Username: "alice",
			VotedFor: []string{"prop-1"},
		}},
	}
}

func TestVoteUpdatesProposalAndParticipantTogether(t *testing.T) {
	store := memory.NewStore(nil)
	seedSession(t, store, sessionWithProposal(nil))
	uc := voteUseCase(store)

	result, err := uc.Vote(context.Background(), VoteCommand{Token: "NIGHT", Username: "bob", TMDBID: 603})
	if err != nil {
		t.Fatalf("expected vote to succeed, got %v", err)
	}
	if result.Proposal.Votes != 2 || !result.Proposal.HasVoter("bob") {
		t.Fatalf("expected vote recorded on proposal, got %+v", result.Proposal)
	}

	session, _ := store.GetSessionByToken(context.Background(), "NIGHT")
	participant := session.FindParticipant("bob")
	if participant == nil || !participant.HasVotedFor("prop-1") {
		t.Fatalf("expected vote recorded on participant, got %+v", participant)
	}
	if got := session.Proposals[0].Votes; got != len(session.Proposals[0].Voters) {
		t.Fatalf("vote count and voter set drifted: %d votes, %d voters", got, len(session.Proposals[0].Voters))
	}
}

func TestVoteRejectsSecondVoteOnSameProposal(t *testing.T) {
	store := memory.NewStore(nil)
	seedSession(t, store, sessionWithProposal(nil))
	uc := voteUseCase(store)

	_, err := uc.Vote(context.Background(), VoteCommand{Token: "NIGHT", Username: "alice", TMDBID: 603})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected repeat vote rejection, got %v", err)
	}

	session, _ := store.GetSessionByToken(context.Background(), "NIGHT")
	if session.Proposals[0].Votes != 1 {
		t.Fatalf("expected rejected vote to leave counts untouched, got %d", session.Proposals[0].Votes)
	}
}

func TestVoteEnforcesPerParticipantCap(t *testing.T) {
	store := memory.NewStore(nil)
	session := sessionWithProposal(intPtr(1))
	session.Proposals = append(session.Proposals, entities.Proposal{
		ProposalID: "prop-2",
		TMDBID:     27205,
		Title:      "Inception",
		ProposedBy: "bob",
		Votes:      1,
		Voters:     []string{"bob"},
	})
	session.Participants = append(session.Participants, entities.Participant{
		Username: "bob",
		VotedFor: []string{"prop-2"},
	})
	seedSession(t, store, session)
	uc := voteUseCase(store)

	_, err := uc.Vote(context.Background(), VoteCommand{Token: "NIGHT", Username: "alice", TMDBID: 27205})
	if !errors.Is(err, domainerrors.ErrVoteLimitReached) {
		t.Fatalf("expected vote cap rejection, got %v", err)
	}

	var limitErr *domainerrors.LimitError
	if !errors.As(err, &limitErr) || limitErr.Limit != 1 {
		t.Fatalf("expected limit error carrying the cap, got %v", err)
	}

	stored, _ := store.GetSessionByToken(context.Background(), "NIGHT")
	if stored.FindProposalByTMDBID(27205).Votes != 1 {
		t.Fatalf("expected rejected vote to leave no partial effects")
	}
	if alice := stored.FindParticipant("alice"); len(alice.VotedFor) != 1 {
		t.Fatalf("expected alice's vote set unchanged, got %v", alice.VotedFor)
	}
}

func TestVoteUnknownProposal(t *testing.T) {
	store := memory.NewStore(nil)
	seedSession(t, store, sessionWithProposal(nil))
	uc := voteUseCase(store)

	_, err := uc.Vote(context.Background(), VoteCommand{Token: "NIGHT", Username: "bob", TMDBID: 99999})
	if !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("expected proposal not found, got %v", err)
	}
}

func TestVoteRequiresUsername(t *testing.T) {
	store := memory.NewStore(nil)
	seedSession(t, store, sessionWithProposal(nil))
	uc := voteUseCase(store)

	_, err := uc.Vote(context.Background(), VoteCommand{Token: "NIGHT", TMDBID: 603})
	if !errors.Is(err, domainerrors.ErrUsernameRequired) {
		t.Fatalf("expected username validation failure, got %v", err)
	}
}

func TestVoteRegistersVoterAsParticipant(t *testing.T) {
	store := memory.NewStore(nil)
	seedSession(t, store, sessionWithProposal(intPtr(5)))
	uc := voteUseCase(store)

	result, err := uc.Vote(context.Background(), VoteCommand{Token: "NIGHT", Username: "carol", TMDBID: 603})
	if err != nil {
		t.Fatalf("expected vote from new participant to succeed, got %v", err)
	}
	if result.VotesRemaining == nil || *result.VotesRemaining != 4 {
		t.Fatalf("expected 4 votes remaining, got %v", result.VotesRemaining)
	}

	session, _ := store.GetSessionByToken(context.Background(), "NIGHT")
	if session.FindParticipant("carol") == nil {
		t.Fatalf("expected voting to register carol as participant")
	}
}
