package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"movienight/contexts/movie-night/session-engine/adapters/memory"
	"movienight/contexts/movie-night/session-engine/domain/entities"
	domainerrors "movienight/contexts/movie-night/session-engine/domain/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func intPtr(value int) *int { return &value }

func seededStore(t *testing.T, session entities.Session) *memory.Store {
	t.Helper()
	store := memory.NewStore(nil)
	if err := store.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return store
}

func TestStatsWithNoParticipants(t *testing.T) {
	now := time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC)
	store := seededStore(t, entities.Session{Token: "NIGHT", Date: now.Add(2 * time.Hour)})
	uc := StatsUseCase{Sessions: store, Clock: fixedClock{now: now}}

	stats, err := uc.Stats(context.Background(), "NIGHT")
	if err != nil {
		t.Fatalf("expected stats to succeed, got %v", err)
	}
	if stats.AverageVotesPerParticipant != 0 || stats.PercentParticipantsVoted != 0 {
		t.Fatalf("expected zero ratios for empty session, got %+v", stats)
	}
	if stats.TimeRemaining != 2*time.Hour {
		t.Fatalf("expected 2h remaining, got %v", stats.TimeRemaining)
	}
}

func TestStatsRoundsAverageAndPercents(t *testing.T) {
	now := time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC)
	store := seededStore(t, entities.Session{
		Token: "NIGHT",
		Date:  now.Add(-time.Hour),
		Proposals: []entities.Proposal{
			{ProposalID: "p1", TMDBID: 603, Title: "The Matrix", Votes: 2, Voters: []string{"alice", "bob"}},
			{ProposalID: "p2", TMDBID: 27205, Title: "Inception", Votes: 1, Voters: []string{"alice"}},
		},
		Participants: []entities.Participant{
			{Username: "alice", VotedFor: []string{"p1", "p2"}},
			{Username: "bob", VotedFor: []string{"p1"}},
			{Username: "carol", VotedFor: []string{}},
		},
	})
	uc := StatsUseCase{Sessions: store, Clock: fixedClock{now: now}}

	stats, err := uc.Stats(context.Background(), "NIGHT")
	if err != nil {
		t.Fatalf("expected stats to succeed, got %v", err)
	}
	if stats.TotalParticipants != 3 || stats.ParticipantsWhoVoted != 2 || stats.TotalVotesCast != 3 {
		t.Fatalf("unexpected turnout numbers: %+v", stats)
	}
	if stats.AverageVotesPerParticipant != 1.0 {
		t.Fatalf("expected average 1.0, got %v", stats.AverageVotesPerParticipant)
	}
	if stats.PercentParticipantsVoted != 67 {
		t.Fatalf("expected 67 percent voted, got %d", stats.PercentParticipantsVoted)
	}
	if len(stats.TopProposals) != 2 {
		t.Fatalf("expected two leaderboard entries, got %d", len(stats.TopProposals))
	}
	if stats.TopProposals[0].Title != "The Matrix" || stats.TopProposals[0].PercentOfParticipants != 67 {
		t.Fatalf("unexpected leader: %+v", stats.TopProposals[0])
	}
	if stats.TimeRemaining >= 0 {
		t.Fatalf("expected negative time remaining for a past date, got %v", stats.TimeRemaining)
	}
}

func TestStatsLimitsLeaderboardToThree(t *testing.T) {
	now := time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC)
	store := seededStore(t, entities.Session{
		Token: "NIGHT",
		Date:  now,
		Proposals: []entities.Proposal{
			{ProposalID: "p1", TMDBID: 1, Title: "A", Votes: 4},
			{ProposalID: "p2", TMDBID: 2, Title: "B", Votes: 3},
			{ProposalID: "p3", TMDBID: 3, Title: "C", Votes: 2},
			{ProposalID: "p4", TMDBID: 4, Title: "D", Votes: 1},
		},
	})
	uc := StatsUseCase{Sessions: store, Clock: fixedClock{now: now}}

	stats, err := uc.Stats(context.Background(), "NIGHT")
	if err != nil {
		t.Fatalf("expected stats to succeed, got %v", err)
	}
	if len(stats.TopProposals) != 3 {
		t.Fatalf("expected leaderboard capped at three, got %d", len(stats.TopProposals))
	}
	if stats.TopProposals[0].Title != "A" || stats.TopProposals[2].Title != "C" {
		t.Fatalf("unexpected leaderboard order: %+v", stats.TopProposals)
	}
}

func TestSessionViewUnknownUserReportsFullCap(t *testing.T) {
	store := seededStore(t, entities.Session{
		Token:                  "NIGHT",
		MaxVotesPerParticipant: intPtr(3),
		Participants: []entities.Participant{
			{Username: "alice", VotedFor: []string{"p1"}},
		},
	})
	uc := SessionViewUseCase{Sessions: store}

	view, err := uc.Fetch(context.Background(), "NIGHT", "stranger")
	if err != nil {
		t.Fatalf("expected fetch to succeed, got %v", err)
	}
	if len(view.UserVotes) != 0 {
		t.Fatalf("expected no votes for unknown user, got %v", view.UserVotes)
	}
	if view.VotesRemaining == nil || *view.VotesRemaining != 3 {
		t.Fatalf("expected full cap for unknown user, got %v", view.VotesRemaining)
	}

	// Fetching must never register the username as a participant.
	session, _ := store.GetSessionByToken(context.Background(), "NIGHT")
	if session.FindParticipant("stranger") != nil {
		t.Fatalf("expected read-only fetch to leave participants untouched")
	}
}

func TestSessionViewReturnsUserVotes(t *testing.T) {
	store := seededStore(t, entities.Session{
		Token:                  "NIGHT",
		MaxVotesPerParticipant: intPtr(3),
		Participants: []entities.Participant{
			{Username: "alice", VotedFor: []string{"p1", "p2"}},
		},
	})
	uc := SessionViewUseCase{Sessions: store}

	view, err := uc.Fetch(context.Background(), "NIGHT", "alice")
	if err != nil {
		t.Fatalf("expected fetch to succeed, got %v", err)
	}
	if len(view.UserVotes) != 2 {
		t.Fatalf("expected alice's two votes, got %v", view.UserVotes)
	}
	if view.VotesRemaining == nil || *view.VotesRemaining != 1 {
		t.Fatalf("expected one vote remaining, got %v", view.VotesRemaining)
	}
}

func TestParticipantsKeepJoinOrder(t *testing.T) {
	joined := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)
	store := seededStore(t, entities.Session{
		Token: "NIGHT",
		Participants: []entities.Participant{
			{Username: "alice", JoinedAt: joined, VotedFor: []string{"p1"}},
			{Username: "bob", JoinedAt: joined.Add(time.Minute), VotedFor: []string{}},
			{Username: "carol", JoinedAt: joined.Add(2 * time.Minute), VotedFor: []string{"p1"}},
		},
	})
	uc := ParticipantsUseCase{Sessions: store}

	views, err := uc.Participants(context.Background(), "NIGHT")
	if err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected three participants, got %d", len(views))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if views[i].Username != want {
			t.Fatalf("expected join order preserved, got %+v", views)
		}
	}
	if views[0].VotesCast != 1 || views[1].VotesCast != 0 {
		t.Fatalf("unexpected vote counts: %+v", views)
	}
}

func TestQueriesUnknownSession(t *testing.T) {
	store := memory.NewStore(nil)
	if _, err := (StatsUseCase{Sessions: store}).Stats(context.Background(), "NOPE1"); !errors.Is(err, domainerrors.ErrSessionNotFound) {
		t.Fatalf("expected stats to report session not found, got %v", err)
	}
	if _, err := (ParticipantsUseCase{Sessions: store}).Participants(context.Background(), "NOPE1"); !errors.Is(err, domainerrors.ErrSessionNotFound) {
		t.Fatalf("expected participants to report session not found, got %v", err)
	}
	if _, err := (SessionViewUseCase{Sessions: store}).Fetch(context.Background(), "NOPE1", ""); !errors.Is(err, domainerrors.ErrSessionNotFound) {
		t.Fatalf("expected fetch to report session not found, got %v", err)
	}
}
