package commands

import (
	"context"
	"errors"
	"sync"
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

// sequenceTokens replays a scripted token sequence and repeats the last entry
// once exhausted.
type sequenceTokens struct {
	tokens []string
	next   int
}

func (g *sequenceTokens) NewToken() string {
	if g.next >= len(g.tokens) {
		return g.tokens[len(g.tokens)-1]
	}
	token := g.tokens[g.next]
	g.next++
	return token
}

func intPtr(value int) *int { return &value }

func testClock() fixedClock {
	return fixedClock{now: time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC)}
}

func TestCreateSessionRequiresNameAndDate(t *testing.T) {
	uc := CreateSessionUseCase{
		Sessions: memory.NewStore(nil),
		Tokens:   &sequenceTokens{tokens: []string{"AAAAA"}},
		Clock:    testClock(),
	}

	_, err := uc.CreateSession(context.Background(), CreateSessionCommand{Date: testClock().now})
	if !errors.Is(err, domainerrors.ErrNameRequired) {
		t.Fatalf("expected name validation failure, got %v", err)
	}

	_, err = uc.CreateSession(context.Background(), CreateSessionCommand{Name: "friday night"})
	if !errors.Is(err, domainerrors.ErrDateRequired) {
		t.Fatalf("expected date validation failure, got %v", err)
	}
}

func TestCreateSessionRegistersCreatorAsParticipant(t *testing.T) {
	store := memory.NewStore(nil)
	uc := CreateSessionUseCase{
		Sessions: store,
		Tokens:   &sequenceTokens{tokens: []string{"AAAAA"}},
		Clock:    testClock(),
	}

	session, err := uc.CreateSession(context.Background(), CreateSessionCommand{
		Name:            "friday night",
		Date:            testClock().now.Add(48 * time.Hour),
		CreatorUsername: "alice",
	})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if session.Token != "AAAAA" {
		t.Fatalf("expected first drawn token, got %q", session.Token)
	}
	if len(session.Participants) != 1 || session.Participants[0].Username != "alice" {
		t.Fatalf("expected creator registered as participant, got %+v", session.Participants)
	}

	stored, err := store.GetSessionByToken(context.Background(), "AAAAA")
	if err != nil {
		t.Fatalf("expected session retrievable by token, got %v", err)
	}
	if stored.Name != "friday night" {
		t.Fatalf("expected stored name, got %q", stored.Name)
	}
}

func TestCreateSessionRetriesOnTokenCollision(t *testing.T) {
	store := memory.NewStore([]entities.Session{{Token: "AAAAA", Name: "taken"}})
	uc := CreateSessionUseCase{
		Sessions: store,
		Tokens:   &sequenceTokens{tokens: []string{"AAAAA", "AAAAA", "BBBBB"}},
		Clock:    testClock(),
	}

	session, err := uc.CreateSession(context.Background(), CreateSessionCommand{
		Name: "friday night",
		Date: testClock().now.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("expected retry to find a free token, got %v", err)
	}
	if session.Token != "BBBBB" {
		t.Fatalf("expected third draw to win, got %q", session.Token)
	}
}

func TestCreateSessionGivesUpAfterBoundedAttempts(t *testing.T) {
	store := memory.NewStore([]entities.Session{{Token: "AAAAA", Name: "taken"}})
	uc := CreateSessionUseCase{
		Sessions:      store,
		Tokens:        &sequenceTokens{tokens: []string{"AAAAA"}},
		Clock:         testClock(),
		TokenAttempts: 3,
	}

	_, err := uc.CreateSession(context.Background(), CreateSessionCommand{
		Name: "friday night",
		Date: testClock().now.Add(48 * time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrTokenSpaceExhausted) {
		t.Fatalf("expected token space exhaustion, got %v", err)
	}
}

func TestConcurrentCreatesIssueDistinctTokens(t *testing.T) {
	store := memory.NewStore(nil)
	uc := CreateSessionUseCase{Sessions: store, Tokens: store, Clock: testClock()}

	const sessions = 20
	var wg sync.WaitGroup
	tokens := make(chan string, sessions)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := uc.CreateSession(context.Background(), CreateSessionCommand{
				Name: "concurrent night",
				Date: testClock().now.Add(48 * time.Hour),
			})
			if err != nil {
				t.Errorf("expected create to succeed, got %v", err)
				return
			}
			tokens <- session.Token
		}()
	}
	wg.Wait()
	close(tokens)

	seen := make(map[string]bool, sessions)
	for token := range tokens {
		if seen[token] {
			t.Fatalf("token %q issued twice", token)
		}
		seen[token] = true
	}
	if len(seen) != sessions {
		t.Fatalf("expected %d distinct tokens, got %d", sessions, len(seen))
	}
}
