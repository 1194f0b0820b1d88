package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"movienight/contexts/movie-night/session-engine/domain/entities"
	domainerrors "movienight/contexts/movie-night/session-engine/domain/errors"
	"movienight/contexts/movie-night/session-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the gorm-backed session repository. UpdateSession holds a
// row lock on the session for the whole closure, which serializes every
// mutating operation on that session across processes.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// AutoMigrate creates or updates the session-engine tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&sessionModel{}, &proposalModel{}, &participantModel{})
}

func (r *Repository) CreateSession(ctx context.Context, session entities.Session) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := sessionModelFromEntity(session)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrTokenTaken
			}
			return r.logError("session_repo_create_session_failed", err, "token", session.Token)
		}
		if err := r.persistChildren(tx, session); err != nil {
			return err
		}
		return nil
	})
}

func (r *Repository) GetSessionByToken(ctx context.Context, sessionToken string) (entities.Session, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("token = ?", strings.TrimSpace(sessionToken)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Session{}, domainerrors.ErrSessionNotFound
		}
		return entities.Session{}, r.logError("session_repo_get_session_failed", err, "token", strings.TrimSpace(sessionToken))
	}
	return r.loadAggregate(r.db.WithContext(ctx), row)
}

func (r *Repository) UpdateSession(
	ctx context.Context,
	sessionToken string,
	fn func(*entities.Session) error,
) (entities.Session, error) {
	var updated entities.Session
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row sessionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", strings.TrimSpace(sessionToken)).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrSessionNotFound
			}
			return r.logError("session_repo_lock_session_failed", err, "token", strings.TrimSpace(sessionToken))
		}

		aggregate, err := r.loadAggregate(tx, row)
		if err != nil {
			return err
		}
		if err := fn(&aggregate); err != nil {
			return err
		}
		if err := r.persistChildren(tx, aggregate); err != nil {
			return err
		}
		updated = aggregate
		return nil
	})
	if err != nil {
		return entities.Session{}, err
	}
	return updated, nil
}

func (r *Repository) loadAggregate(tx *gorm.DB, row sessionModel) (entities.Session, error) {
	session := row.toEntity()

	var proposals []proposalModel
	if err := tx.
		Where("session_token = ?", row.Token).
		Order("seq ASC").
		Find(&proposals).Error; err != nil {
		return entities.Session{}, r.logError("session_repo_load_proposals_failed", err, "token", row.Token)
	}
	for _, proposal := range proposals {
		session.Proposals = append(session.Proposals, proposal.toEntity())
	}

	var participants []participantModel
	if err := tx.
		Where("session_token = ?", row.Token).
		Order("seq ASC").
		Find(&participants).Error; err != nil {
		return entities.Session{}, r.logError("session_repo_load_participants_failed", err, "token", row.Token)
	}
	for _, participant := range participants {
		session.Participants = append(session.Participants, participant.toEntity())
	}
	return session, nil
}

func (r *Repository) persistChildren(tx *gorm.DB, session entities.Session) error {
	if len(session.Proposals) > 0 {
		rows := make([]proposalModel, 0, len(session.Proposals))
		for _, proposal := range session.Proposals {
			rows = append(rows, proposalModelFromEntity(session.Token, proposal))
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"votes", "voters"}),
		}).Create(&rows).Error
		if err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateProposal
			}
			return r.logError("session_repo_persist_proposals_failed", err, "token", session.Token)
		}
	}

	if len(session.Participants) > 0 {
		rows := make([]participantModel, 0, len(session.Participants))
		for _, participant := range session.Participants {
			rows = append(rows, participantModelFromEntity(session.Token, participant))
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_token"}, {Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"voted_for"}),
		}).Create(&rows).Error
		if err != nil {
			return r.logError("session_repo_persist_participants_failed", err, "token", session.Token)
		}
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "movie-night/session-engine",
		"layer", "adapter/postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("session repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type sessionModel struct {
	Token                  string    `gorm:"column:token;primaryKey"`
	Name                   string    `gorm:"column:name"`
	Date                   time.Time `gorm:"column:date"`
	MaxProposals           *int      `gorm:"column:max_proposals"`
	MaxVotesPerParticipant *int      `gorm:"column:max_votes_per_participant"`
	CreatedAt              time.Time `gorm:"column:created_at"`
}

func (sessionModel) TableName() string {
	return "movie_nights"
}

type proposalModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Seq          int64     `gorm:"column:seq;autoIncrement;uniqueIndex"`
	SessionToken string    `gorm:"column:session_token;uniqueIndex:idx_night_movie"`
	TMDBID       int64     `gorm:"column:tmdb_id;uniqueIndex:idx_night_movie"`
	Title        string    `gorm:"column:title"`
	PosterPath   string    `gorm:"column:poster_path"`
	Overview     string    `gorm:"column:overview"`
	ReleaseDate  string    `gorm:"column:release_date"`
	ProposedBy   string    `gorm:"column:proposed_by"`
	Votes        int       `gorm:"column:votes"`
	Voters       []string  `gorm:"column:voters;serializer:json"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (proposalModel) TableName() string {
	return "movie_proposals"
}

type participantModel struct {
	SessionToken string    `gorm:"column:session_token;primaryKey"`
	Username     string    `gorm:"column:username;primaryKey"`
	Seq          int64     `gorm:"column:seq;autoIncrement;uniqueIndex"`
	VotedFor     []string  `gorm:"column:voted_for;serializer:json"`
	JoinedAt     time.Time `gorm:"column:joined_at"`
}

func (participantModel) TableName() string {
	return "movie_night_participants"
}

func sessionModelFromEntity(session entities.Session) sessionModel {
	return sessionModel{
		Token:                  strings.TrimSpace(session.Token),
		Name:                   session.Name,
		Date:                   session.Date.UTC(),
		MaxProposals:           session.MaxProposals,
		MaxVotesPerParticipant: session.MaxVotesPerParticipant,
		CreatedAt:              session.CreatedAt.UTC(),
	}
}

func (m sessionModel) toEntity() entities.Session {
	return entities.Session{
		Token:                  m.Token,
		Name:                   m.Name,
		Date:                   m.Date.UTC(),
		MaxProposals:           m.MaxProposals,
		MaxVotesPerParticipant: m.MaxVotesPerParticipant,
		CreatedAt:              m.CreatedAt.UTC(),
		Proposals:              make([]entities.Proposal, 0),
		Participants:           make([]entities.Participant, 0),
	}
}

func proposalModelFromEntity(sessionToken string, proposal entities.Proposal) proposalModel {
	voters := proposal.Voters
	if voters == nil {
		voters = make([]string, 0)
	}
	return proposalModel{
		ID:           proposal.ProposalID,
		SessionToken: sessionToken,
		TMDBID:       proposal.TMDBID,
		Title:        proposal.Title,
		PosterPath:   proposal.PosterPath,
		Overview:     proposal.Overview,
		ReleaseDate:  proposal.ReleaseDate,
		ProposedBy:   proposal.ProposedBy,
		Votes:        proposal.Votes,
		Voters:       voters,
		CreatedAt:    proposal.CreatedAt.UTC(),
	}
}

func (m proposalModel) toEntity() entities.Proposal {
	voters := m.Voters
	if voters == nil {
		voters = make([]string, 0)
	}
	return entities.Proposal{
		ProposalID:  m.ID,
		TMDBID:      m.TMDBID,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		ProposedBy:  m.ProposedBy,
		Votes:       m.Votes,
		Voters:      voters,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func participantModelFromEntity(sessionToken string, participant entities.Participant) participantModel {
	votedFor := participant.VotedFor
	if votedFor == nil {
		votedFor = make([]string, 0)
	}
	return participantModel{
		SessionToken: sessionToken,
		Username:     participant.Username,
		VotedFor:     votedFor,
		JoinedAt:     participant.JoinedAt.UTC(),
	}
}

func (m participantModel) toEntity() entities.Participant {
	votedFor := m.VotedFor
	if votedFor == nil {
		votedFor = make([]string, 0)
	}
	return entities.Participant{
		Username: m.Username,
		JoinedAt: m.JoinedAt.UTC(),
		VotedFor: votedFor,
	}
}

var _ ports.SessionRepository = (*Repository)(nil)
