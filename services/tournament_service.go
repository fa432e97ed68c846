package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/kicker-tournament/brackets"
	"github.com/Dosada05/kicker-tournament/models"
	"github.com/Dosada05/kicker-tournament/repositories"
	"github.com/Dosada05/kicker-tournament/storage"
	"github.com/google/uuid"
)

const maxPlayerNameLength = 64

// Notifier pushes committed tournament changes to live subscribers.
type Notifier interface {
	BroadcastTournament(tournamentID string, messageType string, payload interface{})
}

// Archiver stores finished tournaments outside the snapshot store.
type Archiver interface {
	Store(ctx context.Context, t *models.Tournament) (*storage.UploadResult, error)
	Remove(ctx context.Context, tournamentID string) error
}

type RegisterPlayerInput struct {
	Name  string `json:"name"`
	Skill int    `json:"skill"`
}

// RecordResultInput carries a match result. Scores are pointers so a missing
// score is rejected instead of being read as zero.
type RecordResultInput struct {
	RoundIndex int  `json:"-"`
	MatchIndex int  `json:"-"`
	ScoreA     *int `json:"scoreA"`
	ScoreB     *int `json:"scoreB"`
}

type TournamentService interface {
	RegisterPlayer(ctx context.Context, tournamentID string, input RegisterPlayerInput) (*models.Tournament, error)
	RemovePlayer(ctx context.Context, tournamentID, playerID string) (*models.Tournament, error)
	GenerateBracket(ctx context.Context, tournamentID string) (*models.Tournament, error)
	StartTournament(ctx context.Context, tournamentID string) (*models.Tournament, error)
	RecordResult(ctx context.Context, tournamentID string, input RecordResultInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, tournamentID string) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.TournamentSummary, error)
	DeleteTournament(ctx context.Context, tournamentID string) error
}

type TournamentServiceOption func(*tournamentService)

func WithNotifier(n Notifier) TournamentServiceOption {
	return func(s *tournamentService) { s.notifier = n }
}

func WithArchiver(a Archiver) TournamentServiceOption {
	return func(s *tournamentService) { s.archive = a }
}

func WithClock(now func() time.Time) TournamentServiceOption {
	return func(s *tournamentService) { s.now = now }
}

// tournamentService is the only writer of tournament state. Every transition
// runs load, change, commit under one lock.
type tournamentService struct {
	mu        sync.Mutex
	repo      repositories.SnapshotRepository
	generator brackets.BracketGenerator
	notifier  Notifier
	archive   Archiver
	logger    *slog.Logger
	now       func() time.Time
}

func NewTournamentService(
	repo repositories.SnapshotRepository,
	generator brackets.BracketGenerator,
	logger *slog.Logger,
	opts ...TournamentServiceOption,
) TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &tournamentService{
		repo:      repo,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *tournamentService) RegisterPlayer(ctx context.Context, tournamentID string, input RegisterPlayerInput) (*models.Tournament, error) {
	name, err := validatePlayerInput(input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var t *models.Tournament
	if tournamentID == "" {
		t, err = s.newTournament(ctx)
	} else {
		t, err = s.load(ctx, tournamentID)
	}
	if err != nil {
		return nil, err
	}
	if err := checkTransition(t.TournamentState, models.StateRegistration); err != nil {
		return nil, err
	}

	player := models.Player{ID: uuid.NewString(), Name: name, Skill: input.Skill}
	t.Players = append(t.Players, player)

	if err := s.commit(ctx, t); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "player registered",
		slog.String("tournament_id", t.ID), slog.String("player_id", player.ID), slog.Int("players", len(t.Players)))
	return t, nil
}

func (s *tournamentService) RemovePlayer(ctx context.Context, tournamentID, playerID string) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(t.TournamentState, models.StateRegistration); err != nil {
		return nil, err
	}

	idx := -1
	for i, p := range t.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrPlayerNotFound
	}
	t.Players = append(t.Players[:idx], t.Players[idx+1:]...)

	if err := s.commit(ctx, t); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "player removed",
		slog.String("tournament_id", t.ID), slog.String("player_id", playerID), slog.Int("players", len(t.Players)))
	return t, nil
}

func (s *tournamentService) GenerateBracket(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(t.TournamentState, models.StateTeamsFormed); err != nil {
		return nil, err
	}

	teams, err := brackets.FormTeams(t.Players)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}
	rounds, err := s.generator.GenerateBracket(teams)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s bracket for tournament %s: %w", s.generator.GetName(), t.ID, err)
	}

	t.Teams = teams
	t.Rounds = rounds
	t.Winner = nil
	t.TournamentState = models.StateTeamsFormed

	if err := s.commit(ctx, t); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "bracket generated",
		slog.String("tournament_id", t.ID),
		slog.String("generator", s.generator.GetName()),
		slog.Int("teams", len(teams)),
		slog.Int("rounds", len(rounds)),
		slog.Int("bracket_size", brackets.BracketSize(len(teams))))
	return t, nil
}

func (s *tournamentService) StartTournament(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(t.TournamentState, models.StateInProgress); err != nil {
		return nil, err
	}
	t.TournamentState = models.StateInProgress

	if err := s.commit(ctx, t); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "tournament started", slog.String("tournament_id", t.ID))
	return t, nil
}

func (s *tournamentService) RecordResult(ctx context.Context, tournamentID string, input RecordResultInput) (*models.Tournament, error) {
	if input.ScoreA == nil || input.ScoreB == nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrScoreRequired)
	}
	scoreA, scoreB := *input.ScoreA, *input.ScoreB

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.TournamentState != models.StateInProgress {
		if t.TournamentState == models.StateFinished {
			return nil, ErrTournamentFinished
		}
		return nil, fmt.Errorf("%w: results can only be recorded while the tournament is %s, it is %s",
			ErrInvalidStateTransition, models.StateInProgress, t.TournamentState)
	}

	progression, err := brackets.RecordResult(t.Rounds, input.RoundIndex, input.MatchIndex, scoreA, scoreB)
	if err != nil {
		return nil, mapEngineError(err)
	}
	t.Rounds = progression.Rounds
	if progression.Champion != nil {
		t.Winner = progression.Champion
		t.TournamentState = models.StateFinished
	}

	if err := s.commit(ctx, t); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "match result recorded",
		slog.String("tournament_id", t.ID),
		slog.Int("round", input.RoundIndex),
		slog.Int("match", input.MatchIndex),
		slog.Int("score_a", scoreA),
		slog.Int("score_b", scoreB))
	if t.Winner != nil {
		s.logger.InfoContext(ctx, "tournament finished", slog.String("tournament_id", t.ID), slog.String("winner", t.Winner.Name))
	}
	return t, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	return s.load(ctx, tournamentID)
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.TournamentSummary, error) {
	tournaments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	summaries := make([]models.TournamentSummary, 0, len(tournaments))
	for _, t := range tournaments {
		if len(t.Players) == 0 {
			continue
		}
		summaries = append(summaries, t.Summary())
	}
	return summaries, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, tournamentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrSnapshotNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %s: %w", tournamentID, err)
	}
	if s.archive != nil {
		if err := s.archive.Remove(ctx, tournamentID); err != nil {
			s.logger.WarnContext(ctx, "failed to remove tournament archive", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		}
	}
	s.notify(tournamentID, brackets.MessageTournamentDeleted, map[string]string{"id": tournamentID})
	s.logger.InfoContext(ctx, "tournament deleted", slog.String("tournament_id", tournamentID))
	return nil
}

// newTournament starts an empty tournament keyed by the current time. Ids are
// bumped by a millisecond until they are free.
func (s *tournamentService) newTournament(ctx context.Context) (*models.Tournament, error) {
	created := s.now()
	for {
		id := models.NewTournamentID(created)
		_, err := s.repo.Get(ctx, id)
		if errors.Is(err, repositories.ErrSnapshotNotFound) {
			return &models.Tournament{
				ID:              id,
				Players:         []models.Player{},
				Teams:           []models.Team{},
				Rounds:          []models.Round{},
				TournamentState: models.StateRegistration,
			}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check tournament id %s: %w", id, err)
		}
		created = created.Add(time.Millisecond)
	}
}

func (s *tournamentService) load(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	if tournamentID == "" {
		return nil, ErrTournamentNotFound
	}
	t, err := s.repo.Get(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrSnapshotNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", tournamentID, err)
	}
	return t, nil
}

// commit runs after every successful transition: persist, notify, archive.
// A tournament without players is abandoned and its snapshot removed.
func (s *tournamentService) commit(ctx context.Context, t *models.Tournament) error {
	if len(t.Players) == 0 {
		err := s.repo.Delete(ctx, t.ID)
		if err != nil && !errors.Is(err, repositories.ErrSnapshotNotFound) {
			return fmt.Errorf("failed to delete abandoned tournament %s: %w", t.ID, err)
		}
		s.notify(t.ID, brackets.MessageTournamentDeleted, map[string]string{"id": t.ID})
		return nil
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return fmt.Errorf("failed to save tournament %s: %w", t.ID, err)
	}
	s.notify(t.ID, brackets.MessageTournamentUpdated, t)

	if t.TournamentState == models.StateFinished && s.archive != nil {
		if res, err := s.archive.Store(ctx, t); err != nil {
			s.logger.WarnContext(ctx, "failed to archive finished tournament", slog.String("tournament_id", t.ID), slog.Any("error", err))
		} else {
			s.logger.InfoContext(ctx, "finished tournament archived", slog.String("tournament_id", t.ID), slog.String("key", res.Key), slog.String("location", res.Location))
		}
	}
	return nil
}

func (s *tournamentService) notify(tournamentID, messageType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastTournament(tournamentID, messageType, payload)
}

func validatePlayerInput(input RegisterPlayerInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", fmt.Errorf("%w: %w", ErrValidationFailed, ErrPlayerNameRequired)
	}
	if utf8.RuneCountInString(name) > maxPlayerNameLength {
		return "", fmt.Errorf("%w: %w (max %d characters)", ErrValidationFailed, ErrPlayerNameTooLong, maxPlayerNameLength)
	}
	if input.Skill < models.MinSkill || input.Skill > models.MaxSkill {
		return "", fmt.Errorf("%w: %w, got %d", ErrValidationFailed, ErrPlayerSkillInvalid, input.Skill)
	}
	return name, nil
}

func checkTransition(current, next models.TournamentState) error {
	if current == models.StateFinished {
		return ErrTournamentFinished
	}
	if !isValidStateTransition(current, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, current, next)
	}
	return nil
}

func isValidStateTransition(current, next models.TournamentState) bool {
	allowedTransitions := map[models.TournamentState][]models.TournamentState{
		models.StateRegistration: {models.StateRegistration, models.StateTeamsFormed},
		models.StateTeamsFormed:  {models.StateInProgress},
		models.StateInProgress:   {models.StateInProgress, models.StateFinished},
		models.StateFinished:     {},
	}
	for _, allowedNext := range allowedTransitions[current] {
		if next == allowedNext {
			return true
		}
	}
	return false
}

func mapEngineError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrTieScore), errors.Is(err, brackets.ErrInvalidScore):
		return fmt.Errorf("%w: %w", ErrInvalidScore, err)
	case errors.Is(err, brackets.ErrMatchNotFound),
		errors.Is(err, brackets.ErrMatchNotReady),
		errors.Is(err, brackets.ErrMatchAlreadyDecided):
		return fmt.Errorf("%w: %w", ErrInvalidMatchState, err)
	default:
		return err
	}
}
