package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/desertthunder/mixtape/internal/sessions"
	"github.com/desertthunder/mixtape/internal/shared"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	ImageURL string `json:"imageUrl"`
}

// LoginResult is returned by a successful [AccountService.Login].
type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AccountService registers users and manages their sessions.
type AccountService struct {
	users    repositories.UserStore
	sessions sessions.Store
	logger   *log.Logger
	metrics  Recorder
	mu       sync.Mutex
}

// NewAccountService wires the user store and session store. logger and metrics may be nil.
func NewAccountService(users repositories.UserStore, store sessions.Store, logger *log.Logger, metrics Recorder) *AccountService {
	return &AccountService{
		users:    users,
		sessions: store,
		logger:   loggerOrDefault(logger),
		metrics:  recorderOrNop(metrics),
	}
}

// Register creates a user after checking that every field is present and the username is free.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) error {
	user := &models.User{Username: in.Username, Password: in.Password, FullName: in.FullName, ImageURL: in.ImageURL}
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.users.Get(ctx, user.Username); err == nil {
		return fmt.Errorf("%w: user %s", shared.ErrConflict, user.Username)
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.metrics.Registered()
	s.logger.Info("user registered", "username", user.Username)
	return nil
}

// Login checks the credentials and issues a session token.
//
// An unknown username and a wrong password fail identically with [shared.ErrUnauthorized].
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.Get(ctx, username)
	if errors.Is(err, repositories.ErrRecordNotFound) || (err == nil && user.Password != password) {
		s.metrics.LoggedIn(false)
		s.logger.Debug("login rejected", "username", username)
		return nil, fmt.Errorf("%w: invalid credentials", shared.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	s.metrics.LoggedIn(true)
	s.logger.Info("user logged in", "username", user.Username)
	return &LoginResult{Token: token, User: user.Public()}, nil
}

// Logout revokes token. Unknown tokens are ignored.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate resolves token to a username, failing with [shared.ErrUnauthorized] when it is unknown.
func (s *AccountService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: missing token", shared.ErrUnauthorized)
	}

	username, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, sessions.ErrSessionNotFound) {
		return "", fmt.Errorf("%w: unknown session", shared.ErrUnauthorized)
	}
	return username, err
}

// Users lists every registered user without passwords.
func (s *AccountService) Users(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}
