// Package service contains the business logic layer: validation, ownership
// checks and orchestration between the directory, the task store and the
// token codec. Services accept plain values and return domain errors; they
// know nothing about HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/sakif/taskdeck/internal/apperror"
	"github.com/sakif/taskdeck/internal/auth"
	"github.com/sakif/taskdeck/internal/repository"
)

// AuthService handles registration and login.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register validates the email format and adds the user to the directory.
// Returns the new user id, or a validation error for a malformed email, or
// a duplicate error if the email is already registered.
//
// There is deliberately no password policy: any string, including an empty
// one, is accepted and stored as-is.
func (s *AuthService) Register(ctx context.Context, email, password string) (uint32, error) {
	if !validEmail(email) {
		return 0, apperror.ValidationFailed("email", "email address is not valid")
	}

	id, err := s.users.Register(ctx, email, password)
	if err != nil {
		return 0, err
	}

	s.logger.Info("user registered",
		slog.Uint64("userID", uint64(id)),
		slog.String("email", email),
	)
	return id, nil
}

// Login authenticates the credentials and issues a signed bearer token for
// the matching user. The credential check and the token issuance are the
// only steps; nothing is stored.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	id, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for user %d: %w", id, err)
	}

	s.logger.Info("user logged in", slog.Uint64("userID", uint64(id)))
	return token, nil
}

// validEmail reports whether addr is a bare, well-formed email address.
// mail.ParseAddress also accepts the "Name <user@host>" form; requiring the
// parsed address to equal the input rules that out.
func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
