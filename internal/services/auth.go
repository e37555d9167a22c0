package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sharedtodo/internal/domain"
)

// ErrBadCredentials is returned by Login when the password does not match.
var ErrBadCredentials = errors.New("invalid credentials")

// tokenExpiry is the lifetime of issued collaborator tokens.
const tokenExpiry = 24 * time.Hour

type authService struct {
	hasher       domain.PasswordHasher
	issuer       domain.TokenIssuer
	passwordHash string
	salt         string
}

// NewAuthService creates an AuthService that checks logins against the single
// shared collaborator password. The password is hashed once at construction
// so the plaintext is not kept around.
func NewAuthService(hasher domain.PasswordHasher, issuer domain.TokenIssuer, password string) (domain.AuthService, error) {
	salt, err := hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &authService{
		hasher:       hasher,
		issuer:       issuer,
		passwordHash: hash,
		salt:         salt,
	}, nil
}

func (s *authService) Login(ctx context.Context, password string) (string, error) {
	if err := s.hasher.Compare(s.passwordHash, s.salt, password); err != nil {
		return "", ErrBadCredentials
	}
	token, err := s.issuer.Issue("collaborator", tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
