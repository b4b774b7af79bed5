package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fashionsmith/fashionsmith-api/internal/auth"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Service owns signup/login/session flows on top of the repository. Access
// tokens are short-lived JWTs, refresh tokens are opaque and rotate on use.
type Service struct {
	repo    Repository
	tokens  *auth.Tokens
	refresh *auth.RefreshStore
}

func NewService(repo Repository, tokens *auth.Tokens, refresh *auth.RefreshStore) *Service {
	return &Service{repo: repo, tokens: tokens, refresh: refresh}
}

type SessionPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *Service) Signup(ctx context.Context, username, email, password string) (*User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleCustomer,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, *SessionPair, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}
	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*SessionPair, error) {
	userID, next, err := s.refresh.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	access, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &SessionPair{AccessToken: access, RefreshToken: next}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.refresh.Revoke(ctx, refreshToken)
}

func (s *Service) issuePair(ctx context.Context, u *User) (*SessionPair, error) {
	access, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refresh.Issue(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &SessionPair{AccessToken: access, RefreshToken: refresh}, nil
}

// UpdateProfileInput carries the PATCH payload. Address semantics: a nil
// Address leaves the stored address alone; a present address with every
// sub-field blank clears it to NULL.
type UpdateProfileInput struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Address  *Address `json:"address"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*User, error) {
	u := &User{
		ID:       userID,
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
	}
	if err := s.repo.UpdateProfile(ctx, u, in.Address != nil); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}
