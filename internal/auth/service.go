package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
)

// ErrInvalidCredentials is returned by Login for unknown users and wrong
// passwords alike.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// UserView is the public projection of a user.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Session is the Login result.
type Session struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// Service authenticates users stored in a repository.
type Service struct {
	users  store.Repository[store.User]
	tokens *Tokens
}

// NewService wires users and tokens.
func NewService(users store.Repository[store.User], tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login checks the password and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.findByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !CheckPassword(password, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: View(user)}, nil
}

// Me returns the user a token was issued to.
func (s *Service) Me(ctx context.Context, claims *Claims) (UserView, error) {
	if claims == nil {
		return UserView{}, ErrInvalidToken
	}
	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return UserView{}, fmt.Errorf("auth: load user: %w", err)
	}
	return View(user), nil
}

// NewAdmin builds the seed administrator with a hashed password.
func NewAdmin(email, password string) (store.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return store.User{}, err
	}
	return store.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         "Administrator",
		Role:         store.RoleAdmin,
		PasswordHash: hash,
	}, nil
}

// View projects user without its password hash.
func View(user store.User) UserView {
	return UserView{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
}

func (s *Service) findByEmail(ctx context.Context, email string) (store.User, error) {
	return store.First(ctx, s.users, func(u store.User) bool {
		return strings.EqualFold(u.Email, email)
	})
}
