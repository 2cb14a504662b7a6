// Package auth holds librarian accounts, HS256 token issuing and the gin
// middleware that guards mutating routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"library-api/internal/platform/apierr"
	"library-api/internal/platform/db"
)

const (
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

const (
	MsgLoginFailed     = "invalid id or password"
	MsgAccountExists   = "account already exists"
	MsgAccountNotFound = "account not found"
)

type Service struct {
	store  AccountStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(conn *sqlx.DB, cfg db.AuthConfig) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		store:  NewStore(conn),
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Secret は RequireAuth に渡す署名鍵
func (s *Service) Secret() []byte {
	return s.secret
}

// Login は成功すると署名済みトークンを返す。失敗理由は区別せず Unauthorized。
func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if acct == nil || acct.IsDisabled {
		return "", apierr.Unauthorized(MsgLoginFailed)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", apierr.Unauthorized(MsgLoginFailed)
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  acct.ID,
		"role": acct.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Register creates an account. role が空なら librarian。
func (s *Service) Register(ctx context.Context, id, password, role string) error {
	id = strings.TrimSpace(id)
	if role == "" {
		role = RoleLibrarian
	}
	var msgs []string
	if id == "" {
		msgs = append(msgs, "id must not be empty")
	}
	if password == "" {
		msgs = append(msgs, "password must not be empty")
	}
	if role != RoleLibrarian && role != RoleAdmin {
		msgs = append(msgs, "role must be librarian or admin")
	}
	if len(msgs) > 0 {
		return apierr.Validation(msgs...)
	}

	exists, err := s.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("register %s: %w", id, err)
	}
	if exists != nil {
		return apierr.Conflict(MsgAccountExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.store.Create(ctx, &Account{
		ID:           id,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apierr.Conflict(MsgAccountExists)
		}
		return fmt.Errorf("register %s: %w", id, err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	if n == 0 {
		return apierr.NotFound(MsgAccountNotFound)
	}
	return nil
}

// ChangeID renames an account (ユーザー名変更 = id 変更)
func (s *Service) ChangeID(ctx context.Context, oldID, newID string) (Account, error) {
	newID = strings.TrimSpace(newID)
	if newID == "" {
		return Account{}, apierr.Validation("new_id must not be empty")
	}

	old, err := s.store.GetByID(ctx, oldID)
	if err != nil {
		return Account{}, fmt.Errorf("change id %s: %w", oldID, err)
	}
	if old == nil {
		return Account{}, apierr.NotFound(MsgAccountNotFound)
	}

	nw, err := s.store.GetByID(ctx, newID)
	if err != nil {
		return Account{}, fmt.Errorf("change id %s: %w", oldID, err)
	}
	if nw != nil {
		return Account{}, apierr.Conflict(MsgAccountExists)
	}

	updated, err := s.store.UpdateID(ctx, oldID, newID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Account{}, apierr.Conflict(MsgAccountExists)
		}
		return Account{}, fmt.Errorf("change id %s: %w", oldID, err)
	}
	if updated == 0 {
		return Account{}, apierr.NotFound(MsgAccountNotFound)
	}
	old.ID = newID
	return *old, nil
}

// ParseToken validates an HS256 token and returns its subject and role.
func ParseToken(secret []byte, tokenStr string) (sub, role string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid claims")
	}
	sub, err = claims.GetSubject()
	if err != nil || sub == "" {
		return "", "", errors.New("missing sub")
	}
	role, _ = claims["role"].(string)
	return sub, role, nil
}
