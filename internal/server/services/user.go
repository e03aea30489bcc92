// Package services holds the server-side business logic: the user directory
// (registration, login, token rotation) and the message store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/cryptox"
	"github.com/dmitrijs2005/balance/internal/dbx"
	"github.com/dmitrijs2005/balance/internal/server/auth"
	"github.com/dmitrijs2005/balance/internal/server/config"
	"github.com/dmitrijs2005/balance/internal/server/models"
	"github.com/dmitrijs2005/balance/internal/server/repositories/repomanager"
)

var (
	hashPassword   = cryptox.HashPassword
	verifyPassword = cryptox.VerifyPassword
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// Register creates an account and signs the new user in.
//
// The existence check only saves an argon2 round for the common case; the
// unique constraint on users.username decides concurrent registrations.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	username = common.NormalizeUsername(username)
	if username == "" {
		return nil, nil, fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if password == "" {
		return nil, nil, fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	_, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, nil, common.ErrDuplicateUsername
	case !errors.Is(err, common.ErrorNotFound):
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	hash, err := hashPassword([]byte(password))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	var (
		user *models.User
		pair *TokenPair
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, &models.User{Username: username, PasswordHash: hash})
		if err != nil {
			return err
		}
		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) || errors.Is(err, common.ErrorInternal) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return user, pair, nil
}

// Login checks the password in constant time and issues a token pair.
// Unknown users give common.ErrorNotFound, wrong passwords
// common.ErrBadPassword.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	username = common.NormalizeUsername(username)

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	ok, err := verifyPassword([]byte(password), user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, nil, common.ErrBadPassword
	}

	now := s.now()
	if err := repo.TouchLastSeen(ctx, user.ID, now); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	user.LastSeenAt = &now

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, common.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return user, nil
}

// RefreshToken exchanges a refresh token for a new pair. The old token is
// deleted in the same transaction that stores its replacement.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if token.Expired(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return pair, nil
}

// Logout revokes refreshToken. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// PurgeExpiredTokens drops refresh tokens that can no longer be used.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
}

func (s *UserService) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
