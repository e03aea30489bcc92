// Package services contains application services for the balance CLI.
// This file defines the authentication service: register, login, restoring
// the persisted session and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/balance/internal/client/client"
	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/logging"
)

const sessionKey = "session"

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register/Login: authenticate against the server and persist the session.
//   - CurrentSession: restore the persisted session, or nil if there is none.
//   - Logout: revoke the refresh token (best effort) and forget the session.
//   - FindByUsername: look up another user; requires a session.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) (*models.Session, error)
	Login(ctx context.Context, username string, password []byte) (*models.Session, error)
	CurrentSession(ctx context.Context) (*models.Session, error)
	Logout(ctx context.Context, sess *models.Session) error
	FindByUsername(ctx context.Context, sess *models.Session, username string) (*models.User, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client and the
// local metadata table.
type authService struct {
	client client.Client
	db     *sql.DB
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(c client.Client, db *sql.DB, l logging.Logger) AuthService {
	a := &authService{client: c, db: db, logger: l.With("module", "auth_service")}
	c.OnTokensRefreshed(a.tokensRefreshed)
	return a
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

func (a *authService) Register(ctx context.Context, username string, password []byte) (*models.Session, error) {
	defer common.WipeByteArray(password)

	sess, err := a.client.Register(ctx, username, string(password))
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	if err := a.saveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return sess, nil
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (*models.Session, error) {
	defer common.WipeByteArray(password)

	sess, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if err := a.saveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return sess, nil
}

// CurrentSession loads the persisted session and installs its tokens in the
// client. When the server is reachable the refresh token is exchanged for a
// fresh pair; a rejected refresh forgets the session. When the server is
// down the stored session is returned as is.
func (a *authService) CurrentSession(ctx context.Context) (*models.Session, error) {
	sess, err := a.loadSession(ctx)
	if err != nil || sess == nil {
		return nil, err
	}

	a.client.SetTokens(sess.AccessToken, sess.RefreshToken)

	access, refresh, err := a.client.Refresh(ctx)
	switch {
	case err == nil:
		sess.AccessToken, sess.RefreshToken = access, refresh
		if err := a.saveSession(ctx, sess); err != nil {
			return nil, fmt.Errorf("session saving error: %w", err)
		}
		return sess, nil
	case errors.Is(err, client.ErrUnavailable):
		a.logger.Warn(ctx, "server unavailable, using stored session", "username", sess.Username)
		return sess, nil
	default:
		a.logger.Info(ctx, "stored session rejected", "username", sess.Username, "error", err)
		a.client.SetTokens("", "")
		if err := a.getMetadataRepo().Delete(ctx, sessionKey); err != nil {
			return nil, fmt.Errorf("session clearing error: %w", err)
		}
		return nil, nil
	}
}

func (a *authService) Logout(ctx context.Context, sess *models.Session) error {
	if sess == nil {
		return common.ErrNotLoggedIn
	}

	if err := a.client.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "refresh token revoke failed", "username", sess.Username, "error", err)
	}

	if err := a.getMetadataRepo().Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("session clearing error: %w", err)
	}
	return nil
}

func (a *authService) FindByUsername(ctx context.Context, sess *models.Session, username string) (*models.User, error) {
	if sess == nil {
		return nil, common.ErrNotLoggedIn
	}
	username = common.NormalizeUsername(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	return a.client.FindUser(ctx, username)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

func (a *authService) loadSession(ctx context.Context) (*models.Session, error) {
	var sess models.Session
	found, err := a.getMetadataRepo().GetJSON(ctx, sessionKey, &sess)
	if err != nil {
		return nil, fmt.Errorf("session loading error: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &sess, nil
}

func (a *authService) saveSession(ctx context.Context, sess *models.Session) error {
	return a.getMetadataRepo().SetJSON(ctx, sessionKey, sess)
}

// tokensRefreshed keeps the persisted session in step with a pair rotated
// by the client interceptor.
func (a *authService) tokensRefreshed(access, refresh string) {
	ctx := context.Background()

	sess, err := a.loadSession(ctx)
	if err != nil || sess == nil {
		return
	}
	sess.AccessToken, sess.RefreshToken = access, refresh
	if err := a.saveSession(ctx, sess); err != nil {
		a.logger.Warn(ctx, "rotated tokens not saved", "error", err)
	}
}
