package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/common"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getMultiline = GetMultiline
var getPassword = GetPassword

// Register prompts for a username and password and creates a new account.
// On success the new session becomes current.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.authService.Register(ctx, userName, password)
	if err != nil {
		return err
	}

	a.startSession(ctx, sess)
	printlnFn("Registered and logged in as", sess.Username)
	return nil
}

// Login prompts for credentials and authenticates against the server.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		return err
	}

	a.startSession(ctx, sess)
	printlnFn("Logged in as", sess.Username)
	return nil
}

// Logout revokes the session and wipes the local chat cache.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx, a.sess); err != nil {
		return err
	}
	a.sess = nil

	if err := a.historyService.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "chat history not cleared", "error", err)
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) FindUser(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.authService.FindByUsername(ctx, a.sess, userName)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("%s (joined %s)", u.Username, u.CreatedAt.Local().Format(timeLayout))
	if u.LastSeenAt != nil {
		line += ", last seen " + u.LastSeenAt.Local().Format(timeLayout)
	}
	printlnFn(line)
	return nil
}

// restoreSession picks up the session saved by a previous run.
func (a *App) restoreSession(ctx context.Context) error {
	sess, err := a.authService.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	a.sess = sess
	printlnFn("Welcome back,", sess.Username)
	return nil
}

// startSession makes sess current and reloads the recent chats from the
// server, replacing whatever a previous user left behind.
func (a *App) startSession(ctx context.Context, sess *models.Session) {
	a.sess = sess
	if err := a.historyService.Rebuild(ctx, sess); err != nil {
		a.logger.Warn(ctx, "chat history not rebuilt", "error", err)
	}
}
