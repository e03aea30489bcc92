package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/balance/internal/client/client"
	"github.com/dmitrijs2005/balance/internal/client/config"
	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/client/services"
	"github.com/dmitrijs2005/balance/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	authService    services.AuthService
	historyService services.HistoryService
	messageService services.MessageService
	fileService    services.FileService
	sess           *models.Session
	reader         *bufio.Reader

	mu   sync.RWMutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient, err := client.NewBalanceClientService(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hs := services.NewHistoryService(apiClient, db)
	ms := services.NewMessageService(apiClient, hs, logger)

	return &App{
		config:         c,
		logger:         logger,
		authService:    services.NewAuthService(apiClient, db, logger),
		historyService: hs,
		messageService: ms,
		fileService:    services.NewFileService(ms, c.DownloadsDir),
		reader:         bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) isLoggedIn() bool {
	return a.sess != nil
}

func (a *App) getStatus() string {
	s := ""
	if a.sess != nil {
		s = a.sess.Username + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run restores the saved session, starts the connectivity watcher and
// blocks in the REPL until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)

	printlnFn("Welcome to balance CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	if err := a.restoreSession(ctx); err != nil {
		printError(err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
