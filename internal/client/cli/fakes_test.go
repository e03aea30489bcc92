package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/codec"
	"github.com/dmitrijs2005/balance/internal/logging"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }

var bobSession = &models.Session{UserID: "u-bob", Username: "bob"}

// captureOutput swaps printlnFn for a recorder and returns the printed lines.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

// stubInputs answers the text prompts in order and returns password for
// the password prompt.
func stubInputs(t *testing.T, password []byte, answers ...string) {
	t.Helper()
	origST, origML, origGP := getSimpleText, getMultiline, getPassword
	next := func() (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		s := answers[0]
		answers = answers[1:]
		return s, nil
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText, getMultiline, getPassword = origST, origML, origGP
	})
}

type fakeAuth struct {
	user    string
	pass    []byte
	sess    *models.Session
	authErr error

	current    *models.Session
	currentErr error

	logoutSess *models.Session
	logoutErr  error

	found   *models.User
	findErr error

	pingErr error
}

func (f *fakeAuth) Register(_ context.Context, user string, pass []byte) (*models.Session, error) {
	f.user, f.pass = user, append([]byte(nil), pass...)
	return f.sess, f.authErr
}

func (f *fakeAuth) Login(_ context.Context, user string, pass []byte) (*models.Session, error) {
	f.user, f.pass = user, append([]byte(nil), pass...)
	return f.sess, f.authErr
}

func (f *fakeAuth) CurrentSession(context.Context) (*models.Session, error) {
	return f.current, f.currentErr
}

func (f *fakeAuth) Logout(_ context.Context, sess *models.Session) error {
	f.logoutSess = sess
	return f.logoutErr
}

func (f *fakeAuth) FindByUsername(_ context.Context, _ *models.Session, username string) (*models.User, error) {
	f.user = username
	return f.found, f.findErr
}

func (f *fakeAuth) Ping(context.Context) error  { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error { return nil }

type fakeHistory struct {
	recent     []*models.ChatHistoryEntry
	rebuilt    int
	rebuildErr error
	cleared    bool
	stored     []*models.StoredMessage
	storedPeer string
}

func (f *fakeHistory) Recent(context.Context) ([]*models.ChatHistoryEntry, error) {
	return f.recent, nil
}

func (f *fakeHistory) Touch(context.Context, string, string, bool) error {
	return nil
}

func (f *fakeHistory) MarkRead(context.Context, string) error {
	return nil
}

func (f *fakeHistory) Clear(context.Context) error {
	f.cleared = true
	return nil
}

func (f *fakeHistory) Rebuild(context.Context, *models.Session) error {
	f.rebuilt++
	return f.rebuildErr
}

func (f *fakeHistory) StoreMessage(context.Context, *models.Session, *models.Message) (bool, error) {
	return true, nil
}

func (f *fakeHistory) StoredMessages(_ context.Context, peer string, _ int) ([]*models.StoredMessage, error) {
	f.storedPeer = peer
	return f.stored, nil
}

type fakeMessages struct {
	sentTo, sentText, sentType string
	sendErr                    error

	unread  []*models.Message
	history []*models.Message
	histErr error
	marked  string
}

func (f *fakeMessages) Send(_ context.Context, _ *models.Session, to, content, msgType string) (*models.Message, error) {
	f.sentTo, f.sentText, f.sentType = to, content, msgType
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &models.Message{ID: "m-1"}, nil
}

func (f *fakeMessages) Unread(context.Context, *models.Session) ([]*models.Message, error) {
	return f.unread, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, _ *models.Session, id string) error {
	f.marked = id
	return nil
}

func (f *fakeMessages) History(context.Context, *models.Session, string) ([]*models.Message, error) {
	return f.history, f.histErr
}

func (f *fakeMessages) FindAttachment(context.Context, *models.Session, string, string) (string, error) {
	return "", nil
}

func (f *fakeMessages) FetchArchived(context.Context, *models.Session, string) (string, error) {
	return "", nil
}

type fakeFiles struct {
	calls   []string
	variant codec.Variant
	ext     string
	err     error
}

func (f *fakeFiles) record(call string) (string, error) {
	f.calls = append(f.calls, call)
	if f.err != nil {
		return "", f.err
	}
	return "/out/" + call, nil
}

func (f *fakeFiles) EncryptFile(_ context.Context, path string, v codec.Variant) (string, error) {
	f.variant = v
	return f.record("encrypt:" + path)
}

func (f *fakeFiles) DecryptFile(_ context.Context, path string) (string, error) {
	return f.record("decrypt:" + path)
}

func (f *fakeFiles) EncryptImage(_ context.Context, path string, v codec.Variant) (string, error) {
	f.variant = v
	return f.record("encimg:" + path)
}

func (f *fakeFiles) DecryptImage(_ context.Context, path, ext string) (string, error) {
	f.ext = ext
	return f.record("decimg:" + path)
}

func (f *fakeFiles) AttachFile(_ context.Context, _ *models.Session, peer, path string) (*models.Message, error) {
	if _, err := f.record("attach:" + peer + ":" + path); err != nil {
		return nil, err
	}
	return &models.Message{ID: "m-att"}, nil
}

func (f *fakeFiles) DownloadAttachment(_ context.Context, _ *models.Session, peer, name string) (string, error) {
	return f.record("download:" + peer + ":" + name)
}

func (f *fakeFiles) DownloadArchived(_ context.Context, _ *models.Session, id string) (string, error) {
	return f.record("archived:" + id)
}
