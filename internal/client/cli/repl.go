package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	FindUser(ctx context.Context) error

	Send(ctx context.Context) error
	Mail(ctx context.Context) error
	Unread(ctx context.Context) error
	History(ctx context.Context) error
	MarkRead(ctx context.Context) error
	Chats(ctx context.Context) error
	Rebuild(ctx context.Context) error
	Stored(ctx context.Context) error

	Encrypt(ctx context.Context) error
	Decrypt(ctx context.Context) error
	EncryptImage(ctx context.Context) error
	DecryptImage(ctx context.Context) error
	Attach(ctx context.Context) error
	Download(ctx context.Context) error
	DownloadArchived(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, encrypt, decrypt, encimg, decimg, exit"
	helpLoggedIn  = "Available commands: chats, unread, send, mail, history, read, find, attach, download, archived, " +
		"stored, rebuild, encrypt, decrypt, encimg, decimg, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the balance CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Command errors are printed as a short
// user-facing line and never end the loop. The loop exits on EOF or when
// the user types "exit" or "quit".
//
// Commands available without a session: help, register, login, encrypt,
// decrypt, encimg, decimg, exit | quit. A session adds chats, unread, send,
// mail, history, read, find, attach, download, archived, stored, rebuild
// and logout.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("balance %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "find":
			cmdErr = a.FindUser(ctx)

		case "send":
			cmdErr = a.Send(ctx)
		case "mail":
			cmdErr = a.Mail(ctx)
		case "unread":
			cmdErr = a.Unread(ctx)
		case "history":
			cmdErr = a.History(ctx)
		case "read":
			cmdErr = a.MarkRead(ctx)
		case "chats":
			cmdErr = a.Chats(ctx)
		case "rebuild":
			cmdErr = a.Rebuild(ctx)
		case "stored":
			cmdErr = a.Stored(ctx)

		case "encrypt":
			cmdErr = a.Encrypt(ctx)
		case "decrypt":
			cmdErr = a.Decrypt(ctx)
		case "encimg":
			cmdErr = a.EncryptImage(ctx)
		case "decimg":
			cmdErr = a.DecryptImage(ctx)
		case "attach":
			cmdErr = a.Attach(ctx)
		case "download":
			cmdErr = a.Download(ctx)
		case "archived":
			cmdErr = a.DownloadArchived(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printError(cmdErr)
		}

		if err != nil {
			return
		}
	}
}
