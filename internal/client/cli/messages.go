package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/codec"
	"github.com/dmitrijs2005/balance/internal/common"
)

const (
	timeLayout = "2006-01-02 15:04"

	storedListLimit = 20
)

// body is what the terminal shows for a message: attachments collapse to
// their header line.
func body(content string) string {
	if name, _, err := codec.ParseAttachment(content); err == nil {
		return "[FILE: " + name + "]"
	}
	return content
}

func formatMessage(m *models.Message) string {
	return fmt.Sprintf("[%s] %s: %s", m.CreatedAt.Local().Format(timeLayout), m.FromUsername, body(m.Content))
}

func (a *App) Send(ctx context.Context) error {
	return a.send(ctx, common.MessageTypeChat)
}

func (a *App) Mail(ctx context.Context) error {
	return a.send(ctx, common.MessageTypeMail)
}

func (a *App) send(ctx context.Context, msgType string) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}

	to, err := getSimpleText(a.reader, "Enter recipient", os.Stdout)
	if err != nil {
		return err
	}

	var text string
	if msgType == common.MessageTypeMail {
		text, err = getMultiline(a.reader, "Enter message", os.Stdout)
	} else {
		text, err = getSimpleText(a.reader, "Enter message", os.Stdout)
	}
	if err != nil {
		return err
	}

	m, err := a.messageService.Send(ctx, a.sess, to, text, msgType)
	if err != nil {
		return err
	}
	printlnFn("Sent", m.ID)
	return nil
}

func (a *App) Unread(ctx context.Context) error {
	msgs, err := a.messageService.Unread(ctx, a.sess)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		printlnFn("No unread messages")
		return nil
	}
	for _, m := range msgs {
		printlnFn(fmt.Sprintf("%s %s (%s)", m.ID, formatMessage(m), m.Type))
	}
	return nil
}

func (a *App) History(ctx context.Context) error {
	peer, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	msgs, err := a.messageService.History(ctx, a.sess, peer)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		printlnFn("No messages yet")
		return nil
	}
	for _, m := range msgs {
		printlnFn(formatMessage(m))
	}
	return nil
}

func (a *App) MarkRead(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter message id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.messageService.MarkRead(ctx, a.sess, id); err != nil {
		return err
	}
	printlnFn("Marked as read")
	return nil
}

func (a *App) Chats(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}

	entries, err := a.historyService.Recent(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printlnFn("No recent chats")
		return nil
	}
	for _, e := range entries {
		unread := ""
		if e.UnreadCount > 0 {
			unread = " (" + strconv.Itoa(e.UnreadCount) + " unread)"
		}
		printlnFn(fmt.Sprintf("%s%s [%s] %s", e.Username, unread, e.LastActivity.Local().Format(timeLayout), e.LastMessage))
	}
	return nil
}

func (a *App) Rebuild(ctx context.Context) error {
	if err := a.historyService.Rebuild(ctx, a.sess); err != nil {
		return err
	}
	printlnFn("Chat history rebuilt")
	return nil
}

func (a *App) Stored(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}

	peer, err := getSimpleText(a.reader, "Enter username (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	list, err := a.historyService.StoredMessages(ctx, peer, storedListLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("Nothing stored")
		return nil
	}
	for _, m := range list {
		printlnFn(fmt.Sprintf("[%s] (%s) %s: %s", m.CreatedAt.Local().Format(timeLayout), m.PeerUsername, m.FromUsername, body(m.Content)))
	}
	return nil
}
