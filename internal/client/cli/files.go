package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/balance/internal/codec"
	"github.com/dmitrijs2005/balance/internal/common"
)

// askVariant prompts for the envelope flavour; an empty answer means
// standard.
func (a *App) askVariant() (codec.Variant, error) {
	name, err := getSimpleText(a.reader, "Format: standard (.balance) or enhanced (.causality)? [standard]", os.Stdout)
	if err != nil {
		return codec.Unknown, err
	}
	if name == "" {
		return codec.Standard, nil
	}
	v := codec.ParseVariant(name)
	if v == codec.Unknown {
		return codec.Unknown, fmt.Errorf("%w: unknown format %q", common.ErrValidation, name)
	}
	return v, nil
}

func (a *App) Encrypt(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter path to a .txt file", os.Stdout)
	if err != nil {
		return err
	}
	v, err := a.askVariant()
	if err != nil {
		return err
	}

	out, err := a.fileService.EncryptFile(ctx, path, v)
	if err != nil {
		return err
	}
	printlnFn("Saved", out)
	return nil
}

func (a *App) Decrypt(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter path to a .balance or .causality file", os.Stdout)
	if err != nil {
		return err
	}

	out, err := a.fileService.DecryptFile(ctx, path)
	if err != nil {
		return err
	}
	printlnFn("Saved", out)
	return nil
}

func (a *App) EncryptImage(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter path to an image (.ico .jpeg .jpg .png)", os.Stdout)
	if err != nil {
		return err
	}
	v, err := a.askVariant()
	if err != nil {
		return err
	}

	out, err := a.fileService.EncryptImage(ctx, path, v)
	if err != nil {
		return err
	}
	printlnFn("Saved", out)
	return nil
}

func (a *App) DecryptImage(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter path to a .balance or .causality file", os.Stdout)
	if err != nil {
		return err
	}
	ext, err := getSimpleText(a.reader, "Image type (.ico .jpeg .jpg .png)", os.Stdout)
	if err != nil {
		return err
	}

	out, err := a.fileService.DecryptImage(ctx, path, ext)
	if err != nil {
		return err
	}
	printlnFn("Saved", out)
	return nil
}

// Attach sends an encoded file to another user as a chat message.
func (a *App) Attach(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}

	to, err := getSimpleText(a.reader, "Enter recipient", os.Stdout)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Enter path to a .balance or .causality file", os.Stdout)
	if err != nil {
		return err
	}

	m, err := a.fileService.AttachFile(ctx, a.sess, to, path)
	if err != nil {
		return err
	}
	printlnFn("Sent", m.ID)
	return nil
}

// Download saves the newest attachment with the given name from a chat as
// decoded text.
func (a *App) Download(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}

	peer, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter file name", os.Stdout)
	if err != nil {
		return err
	}

	out, err := a.fileService.DownloadAttachment(ctx, a.sess, peer, name)
	if err != nil {
		return err
	}
	printlnFn("Saved", out)
	return nil
}

// DownloadArchived saves an attachment from the server's object-storage
// archive by message id.
func (a *App) DownloadArchived(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}

	id, err := getSimpleText(a.reader, "Enter message id", os.Stdout)
	if err != nil {
		return err
	}

	out, err := a.fileService.DownloadArchived(ctx, a.sess, id)
	if err != nil {
		return err
	}
	printlnFn("Saved", out)
	return nil
}
