package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/codec"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/filex"
)

// ImageExtensions are the file types accepted by the binary path.
var ImageExtensions = []string{".ico", ".jpeg", ".jpg", ".png"}

const textExt = ".txt"

// FileService turns local files into envelopes and back, and moves
// envelopes through chat as attachments. Artifacts are written atomically
// into the downloads directory.
type FileService interface {
	EncryptFile(ctx context.Context, path string, v codec.Variant) (string, error)
	DecryptFile(ctx context.Context, path string) (string, error)
	EncryptImage(ctx context.Context, path string, v codec.Variant) (string, error)
	DecryptImage(ctx context.Context, path, ext string) (string, error)
	AttachFile(ctx context.Context, sess *models.Session, peer, path string) (*models.Message, error)
	DownloadAttachment(ctx context.Context, sess *models.Session, peer, baseName string) (string, error)
	DownloadArchived(ctx context.Context, sess *models.Session, messageID string) (string, error)
}

type fileService struct {
	messages     MessageService
	downloadsDir string
}

func NewFileService(m MessageService, downloadsDir string) FileService {
	return &fileService{messages: m, downloadsDir: downloadsDir}
}

func (s *fileService) EncryptFile(ctx context.Context, path string, v codec.Variant) (string, error) {
	if !filex.HasExt(path, textExt) {
		return "", fmt.Errorf("%w: invalid file type, expected %s", common.ErrValidation, textExt)
	}
	data, err := readSource(path)
	if err != nil {
		return "", err
	}

	env, err := codec.Encode(v, string(data))
	if err != nil {
		return "", err
	}
	return s.write(filex.ReplaceExt(path, v.Extension()), []byte(env))
}

// DecryptFile decodes a .balance or .causality file into <name>.txt. The
// variant comes from the envelope header, not the extension.
func (s *fileService) DecryptFile(ctx context.Context, path string) (string, error) {
	if !filex.HasExt(path, codec.StandardExt, codec.EnhancedExt) {
		return "", fmt.Errorf("%w: invalid file type, expected %s or %s", common.ErrValidation, codec.StandardExt, codec.EnhancedExt)
	}
	data, err := readSource(path)
	if err != nil {
		return "", err
	}

	text, _, err := codec.DecodeAuto(string(data))
	if err != nil {
		return "", err
	}
	return s.write(filex.ReplaceExt(path, textExt), []byte(text))
}

func (s *fileService) EncryptImage(ctx context.Context, path string, v codec.Variant) (string, error) {
	if !filex.HasExt(path, ImageExtensions...) {
		return "", fmt.Errorf("%w: invalid file type, expected one of %s", common.ErrValidation, strings.Join(ImageExtensions, " "))
	}
	data, err := readSource(path)
	if err != nil {
		return "", err
	}

	env, err := codec.EncodeBytes(v, data)
	if err != nil {
		return "", err
	}
	return s.write(filex.ReplaceExt(path, v.Extension()), []byte(env))
}

// DecryptImage decodes an envelope holding image bytes and writes them
// with the image extension ext.
func (s *fileService) DecryptImage(ctx context.Context, path, ext string) (string, error) {
	if !filex.HasExt(path, codec.StandardExt, codec.EnhancedExt) {
		return "", fmt.Errorf("%w: invalid file type, expected %s or %s", common.ErrValidation, codec.StandardExt, codec.EnhancedExt)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	ext = strings.ToLower(ext)
	if !filex.HasExt(ext, ImageExtensions...) {
		return "", fmt.Errorf("%w: unsupported image type %s", common.ErrValidation, ext)
	}
	data, err := readSource(path)
	if err != nil {
		return "", err
	}

	raw, _, err := codec.DecodeAutoBytes(string(data))
	if err != nil {
		return "", err
	}
	return s.write(filex.ReplaceExt(path, ext), raw)
}

// AttachFile sends an envelope file to peer as a chat attachment.
func (s *fileService) AttachFile(ctx context.Context, sess *models.Session, peer, path string) (*models.Message, error) {
	if sess == nil {
		return nil, common.ErrNotLoggedIn
	}
	if !filex.HasExt(path, codec.StandardExt, codec.EnhancedExt) {
		return nil, fmt.Errorf("%w: only %s and %s files can be attached", common.ErrValidation, codec.StandardExt, codec.EnhancedExt)
	}
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}

	env := string(data)
	if codec.Classify(env) == codec.Unknown {
		return nil, fmt.Errorf("%w: %s is not an envelope", codec.ErrFormat, filepath.Base(path))
	}
	return s.messages.Send(ctx, sess, peer, codec.FormatAttachment(filepath.Base(path), env), common.MessageTypeChat)
}

// DownloadAttachment finds the newest attachment named baseName in the chat
// with peer, decodes it and writes <baseName>.txt.
func (s *fileService) DownloadAttachment(ctx context.Context, sess *models.Session, peer, baseName string) (string, error) {
	env, err := s.messages.FindAttachment(ctx, sess, peer, baseName)
	if err != nil {
		return "", err
	}

	text, _, err := codec.DecodeAuto(env)
	if err != nil {
		return "", err
	}
	return s.write(filex.StripExt(baseName)+textExt, []byte(text))
}

// DownloadArchived fetches the archived envelope of an attachment message
// and writes its decoded text to <messageID>.txt.
func (s *fileService) DownloadArchived(ctx context.Context, sess *models.Session, messageID string) (string, error) {
	env, err := s.messages.FetchArchived(ctx, sess, messageID)
	if err != nil {
		return "", err
	}

	text, _, err := codec.DecodeAuto(env)
	if err != nil {
		return "", err
	}
	return s.write(filex.StripExt(messageID)+textExt, []byte(text))
}

func (s *fileService) write(name string, data []byte) (string, error) {
	dir, err := filex.EnsureSubdDir(s.downloadsDir)
	if err != nil {
		return "", fmt.Errorf("output dir error: %w", err)
	}
	return filex.WriteFileAtomic(dir, name, data)
}

func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", common.ErrValidation, filepath.Base(path))
	}
	return data, nil
}
