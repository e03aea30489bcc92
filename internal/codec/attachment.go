package codec

import (
	"errors"
	"strings"
)

const (
	attachmentPrefix = "[FILE: "
	attachmentSuffix = "]"
)

var ErrNotAttachment = errors.New("message is not a file attachment")

// FormatAttachment builds the chat message body that carries a file:
//
//	[FILE: notes.balance]
//	BALANCE_ENCRYPTED_FILE_V1
//	...
func FormatAttachment(name, envelope string) string {
	return attachmentPrefix + name + attachmentSuffix + "\n" + envelope
}

// ParseAttachment splits an attachment message on its first newline and
// returns the file name from the header and the envelope body.
func ParseAttachment(content string) (name, body string, err error) {
	header, body, _ := strings.Cut(content, "\n")
	header = strings.TrimSuffix(header, "\r")
	if !strings.HasPrefix(header, attachmentPrefix) || !strings.HasSuffix(header, attachmentSuffix) {
		return "", "", ErrNotAttachment
	}
	name = strings.TrimSuffix(strings.TrimPrefix(header, attachmentPrefix), attachmentSuffix)
	if name == "" {
		return "", "", ErrNotAttachment
	}
	return name, body, nil
}

// IsAttachment reports whether content is a file attachment message.
func IsAttachment(content string) bool {
	_, _, err := ParseAttachment(content)
	return err == nil
}
