package types

import (
	"fmt"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
)

// NoticeLevel grades a notice for display.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeInfo:
		return "info"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// MarshalText renders the level name in json and yaml output.
func (l NoticeLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Notice is a non-fatal, user-visible message produced by the controller.
type Notice struct {
	Level   NoticeLevel      `json:"level" yaml:"level"`
	Op      string           `json:"op" yaml:"op"`
	Code    errors.ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
	Message string           `json:"message" yaml:"message"`
}

func (n Notice) String() string {
	if n.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", n.Op, n.Message, n.Code)
	}
	return fmt.Sprintf("%s: %s", n.Op, n.Message)
}

// NoticeFromError turns a failed operation into an error notice.
func NoticeFromError(op string, err error) Notice {
	n := Notice{Level: NoticeError, Op: op, Message: err.Error()}
	var be *errors.BrowserError
	if errors.As(err, &be) {
		n.Code = be.Code
		n.Message = be.Message
	}
	return n
}

// NewNotice creates an informational notice.
func NewNotice(op, format string, args ...interface{}) Notice {
	return Notice{Level: NoticeInfo, Op: op, Message: fmt.Sprintf(format, args...)}
}
