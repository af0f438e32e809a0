package authflow

import "github.com/jrsteele09/go-game-portal/internal/i18n"

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is the user-facing outcome of a transition, already localised.
type Notice struct {
	Kind NoticeKind
	Text string
}

func (c *Controller) success(key i18n.Key) Notice {
	return Notice{Kind: NoticeSuccess, Text: c.loc.T(key)}
}

func (c *Controller) failure(key i18n.Key) Notice {
	return Notice{Kind: NoticeError, Text: c.loc.T(key)}
}

// backendFailure prefers the backend supplied message over the localised fallback.
func (c *Controller) backendFailure(message string, fallback i18n.Key) Notice {
	if message == "" {
		return c.failure(fallback)
	}
	return Notice{Kind: NoticeError, Text: message}
}
