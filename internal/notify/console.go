package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

type Kind string

const (
	KindProgress Kind = "progress"
	KindSuccess  Kind = "success"
	KindFailure  Kind = "failure"
)

// Message is the latest text shown for a correlation token.
type Message struct {
	Token string
	Kind  Kind
	Text  string
}

// Console prints notifications to a terminal. A later message for the same
// token replaces the earlier one in Latest, the way a toast is updated in place.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	logger *zap.Logger
	latest map[string]Message
}

func NewConsole(out io.Writer, l *zap.Logger) *Console {
	if l == nil {
		l = zap.NewNop()
	}
	return &Console{
		out:    out,
		logger: l,
		latest: make(map[string]Message),
	}
}

func (c *Console) Progress(token, text string) { c.show(Message{Token: token, Kind: KindProgress, Text: text}) }
func (c *Console) Success(token, text string)  { c.show(Message{Token: token, Kind: KindSuccess, Text: text}) }
func (c *Console) Failure(token, text string)  { c.show(Message{Token: token, Kind: KindFailure, Text: text}) }

// Latest returns the message currently shown for token.
func (c *Console) Latest(token string) (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.latest[token]
	return m, ok
}

func (c *Console) show(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest[m.Token] = m
	_, _ = fmt.Fprintf(c.out, "%s %s\n", symbol(m.Kind), m.Text)

	fields := []zap.Field{zap.String("token", m.Token), zap.String("kind", string(m.Kind))}
	if m.Kind == KindFailure {
		c.logger.Warn(m.Text, fields...)
	} else {
		c.logger.Info(m.Text, fields...)
	}
}

func symbol(k Kind) string {
	switch k {
	case KindSuccess:
		return "[ok]"
	case KindFailure:
		return "[error]"
	default:
		return "[...]"
	}
}
