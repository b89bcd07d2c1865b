package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Notice texts shown after a mutation.
const (
	MsgUpdated     = "Database updated successfully"
	MsgUpdateError = "Error updating database"
)

// Notice is one toast line.
type Notice struct {
	Title       string
	Destructive bool
}

// Notifier shows one generic line per mutation outcome. Failures are also
// logged with the underlying error; the user only sees the generic text.
type Notifier struct {
	out    io.Writer
	logger zerolog.Logger

	mu   sync.Mutex
	last *Notice
}

func NewNotifier(out io.Writer, logger zerolog.Logger) *Notifier {
	return &Notifier{out: out, logger: logger}
}

func (n *Notifier) Success() {
	n.show(Notice{Title: MsgUpdated})
}

func (n *Notifier) Failure(err error) {
	n.logger.Error().Err(err).Msg("mutation failed")
	n.show(Notice{Title: MsgUpdateError, Destructive: true})
}

// Last returns the most recent notice, if any.
func (n *Notifier) Last() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil {
		return Notice{}, false
	}
	return *n.last, true
}

func (n *Notifier) show(notice Notice) {
	n.mu.Lock()
	n.last = &notice
	n.mu.Unlock()

	prefix := "✓"
	if notice.Destructive {
		prefix = "✗"
	}
	fmt.Fprintf(n.out, "%s %s\n", prefix, notice.Title)
}
