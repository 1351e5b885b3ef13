package roster

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/flowcraft/pkg/logger"
	"go.uber.org/zap"
)

const (
	ConfirmRemovalPrompt = "Are you sure you want to remove this member?"
	RemovingMessage      = "Removing member..."
	RemovedMessage       = "Member removed successfully"
	RemoveFailedMessage  = "Failed to remove member"
)

type State int

const (
	StateIdle State = iota
	StateConfirming
	StateInFlight
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirming:
		return "confirming"
	case StateInFlight:
		return "in_flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one removal attempt.
// A declined attempt ends in StateIdle with no token.
type Outcome struct {
	MemberID   string
	Token      string
	State      State
	RolledBack bool
	Err        error
}

func (o Outcome) Declined() bool {
	return o.State == StateIdle
}

// Coordinator removes members optimistically: the view drops the member
// before the request is sent and keeps it dropped on failure unless
// rollback is enabled.
type Coordinator struct {
	view    *View
	service MembershipService

	notifier Notifier
	gate     ConfirmationGate
	rollback bool

	newToken func() string
}

func NewCoordinator(view *View, service MembershipService) *Coordinator {
	return &Coordinator{
		view:     view,
		service:  service,
		notifier: nopNotifier{},
		gate:     declineGate{},
		newToken: uuid.NewString,
	}
}

func (c *Coordinator) WithNotifier(n Notifier) *Coordinator {
	c.notifier = n
	return c
}

func (c *Coordinator) WithConfirmationGate(g ConfirmationGate) *Coordinator {
	c.gate = g
	return c
}

// WithRollbackOnFailure re-inserts a member at its old position when the
// request fails and no newer snapshot has arrived meanwhile.
func (c *Coordinator) WithRollbackOnFailure(enabled bool) *Coordinator {
	c.rollback = enabled
	return c
}

// Remove runs one removal attempt to completion. It issues exactly one
// request per confirmed attempt and none when the user declines.
func (c *Coordinator) Remove(ctx context.Context, memberID string) Outcome {
	l := logger.FromContext(ctx).With(zap.String("member_id", memberID))
	out := Outcome{MemberID: memberID, State: StateConfirming}

	l.Debug("asking for removal confirmation")
	if !c.gate.Confirm(ctx, ConfirmRemovalPrompt) {
		l.Debug("removal declined")
		out.State = StateIdle
		return out
	}

	out.Token = c.newToken()
	l = l.With(zap.String("token", out.Token))

	removed, ok := c.view.remove(memberID)
	if !ok {
		l.Debug("member not in local roster, sending request anyway")
	}

	out.State = StateInFlight
	c.notifier.Progress(out.Token, RemovingMessage)
	l.Info("removing member")

	if err := c.service.RemoveMember(ctx, memberID); err != nil {
		out.State = StateFailed
		out.Err = errors.Wrap(err, "remove member")

		if c.rollback && ok {
			out.RolledBack = c.view.restore(removed)
		}

		c.notifier.Failure(out.Token, RemoveFailedMessage)
		l.Warn("failed to remove member", zap.Bool("rolled_back", out.RolledBack), zap.Error(err))
		return out
	}

	c.view.confirm(memberID)

	out.State = StateSucceeded
	c.notifier.Success(out.Token, RemovedMessage)
	l.Info("member removed")

	return out
}
