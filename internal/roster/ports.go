package roster

import (
	"context"

	"github.com/yakoovad/flowcraft/internal/model"
)

// SnapshotSource supplies the current workspace (nil when none is selected).
// Subscribe delivers the current snapshot to fn first and every later change
// after it, in the order the changes happened.
type SnapshotSource interface {
	Current() *model.Workspace
	Subscribe(fn func(*model.Workspace)) (unsubscribe func())
}

// MembershipService removes a membership on the server of record.
type MembershipService interface {
	RemoveMember(ctx context.Context, memberID string) error
}

// Notifier shows user-facing messages. Messages sharing a token replace each other.
type Notifier interface {
	Progress(token, text string)
	Success(token, text string)
	Failure(token, text string)
}

// ConfirmationGate asks the user a yes/no question and blocks until answered.
type ConfirmationGate interface {
	Confirm(ctx context.Context, prompt string) bool
}

type nopNotifier struct{}

func (nopNotifier) Progress(string, string) {}
func (nopNotifier) Success(string, string)  {}
func (nopNotifier) Failure(string, string)  {}

type declineGate struct{}

func (declineGate) Confirm(context.Context, string) bool { return false }
