package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/yakoovad/flowcraft/internal/client"
	"github.com/yakoovad/flowcraft/internal/confirm"
	"github.com/yakoovad/flowcraft/internal/model"
	"github.com/yakoovad/flowcraft/internal/notify"
	"github.com/yakoovad/flowcraft/internal/roster"
	"github.com/yakoovad/flowcraft/internal/store"
	"github.com/yakoovad/flowcraft/pkg/logger"
	"go.uber.org/zap"
)

const usage = `usage:
  team list [-search term]
  team remove [-yes] [-rollback] <memberId>`

var errUsage = errors.New("invalid usage")

type app struct {
	api         *client.Client
	workspaceID string

	in  io.Reader
	out io.Writer
}

// run executes one CLI command and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	l := logger.FromContext(ctx)

	var err error
	switch {
	case len(args) == 0:
		err = errUsage
	case args[0] == "list":
		err = a.list(ctx, args[1:])
	case args[0] == "remove":
		err = a.remove(ctx, args[1:])
	default:
		err = errUsage
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		_, _ = fmt.Fprintln(a.out, usage)
		return 2
	default:
		l.Error("command failed", zap.Error(err))
		_, _ = fmt.Fprintf(a.out, "error: %v\n", err)
		return 1
	}
}

// load fetches the workspace into a fresh store and binds a view to it.
func (a *app) load(ctx context.Context) (*store.Store, *roster.View, error) {
	s := store.New()
	if err := s.Refresh(ctx, a.api, a.workspaceID); err != nil {
		return nil, nil, err
	}

	v := roster.NewView()
	v.Bind(s)

	return s, v, nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	search := fs.String("search", "", "filter members by name or email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}

	_, v, err := a.load(ctx)
	if err != nil {
		return err
	}
	defer v.Close()

	v.SetSearchTerm(*search)
	render(a.out, v.State())

	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	fs.SetOutput(a.out)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	rollback := fs.Bool("rollback", false, "restore the member locally when removal fails")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	memberID := fs.Arg(0)

	s, v, err := a.load(ctx)
	if err != nil {
		return err
	}
	defer v.Close()

	var gate roster.ConfirmationGate = confirm.NewPrompt(a.in, a.out)
	if *yes {
		gate = confirm.Always(true)
	}

	c := roster.NewCoordinator(v, a.api).
		WithNotifier(notify.NewConsole(a.out, logger.FromContext(ctx))).
		WithConfirmationGate(gate).
		WithRollbackOnFailure(*rollback)

	out := c.Remove(ctx, memberID)
	if out.Declined() {
		_, _ = fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if out.State == roster.StateFailed {
		render(a.out, v.State())
		return out.Err
	}

	if err = s.Refresh(ctx, a.api, a.workspaceID); err != nil {
		logger.FromContext(ctx).Warn("failed to refresh workspace after removal", zap.Error(err))
	}
	render(a.out, v.State())

	return nil
}

func render(w io.Writer, st model.RosterViewState) {
	_, _ = fmt.Fprintf(w, "Members: %d  Active projects: %d  Tasks: %d\n",
		st.Stats.TotalMembers, st.Stats.ActiveProjects, st.Stats.TotalTasks)

	if reason := st.EmptyReason(); reason != "" {
		_, _ = fmt.Fprintln(w, reason)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
	for _, m := range st.FilteredMembers {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, orDash(m.Name()), orDash(m.Email()), m.Role)
	}
	_ = tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
