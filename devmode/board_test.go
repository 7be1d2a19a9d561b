package devmode_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/nexus-console/devmode"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	err         error
	toggleCalls []bool
	resolved    map[string]devmode.RequestStatus
	seenDisplay bool
	board       *devmode.Board

	// When set, the remote reports this state instead of the requested one
	stored *bool
}

func (f *fakeRemote) ResolveDevModeRequest(_ context.Context, id string, decision devmode.RequestStatus) (devmode.Request, error) {
	if f.err != nil {
		return devmode.Request{}, f.err
	}
	if f.resolved == nil {
		f.resolved = map[string]devmode.RequestStatus{}
	}
	f.resolved[id] = decision
	return devmode.Request{ID: id, Status: decision}, nil
}

func (f *fakeRemote) ToggleDevMode(_ context.Context, empresaID string, enabled bool) (devmode.Switch, error) {
	f.toggleCalls = append(f.toggleCalls, enabled)
	if f.board != nil {
		f.seenDisplay = f.board.Enabled(empresaID)
	}
	if f.err != nil {
		return devmode.Switch{}, f.err
	}
	if f.stored != nil {
		enabled = *f.stored
	}
	return devmode.Switch{EmpresaID: empresaID, Enabled: enabled}, nil
}

func sampleRequests() []devmode.Request {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	return []devmode.Request{
		{ID: "r1", EmpresaID: "e1", Status: devmode.StatusApproved, RequestedAt: base},
		{ID: "r2", EmpresaID: "e2", Status: devmode.StatusPending, RequestedAt: base.Add(2 * time.Hour)},
		{ID: "r3", EmpresaID: "e3", Status: devmode.StatusPending, RequestedAt: base.Add(time.Hour)},
	}
}

func TestBoard_RequestsSortedAndPending(t *testing.T) {
	b := devmode.NewBoard()
	b.SetRequests(sampleRequests())

	reqs := b.Requests()
	require.Equal(t, []string{"r2", "r3", "r1"}, []string{reqs[0].ID, reqs[1].ID, reqs[2].ID})

	pending := b.Pending()
	require.Len(t, pending, 2)
	require.Equal(t, "r2", pending[0].ID)
}

func TestBoard_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("mirrors after success", func(t *testing.T) {
		b := devmode.NewBoard()
		b.SetRequests(sampleRequests())
		remote := &fakeRemote{}

		got, err := b.Resolve(ctx, remote, "r2", devmode.StatusApproved)
		require.NoError(t, err)
		require.Equal(t, devmode.StatusApproved, got.Status)
		require.Equal(t, "e2", got.EmpresaID)
		require.Len(t, b.Pending(), 1)
	})

	t.Run("unchanged on failure", func(t *testing.T) {
		b := devmode.NewBoard()
		b.SetRequests(sampleRequests())
		remote := &fakeRemote{err: errors.New("HTTP 500")}

		_, err := b.Resolve(ctx, remote, "r2", devmode.StatusRejected)
		require.Error(t, err)
		require.Len(t, b.Pending(), 2)
	})

	t.Run("rejects invalid decision", func(t *testing.T) {
		b := devmode.NewBoard()
		remote := &fakeRemote{}
		_, err := b.Resolve(ctx, remote, "r2", devmode.StatusPending)
		require.Error(t, err)
		require.Empty(t, remote.resolved)
	})
}

func TestBoard_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("optimistic value visible during call", func(t *testing.T) {
		b := devmode.NewBoard()
		b.SetSwitch(devmode.Switch{EmpresaID: "e1", Enabled: false})
		remote := &fakeRemote{board: b}

		shown, err := b.Toggle(ctx, remote, "e1", true)
		require.NoError(t, err)
		require.True(t, shown)
		require.True(t, remote.seenDisplay)
		require.True(t, b.Enabled("e1"))
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		b := devmode.NewBoard()
		b.SetSwitch(devmode.Switch{EmpresaID: "e1", Enabled: false})
		remote := &fakeRemote{board: b, err: errors.New("network down")}

		shown, err := b.Toggle(ctx, remote, "e1", true)
		require.Error(t, err)
		require.False(t, shown)
		require.True(t, remote.seenDisplay)
		require.False(t, b.Enabled("e1"))
	})

	t.Run("keeps the state the remote reports", func(t *testing.T) {
		b := devmode.NewBoard()
		b.SetSwitch(devmode.Switch{EmpresaID: "e1", Enabled: false})
		stored := false
		remote := &fakeRemote{board: b, stored: &stored}

		shown, err := b.Toggle(ctx, remote, "e1", true)
		require.NoError(t, err)
		require.False(t, shown)
		require.True(t, remote.seenDisplay)
		require.False(t, b.Enabled("e1"))
	})

	t.Run("unknown switch starts from opposite value", func(t *testing.T) {
		b := devmode.NewBoard()
		remote := &fakeRemote{err: errors.New("boom")}
		shown, err := b.Toggle(ctx, remote, "new", true)
		require.Error(t, err)
		require.False(t, shown)
	})
}

func TestBoards(t *testing.T) {
	bs := devmode.NewBoards()
	a := bs.Get("a")
	require.Same(t, a, bs.Get("a"))
	require.NotSame(t, a, bs.Get("b"))
	bs.Drop("a")
	require.NotSame(t, a, bs.Get("a"))
}
