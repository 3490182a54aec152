package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

type fakeExec struct {
	loggedIn bool
	err      error

	calls []string
	after int
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool               { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Whoami(context.Context) error    { return f.record("whoami") }
func (f *fakeExec) Station(context.Context) error   { return f.record("station") }
func (f *fakeExec) Storage(context.Context) error   { return f.record("storage") }
func (f *fakeExec) Hangar(context.Context) error    { return f.record("hangar") }
func (f *fakeExec) Locations(context.Context) error { return f.record("locations") }
func (f *fakeExec) Cost(_ context.Context, what string) error {
	return f.record("cost " + what)
}
func (f *fakeExec) Upgrade(_ context.Context, what string) error {
	return f.record("upgrade " + what)
}
func (f *fakeExec) AddShip(context.Context) error { return f.record("addship") }
func (f *fakeExec) StartMission(_ context.Context, loc models.ID) error {
	return f.record("start " + loc.String())
}
func (f *fakeExec) SubmitMission(_ context.Context, loc, ship models.ID, seconds int64) error {
	return f.record(fmt.Sprintf("submit %s %s %d", loc, ship, seconds))
}
func (f *fakeExec) CancelMission(_ context.Context, loc models.ID) error {
	return f.record("cancel " + loc.String())
}
func (f *fakeExec) CheckMission(_ context.Context, loc models.ID) error {
	return f.record("check " + loc.String())
}
func (f *fakeExec) ShowMission(_ context.Context, id models.ID) error {
	return f.record("mission " + id.String())
}
func (f *fakeExec) WatchMission(_ context.Context, id models.ID) error {
	return f.record("watch " + id.String())
}
func (f *fakeExec) AbortMission(_ context.Context, id models.ID) error {
	return f.record("abort " + id.String())
}
func (f *fakeExec) ActiveMissions(context.Context) error { return f.record("missions") }
func (f *fakeExec) Message(context.Context) error        { return f.record("message") }
func (f *fakeExec) afterCommand(context.Context)         { f.after++ }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func runLines(exec *fakeExec, lines ...string) {
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_Dispatch(t *testing.T) {
	captureOutput(t)
	exec := &fakeExec{}

	runLines(exec,
		"login",
		"station",
		"storage",
		"hangar",
		"l",
		"cost storage",
		"cost ship scout",
		"upgrade hangar",
		"addship",
		"start 11",
		"submit 11 1 3600",
		"cancel 11",
		"check 12",
		"missions",
		"mission 77",
		"watch 77",
		"abort 77",
		"m",
		"whoami",
		"logout",
		"exit",
	)

	assert.Equal(t, []string{
		"login", "station", "storage", "hangar", "locations",
		"cost storage", "cost scout", "upgrade hangar", "addship",
		"start 11", "submit 11 1 3600", "cancel 11", "check 12",
		"missions", "mission 77", "watch 77", "abort 77", "message", "whoami", "logout",
	}, exec.calls)
	assert.Equal(t, len(exec.calls), exec.after)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := captureOutput(t)
	exec := &fakeExec{loggedIn: true}

	runLines(exec, "cost", "upgrade", "start", "submit 11 1", "submit 11 1 soon", "watch", "foobar", "", "quit")

	assert.Empty(t, exec.calls)
	assert.Zero(t, exec.after)
	assert.Contains(t, *out, "Usage: cost <storage|hangar|miner|scout>")
	assert.Contains(t, *out, "Usage: start <location>")
	assert.Contains(t, *out, "Usage: submit <location> <ship> <seconds>")
	assert.Contains(t, *out, "Usage: watch <mission id>")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	out := captureOutput(t)
	exec := &fakeExec{}

	runLines(exec, "help", "login", "help")

	assert.Contains(t, *out, helpAnonymous)
	assert.Contains(t, *out, helpLoggedIn)
	assert.Contains(t, *out, "mcli status>")
}

func TestRunREPL_PrintsErrors(t *testing.T) {
	out := captureOutput(t)
	exec := &fakeExec{err: errors.New("boom")}

	runLines(exec, "storage")

	assert.Contains(t, *out, "Error: boom")
	assert.Equal(t, 1, exec.after)
}
