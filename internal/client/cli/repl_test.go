package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Start(ctx context.Context, targets []string) error {
	return f.record("start", targets)
}
func (f *fakeExec) SelectSlot(args []string) error { return f.record("select", args) }
func (f *fakeExec) SetFix(args []string) error     { return f.record("loc", args) }
func (f *fakeExec) Capture(ctx context.Context, args []string) error {
	return f.record("capture", args)
}
func (f *fakeExec) Confirm(ctx context.Context, args []string) error {
	return f.record("confirm", args)
}
func (f *fakeExec) Clear(args []string) error        { return f.record("clear", args) }
func (f *fakeExec) Status(ctx context.Context) error { return f.record("status", nil) }
func (f *fakeExec) Finish(ctx context.Context) error { return f.record("finish", nil) }
func (f *fakeExec) Latest(ctx context.Context) error { return f.record("latest", nil) }
func (f *fakeExec) Journal(ctx context.Context) error {
	return f.record("journal", nil)
}

func TestRunREPL_WalkFlow(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"start cat tree bench",
		"select 1",
		"capture 1 cat.jpg",
		"confirm",
		"status",
		"finish",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	want := []string{"login", "start", "select", "capture", "confirm", "status", "finish"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls: got %v, want %v", exec.calls, want)
	}
	for i, c := range exec.calls {
		if c != want[i] {
			t.Fatalf("call %d: got %q, want %q", i, c, want[i])
		}
	}

	if got := exec.args[1]; len(got) != 3 || got[0] != "cat" {
		t.Fatalf("start args: %v", got)
	}
	if got := exec.args[3]; len(got) != 2 || got[1] != "cat.jpg" {
		t.Fatalf("capture args: %v", got)
	}
}

func TestRunREPL_QuitOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
