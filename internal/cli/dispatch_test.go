package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"phototask/internal/cli"
	"phototask/internal/commands"
	"phototask/internal/config"
	"phototask/internal/exitcode"
	"phototask/internal/service"
	"phototask/internal/session"
	"phototask/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

// signedIn writes a session for token into a fresh config dir.
func signedIn(t *testing.T, token string) string {
	t.Helper()
	dir := t.TempDir()
	store := session.NewStore(filepath.Join(dir, config.SessionFile))
	if err := store.Save(session.Session{Email: "ana@example.com", Name: "Ana", Token: token}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return dir
}

func run(t *testing.T, svc *testutil.FakeService, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	var outBuf, errBuf bytes.Buffer
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeService(), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeService(), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, testutil.NewFakeService(), "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, stderr, code := run(t, testutil.NewFakeService(), "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "phototask 0.1.0\n" {
		t.Errorf("expected 'phototask 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeService(), "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeService(), "login", "--email")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -email\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NeedsAuthWithoutSession(t *testing.T) {
	svc := testutil.NewFakeService()
	_, stderr, code := run(t, svc, "list", "--config", t.TempDir())

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: phototask login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Error("expected no backend call")
	}
}

func TestDispatcher_ExpiredSession(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ana@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	dir := signedIn(t, expired)

	_, stderr, code := run(t, testutil.NewFakeService(), "list", "--config", dir)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: session expired (run: phototask login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	// The expired record is gone, so a second run reports no session.
	_, stderr, _ = run(t, testutil.NewFakeService(), "list", "--config", dir)
	if stderr != "error: not logged in (run: phototask login)\n" {
		t.Errorf("unexpected stderr on second run %q", stderr)
	}
}

func TestDispatcher_DefaultsToList(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Dune", false)
	t.Setenv("XDG_CONFIG_HOME", filepath.Dir(signedInAt(t)))

	stdout, stderr, code := run(t, svc)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	expected := "------------\nTasks of Ana\n------------\n   1  [ ] Dune\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

// signedInAt writes a session under a phototask directory so it can be
// found through XDG_CONFIG_HOME.
func signedInAt(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), config.AppName)
	store := session.NewStore(filepath.Join(dir, config.SessionFile))
	if err := store.Save(session.Session{Email: "ana@example.com", Name: "Ana", Token: testutil.FakeToken}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return dir
}

func TestDispatcher_UnauthorizedClearsSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Dune", false)
	dir := signedIn(t, "stale-token")

	_, stderr, code := run(t, svc, "toggle", "--config", dir, "1")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: session expired or invalid token; sign in again\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	cfg := &config.Config{Dir: dir}
	if cfg.HasSession() {
		t.Error("expected session file removed")
	}
}

func TestDispatcher_APIFlag(t *testing.T) {
	var got string
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		got = cfg.APIURL
		return testutil.NewFakeService(), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version", "--config", t.TempDir(), "--api", "https://tasks.example.com/"}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if got != "https://tasks.example.com" {
		t.Errorf("expected trimmed API URL, got %q", got)
	}
}

func TestDispatcher_LoginReadsPasswordFromInput(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ana@example.com", "Ana", "secret123")
	dir := t.TempDir()
	t.Setenv(commands.EnvPassword, "")

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	dispatcher.SetInput(strings.NewReader("secret123\n"))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"login", "--config", dir, "--email", "ana@example.com"}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr.String())
	}
	if stdout.String() != "signed in as Ana <ana@example.com>\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}

	stdout.Reset()
	stderr.Reset()
	code = dispatcher.Run(context.Background(), []string{"whoami", "--config", dir}, &stdout, &stderr)
	if code != exitcode.Success || stdout.String() != "Ana <ana@example.com>\n" {
		t.Errorf("unexpected whoami result %d %q %q", code, stdout.String(), stderr.String())
	}
}
