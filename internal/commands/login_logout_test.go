package commands_test

import (
	"strings"
	"testing"

	"phototask/internal/commands"
	"phototask/internal/exitcode"
	"phototask/internal/session"
	"phototask/internal/testutil"
)

// TestLoginCommand_Success verifies login persists the session
func TestLoginCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ana@example.com", "Ana", "secret123")
	env := newEnv(t, svc, "", false)

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("ana@example.com", "secret123")
	stdout, stderr, code := runCommand(t, cmd, env, nil)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "signed in as Ana <ana@example.com>\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	stored, err := session.NewStore(env.Config.SessionPath()).Load()
	if err != nil || stored == nil {
		t.Fatalf("expected stored session, got %v, %v", stored, err)
	}
	if stored.Token != testutil.FakeToken || stored.Name != "Ana" {
		t.Errorf("unexpected stored session %+v", stored)
	}
}

// TestLoginCommand_WrongPassword verifies a 401 maps to an auth error
func TestLoginCommand_WrongPassword(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ana@example.com", "Ana", "secret123")
	env := newEnv(t, svc, "", false)

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("ana@example.com", "wrong")
	stdout, stderr, code := runCommand(t, cmd, env, nil)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: incorrect email or password\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if env.Config.HasSession() {
		t.Error("no session must be stored")
	}
}

// TestLoginCommand_PasswordSources verifies env and stdin fallbacks
func TestLoginCommand_PasswordSources(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		svc := testutil.NewFakeService()
		svc.AddUser("ana@example.com", "Ana", "secret123")
		t.Setenv(commands.EnvPassword, "secret123")

		cmd := &commands.LoginCmd{}
		cmd.SetCredentials("ana@example.com", "")
		_, stderr, code := runCommand(t, cmd, newEnv(t, svc, "", true), nil)
		if code != exitcode.Success {
			t.Errorf("expected success, got %d (stderr %q)", code, stderr)
		}
	})

	t.Run("stdin", func(t *testing.T) {
		svc := testutil.NewFakeService()
		svc.AddUser("ana@example.com", "Ana", "secret123")
		t.Setenv(commands.EnvPassword, "")
		env := newEnv(t, svc, "", true)
		env.In = strings.NewReader("secret123\r\n")

		cmd := &commands.LoginCmd{}
		cmd.SetCredentials("ana@example.com", "")
		_, stderr, code := runCommand(t, cmd, env, nil)
		if code != exitcode.Success {
			t.Errorf("expected success, got %d", code)
		}
		if stderr != "Password: " {
			t.Errorf("expected prompt on stderr, got %q", stderr)
		}
	})
}

// TestLoginCommand_MissingInput verifies validation before any request
func TestLoginCommand_MissingInput(t *testing.T) {
	t.Setenv(commands.EnvPassword, "")

	tests := []struct {
		name, email, password string
		want                  string
	}{
		{"no email", "", "x", "error: email required\n"},
		{"no password", "ana@example.com", "", "error: password required\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			cmd := &commands.LoginCmd{}
			cmd.SetCredentials(tt.email, tt.password)

			_, stderr, code := runCommand(t, cmd, newEnv(t, svc, "", false), nil)
			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
			if svc.TotalCalls() != 0 {
				t.Error("expected no backend call")
			}
		})
	}
}

// TestLogoutCommand_RemovesSession verifies logout deletes the session file
func TestLogoutCommand_RemovesSession(t *testing.T) {
	env := newEnv(t, nil, testutil.FakeToken, false)

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, env, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" || stderr != "" {
		t.Errorf("unexpected output %q %q", stdout, stderr)
	}
	if env.Config.HasSession() {
		t.Error("expected session file removed")
	}
	if env.Session.Token() != "" {
		t.Error("expected in-memory session cleared")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout without a session
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, newEnv(t, nil, "", false), nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected %q, got %q", "not logged in\n", stdout)
	}
}

// TestWhoamiCommand prints the account of the session
func TestWhoamiCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.WhoamiCmd{}, newEnv(t, nil, testutil.FakeToken, false), nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Ana <ana@example.com>\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}
