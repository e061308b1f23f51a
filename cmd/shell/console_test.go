package shell

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/trybenon/peopled/rpc/client"
	"github.com/trybenon/peopled/rpc/common"
	"github.com/trybenon/peopled/rpc/serializer"
	"github.com/trybenon/peopled/rpc/server"
	"github.com/trybenon/peopled/rpc/transport/tcp"
)

// startServer runs a full server with an in-memory store on a loopback port
// and returns its endpoint.
func startServer(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	endpoint := l.Addr().String()
	l.Close()

	srv := server.NewRPCServer(
		common.ServerConfig{
			Endpoint:      endpoint,
			Store:         common.StoreBackendMemory,
			TimeoutSecond: 5,
			LogLevel:      "error",
		},
		tcp.NewTCPServerTransport(),
		serializer.NewSonicSerializer(),
	)

	go func() {
		if err := srv.Serve(); err != nil {
			t.Errorf("serve: %v", err)
		}
	}()
	t.Cleanup(func() { srv.Close() })

	// Wait for the listener
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", endpoint)
		if err == nil {
			conn.Close()
			return endpoint
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server did not come up")
	return ""
}

// newTestConsole builds a console whose session is connected to a fresh
// server. Output is captured in the returned buffer.
func newTestConsole(t *testing.T) (*console, *bytes.Buffer) {
	t.Helper()

	endpoint := startServer(t)
	ser := serializer.NewSonicSerializer()
	s, err := client.NewSession(
		common.ClientConfig{
			Endpoint:         endpoint,
			TimeoutSecond:    5,
			ReconnectDelayMS: 50,
		},
		tcp.NewTCPClientTransport(client.MessageIDExtractor(ser)),
		ser,
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	var out bytes.Buffer
	return newConsole(s, &out), &out
}

// runScript feeds the given lines through the script interpreter (non
// interactive mode, so the first invalid input fails)
func runScript(t *testing.T, c *console, script string) error {
	t.Helper()
	return c.runSource(bufio.NewReader(strings.NewReader(script)), false)
}

// person input in field order: name, coord x/y, height, weight, passport,
// eye color, location x/y/z
func personLines(name string, height int) string {
	return fmt.Sprintf("%s\n1\n2.5\n%d\n70\n\n\n0\n0\n0\n", name, height)
}

func TestConsoleScriptLifecycle(t *testing.T) {
	c, out := newTestConsole(t)

	script := "registration\nada\nsecret\n" +
		"authenticate\nada\nsecret\n" +
		"add\n" + personLines("Grace", 170) +
		"add\n" + personLines("Alan", 180) +
		"show\n" +
		"average_of_height\n" +
		"check_id 1\n" +
		"remove_by_id 1\n" +
		"clear\n"

	if err := runScript(t, c, script); err != nil {
		t.Fatalf("script failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"welcome, ada",
		"Grace",
		"Alan",
		"average height: 175.00",
		"owned=true",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	if got := len(c.session.View()); got != 0 {
		t.Errorf("expected empty view after clear, got %d records", got)
	}
}

func TestConsoleRequiresAuthentication(t *testing.T) {
	c, _ := newTestConsole(t)

	err := runScript(t, c, "show\n")
	if err == nil {
		t.Fatalf("expected show to fail before authentication")
	}
	if !strings.Contains(err.Error(), "not authenticated") {
		t.Errorf("unexpected error: %v", err)
	}

	// help works without an account
	if err := runScript(t, c, "help\n"); err != nil {
		t.Errorf("help should not need authentication: %v", err)
	}
}

func TestConsoleInvalidFieldFailsScript(t *testing.T) {
	c, _ := newTestConsole(t)

	if err := runScript(t, c, "registration\nada\nsecret\nauthenticate\nada\nsecret\n"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// height is not a number
	script := "add\nGrace\n1\n2.5\nnotanumber\n70\n\n\n0\n0\n0\n"
	if err := runScript(t, c, script); err == nil {
		t.Fatalf("expected invalid height to fail the script")
	}
}

func TestConsoleUnknownCommand(t *testing.T) {
	c, _ := newTestConsole(t)

	err := runScript(t, c, "frobnicate\n")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestConsoleExitStopsScript(t *testing.T) {
	c, out := newTestConsole(t)

	err := runScript(t, c, "help\nexit\nhelp\n")
	if err != errExit {
		t.Fatalf("expected errExit, got %v", err)
	}

	// 'help' prints the command reference once, the second one never ran
	if got := strings.Count(out.String(), "add_if_max"); got != 1 {
		t.Errorf("expected exactly one help output, got %d", got)
	}
}

func TestConsoleScriptRecursion(t *testing.T) {
	c, out := newTestConsole(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "loop.script")

	// the script calls itself
	content := fmt.Sprintf("help\nexecute_script %s\n", path)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	if err := runScript(t, c, fmt.Sprintf("execute_script %s\n", path)); err != nil {
		t.Fatalf("script failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "recursion") {
		t.Errorf("expected recursion notice, got:\n%s", text)
	}
	if got := strings.Count(text, "add_if_max"); got != 1 {
		t.Errorf("expected help to run exactly once, got %d", got)
	}
}
