//go:build smoke

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
)

// TestSmoke_WatchPTY runs the built binary on a pseudo-TTY against a fake
// feed and checks that real terminal output carries the day's games.
func TestSmoke_WatchPTY(t *testing.T) {
	projectRoot := findProjectRoot(t)
	binary := filepath.Join(t.TempDir(), "faceoff")

	build := exec.Command("go", "build",
		"-ldflags", "-X main.version=smoke-test -X main.commit=abc1234 -X main.date=2026-01-01",
		"-o", binary, "./cmd/faceoff")
	build.Dir = projectRoot
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}

	feed := httptest.NewServer(http.HandlerFunc(fakeFeed))
	defer feed.Close()

	t.Run("schedule renders and q quits", func(t *testing.T) {
		ptmx, cmd := startWatch(t, binary, feed.URL)

		output := readPTYUntil(t, ptmx, "TOR", 8*time.Second)
		if !strings.Contains(stripANSI(output), "TOR") {
			t.Errorf("expected 'TOR' in rendered output, got:\n%s", stripANSI(output))
		}

		ptmx.Write([]byte("q"))
		waitForExit(t, cmd, 5*time.Second)
	})

	t.Run("standings open from schedule", func(t *testing.T) {
		ptmx, cmd := startWatch(t, binary, feed.URL)
		readPTYUntil(t, ptmx, "TOR", 8*time.Second)

		ptmx.Write([]byte("s"))
		output := readPTYUntil(t, ptmx, "Atlantic", 5*time.Second)
		if !strings.Contains(stripANSI(output), "Atlantic") {
			t.Errorf("expected standings in rendered output, got:\n%s", stripANSI(output))
		}

		ptmx.Write([]byte("q"))
		waitForExit(t, cmd, 5*time.Second)
	})
}

var scheduleDate = regexp.MustCompile(`^/schedule/(\d{4}-\d{2}-\d{2})$`)

// fakeFeed serves one live game on whatever date is asked for, and a
// two-team standings table.
func fakeFeed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var body any
	switch {
	case scheduleDate.MatchString(r.URL.Path):
		day := scheduleDate.FindStringSubmatch(r.URL.Path)[1]
		body = map[string]any{"gameWeek": []any{map[string]any{
			"date": day,
			"games": []any{map[string]any{
				"id":                2026020001,
				"gameState":         "LIVE",
				"gameScheduleState": "OK",
				"startTimeUTC":      day + "T23:00:00Z",
				"awayTeam":          map[string]any{"id": 10, "abbrev": "TOR", "score": 2},
				"homeTeam":          map[string]any{"id": 8, "abbrev": "MTL", "score": 1},
				"periodDescriptor":  map[string]any{"number": 2, "periodType": "REG"},
				"clock":             map[string]any{"timeRemaining": "12:34"},
			}},
		}}}
	case strings.HasPrefix(r.URL.Path, "/standings/"):
		team := func(abbrev string, seq, pts int) map[string]any {
			return map[string]any{
				"teamAbbrev":       map[string]any{"default": abbrev},
				"teamName":         map[string]any{"default": abbrev + " Club"},
				"conferenceName":   "Eastern",
				"divisionName":     "Atlantic",
				"divisionSequence": seq,
				"points":           pts,
			}
		}
		body = map[string]any{"standings": []any{team("TOR", 1, 10), team("MTL", 2, 8)}}
	default:
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// startWatch launches the binary with a pseudo-TTY. The PTY is closed and
// the process killed when the test finishes.
func startWatch(t *testing.T, binary, feedURL string) (*os.File, *exec.Cmd) {
	t.Helper()
	home := t.TempDir()
	cmd := exec.Command(binary)
	cmd.Dir = home
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"HOME="+home,
		"XDG_CONFIG_HOME="+home,
		"FACEOFF_BASE_URL="+feedURL,
		"FACEOFF_LOG_FILE="+filepath.Join(home, "faceoff.log"),
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 30, Cols: 100})
	if err != nil {
		t.Fatalf("failed to start with PTY: %v", err)
	}
	t.Cleanup(func() {
		ptmx.Close()
		if cmd.Process != nil {
			cmd.Process.Kill()
			cmd.Wait()
		}
	})
	return ptmx, cmd
}

// readPTYUntil reads from the PTY until the target string appears or timeout.
func readPTYUntil(t *testing.T, ptmx *os.File, target string, timeout time.Duration) string {
	t.Helper()
	var buf bytes.Buffer
	deadline := time.After(timeout)
	tmp := make([]byte, 4096)

	for {
		ptmx.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, err := ptmx.Read(tmp)
		if n > 0 {
			buf.Write(tmp[:n])
			if strings.Contains(stripANSI(buf.String()), target) {
				return buf.String()
			}
		}
		select {
		case <-deadline:
			t.Logf("timeout waiting for %q, got so far:\n%s", target, stripANSI(buf.String()))
			return buf.String()
		default:
		}
		if err != nil && !os.IsTimeout(err) && err != io.EOF {
			return buf.String()
		}
	}
}

// waitForExit waits for the command to exit within the timeout.
func waitForExit(t *testing.T, cmd *exec.Cmd, timeout time.Duration) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("faceoff exited with: %v", err)
		}
	case <-time.After(timeout):
		cmd.Process.Kill()
		t.Errorf("faceoff did not exit within %s, killed", timeout)
	}
}

// findProjectRoot walks up from the working directory to go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

var ansiSeq = regexp.MustCompile(`\x1b(\[[0-9;?]*[ -/]*[@-~]|\][^\x07\x1b]*(\x07|\x1b\\)|[@-Z\\-_])`)

// stripANSI removes CSI, OSC and two-byte escape sequences.
func stripANSI(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}
