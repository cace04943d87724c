//go:build integration
// +build integration

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// buildBinary builds tracklist into a temp dir.
func buildBinary(t *testing.T) string {
	t.Helper()

	bin := filepath.Join(t.TempDir(), "tracklist_test")
	buildCmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}
	return bin
}

// fakeDirectory serves one playlist that points at two songs of one album.
func fakeDirectory(t *testing.T) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		guid := r.URL.Query().Get("guid")
		switch {
		case r.URL.Path == "/podcasts/byguid" && guid == "mix":
			fmt.Fprintf(w, `{"status":"true","feed":{"podcastGuid":"mix","medium":"musicL","title":"Test Mix","author":"Curator","originalUrl":"%s/mix.xml"}}`, server.URL)
		case r.URL.Path == "/podcasts/byguid" && guid == "album":
			fmt.Fprint(w, `{"status":"true","feed":{"podcastGuid":"album","medium":"music","title":"Album","author":"Band"}}`)
		case r.URL.Path == "/podcasts/byguid":
			fmt.Fprint(w, `{"status":"true","feed":[],"description":"No feeds match this guid."}`)
		case r.URL.Path == "/episodes/bypodcastguid":
			fmt.Fprint(w, `{"status":"true","items":[{"guid":"s1","title":"First Song"},{"guid":"s2","title":"Second Song"}],"count":2}`)
		case r.URL.Path == "/mix.xml":
			fmt.Fprint(w, `<rss xmlns:podcast="https://podcastindex.org/namespace/1.0"><channel><title>Test Mix</title>
<podcast:remoteItem feedGuid="album" itemGuid="s2"/>
<podcast:remoteItem feedGuid="album" itemGuid="missing"/>
<podcast:remoteItem feedGuid="album" itemGuid="s1"/>
</channel></rss>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testEnv(t *testing.T, baseURL string) []string {
	t.Helper()

	home := t.TempDir()
	return append(os.Environ(),
		"HOME="+home,
		"TRACKLIST_PODCASTINDEX_API_KEY=test_key",
		"TRACKLIST_PODCASTINDEX_API_SECRET=test_secret",
		"TRACKLIST_PODCASTINDEX_BASE_URL="+baseURL,
		"TRACKLIST_LIBRARY_PATH="+filepath.Join(home, "library.db"),
	)
}

// TestPlaylistCommand resolves a playlist, saves it and lists the library
func TestPlaylistCommand(t *testing.T) {
	bin := buildBinary(t)
	directory := fakeDirectory(t)
	env := testEnv(t, directory.URL)

	cmd := exec.Command(bin, "playlist", "mix", "--save", "--log-level", "error")
	cmd.Env = env
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("playlist command failed: %v\n%s", err, output)
	}

	for _, want := range []string{
		"Test Mix by Curator (2 songs)",
		"1. Second Song - Curator",
		"2. First Song - Curator",
		"1 unresolved:",
		"album:missing",
	} {
		if !strings.Contains(string(output), want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}

	cmd = exec.Command(bin, "library", "list")
	cmd.Env = env
	output, err = cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("library list failed: %v\n%s", err, output)
	}
	if !strings.Contains(string(output), "mix  Test Mix by Curator (2 songs, 1 unresolved)") {
		t.Errorf("unexpected library list output:\n%s", output)
	}
}

// TestMissingCredentials checks that commands fail before any request
func TestMissingCredentials(t *testing.T) {
	bin := buildBinary(t)

	cmd := exec.Command(bin, "album", "some-guid")
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure without credentials, got:\n%s", output)
	}
	if !strings.Contains(string(output), "podcastindex.api_key") {
		t.Errorf("expected missing key in output, got:\n%s", output)
	}
}

// TestServeLifecycle starts the server, queries it and stops it
func TestServeLifecycle(t *testing.T) {
	bin := buildBinary(t)
	directory := fakeDirectory(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "serve", "--addr", addr, "--no-library", "--log-level", "error")
	cmd.Env = testEnv(t, directory.URL)
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/playlists/mix")
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("failed to signal server: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Error("Server did not stop within 5 seconds")
	}
}
