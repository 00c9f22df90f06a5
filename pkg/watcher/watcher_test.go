package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// recorder collects onChange calls.
type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
}

func (r *recorder) seen() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32
	var got atomic.Value
	for i := 0; i < 10; i++ {
		path := "a"
		if i%2 == 1 {
			path = "b"
		}
		d.Trigger(path, func(paths []string) {
			callCount.Add(1)
			got.Store(paths)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(120 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
	if paths, _ := got.Load().([]string); len(paths) != 2 {
		t.Errorf("expected both paths in one callback, got %v", paths)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger("a", func([]string) {
		called.Store(true)
	})
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0)
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func TestNewWatcher_NoPaths(t *testing.T) {
	if _, err := NewWatcher(nil); !errors.Is(err, ErrNoPaths) {
		t.Errorf("expected ErrNoPaths, got %v", err)
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := writeSource(t, tmpDir, "rows.jsonl", "initial")

	rec := &recorder{}
	w, err := NewWatcher([]string{tmpFile},
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(rec.record),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	writeSource(t, tmpDir, "rows.jsonl", "modified content")
	time.Sleep(300 * time.Millisecond)

	if len(rec.seen()) == 0 {
		t.Error("expected change to be detected")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := writeSource(t, tmpDir, "rows.jsonl", "initial")

	rec := &recorder{}
	w, err := NewWatcher([]string{tmpFile},
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(rec.record),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	writeSource(t, tmpDir, "other.txt", "noise")
	time.Sleep(150 * time.Millisecond)

	if calls := rec.seen(); len(calls) != 0 {
		t.Errorf("unexpected notifications %v", calls)
	}
}

func TestWatcher_PollingFallback(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeSource(t, tmpDir, "a.jsonl", "initial")
	b := writeSource(t, tmpDir, "b.yaml", "initial")

	rec := &recorder{}
	w, err := NewWatcher([]string{a, b, a},
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(rec.record),
	)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(w.Paths()); got != 2 {
		t.Errorf("expected duplicates removed, got %d paths", got)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected watcher to be in polling mode")
	}

	time.Sleep(50 * time.Millisecond)
	writeSource(t, tmpDir, "a.jsonl", "modified via polling")
	writeSource(t, tmpDir, "b.yaml", "modified via polling too")
	time.Sleep(400 * time.Millisecond)

	calls := rec.seen()
	if len(calls) == 0 {
		t.Fatal("expected change to be detected via polling")
	}
	total := 0
	for _, c := range calls {
		total += len(c)
	}
	if total < 2 {
		t.Errorf("expected both files reported, got %v", calls)
	}
}

func TestWatcher_ChangedChannel(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := writeSource(t, tmpDir, "rows.jsonl", "initial")

	w, err := NewWatcher([]string{tmpFile},
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(100*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(tmpFile, []byte("new content"), 0644)
	}()

	select {
	case paths := <-w.Changed():
		if len(paths) != 1 || filepath.Base(paths[0]) != "rows.jsonl" {
			t.Errorf("unexpected paths %v", paths)
		}
	case <-time.After(time.Second):
		t.Error("timeout waiting for change notification")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv("ACCORDION_FORCE_POLL", "1")

	tmpFile := writeSource(t, t.TempDir(), "rows.jsonl", "initial")
	w, err := NewWatcher([]string{tmpFile},
		WithDebounceDuration(10*time.Millisecond),
		WithPollInterval(25*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected watcher to be in polling mode when ACCORDION_FORCE_POLL is set")
	}
}

func TestWatcher_RemoteFilesystem_UsesPolling(t *testing.T) {
	tmpFile := writeSource(t, t.TempDir(), "rows.jsonl", "initial")

	orig := detectFilesystemTypeFunc
	detectFilesystemTypeFunc = func(string) FilesystemType { return FSTypeNFS }
	t.Cleanup(func() { detectFilesystemTypeFunc = orig })

	w, err := NewWatcher([]string{tmpFile},
		WithDebounceDuration(10*time.Millisecond),
		WithPollInterval(25*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected watcher to use polling on remote filesystem")
	}
	if got := w.FilesystemType(); got != FSTypeNFS {
		t.Fatalf("expected filesystem type %v, got %v", FSTypeNFS, got)
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	tmpFile := writeSource(t, t.TempDir(), "rows.jsonl", "initial")

	var (
		errMu    sync.Mutex
		gotError error
	)
	w, err := NewWatcher([]string{tmpFile},
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(100*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			errMu.Lock()
			gotError = err
			errMu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.Remove(tmpFile); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	errMu.Lock()
	receivedError := gotError
	errMu.Unlock()

	if !errors.Is(receivedError, ErrFileRemoved) {
		t.Errorf("expected ErrFileRemoved, got %v", receivedError)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	tmpFile := writeSource(t, t.TempDir(), "rows.jsonl", "initial")

	w, err := NewWatcher([]string{tmpFile})
	if err != nil {
		t.Fatal(err)
	}
	if w.IsStarted() {
		t.Error("watcher should not be started initially")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if !w.IsStarted() {
		t.Error("watcher should be started after Start()")
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should not be started after Stop()")
	}
	w.Stop()
}

func TestWatcher_PollInterval(t *testing.T) {
	tmpFile := writeSource(t, t.TempDir(), "rows.jsonl", "initial")

	customInterval := 500 * time.Millisecond
	w, err := NewWatcher([]string{tmpFile}, WithPollInterval(customInterval))
	if err != nil {
		t.Fatal(err)
	}
	if got := w.PollInterval(); got != customInterval {
		t.Errorf("expected poll interval %v, got %v", customInterval, got)
	}
}

func TestFilesystemType_String(t *testing.T) {
	tests := []struct {
		fsType   FilesystemType
		expected string
	}{
		{FSTypeUnknown, "unknown"},
		{FSTypeLocal, "local"},
		{FSTypeNFS, "nfs"},
		{FSTypeSMB, "smb"},
		{FSTypeSSHFS, "sshfs"},
		{FSTypeFUSE, "fuse"},
		{FilesystemType(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.fsType.String(); got != tc.expected {
			t.Errorf("FilesystemType(%d).String() = %q, expected %q", tc.fsType, got, tc.expected)
		}
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{"on", true},
		{"0", false},
		{"no", false},
		{"", false},
		{"invalid", false},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("TEST_ENV_BOOL", tc.value)
			if got := envBool("TEST_ENV_BOOL"); got != tc.expected {
				t.Errorf("envBool(%q) = %v, expected %v", tc.value, got, tc.expected)
			}
		})
	}
}

func TestDetectFilesystemType_EmptyPath(t *testing.T) {
	if got := DetectFilesystemType(""); got != FSTypeUnknown {
		t.Errorf("DetectFilesystemType(\"\") = %v, expected FSTypeUnknown", got)
	}
}

func TestDetectFilesystemType_NonExistentPath(t *testing.T) {
	nonExistent := filepath.Join(t.TempDir(), "missing", "rows.jsonl")
	_ = DetectFilesystemType(nonExistent)
}

func TestMergePaths(t *testing.T) {
	got := mergePaths([]string{"b", "a"}, []string{"a", "c"})
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("unexpected merge %v", got)
	}
}
