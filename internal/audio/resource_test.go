package audio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewResource(t *testing.T) {
	dir := t.TempDir()
	data := []byte("fake mp3 payload")

	res, err := NewResource(dir, "job-1", data)
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}

	if res.JobID() != "job-1" {
		t.Errorf("JobID = %q, want %q", res.JobID(), "job-1")
	}
	if res.Size() != int64(len(data)) {
		t.Errorf("Size = %d, want %d", res.Size(), len(data))
	}
	if filepath.Dir(res.Path()) != dir {
		t.Errorf("resource written to %s, want under %s", res.Path(), dir)
	}
	if !strings.HasSuffix(res.Path(), ".mp3") {
		t.Errorf("resource path %q should carry the .mp3 suffix", res.Path())
	}

	got, err := os.ReadFile(res.Path())
	if err != nil {
		t.Fatalf("reading resource file: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("file contents = %q, want %q", got, data)
	}
}

func TestNewResourceRejectsEmptyData(t *testing.T) {
	if _, err := NewResource(t.TempDir(), "job-1", nil); err == nil {
		t.Error("NewResource with empty data should fail")
	}
}

func TestResourceRelease(t *testing.T) {
	res, err := NewResource(t.TempDir(), "job-1", []byte("x"))
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}

	if err := res.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(res.Path()); !os.IsNotExist(err) {
		t.Error("file still exists after Release")
	}

	// Releasing again must be a no-op, not a second removal attempt.
	if err := res.Release(); err != nil {
		t.Errorf("second Release returned %v, want nil", err)
	}
}

func TestMockPlayer(t *testing.T) {
	res, err := NewResource(t.TempDir(), "job-1", []byte("x"))
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}
	defer res.Release() //nolint:errcheck

	p := NewMockPlayer()

	if err := p.Play(res); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !p.IsPlaying() {
		t.Error("IsPlaying = false after Play")
	}
	if p.LastPlayed() != res {
		t.Error("LastPlayed did not record the resource")
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if p.IsPlaying() {
		t.Error("IsPlaying = true after Stop")
	}
	if p.PlayCount() != 1 || p.StopCount() != 1 {
		t.Errorf("counts = %d/%d, want 1/1", p.PlayCount(), p.StopCount())
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Play(res); err == nil {
		t.Error("Play after Close should fail")
	}
}
