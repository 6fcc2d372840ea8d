// Package audio materializes fetched speech audio into playable local
// resources and plays them back through oto.
package audio

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Resource is a locally materialized audio byte stream, written to a
// temporary file so the rest of the program can hand around a small
// handle instead of the full payload. A resource is owned by exactly
// one job record and must be released when that record is removed or
// the resource is replaced.
type Resource struct {
	jobID string
	path  string
	size  int64

	releaseOnce sync.Once
	releaseErr  error
}

// NewResource writes data to a fresh temporary file under dir and
// returns the handle. An empty dir falls back to the system temp
// directory.
func NewResource(dir, jobID string, data []byte) (*Resource, error) {
	if len(data) == 0 {
		return nil, errors.New("audio data is empty")
	}

	f, err := os.CreateTemp(dir, "ttsdeck-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("unable to create audio file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("unable to write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("unable to close audio file: %w", err)
	}

	return &Resource{
		jobID: jobID,
		path:  f.Name(),
		size:  int64(len(data)),
	}, nil
}

// JobID returns the job this resource belongs to.
func (r *Resource) JobID() string { return r.jobID }

// Path returns the on-disk location of the audio file.
func (r *Resource) Path() string { return r.path }

// Size returns the audio payload size in bytes.
func (r *Resource) Size() int64 { return r.size }

// Release deletes the underlying file. It is safe to call more than
// once; only the first call performs the removal.
func (r *Resource) Release() error {
	r.releaseOnce.Do(func() {
		r.releaseErr = os.Remove(r.path)
	})
	return r.releaseErr
}
