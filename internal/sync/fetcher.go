package sync

import (
	"context"
	"time"

	"github.com/dgnsrekt/ttsdeck/internal/audio"
)

// fetcher executes a single audio retrieval for a job the server has
// reported complete. Eligibility (status, no fetch already in flight)
// is checked on the run loop before this is spawned; the fetcher only
// does the suspended work and posts the outcome back.
type fetcher struct {
	cfg     Config
	backend Backend
	events  chan<- event
}

// run retrieves and materializes the job's audio. The fixed pre-fetch
// delay absorbs the backend race where a job is marked complete
// slightly before the artifact is durably written.
func (f *fetcher) run(ctx context.Context, jobID string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(f.cfg.PreFetchDelay):
	}

	data, err := f.backend.FetchAudio(ctx, jobID)
	if err != nil {
		f.post(ctx, fetchResult{jobID: jobID, err: err})
		return
	}

	res, err := audio.NewResource(f.cfg.AudioDir, jobID, data)
	if err != nil {
		f.post(ctx, fetchResult{jobID: jobID, err: err})
		return
	}

	// If the engine shut down while the fetch was in flight, the result
	// is dropped but the materialized file must not leak.
	select {
	case f.events <- fetchResult{jobID: jobID, res: res}:
	case <-ctx.Done():
		_ = res.Release()
	}
}

func (f *fetcher) post(ctx context.Context, ev fetchResult) {
	select {
	case f.events <- ev:
	case <-ctx.Done():
	}
}
