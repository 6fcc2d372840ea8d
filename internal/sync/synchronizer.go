package sync

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsdeck/internal/api"
	"github.com/dgnsrekt/ttsdeck/internal/job"
)

// Backend is the surface of the TTS service the engine depends on.
// *api.Client satisfies it; tests substitute fakes.
type Backend interface {
	Submit(ctx context.Context, req api.SubmitRequest) (string, error)
	ListJobs(ctx context.Context) ([]api.JobRecord, error)
	FetchAudio(ctx context.Context, jobID string) ([]byte, error)
	DeleteAudio(ctx context.Context, jobID string) error
	Health(ctx context.Context) (api.HealthReport, error)
}

// Synchronizer is the engine's composition root. It owns the job store,
// schedules polling and health probes, drives audio retrieval, and
// exposes the operations presentation code uses: Submit, FetchAudio,
// Remove, Jobs, Health.
type Synchronizer struct {
	cfg     Config
	backend Backend

	store  *job.Store
	health *healthMonitor
	rec    *reconciler
	poll   *poller
	fetch  *fetcher

	events        chan event
	notifications chan Notification

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	startOnce sync.Once
	closeOnce sync.Once

	// Run-loop state. Touched only by the loop goroutine.
	pollSeq      uint64
	pollInFlight bool
}

// New creates a synchronizer over backend. Call Start to begin polling
// and Close to tear down.
func New(backend Backend, cfg Config) *Synchronizer {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Synchronizer{
		cfg:           cfg,
		backend:       backend,
		store:         job.NewStore(),
		events:        make(chan event, cfg.EventBuffer),
		notifications: make(chan Notification, cfg.NotificationBuffer),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
	s.health = newHealthMonitor(s.notify)
	s.rec = newReconciler(s.store, s.notify)
	s.poll = &poller{cfg: cfg, backend: backend, events: s.events}
	s.fetch = &fetcher{cfg: cfg, backend: backend, events: s.events}
	return s
}

// Start launches the run loop, the first poll and the startup health
// probe. It is safe to call once; further calls are no-ops.
func (s *Synchronizer) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Close cancels all timers and in-flight work, waits for the run loop
// to drain, and releases every locally materialized audio resource.
func (s *Synchronizer) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.startOnce.Do(func() { close(s.done) }) // never started
		<-s.done
		s.store.Dispose()
		close(s.notifications)
	})
}

// Submit validates text client-side, posts the conversion request, and
// on success inserts the job optimistically with status pending. The
// job is visible in Jobs the moment Submit returns.
func (s *Synchronizer) Submit(ctx context.Context, req api.SubmitRequest) (job.Job, error) {
	if strings.TrimSpace(req.Text) == "" {
		return job.Job{}, api.ValidationError("Text is required.")
	}
	if n := utf8.RuneCountInString(req.Text); n > s.cfg.MaxTextLength {
		return job.Job{}, api.ValidationError(
			fmt.Sprintf("Text is too long: %d characters, limit is %d.", n, s.cfg.MaxTextLength))
	}

	id, err := s.backend.Submit(ctx, req)
	if err != nil {
		return job.Job{}, api.Classify(err)
	}

	j := job.Job{
		ID:          id,
		Status:      job.StatusPending,
		TextPreview: job.Preview(req.Text),
		SubmittedAt: time.Now(),
	}
	if err := s.do(func() { s.store.Upsert(j) }); err != nil {
		return job.Job{}, err
	}
	log.Debug("job submitted", "job", id)
	return j, nil
}

// FetchAudio starts audio retrieval for a completed job. The rejection
// cases are checked synchronously on the run loop, so a second call for
// the same job while one is in flight fails immediately and causes no
// network traffic.
func (s *Synchronizer) FetchAudio(jobID string) error {
	var startErr error
	err := s.do(func() {
		j, ok := s.store.Get(jobID)
		switch {
		case !ok:
			startErr = ErrUnknownJob
		case j.FetchingAudio:
			startErr = ErrFetchInFlight
		case !j.Status.CanFetchAudio():
			startErr = ErrAudioUnavailable
		default:
			j.FetchingAudio = true
			j.LocalError = ""
			s.store.Upsert(j)
			go s.fetch.run(s.ctx, jobID)
		}
	})
	if err != nil {
		return err
	}
	return startErr
}

// Remove issues the server-side delete and removes the job from the
// local view once the call resolves, regardless of outcome. A failed
// delete additionally surfaces a notification.
func (s *Synchronizer) Remove(jobID string) error {
	var startErr error
	err := s.do(func() {
		if _, ok := s.store.Get(jobID); !ok {
			startErr = ErrUnknownJob
			return
		}
		go func() {
			err := s.backend.DeleteAudio(s.ctx, jobID)
			select {
			case s.events <- deleteResult{jobID: jobID, err: err}:
			case <-s.ctx.Done():
			}
		}()
	})
	if err != nil {
		return err
	}
	return startErr
}

// Jobs returns the current local view in listing order.
func (s *Synchronizer) Jobs() []job.Job {
	return s.store.List()
}

// Job returns a single job by ID.
func (s *Synchronizer) Job(id string) (job.Job, bool) {
	return s.store.Get(id)
}

// Health returns the current reachability verdict and latest report.
func (s *Synchronizer) Health() HealthStatus {
	return s.health.Status()
}

// Notifications returns the one-shot user notification stream. The
// channel closes when the synchronizer is closed.
func (s *Synchronizer) Notifications() <-chan Notification {
	return s.notifications
}

// HandleDelta feeds a pushed status update into the engine. It
// implements api.DeltaHandler so a PushListener can be pointed straight
// at the synchronizer.
func (s *Synchronizer) HandleDelta(d api.Delta) {
	select {
	case s.events <- deltaEvent{delta: d}:
	case <-s.ctx.Done():
	}
}

// run is the engine's single-threaded scheduler.
func (s *Synchronizer) run() {
	defer close(s.done)

	// First poll fires immediately; reachability gets probed once at
	// startup and on the ticker afterwards.
	pollTimer := time.NewTimer(0)
	defer pollTimer.Stop()
	healthTicker := time.NewTicker(s.cfg.HealthInterval)
	defer healthTicker.Stop()
	go s.probeHealth()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-pollTimer.C:
			// Overlapping ticks are forbidden: if the previous poll is
			// still awaiting a response, this tick is skipped.
			if !s.pollInFlight {
				s.pollInFlight = true
				s.pollSeq++
				go s.poll.run(s.ctx, s.pollSeq)
			}
			pollTimer.Reset(s.poll.interval(s.health.Status().State))

		case <-healthTicker.C:
			go s.probeHealth()

		case ev := <-s.events:
			s.handle(ev)
		}
	}
}

// handle processes one event on the loop.
func (s *Synchronizer) handle(ev event) {
	switch ev := ev.(type) {
	case applyEvent:
		ev.fn()
		close(ev.done)

	case pollResult:
		if ev.seq != s.pollSeq {
			// Response from a superseded tick; never let it overwrite a
			// later merge.
			log.Debug("discarding stale poll response", "seq", ev.seq, "current", s.pollSeq)
			return
		}
		s.pollInFlight = false
		if ev.err != nil {
			apiErr := api.Classify(ev.err)
			log.Warn("poll tick failed", "kind", apiErr.Kind, "err", ev.err)
			if apiErr.Kind == api.KindNetworkUnreachable {
				s.health.observe(HealthUnhealthy, api.HealthReport{}, time.Now())
			}
			return
		}
		s.rec.merge(ev.records)
		// A successful poll proves reachability, narrowing the interval
		// again without waiting for the next health probe.
		s.health.observe(HealthHealthy, api.HealthReport{}, time.Now())

	case healthResult:
		state := HealthHealthy
		if ev.err != nil || ev.report.Status != "healthy" {
			state = HealthUnhealthy
		}
		s.health.observe(state, ev.report, time.Now())

	case fetchResult:
		s.finishFetch(ev)

	case deleteResult:
		// Removal proceeds on success and failure alike: restoring a
		// half-deleted job would resurrect server state the client
		// cannot verify. The failure still surfaces to the user.
		s.store.Remove(ev.jobID)
		if ev.err != nil {
			s.notify(Notification{
				Kind:    NoteDeleteFailed,
				JobID:   ev.jobID,
				Message: api.Classify(ev.err).UserMessage(),
			})
		}

	case deltaEvent:
		s.rec.applyDelta(ev.delta)
	}
}

// finishFetch lands the outcome of an audio retrieval on the job.
func (s *Synchronizer) finishFetch(ev fetchResult) {
	j, ok := s.store.Get(ev.jobID)
	if !ok {
		// Job was removed while the fetch was in flight; nothing to
		// attach the resource to, so it must be released here.
		if ev.res != nil {
			_ = ev.res.Release()
		}
		return
	}

	j.FetchingAudio = false
	if ev.err != nil {
		apiErr := api.Classify(ev.err)
		j.LocalError = apiErr.UserMessage()
		s.store.Upsert(j)
		log.Warn("audio fetch failed", "job", ev.jobID, "kind", apiErr.Kind)
		s.notify(Notification{Kind: NoteAudioFailed, JobID: ev.jobID, Message: j.LocalError})
		return
	}

	// Upsert releases a previously materialized resource when a retry
	// replaces it.
	j.Audio = ev.res
	j.Status = job.StatusReady
	j.LocalError = ""
	s.store.Upsert(j)
	log.Debug("audio ready", "job", ev.jobID, "bytes", ev.res.Size())
	s.notify(Notification{Kind: NoteAudioReady, JobID: ev.jobID, Message: "Audio is ready to play."})
}

// probeHealth runs one reachability probe and posts the verdict.
func (s *Synchronizer) probeHealth() {
	report, err := s.backend.Health(s.ctx)
	select {
	case s.events <- healthResult{report: report, err: err}:
	case <-s.ctx.Done():
	}
}

// do runs fn on the loop and waits for it, serializing the mutation
// with everything else the loop applies.
func (s *Synchronizer) do(fn func()) error {
	ev := applyEvent{fn: fn, done: make(chan struct{})}
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
		return ErrClosed
	}
	select {
	case <-ev.done:
		return nil
	case <-s.ctx.Done():
		return ErrClosed
	}
}

// notify delivers n without ever blocking the loop; when the consumer
// is not draining, the notification is dropped.
func (s *Synchronizer) notify(n Notification) {
	select {
	case s.notifications <- n:
	default:
		log.Debug("notification dropped", "kind", n.Kind, "job", n.JobID)
	}
}
