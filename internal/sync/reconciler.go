package sync

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsdeck/internal/api"
	"github.com/dgnsrekt/ttsdeck/internal/job"
)

// reconciler folds server snapshots and pushed deltas into the job
// store. Merges are field-level: the server's status and text win,
// while FetchingAudio, Audio and LocalError are local-only and survive
// untouched. Jobs present locally but absent from a snapshot are
// retained, which keeps optimistic inserts visible during the gap
// between submission and the first poll that lists them.
type reconciler struct {
	store  *job.Store
	notify func(Notification)
	now    func() time.Time
}

func newReconciler(store *job.Store, notify func(Notification)) *reconciler {
	return &reconciler{store: store, notify: notify, now: time.Now}
}

// merge applies a full snapshot. Listing order follows the snapshot;
// retained local-only jobs trail it in their previous order. Records
// with a status string the client does not know are rejected and
// skipped rather than passed through.
func (r *reconciler) merge(records []api.JobRecord) {
	order := make([]string, 0, len(records))
	for _, rec := range records {
		status, err := job.ParseStatus(rec.Status)
		if err != nil {
			log.Warn("rejecting snapshot record", "job", rec.JobID, "err", err)
			continue
		}
		order = append(order, rec.JobID)
		r.apply(rec.JobID, status, rec.Text)
	}
	r.store.Reorder(order)
}

// applyDelta applies a pushed single-job update with the same merge
// rules. A delta for a job not in the local view is dropped: it carries
// no text to build a record from, and the next snapshot will list the
// job anyway.
func (r *reconciler) applyDelta(d api.Delta) {
	status, err := job.ParseStatus(d.Status)
	if err != nil {
		log.Warn("rejecting pushed update", "job", d.JobID, "err", err)
		return
	}
	if _, ok := r.store.Get(d.JobID); !ok {
		log.Debug("dropping pushed update for unlisted job", "job", d.JobID)
		return
	}
	r.apply(d.JobID, status, "")
}

// apply merges one server-reported record into the store.
func (r *reconciler) apply(id string, status job.Status, text string) {
	cur, ok := r.store.Get(id)
	if !ok {
		r.store.Upsert(job.Job{
			ID:          id,
			Status:      status,
			TextPreview: job.Preview(text),
			SubmittedAt: r.now(),
		})
		return
	}

	next := cur
	next.Status = mergeStatus(cur.Status, status)

	// First transition into completed is the cue for presentation to
	// offer audio retrieval.
	if cur.Status.Active() && next.Status == job.StatusCompleted && r.notify != nil {
		r.notify(Notification{
			Kind:    NoteJobCompleted,
			JobID:   id,
			Message: "Synthesis finished. Audio can be fetched.",
		})
	}

	// A job that left the completed/ready states cannot keep a local
	// audio resource; clearing the field makes the store release it.
	if !next.Status.CanFetchAudio() {
		next.Audio = nil
	}

	r.store.Upsert(next)
}

// mergeStatus picks the post-merge status. The server is the source of
// truth with one exception: ready is the local refinement of completed,
// so a server-reported completed never regresses it.
func mergeStatus(local, server job.Status) job.Status {
	if local == job.StatusReady && server == job.StatusCompleted {
		return job.StatusReady
	}
	return server
}
