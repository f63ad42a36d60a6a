package session

import (
	"context"
	"sync"
)

// taskRegistry tracks the tasks parked on a thread so that closing the
// thread or dismissing a tag menu can cancel them directly.
type taskRegistry struct {
	mu      sync.Mutex
	titles  map[string]*titleWait
	dialogs map[string]*tagDialog
}

// titleWait is a thread still waiting for its title. Closing the thread and
// activating it are serialized on mu: once closing is set, activation no
// longer touches the thread.
type titleWait struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closing bool
}

// settle runs fn unless the thread is being closed and reports whether it
// ran. A close arriving meanwhile waits for fn to return.
func (w *titleWait) settle(fn func() error) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closing {
		return false, nil
	}
	return true, fn()
}

func (w *titleWait) markClosing() {
	w.cancel()
	w.mu.Lock()
	w.closing = true
	w.mu.Unlock()
}

type tagDialog struct {
	messageID string
	cancel    context.CancelFunc
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{
		titles:  make(map[string]*titleWait),
		dialogs: make(map[string]*tagDialog),
	}
}

// trackTitle registers the title wait of a thread. Its ctx is cancelled when
// the thread is closed before the workflow releases it.
func (r *taskRegistry) trackTitle(ctx context.Context, threadID string) (*titleWait, func()) {
	waitCtx, cancel := context.WithCancel(ctx)
	w := &titleWait{ctx: waitCtx, cancel: cancel}
	r.mu.Lock()
	r.titles[threadID] = w
	r.mu.Unlock()
	return w, func() {
		r.mu.Lock()
		if r.titles[threadID] == w {
			delete(r.titles, threadID)
		}
		r.mu.Unlock()
		cancel()
	}
}

// openDialog registers d unless another dialog is already open on the
// thread.
func (r *taskRegistry) openDialog(threadID string, d *tagDialog) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.dialogs[threadID]; exists {
		return false
	}
	r.dialogs[threadID] = d
	return true
}

func (r *taskRegistry) setDialogMessage(threadID string, d *tagDialog, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dialogs[threadID] == d {
		d.messageID = messageID
	}
}

func (r *taskRegistry) closeDialog(threadID string, d *tagDialog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dialogs[threadID] == d {
		delete(r.dialogs, threadID)
	}
}

// dismissDialog cancels the dialog hosted by messageID and reports whether
// one was running.
func (r *taskRegistry) dismissDialog(threadID, messageID string) bool {
	r.mu.Lock()
	d, ok := r.dialogs[threadID]
	// messageID is unset only while the dialog's send is still returning.
	if !ok || (d.messageID != "" && d.messageID != messageID) {
		r.mu.Unlock()
		return false
	}
	delete(r.dialogs, threadID)
	r.mu.Unlock()
	d.cancel()
	return true
}

// cancelThread stops every task parked on the thread.
func (r *taskRegistry) cancelThread(threadID string) {
	r.mu.Lock()
	title := r.titles[threadID]
	d := r.dialogs[threadID]
	delete(r.titles, threadID)
	delete(r.dialogs, threadID)
	r.mu.Unlock()
	if title != nil {
		title.markClosing()
	}
	if d != nil {
		d.cancel()
	}
}

func (r *taskRegistry) openDialogs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dialogs)
}
