package feed

import "sync"

// Pager is the part of the controller a Trigger drives
type Pager interface {
	State() State
	LoadMore() bool
}

// Trigger watches the last visible item and asks the pager for the next
// page when that item intersects the viewport. It holds at most one target.
type Trigger struct {
	pager Pager

	mu       sync.Mutex
	target   string
	attached bool
}

// NewTrigger creates a detached trigger over pager
func NewTrigger(pager Pager) *Trigger {
	return &Trigger{pager: pager}
}

// Attach starts observing the item with the given ID, replacing any previous target
func (t *Trigger) Attach(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.target = id
	t.attached = id != ""
}

// Detach stops observing. Later intersections are ignored.
func (t *Trigger) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.target = ""
	t.attached = false
}

// Sync attaches to the pager's current last visible item, or detaches
// when nothing is visible
func (t *Trigger) Sync() {
	last, ok := t.pager.State().Last()
	if !ok {
		t.Detach()
		return
	}
	t.Attach(last.ID)
}

// Target returns the observed item ID
func (t *Trigger) Target() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target, t.attached
}

// Intersect reports that the item with the given ID became visible.
// When it is the target and no load is in flight and more items remain,
// the next page is loaded and the trigger moves to the new last item.
// Returns true if a page was loaded.
func (t *Trigger) Intersect(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.attached || id != t.target {
		return false
	}

	st := t.pager.State()
	if st.Loading || st.Exhausted {
		return false
	}

	if !t.pager.LoadMore() {
		return false
	}

	if last, ok := t.pager.State().Last(); ok {
		t.target = last.ID
	}
	return true
}
