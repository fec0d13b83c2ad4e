package domain

// FocusMode is the phase a focus timer is counting down
type FocusMode string

const (
	FocusWork  FocusMode = "work"
	FocusBreak FocusMode = "break"
)

// FocusTimer is the in-memory countdown. It is never persisted; a restart begins a fresh work phase.
type FocusTimer struct {
	Mode      FocusMode
	Remaining int
	Running   bool
}

// NewFocusTimer returns a stopped timer at the start of a work phase
func NewFocusTimer(workMinutes int) *FocusTimer {
	return &FocusTimer{Mode: FocusWork, Remaining: workMinutes * 60}
}

// Tick advances the timer by one second and reports whether the phase just ended
func (t *FocusTimer) Tick() bool {
	if !t.Running || t.Remaining <= 0 {
		return false
	}
	t.Remaining--
	return t.Remaining == 0
}

// Switch moves to the other phase, stopped, with a full countdown
func (t *FocusTimer) Switch(workMinutes, breakMinutes int) {
	t.Running = false
	if t.Mode == FocusWork {
		t.Mode = FocusBreak
		t.Remaining = breakMinutes * 60
		return
	}
	t.Mode = FocusWork
	t.Remaining = workMinutes * 60
}

// Reset returns to a stopped work phase
func (t *FocusTimer) Reset(workMinutes int) {
	t.Mode = FocusWork
	t.Running = false
	t.Remaining = workMinutes * 60
}

// ClampInt bounds v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
