package input

import "sync"

// Injector synthesizes one complete keystroke (down then up) to the focused window
type Injector interface {
	Press(key Key) error
}

var _ Injector = (*Recorder)(nil)

// Recorder is an Injector that only remembers what it was asked to press.
// The hook, when set, runs after each press with the index of that press.
type Recorder struct {
	mu      sync.Mutex
	pressed []Key
	hook    func(i int, key Key) error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnPress installs a hook used to script how the target reacts to a keystroke
func (r *Recorder) OnPress(hook func(i int, key Key) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hook = hook
}

func (r *Recorder) Press(key Key) error {
	r.mu.Lock()
	i := len(r.pressed)
	r.pressed = append(r.pressed, key)
	hook := r.hook
	r.mu.Unlock()

	if hook != nil {
		return hook(i, key)
	}
	return nil
}

// Pressed returns a copy of every key pressed so far, in order
func (r *Recorder) Pressed() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Key, len(r.pressed))
	copy(out, r.pressed)
	return out
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pressed)
}
