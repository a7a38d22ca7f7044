package macro

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/vimkeys/internal/input"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/state"
)

// StopKey ends a recording when typed with no command pending.
const StopKey key.Token = "q"

// Recorder records keys to registers. It implements input.Hook.
type Recorder struct {
	mu sync.Mutex

	// armed is set between Start and the end of the key that called it.
	armed     bool
	recording bool
	appending bool
	register  rune
	keys      key.Sequence

	// paused counts active playbacks.
	paused int

	registers  map[rune]key.Sequence
	lastPlayed rune
}

// NewRecorder creates a recorder with empty registers.
func NewRecorder() *Recorder {
	return &Recorder{registers: make(map[rune]key.Sequence)}
}

// Start begins recording to register. Recording starts with the key after
// the one being handled. An uppercase register appends to its lowercase
// register when the recording stops.
func (r *Recorder) Start(register rune) error {
	reg := NormalizeRegister(register)
	if reg == 0 {
		return fmt.Errorf("invalid register: %q", register)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording || r.armed {
		return fmt.Errorf("already recording to register %c", r.register)
	}
	r.armed = true
	r.appending = IsAppendRegister(register)
	r.register = reg
	r.keys = nil
	return nil
}

// Stop ends the recording and saves it. It returns the recorded keys, or
// nil when not recording.
func (r *Recorder) Stop() key.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording && !r.armed {
		return nil
	}
	r.recording = false
	r.armed = false

	recorded := r.keys
	r.keys = nil
	if r.appending {
		r.registers[r.register] = append(r.registers[r.register].Clone(), recorded...)
	} else if len(recorded) > 0 {
		r.registers[r.register] = recorded.Clone()
	} else {
		delete(r.registers, r.register)
	}
	return recorded
}

// IsRecording returns true while recording.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording || r.armed
}

// Register returns the register being recorded to, or 0.
func (r *Recorder) Register() rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording || r.armed {
		return r.register
	}
	return 0
}

// PreKey stops the recording on StopKey in normal and visual modes when
// no command is pending. The key is consumed.
func (r *Recorder) PreKey(k key.Token, s *state.Session) bool {
	if k != StopKey || len(s.Recorded.ActionKeys) > 0 || !mode.NormalAndVisual.Contains(s.Mode) {
		return false
	}

	r.mu.Lock()
	active := r.recording && r.paused == 0
	r.mu.Unlock()

	if !active {
		return false
	}
	r.Stop()
	return true
}

// PostKey records typed keys.
func (r *Recorder) PostKey(k key.Token, out input.Outcome, _ *state.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.armed {
		r.armed = false
		r.recording = true
		return
	}
	if !r.recording || r.paused > 0 || out.Replayed {
		return
	}
	r.keys = append(r.keys, k)
}

func (r *Recorder) pause() {
	r.mu.Lock()
	r.paused++
	r.mu.Unlock()
}

func (r *Recorder) resume() {
	r.mu.Lock()
	r.paused--
	r.mu.Unlock()
}

// Get returns a copy of the macro in register.
func (r *Recorder) Get(register rune) key.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registers[NormalizeRegister(register)].Clone()
}

// Set stores keys in register, replacing its content. Empty keys clear
// the register.
func (r *Recorder) Set(register rune, keys key.Sequence) error {
	reg := NormalizeRegister(register)
	if reg == 0 {
		return fmt.Errorf("invalid register: %q", register)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(keys) == 0 {
		delete(r.registers, reg)
		return nil
	}
	r.registers[reg] = keys.Clone()
	return nil
}

// Registers returns the sorted names of non-empty registers.
func (r *Recorder) Registers() []rune {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := make([]rune, 0, len(r.registers))
	for reg, keys := range r.registers {
		if len(keys) > 0 {
			regs = append(regs, reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i] < regs[j] })
	return regs
}

// LastPlayed returns the last played register, or 0.
func (r *Recorder) LastPlayed() rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPlayed
}

func (r *Recorder) setLastPlayed(register rune) {
	r.mu.Lock()
	r.lastPlayed = register
	r.mu.Unlock()
}
