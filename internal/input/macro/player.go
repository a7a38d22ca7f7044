package macro

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dshills/vimkeys/internal/input/key"
)

// ErrAlreadyPlaying is returned when a macro plays itself.
var ErrAlreadyPlaying = errors.New("macro: already playing a macro")

// LastRegister plays the last played macro ("@@").
const LastRegister = '@'

// KeySink processes replayed keys. *input.Handler implements it.
type KeySink interface {
	HandleKeys(ctx context.Context, keys key.Sequence) error
}

// Player replays recorded macros.
type Player struct {
	recorder *Recorder
	playing  atomic.Bool
}

// NewPlayer creates a player for the recorder's registers.
func NewPlayer(recorder *Recorder) *Player {
	return &Player{recorder: recorder}
}

// Play replays the macro in register count times (at least once).
// Playback stops at the first error or when ctx is done. The keys are not
// recorded while playing.
func (p *Player) Play(ctx context.Context, register rune, count int, sink KeySink) error {
	if register == LastRegister {
		register = p.recorder.LastPlayed()
		if register == 0 {
			return errors.New("macro: no macro has been played")
		}
	}
	if NormalizeRegister(register) == 0 {
		return fmt.Errorf("macro: invalid register: %q", register)
	}

	keys := p.recorder.Get(register)
	if len(keys) == 0 {
		return fmt.Errorf("macro: empty register: %c", register)
	}
	if count < 1 {
		count = 1
	}

	if !p.playing.CompareAndSwap(false, true) {
		return ErrAlreadyPlaying
	}
	defer p.playing.Store(false)

	p.recorder.pause()
	defer p.recorder.resume()

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink.HandleKeys(ctx, keys); err != nil {
			return fmt.Errorf("macro %c: %w", register, err)
		}
	}

	p.recorder.setLastPlayed(NormalizeRegister(register))
	return nil
}

// IsPlaying returns true while a macro is being played.
func (p *Player) IsPlaying() bool {
	return p.playing.Load()
}
