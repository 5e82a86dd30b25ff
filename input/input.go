// SPDX-License-Identifier: GPL-2.0-or-later

// package input handles button event tracking
package input

import (
	"soundscape/keycode"
)

type button struct {
	// key nums holding it down, can handle 2 keys with the same action
	holdingDown [2]keycode.KeyCode
	down        bool
}

func (b button) Down() bool {
	return b.down
}

func (b *button) upKey(k keycode.KeyCode) {
	if b.holdingDown[0] == k {
		b.holdingDown[0] = 0
	} else if b.holdingDown[1] == k {
		b.holdingDown[1] = 0
	} else {
		return
	}
	if b.holdingDown[0] != 0 || b.holdingDown[1] != 0 {
		// some other key is still holding it down
		return
	}
	if !b.down {
		return
	}
	b.down = false
}

func (b *button) downKey(k keycode.KeyCode) {
	if k == b.holdingDown[0] || k == b.holdingDown[1] {
		// key repeat
		return
	}
	if b.holdingDown[0] == 0 {
		b.holdingDown[0] = k
	} else if b.holdingDown[1] == 0 {
		b.holdingDown[1] = k
	} else {
		// three keys down for a button
		return
	}
	if b.down {
		return
	}
	b.down = true
}

func (b *button) release() {
	*b = button{}
}

// Action is a movement the listener can perform while a key is held.
type Action int

const (
	Forward Action = iota
	Back
	MoveLeft
	MoveRight
	numActions
)

func (a Action) String() string {
	switch a {
	case Forward:
		return "forward"
	case Back:
		return "back"
	case MoveLeft:
		return "moveleft"
	case MoveRight:
		return "moveright"
	}
	return "unknown"
}

// State is the accumulated input of one observer: held movement buttons and
// the horizontal look drag.
type State struct {
	buttons  [numActions]button
	bindings map[keycode.KeyCode]Action
	looking  bool
	lookDX   float32
}

// NewState returns a State with WASD and the arrow keys bound.
func NewState() *State {
	s := &State{bindings: make(map[keycode.KeyCode]Action)}
	s.Bind(keycode.StringToKey("w"), Forward)
	s.Bind(keycode.UPARROW, Forward)
	s.Bind(keycode.StringToKey("s"), Back)
	s.Bind(keycode.DOWNARROW, Back)
	s.Bind(keycode.StringToKey("a"), MoveLeft)
	s.Bind(keycode.LEFTARROW, MoveLeft)
	s.Bind(keycode.StringToKey("d"), MoveRight)
	s.Bind(keycode.RIGHTARROW, MoveRight)
	return s
}

func (s *State) Bind(k keycode.KeyCode, a Action) {
	s.bindings[k] = a
}

func (s *State) Unbind(k keycode.KeyCode) {
	delete(s.bindings, k)
}

// Down reports whether any key bound to a is held.
func (s *State) Down(a Action) bool {
	if a < 0 || a >= numActions {
		return false
	}
	return s.buttons[a].Down()
}

// Looking reports whether a look drag is active.
func (s *State) Looking() bool {
	return s.looking
}

// ConsumeLook returns the horizontal mouse motion accumulated during the
// active look drag since the last call.
func (s *State) ConsumeLook() float32 {
	dx := s.lookDX
	s.lookDX = 0
	return dx
}

// Release lets go of every held button and ends a look drag.
func (s *State) Release() {
	for i := range s.buttons {
		s.buttons[i].release()
	}
	s.looking = false
	s.lookDX = 0
}

// HandleEvent applies e. A look drag only starts on the Background surface so
// drags on overlay controls stay with the UI.
func (s *State) HandleEvent(e Event) {
	switch e.Kind {
	case KeyDown:
		if a, ok := s.bindings[e.Key]; ok {
			s.buttons[a].downKey(e.Key)
		}
	case KeyUp:
		if a, ok := s.bindings[e.Key]; ok {
			s.buttons[a].upKey(e.Key)
		}
	case MouseDown:
		if e.Surface == Background {
			s.looking = true
		}
	case MouseUp:
		s.looking = false
	case MouseMove:
		if s.looking {
			s.lookDX += e.DX
		}
	}
}
