// SPDX-License-Identifier: GPL-2.0-or-later

package input

import (
	"testing"

	"soundscape/keycode"
)

var (
	keyW = keycode.StringToKey("w")
	keyS = keycode.StringToKey("s")
)

func press(s *State, k keycode.KeyCode) {
	s.HandleEvent(Event{Kind: KeyDown, Key: k})
}

func lift(s *State, k keycode.KeyCode) {
	s.HandleEvent(Event{Kind: KeyUp, Key: k})
}

func TestButtonTwoKeys(t *testing.T) {
	s := NewState()
	press(s, keyW)
	press(s, keycode.UPARROW)
	if !s.Down(Forward) {
		t.Fatalf("Forward not down with two keys held")
	}
	lift(s, keyW)
	if !s.Down(Forward) {
		t.Errorf("Forward released while UPARROW still held")
	}
	lift(s, keycode.UPARROW)
	if s.Down(Forward) {
		t.Errorf("Forward still down after both keys released")
	}
}

func TestKeyRepeatDoesNotTakeSecondSlot(t *testing.T) {
	s := NewState()
	press(s, keyW)
	press(s, keyW)
	lift(s, keyW)
	if s.Down(Forward) {
		t.Errorf("repeated key down kept the button held")
	}
}

func TestUnboundKeyIgnored(t *testing.T) {
	s := NewState()
	press(s, keycode.SPACE)
	for a := Forward; a < numActions; a++ {
		if s.Down(a) {
			t.Errorf("%v down after unbound key", a)
		}
	}
}

func TestLookOnlyFromBackground(t *testing.T) {
	s := NewState()
	s.HandleEvent(Event{Kind: MouseDown, Surface: Overlay})
	s.HandleEvent(Event{Kind: MouseMove, DX: 10})
	if s.Looking() {
		t.Errorf("look drag started on overlay")
	}
	if got := s.ConsumeLook(); got != 0 {
		t.Errorf("ConsumeLook() = %v after overlay drag want 0", got)
	}

	s.HandleEvent(Event{Kind: MouseDown, Surface: Background})
	s.HandleEvent(Event{Kind: MouseMove, DX: 10})
	s.HandleEvent(Event{Kind: MouseMove, DX: -4})
	if got := s.ConsumeLook(); got != 6 {
		t.Errorf("ConsumeLook() = %v want 6", got)
	}
	if got := s.ConsumeLook(); got != 0 {
		t.Errorf("second ConsumeLook() = %v want 0", got)
	}
	s.HandleEvent(Event{Kind: MouseUp})
	s.HandleEvent(Event{Kind: MouseMove, DX: 10})
	if got := s.ConsumeLook(); got != 0 {
		t.Errorf("ConsumeLook() = %v after mouse up want 0", got)
	}
}

func TestRelease(t *testing.T) {
	s := NewState()
	press(s, keyW)
	press(s, keyS)
	s.HandleEvent(Event{Kind: MouseDown, Surface: Background})
	s.Release()
	if s.Down(Forward) || s.Down(Back) || s.Looking() {
		t.Errorf("Release left state held")
	}
	// keys held across Release need a fresh press
	lift(s, keyS)
	press(s, keyS)
	if !s.Down(Back) {
		t.Errorf("press after Release not registered")
	}
}

func TestBusSubscribe(t *testing.T) {
	var b Bus
	var got []int
	un1 := b.Subscribe(func(Event) { got = append(got, 1) })
	un2 := b.Subscribe(func(Event) { got = append(got, 2) })
	b.Publish(Event{})
	un1()
	un1()
	b.Publish(Event{})
	un2()
	b.Publish(Event{})
	want := []int{1, 2, 2}
	if len(got) != len(want) {
		t.Fatalf("handlers called %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("handlers called %v want %v", got, want)
		}
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d want 0", b.Len())
	}
}
