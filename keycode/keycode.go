// Package keycode names the keys the soundscape reacts to. Printable keys use
// their lower case ASCII value.
package keycode

import "fmt"

type KeyCode int

const (
	NONE       KeyCode = -1
	TAB        KeyCode = 9
	ENTER      KeyCode = 13
	ESCAPE     KeyCode = 27
	SPACE      KeyCode = 32
	BACKSPACE  KeyCode = 127
	UPARROW    KeyCode = 128
	DOWNARROW  KeyCode = 129
	LEFTARROW  KeyCode = 130
	RIGHTARROW KeyCode = 131
	ALT        KeyCode = 132
	CTRL       KeyCode = 133
	SHIFT      KeyCode = 134
	F1         KeyCode = 135
	MOUSE1     KeyCode = 200
	MOUSE2     KeyCode = 201
	MOUSE3     KeyCode = 202
)

var (
	s2k = map[string]KeyCode{
		"TAB":        TAB,
		"ENTER":      ENTER,
		"ESCAPE":     ESCAPE,
		"SPACE":      SPACE,
		"BACKSPACE":  BACKSPACE,
		"UPARROW":    UPARROW,
		"DOWNARROW":  DOWNARROW,
		"LEFTARROW":  LEFTARROW,
		"RIGHTARROW": RIGHTARROW,

		"ALT":   ALT,
		"CTRL":  CTRL,
		"SHIFT": SHIFT,
		"F1":    F1,

		"MOUSE1": MOUSE1,
		"MOUSE2": MOUSE2,
		"MOUSE3": MOUSE3,
	}
	k2s = reverseMap(s2k)
)

func reverseMap(m map[string]KeyCode) map[KeyCode]string {
	r := make(map[KeyCode]string)
	for k, v := range m {
		r[v] = k
	}
	return r
}

func (k KeyCode) String() string {
	return KeyToString(k)
}

func KeyToString(k KeyCode) string {
	if k == NONE {
		return "<KEY NOT FOUND>"
	}
	if k > 32 && k < 127 {
		return string(rune(k))
	}
	s, ok := k2s[k]
	if ok {
		return s
	}
	return fmt.Sprintf("<UNKNOWN KEYNUM %d>", int(k))
}

func StringToKey(s string) KeyCode {
	if len(s) == 0 {
		return NONE
	}
	if len(s) == 1 {
		c := s[0]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		return KeyCode(c)
	}
	v, ok := s2k[s]
	if ok {
		return v
	}
	return NONE
}
