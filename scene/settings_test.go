// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"testing"

	"soundscape/snd"
)

func TestDefaults(t *testing.T) {
	s := NewSettings()
	got := s.Snapshot()
	for _, c := range Categories {
		if got[c] != Defaults()[c] {
			t.Errorf("%s = %+v, want %+v", c, got[c], Defaults()[c])
		}
	}
	if n := len(s.Registry().All()); n != 5*len(Categories) {
		t.Errorf("%d cvars registered", n)
	}
}

func TestSettingsClamp(t *testing.T) {
	tests := []struct {
		category Category
		param    string
		value    string
		want     func(CategorySettings) bool
	}{
		{Water, ParamVolume, "-1", func(cs CategorySettings) bool { return cs.Volume == 0 }},
		{Water, ParamVolume, "7", func(cs CategorySettings) bool { return cs.Volume == 2 }},
		{Wind, ParamFreq, "10", func(cs CategorySettings) bool { return cs.Freq == 50 }},
		{Wind, ParamFreq, "1e5", func(cs CategorySettings) bool { return cs.Freq == 5000 }},
		{Elephant, ParamFreq, "320", func(cs CategorySettings) bool { return cs.Freq == 320 }},
		{Birds, ParamQ, "0", func(cs CategorySettings) bool { return cs.Q == minQ }},
		{Water, ParamGain, "-6", func(cs CategorySettings) bool { return cs.Gain == -6 }},
		{Water, ParamGain, "90", func(cs CategorySettings) bool { return cs.Gain == maxGain }},
		{Birds, ParamFilter, "LowShelf", func(cs CategorySettings) bool { return cs.Filter == snd.Lowshelf }},
	}
	for _, tt := range tests {
		s := NewSettings()
		if err := s.Update(string(tt.category), tt.param, tt.value); err != nil {
			t.Errorf("Update(%s, %s, %s): %v", tt.category, tt.param, tt.value, err)
			continue
		}
		cs, _ := s.Get(tt.category)
		if !tt.want(cs) {
			t.Errorf("Update(%s, %s, %s) gave %+v", tt.category, tt.param, tt.value, cs)
		}
	}
}

func TestSettingsReset(t *testing.T) {
	s := NewSettings()
	if err := s.Update("birds", ParamVolume, "1.5"); err != nil {
		t.Fatal(err)
	}
	if err := s.Update("birds", ParamGain, "12"); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if cs, _ := s.Get(Birds); cs != Defaults()[Birds] {
		t.Errorf("after Reset birds = %+v", cs)
	}
}
