package avr

import "testing"

func TestPowerFromTag(t *testing.T) {
	tests := []struct {
		tag  string
		want PowerState
	}{
		{"PWR0", PowerOn},
		{"PWR1", PowerStandbyA},
		{"PWR2", PowerStandbyB},
		{"PWR9", PowerUnknown},
		{"", PowerUnknown},
	}

	for _, tt := range tests {
		if got := powerFromTag(tt.tag); got != tt.want {
			t.Errorf("powerFromTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestPowerStateString(t *testing.T) {
	tests := []struct {
		state PowerState
		want  string
	}{
		{PowerUnknown, "UNKNOWN"},
		{PowerOn, "ON"},
		{PowerStandbyA, "STANDBY_A"},
		{PowerStandbyB, "STANDBY_B"},
		{PowerDisconnected, "DISCONNECTED"},
		{PowerState(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestStateCloneIsDeep(t *testing.T) {
	v := 0.5
	m := true
	n := 2
	s := State{Volume: &v, Muted: &m, SoundMode: &n}

	c := s.clone()
	*c.Volume = 0.9
	*c.Muted = false
	*c.SoundMode = 0

	if v != 0.5 || m != true || n != 2 {
		t.Error("clone aliases the original snapshot")
	}
}

func TestSoundModeName(t *testing.T) {
	if got := (State{}).SoundModeName(); got != "" {
		t.Errorf("unknown mode renders %q", got)
	}
	n := 3
	if got := (State{SoundMode: &n}).SoundModeName(); got != "A+B ON" {
		t.Errorf("SoundModeName = %q, want %q", got, "A+B ON")
	}
}
