package wire

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestSetVolumeCommand(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		want     string
	}{
		{"silent", 0, "000VL"},
		{"full", 1, "185VL"},
		{"half", 0.5, "093VL"},
		{"rounds up", 0.999, "185VL"},
		{"clamped below", -0.3, "000VL"},
		{"clamped above", 2.5, "185VL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SetVolumeCommand(tt.fraction); got != tt.want {
				t.Errorf("SetVolumeCommand(%v) = %q, want %q", tt.fraction, got, tt.want)
			}
		})
	}
}

func TestVolumeRoundTrip(t *testing.T) {
	// Every fraction must survive the trip through the integer scale
	// to within one volume step.
	for i := 0; i <= 100; i++ {
		v := float64(i) / 100
		cmd := SetVolumeCommand(v)

		// The command is "<nnn>VL"; the device would echo "VOL<nnn>".
		got, err := DecodeVolume(PrefixVolume + cmd[:3])
		if err != nil {
			t.Fatalf("DecodeVolume failed for %v: %v", v, err)
		}
		if math.Abs(got-v) > 1.0/MaxVolume {
			t.Errorf("round trip %v -> %q -> %v exceeds 1/%d", v, cmd, got, MaxVolume)
		}
	}
}

func TestDecodeVolume(t *testing.T) {
	tests := []struct {
		token   string
		want    float64
		wantErr bool
	}{
		{"VOL000", 0, false},
		{"VOL185", 1, false},
		{"VOL121", 121.0 / 185, false},
		{"VOL", 0, true},
		{"VOLxyz", 0, true},
		{"MUT0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := DecodeVolume(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeVolume(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("DecodeVolume(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestDecodeMute(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"MUT0", true},
		{"MUT1", false},
		{"MUT9", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := DecodeMute(tt.token); got != tt.want {
			t.Errorf("DecodeMute(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestDecodeSourceID(t *testing.T) {
	got, err := DecodeSourceID("FN04")
	if err != nil {
		t.Fatalf("DecodeSourceID failed: %v", err)
	}
	if got != "04" {
		t.Errorf("DecodeSourceID = %q, want %q", got, "04")
	}

	for _, token := range []string{"FN", "FN123", "VOL04"} {
		if _, err := DecodeSourceID(token); err == nil {
			t.Errorf("DecodeSourceID(%q) expected error", token)
		}
	}
}

func TestDecodeSoundMode(t *testing.T) {
	for i, name := range SoundModes {
		token := fmt.Sprintf("SPK%d", i)
		got, err := DecodeSoundMode(token)
		if err != nil {
			t.Fatalf("DecodeSoundMode(%q) failed: %v", token, err)
		}
		if got != i {
			t.Errorf("DecodeSoundMode(%q) = %d, want %d (%s)", token, got, i, name)
		}
	}
}

func TestDecodeSoundModeOutOfRange(t *testing.T) {
	_, err := DecodeSoundMode("SPK7")
	if !errors.Is(err, ErrModeOutOfRange) {
		t.Errorf("expected ErrModeOutOfRange, got %v", err)
	}
}

func TestDecodeSlot(t *testing.T) {
	tests := []struct {
		token   string
		want    Slot
		wantErr bool
	}{
		{"RGB001TV", Slot{Enabled: true, Name: "TV"}, false},
		{"RGB050PHONO", Slot{Enabled: false, Name: "PHONO"}, false},
		{"RGB191BD/DVD Player", Slot{Enabled: true, Name: "BD/DVD Player"}, false},
		{"RGB00", Slot{}, true},
		{"FN00", Slot{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := DecodeSlot(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeSlot(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("DecodeSlot(%q) = %+v, want %+v", tt.token, got, tt.want)
			}
		})
	}
}

func TestProbeSlotCommand(t *testing.T) {
	if got := ProbeSlotCommand(0); got != "?RGB00" {
		t.Errorf("ProbeSlotCommand(0) = %q", got)
	}
	if got := ProbeSlotCommand(59); got != "?RGB59" {
		t.Errorf("ProbeSlotCommand(59) = %q", got)
	}
}

func TestSoundModeIndex(t *testing.T) {
	if i, ok := SoundModeIndex("A+B ON"); !ok || i != 3 {
		t.Errorf("SoundModeIndex(A+B ON) = %d, %v", i, ok)
	}
	if _, ok := SoundModeIndex("SURROUND"); ok {
		t.Error("SoundModeIndex accepted unknown mode")
	}
}
