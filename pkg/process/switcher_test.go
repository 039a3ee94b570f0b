package process

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewSwitcher(t *testing.T) {
	tests := []struct {
		name        string
		initialMode string
		wantErr     bool
	}{
		{"canny default", ModeCanny, false},
		{"normal", ModeNormal, false},
		{"thermal", ModeThermal, false},
		{"unknown mode", "sepia", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSwitcher(tt.initialMode, 80)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSwitcher() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrUnknownMode) {
					t.Errorf("NewSwitcher() error = %v, want ErrUnknownMode", err)
				}
				return
			}
			if got := s.Mode(); got != tt.initialMode {
				t.Errorf("Mode() = %q, want %q", got, tt.initialMode)
			}
		})
	}
}

func TestSwitcherSetMode(t *testing.T) {
	s, err := NewSwitcher(ModeCanny, 80)
	if err != nil {
		t.Fatalf("NewSwitcher() error = %v", err)
	}

	var notified []string
	s.OnModeChange = func(name string) {
		notified = append(notified, name)
	}

	if err := s.SetMode(ModeThermal); err != nil {
		t.Fatalf("SetMode(thermal) error = %v", err)
	}
	if got := s.Mode(); got != ModeThermal {
		t.Errorf("Mode() = %q, want %q", got, ModeThermal)
	}

	if err := s.SetMode("infrared"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("SetMode(infrared) error = %v, want ErrUnknownMode", err)
	}
	if got := s.Mode(); got != ModeThermal {
		t.Errorf("Mode() after failed switch = %q, want %q", got, ModeThermal)
	}

	if !reflect.DeepEqual(notified, []string{ModeThermal}) {
		t.Errorf("OnModeChange calls = %v, want [thermal]", notified)
	}
}

func TestSwitcherModes(t *testing.T) {
	s, err := NewSwitcher(ModeCanny, 80)
	if err != nil {
		t.Fatalf("NewSwitcher() error = %v", err)
	}

	want := []string{ModeCanny, ModeNight, ModeNormal, ModeThermal}
	if got := s.Modes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Modes() = %v, want %v", got, want)
	}
}
