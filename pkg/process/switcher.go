package process

import (
	"fmt"
	"sort"
	"sync"
)

// Switcher holds the active processor and allows switching it at runtime
// without touching transport code. The session loop calls Process; the
// monitor API calls SetMode.
type Switcher struct {
	mu       sync.RWMutex
	active   Processor
	registry map[string]Processor

	// OnModeChange is called after a successful switch.
	OnModeChange func(name string)
}

// NewSwitcher builds a switcher over the standard modes at the given JPEG
// quality, starting in initialMode.
func NewSwitcher(initialMode string, quality int) (*Switcher, error) {
	s := &Switcher{
		registry: make(map[string]Processor),
	}
	for _, p := range []Processor{
		Normal{Quality: quality},
		Canny{Quality: quality, Blur: true},
		Night{Quality: quality},
		Thermal{Quality: quality},
	} {
		s.registry[p.Name()] = p
	}

	if err := s.SetMode(initialMode); err != nil {
		return nil, err
	}
	return s, nil
}

// Register adds or replaces a processor. It does not change the active mode.
func (s *Switcher) Register(p Processor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry[p.Name()] = p
}

// SetMode switches the active processor.
func (s *Switcher) SetMode(name string) error {
	s.mu.Lock()
	p, ok := s.registry[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	s.active = p
	callback := s.OnModeChange
	s.mu.Unlock()

	if callback != nil {
		callback(name)
	}
	return nil
}

// Mode returns the active mode name.
func (s *Switcher) Mode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Name()
}

// Modes returns all registered mode names, sorted.
func (s *Switcher) Modes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.registry))
	for name := range s.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the active mode name, satisfying Processor.
func (s *Switcher) Name() string {
	return s.Mode()
}

// Process delegates to the active processor.
func (s *Switcher) Process(jpeg []byte) ([]byte, error) {
	s.mu.RLock()
	p := s.active
	s.mu.RUnlock()
	return p.Process(jpeg)
}
