// Package theme holds the process-wide light/dark display preference.
package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Theme is a display mode.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ErrInvalidTheme is returned for names other than light and dark.
var ErrInvalidTheme = errors.New("invalid theme")

// Palette is the set of colours a theme applies to rendered frames.
type Palette struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	Muted      string `json:"muted"`
}

var palettes = map[Theme]Palette{
	Light: {Background: "#ffffff", Foreground: "#0a0a0a", Muted: "#f4f4f5"},
	Dark:  {Background: "#0a0a0a", Foreground: "#fafafa", Muted: "#27272a"},
}

// Parse resolves a theme name case-insensitively.
func Parse(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := palettes[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
	}
	return t, nil
}

// Palette returns the colours for t. Unknown themes get the light palette.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[Light]
}

// Service stores the current theme. Safe for concurrent use.
type Service struct {
	mu      sync.RWMutex
	current Theme
}

// NewService starts at initial, falling back to Light if it is not a theme.
func NewService(initial string) *Service {
	t, err := Parse(initial)
	if err != nil {
		t = Light
	}
	return &Service{current: t}
}

func (s *Service) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set switches to the named theme.
func (s *Service) Set(name string) (Theme, error) {
	t, err := Parse(name)
	if err != nil {
		return s.Current(), err
	}
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
	return t, nil
}

// Toggle flips between light and dark and returns the new theme.
func (s *Service) Toggle() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == Dark {
		s.current = Light
	} else {
		s.current = Dark
	}
	return s.current
}
