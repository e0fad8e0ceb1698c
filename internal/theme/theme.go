// Package theme owns the light/dark display mode and the palette every view draws with.
package theme

import (
	"log"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/saasdash/internal/prefs"
)

// Store holds the display mode. Toggling persists the new value and applies it
// to lipgloss' global renderer, so every AdaptiveColor below follows it.
type Store struct {
	prefs prefs.Store

	mu   sync.Mutex
	dark bool
	subs []func(dark bool)
}

// New reads the persisted mode and applies it. Anything but the literal "true" is light.
func New(p prefs.Store) *Store {
	s := &Store{prefs: p}
	if p != nil {
		v, ok, err := p.Get(prefs.KeyDarkMode)
		if err != nil {
			log.Printf("theme: read mode: %v", err)
		}
		s.dark = ok && v == "true"
	}
	lipgloss.SetHasDarkBackground(s.dark)
	return s
}

// Dark reports whether dark mode is on.
func (s *Store) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// Toggle flips the mode, persists it, applies it and returns the new value.
func (s *Store) Toggle() bool {
	s.mu.Lock()
	s.dark = !s.dark
	dark := s.dark
	if s.prefs != nil {
		val := "false"
		if dark {
			val = "true"
		}
		if err := s.prefs.Set(prefs.KeyDarkMode, val); err != nil {
			log.Printf("theme: persist mode: %v", err)
		}
	}
	lipgloss.SetHasDarkBackground(dark)
	subs := append([]func(bool){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(dark)
	}
	return dark
}

// Subscribe registers fn to run after every toggle.
func (s *Store) Subscribe(fn func(dark bool)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Label is the mode name shown in the UI.
func (s *Store) Label() string {
	if s.Dark() {
		return "dark"
	}
	return "light"
}
