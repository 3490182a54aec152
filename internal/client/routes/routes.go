// Package routes names the client's navigation targets and records
// navigation.
package routes

import (
	"strings"
	"sync"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

const (
	Home     = "/"
	Register = "/register"
	Login    = "/login"
	Station  = "/station"
	Terms    = "/terms"
	Privacy  = "/privacy"
	Issues   = "/issues"

	missionPrefix = "/station/mission/"
)

// Mission is the detail route of a mission.
func Mission(id models.ID) string {
	return missionPrefix + id.String()
}

// ParseMission returns the mission id addressed by path, if any.
func ParseMission(path string) (models.ID, bool) {
	rest, ok := strings.CutPrefix(path, missionPrefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return models.ID(rest), true
}

// Navigator changes the current route.
type Navigator interface {
	Navigate(path string)
}

// History is a Navigator that remembers where it went and notifies
// listeners. Listeners run synchronously on the navigating goroutine.
type History struct {
	mu        sync.Mutex
	entries   []string
	listeners []func(string)
}

// NewHistory returns a history positioned at Home.
func NewHistory() *History {
	return &History{entries: []string{Home}}
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	h.entries = append(h.entries, path)
	listeners := append([]func(string){}, h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(path)
	}
}

// Current is the last navigated path.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Entries returns every path navigated to, oldest first, starting at Home.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

func (h *History) OnNavigate(fn func(path string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}
