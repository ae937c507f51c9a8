package input

import (
	"sync"

	"blockworld/internal/physics"
)

// Action represents a logical game action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionDig
	ActionPlace
	ActionPause
	ActionRespawn
	ActionCount // Sentinel value for array sizing
)

var actionNames = [ActionCount]string{
	"moveForward", "moveBackward", "moveLeft", "moveRight",
	"jump", "dig", "place", "pause", "respawn",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// Manager tracks held actions and per-frame press/release edges. Frontends
// and scripts feed it with Press and Release, possibly from another
// goroutine; the simulation reads it once per frame.
type Manager struct {
	mu sync.RWMutex

	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Press(action Action) { m.set(action, true) }

func (m *Manager) Release(action Action) { m.set(action, false) }

// Tap presses and releases action within the same frame. JustPressed sees
// it, IsActive does not.
func (m *Manager) Tap(action Action) {
	m.set(action, true)
	m.set(action, false)
}

func (m *Manager) set(action Action, pressed bool) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if pressed && !m.currentState[action] {
		m.justPressed[action] = true
	}
	if !pressed && m.currentState[action] {
		m.justReleased[action] = true
	}
	m.currentState[action] = pressed
}

// ReleaseAll lets go of every held action.
func (m *Manager) ReleaseAll() {
	for a := range ActionCount {
		m.Release(a)
	}
}

// PostUpdate must be called at the end of each frame to reset edge flags.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.justPressed[:])
	clear(m.justReleased[:])
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}

// Movement turns the held movement actions into actor input. Opposing
// actions cancel out.
func (m *Manager) Movement() physics.Input {
	m.mu.RLock()
	defer m.mu.RUnlock()

	axis := func(pos, neg Action) float64 {
		v := 0.0
		if m.currentState[pos] {
			v++
		}
		if m.currentState[neg] {
			v--
		}
		return v
	}
	return physics.Input{
		Forward: axis(ActionMoveForward, ActionMoveBackward),
		Right:   axis(ActionMoveRight, ActionMoveLeft),
		Jump:    m.currentState[ActionJump] || m.justPressed[ActionJump],
	}
}
