package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-rl/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// Only Space and the quit keys mean anything; everything else is ignored.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action (may be ActionNone).
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return core.ActionQuit
	case " ":
		return core.ActionJump
	}
	return core.ActionNone
}

// MapKeyToFrame appends the key's action to frame.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action := km.MapKey(msg)
	frame.Push(action)
	return action == core.ActionQuit
}
