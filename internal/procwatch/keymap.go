package procwatch

import (
	"github.com/gdamore/tcell/v2"

	"github.com/sjzar/procwatch/internal/state"
)

// MapKey 将按键转换为当前模式下的输入
// 同一个按键在不同模式下含义不同，例如 k 在列表中是上移，在菜单中是终止进程
func MapKey(mode state.Mode, key *tcell.EventKey) (state.Event, bool) {
	switch mode {
	case state.Filtering:
		return filteringKey(key)
	case state.ProcessMenu:
		return menuKey(key)
	default:
		return normalKey(key)
	}
}

func normalKey(key *tcell.EventKey) (state.Event, bool) {
	switch key.Key() {
	case tcell.KeyDown:
		return state.Event{Input: state.InputDown}, true
	case tcell.KeyUp:
		return state.Event{Input: state.InputUp}, true
	case tcell.KeyLeft:
		return state.Event{Input: state.InputSortDesc}, true
	case tcell.KeyRight:
		return state.Event{Input: state.InputSortAsc}, true
	case tcell.KeyEnter:
		return state.Event{Input: state.InputOpen}, true
	case tcell.KeyRune:
		switch key.Rune() {
		case 'q':
			return state.Event{Input: state.InputQuit}, true
		case 'j':
			return state.Event{Input: state.InputDown}, true
		case 'k':
			return state.Event{Input: state.InputUp}, true
		case '/':
			return state.Event{Input: state.InputStartFilter}, true
		case 'r':
			return state.Event{Input: state.InputReload}, true
		}
	}
	return state.Event{}, false
}

func filteringKey(key *tcell.EventKey) (state.Event, bool) {
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		return state.Event{Input: state.InputEscape}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return state.Event{Input: state.InputBackspace}, true
	case tcell.KeyRune:
		return state.Event{Input: state.InputChar, Rune: key.Rune()}, true
	}
	return state.Event{}, false
}

func menuKey(key *tcell.EventKey) (state.Event, bool) {
	switch key.Key() {
	case tcell.KeyEscape:
		return state.Event{Input: state.InputBack}, true
	case tcell.KeyRune:
		switch key.Rune() {
		case 'k':
			return state.Event{Input: state.InputKill}, true
		case 'b':
			return state.Event{Input: state.InputBack}, true
		}
	}
	return state.Event{}, false
}
