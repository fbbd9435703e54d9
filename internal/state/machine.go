package state

// Input 是与具体按键无关的用户输入
type Input int

const (
	InputQuit Input = iota + 1
	InputDown
	InputUp
	InputSortDesc
	InputSortAsc
	InputOpen
	InputStartFilter
	InputReload
	InputChar
	InputBackspace
	InputEscape
	InputKill
	InputBack
)

// Event is an input plus the rune typed, for InputChar.
type Event struct {
	Input Input
	Rune  rune
}

// Action is a side effect the caller performs after releasing the lock.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionReload
	ActionKill
)

// Command 状态机输出的副作用
type Command struct {
	Action Action
	PID    uint32
	Name   string
}

// Transition is one row of the table.
type Transition struct {
	Apply func(*State, Event) Command
	Next  Mode
}

// Machine maps mode and input to a transition. Pairs missing from the table
// are ignored.
type Machine struct {
	table  map[Mode]map[Input]Transition
	guards map[Mode]map[Input]func(*State) bool
}

func none(*State, Event) Command { return Command{} }

func emit(a Action) func(*State, Event) Command {
	return func(*State, Event) Command { return Command{Action: a} }
}

func mutate(fn func(*State, Event)) func(*State, Event) Command {
	return func(s *State, ev Event) Command {
		fn(s, ev)
		return Command{}
	}
}

// NewMachine 创建交互状态机
func NewMachine() *Machine {
	return &Machine{table: map[Mode]map[Input]Transition{
		Normal: {
			InputQuit:        {emit(ActionQuit), Normal},
			InputDown:        {mutate(func(s *State, _ Event) { s.MoveSelection(1) }), Normal},
			InputUp:          {mutate(func(s *State, _ Event) { s.MoveSelection(-1) }), Normal},
			InputSortDesc:    {mutate(func(s *State, _ Event) { s.SortDescending() }), Normal},
			InputSortAsc:     {mutate(func(s *State, _ Event) { s.SortAscending() }), Normal},
			InputOpen:        {none, ProcessMenu},
			InputStartFilter: {none, Filtering},
			InputReload:      {emit(ActionReload), Normal},
		},
		Filtering: {
			InputChar:      {mutate(func(s *State, ev Event) { s.AppendFilter(ev.Rune) }), Filtering},
			InputBackspace: {mutate(func(s *State, _ Event) { s.BackspaceFilter() }), Filtering},
			InputEscape:    {none, Normal},
		},
		ProcessMenu: {
			InputKill: {killSelected, Normal},
			InputBack: {none, Normal},
		},
	}, guards: map[Mode]map[Input]func(*State) bool{
		// 没有可选中的进程时不打开菜单
		Normal: {InputOpen: hasSelection},
	}}
}

func hasSelection(s *State) bool {
	_, ok := s.SelectedRecord()
	return ok
}

func killSelected(s *State, _ Event) Command {
	r, ok := s.SelectedRecord()
	if !ok {
		return Command{}
	}
	return Command{Action: ActionKill, PID: r.PID, Name: r.Name}
}

// Dispatch applies ev to s. It reports false when the current mode has no
// transition for the input or its guard rejects s, in which case s is
// unchanged.
func (m *Machine) Dispatch(s *State, ev Event) (Command, bool) {
	t, ok := m.table[s.mode][ev.Input]
	if !ok {
		return Command{}, false
	}
	if guard, ok := m.guards[s.mode][ev.Input]; ok && !guard(s) {
		return Command{}, false
	}
	cmd := t.Apply(s, ev)
	s.mode = t.Next
	return cmd, true
}
