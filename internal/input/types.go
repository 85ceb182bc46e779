package input

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceKeyboard indicates the action came from a key binding.
	SourceKeyboard ActionSource = iota
	// SourcePalette indicates the action came from a command list.
	SourcePalette
	// SourceAPI indicates the action came from a program.
	SourceAPI
)

// String returns a string representation of the action source.
func (s ActionSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourcePalette:
		return "palette"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// ActionArgs holds arguments for an action.
type ActionArgs struct {
	// Text for shortcut and insert operations.
	Text string

	// Extra holds additional key-value pairs.
	Extra map[string]any
}

// Get retrieves a value from Extra.
func (a ActionArgs) Get(key string) (any, bool) {
	if a.Extra == nil {
		return nil, false
	}
	v, ok := a.Extra[key]
	return v, ok
}

// GetString retrieves a string value from Extra.
func (a ActionArgs) GetString(key string) string {
	if v, ok := a.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetBool retrieves a bool value from Extra.
func (a ActionArgs) GetBool(key string) bool {
	if v, ok := a.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Action is a named editor command with its arguments.
type Action struct {
	// Name is the command identifier, such as "snippet.tab".
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource
}

// WithText returns a copy of the action with Args.Text set.
func (a Action) WithText(text string) Action {
	a.Args.Text = text
	return a
}

// WithExtra returns a copy of the action with an extra argument added.
func (a Action) WithExtra(key string, value any) Action {
	extra := make(map[string]any, len(a.Args.Extra)+1)
	for k, v := range a.Args.Extra {
		extra[k] = v
	}
	extra[key] = value
	a.Args.Extra = extra
	return a
}
