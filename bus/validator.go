package bus

// Validator is an optional development-time consistency checker: it
// replays the message stream and re-derives each index from the
// authoritative layout after every message, panicking the moment any
// of them disagree.
//
// Validator deliberately knows nothing about layout or index types —
// that would invert the package-layering direction (bus sits below
// layout and the indices). Its checks are supplied as closures by
// whatever constructs the Bus, so the dependency points the right way:
// editablecircuit.Builder.WithValidation wires concrete closures that
// close over the layout and indices it owns.
type Validator struct {
	checks []func() error
}

// NewValidator returns a Validator that runs every check, in order,
// after each delivered message.
func NewValidator(checks ...func() error) *Validator {
	return &Validator{checks: checks}
}

// Submit implements Listener. Register it last so every other
// listener has already reacted to m before a check runs.
func (v *Validator) Submit(m Message) {
	for _, check := range v.checks {
		if err := check(); err != nil {
			panic("bus: validator: inconsistent after " + m.String() + ": " + err.Error())
		}
	}
}
