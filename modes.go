package peg

// ApplyMode gates whether actions fire for successful matches.
type ApplyMode uint8

const (
	ApplyEnabled ApplyMode = iota
	ApplyDisabled
)

func (m ApplyMode) String() string {
	switch m {
	case ApplyEnabled:
		return "apply"
	case ApplyDisabled:
		return "nothing"
	default:
		return "invalid-apply-mode"
	}
}

// RewindMode gates whether the kernel restores the cursor after a failed
// match. RewindOptional is only passed down by rules that restore the
// cursor themselves.
type RewindMode uint8

const (
	RewindRequired RewindMode = iota
	RewindOptional
)

func (m RewindMode) String() string {
	switch m {
	case RewindRequired:
		return "required"
	case RewindOptional:
		return "optional"
	default:
		return "invalid-rewind-mode"
	}
}
