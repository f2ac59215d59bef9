package steamworks

import "fmt"

// Phase is the value of the state block's phase field
type Phase uint32

const (
	BonusBeginAnimation Phase = 4
	PressToStart        Phase = 5
	WaitingForInput     Phase = 8
	OverloadCutscene    Phase = 12
)

// Known reports whether p is one of the phases the automaton reacts to
func (p Phase) Known() bool {
	switch p {
	case BonusBeginAnimation, PressToStart, WaitingForInput, OverloadCutscene:
		return true
	}
	return false
}

func (p Phase) String() string {
	switch p {
	case BonusBeginAnimation:
		return "BonusBeginAnimation"
	case PressToStart:
		return "PressToStart"
	case WaitingForInput:
		return "WaitingForInput"
	case OverloadCutscene:
		return "OverloadCutscene"
	default:
		return fmt.Sprintf("Phase(%d)", uint32(p))
	}
}
