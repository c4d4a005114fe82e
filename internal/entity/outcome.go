package entity

// Human always plays X and the computer always plays O.
const (
	HumanMark    = PlayerX
	ComputerMark = PlayerO
)

// Outcome is how a finished episode ended.
type Outcome int

const (
	OutcomeHumanWin Outcome = iota + 1
	OutcomeComputerWin
	OutcomeTie
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHumanWin:
		return "human_win"
	case OutcomeComputerWin:
		return "computer_win"
	case OutcomeTie:
		return "tie"
	default:
		return "unknown"
	}
}

// WinnerOutcome maps the mark that completed a line to the outcome.
func WinnerOutcome(winner Cell) Outcome {
	if winner == HumanMark {
		return OutcomeHumanWin
	}

	return OutcomeComputerWin
}
