package types

// Ruling is the arbitrator's decision on a translation dispute. Ordinal
// values match the arbitrator contract: 0 means the arbitrator refused to
// rule.
type Ruling uint8

const (
	RulingRefused Ruling = iota
	RulingTranslationApproved
	RulingTranslationRejected
)

func (r Ruling) String() string {
	switch r {
	case RulingRefused:
		return "Refused"
	case RulingTranslationApproved:
		return "TranslationApproved"
	case RulingTranslationRejected:
		return "TranslationRejected"
	default:
		return "Unknown"
	}
}

// AppealSide tells a party where it stands after a ruling, which decides
// the appeal-funding affordances shown to it.
type AppealSide uint8

const (
	AppealSideNone AppealSide = iota
	AppealSideWinner
	AppealSideLoser
	AppealSideTie
)

func (s AppealSide) String() string {
	switch s {
	case AppealSideNone:
		return "None"
	case AppealSideWinner:
		return "Winner"
	case AppealSideLoser:
		return "Loser"
	case AppealSideTie:
		return "Tie"
	default:
		return "Unknown"
	}
}
