package party

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kleros/linguo-engine/pkg/types"
)

// Party is the role the current account plays for a given task.
type Party uint8

const (
	PartyOther Party = iota
	PartyTranslator
	PartyRequester
	PartyChallenger
)

func (p Party) String() string {
	switch p {
	case PartyChallenger:
		return "Challenger"
	case PartyRequester:
		return "Requester"
	case PartyTranslator:
		return "Translator"
	default:
		return "Other"
	}
}

// Resolve determines the role addr plays for the task. The same address can
// hold several roles at once (a requester may challenge its own task); the
// most specific role wins: Challenger > Requester > Translator. Address
// comparison is case-insensitive.
func Resolve(addr common.Address, task *types.Task) Party {
	if task == nil {
		return PartyOther
	}
	switch {
	case task.Challenger != nil && equalAddresses(addr, *task.Challenger):
		return PartyChallenger
	case equalAddresses(addr, task.Requester):
		return PartyRequester
	case task.Translator != nil && equalAddresses(addr, *task.Translator):
		return PartyTranslator
	default:
		return PartyOther
	}
}

// AppealSideOf maps a dispute ruling to the standing of the given party.
// Parties other than the translator and the challenger have no appeal side.
func AppealSideOf(ruling types.Ruling, p Party) types.AppealSide {
	if p != PartyTranslator && p != PartyChallenger {
		return types.AppealSideNone
	}
	switch ruling {
	case types.RulingRefused:
		return types.AppealSideTie
	case types.RulingTranslationApproved:
		if p == PartyTranslator {
			return types.AppealSideWinner
		}
		return types.AppealSideLoser
	case types.RulingTranslationRejected:
		if p == PartyChallenger {
			return types.AppealSideWinner
		}
		return types.AppealSideLoser
	default:
		return types.AppealSideNone
	}
}

// equalAddresses compares two addresses ignoring checksum casing.
func equalAddresses(a, b common.Address) bool {
	return strings.EqualFold(a.Hex(), b.Hex())
}
