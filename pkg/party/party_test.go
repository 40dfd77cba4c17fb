package party

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/kleros/linguo-engine/pkg/types"
)

var (
	requester  = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1")
	translator = common.HexToAddress("0x5B38Da6a701c568545dCfcB03FcB875f56beddC4")
	challenger = common.HexToAddress("0xAb8483F64d9C6d1EcF9b849Ae677dD3315835cb2")
	stranger   = common.HexToAddress("0x0000000000000000000000000000000000000001")
)

func taskWithParties() *types.Task {
	tr, ch := translator, challenger
	return &types.Task{
		ID:         "en|fr/1",
		Requester:  requester,
		Translator: &tr,
		Challenger: &ch,
	}
}

func TestResolve_EachRole(t *testing.T) {
	task := taskWithParties()

	assert.Equal(t, PartyRequester, Resolve(requester, task))
	assert.Equal(t, PartyTranslator, Resolve(translator, task))
	assert.Equal(t, PartyChallenger, Resolve(challenger, task))
	assert.Equal(t, PartyOther, Resolve(stranger, task))
}

func TestResolve_ChallengerTakesPrecedenceOverRequester(t *testing.T) {
	// A requester may challenge its own task; the challenger role wins.
	self := requester
	task := &types.Task{
		ID:         "en|fr/2",
		Requester:  requester,
		Challenger: &self,
	}
	assert.Equal(t, PartyChallenger, Resolve(requester, task))
}

func TestResolve_RequesterTakesPrecedenceOverTranslator(t *testing.T) {
	self := requester
	task := &types.Task{
		ID:         "en|fr/3",
		Requester:  requester,
		Translator: &self,
	}
	assert.Equal(t, PartyRequester, Resolve(requester, task))
}

func TestResolve_MissingOptionalRoles(t *testing.T) {
	task := &types.Task{
		ID:        "en|fr/4",
		Requester: requester,
	}
	assert.Equal(t, PartyOther, Resolve(translator, task))
	assert.Equal(t, PartyOther, Resolve(stranger, task))
}

func TestResolve_NilTask(t *testing.T) {
	assert.Equal(t, PartyOther, Resolve(requester, nil))
}

func TestResolve_Idempotent(t *testing.T) {
	task := taskWithParties()
	first := Resolve(challenger, task)
	second := Resolve(challenger, task)
	assert.Equal(t, first, second)
}

func TestAppealSideOf(t *testing.T) {
	tests := []struct {
		name   string
		ruling types.Ruling
		party  Party
		want   types.AppealSide
	}{
		{"approved translator wins", types.RulingTranslationApproved, PartyTranslator, types.AppealSideWinner},
		{"approved challenger loses", types.RulingTranslationApproved, PartyChallenger, types.AppealSideLoser},
		{"rejected challenger wins", types.RulingTranslationRejected, PartyChallenger, types.AppealSideWinner},
		{"rejected translator loses", types.RulingTranslationRejected, PartyTranslator, types.AppealSideLoser},
		{"refused is a tie", types.RulingRefused, PartyTranslator, types.AppealSideTie},
		{"requester has no side", types.RulingTranslationApproved, PartyRequester, types.AppealSideNone},
		{"stranger has no side", types.RulingTranslationRejected, PartyOther, types.AppealSideNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AppealSideOf(tt.ruling, tt.party))
		})
	}
}
