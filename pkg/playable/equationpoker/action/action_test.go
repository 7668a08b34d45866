package action

import (
	"equationpoker-server/pkg/deck"
	"equationpoker-server/pkg/playable"
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func payload(kind Kind, data playable.AdditionalData) *playable.PayloadIn {
	return &playable.PayloadIn{
		Action:         string(kind),
		AdditionalData: data,
	}
}

func assertInvalid(t *testing.T, msg *playable.PayloadIn, expectedErr string) {
	t.Helper()
	a, err := FromPayload(msg)
	assert.Nil(t, a)
	assert.True(t, errors.Is(err, playable.ErrInvalidAction))
	assert.EqualError(t, err, expectedErr)
}

func TestFromPayload(t *testing.T) {
	a := assert.New(t)

	act, err := FromPayload(payload(KindBet, playable.AdditionalData{"amount": float64(50)}))
	a.NoError(err)
	a.Equal(Bet{Amount: 50}, act)
	a.Equal(KindBet, act.Kind())

	act, err = FromPayload(payload(KindCall, nil))
	a.NoError(err)
	a.Equal(Call{}, act)

	act, err = FromPayload(payload(KindFold, nil))
	a.NoError(err)
	a.Equal(Fold{}, act)

	act, err = FromPayload(payload(KindSelectBetType, playable.AdditionalData{"betType": "both"}))
	a.NoError(err)
	a.Equal(SelectBetType{BetType: Both}, act)

	act, err = FromPayload(payload(KindSubmitEquation, playable.AdditionalData{"small": "1+0"}))
	a.NoError(err)
	a.Equal(SubmitEquation{Small: "1+0"}, act)

	act, err = FromPayload(payload(KindSwapCard, playable.AdditionalData{"operation": "divide"}))
	a.NoError(err)
	a.Equal(SwapCard{Operation: deck.Divide}, act)

	act, err = FromPayload(payload(KindDeclineSwap, nil))
	a.NoError(err)
	a.Equal(DeclineSwap{}, act)
}

func TestFromPayload_invalid(t *testing.T) {
	assertInvalid(t, nil, "invalid action: missing payload")
	assertInvalid(t, payload("raise", nil), "invalid action: unknown action: raise")
	assertInvalid(t, payload(KindBet, nil), "invalid action: bet requires an integer amount")
	assertInvalid(t, payload(KindBet, playable.AdditionalData{"amount": "50"}), "invalid action: bet requires an integer amount")
	assertInvalid(t, payload(KindBet, playable.AdditionalData{"amount": float64(-5)}), "invalid action: bet amount must be greater than zero")
	assertInvalid(t, payload(KindSelectBetType, nil), "invalid action: selectBetType requires a betType")
	assertInvalid(t, payload(KindSelectBetType, playable.AdditionalData{"betType": "medium"}), "invalid action: unknown bet type: medium")
	assertInvalid(t, payload(KindSubmitEquation, playable.AdditionalData{}), "invalid action: submitEquation requires a small or big equation")
	assertInvalid(t, payload(KindSwapCard, nil), "invalid action: swapCard requires an operation")
	assertInvalid(t, payload(KindSwapCard, playable.AdditionalData{"operation": "modulo"}), "invalid action: unknown operation: modulo")
}

func TestBetType(t *testing.T) {
	a := assert.New(t)
	a.True(Small.WantsSmall())
	a.False(Small.WantsBig())
	a.True(Big.WantsBig())
	a.False(Big.WantsSmall())
	a.True(Both.WantsSmall())
	a.True(Both.WantsBig())
	a.False(BetTypeNone.WantsSmall())
}
