package deck

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestColor_Rank(t *testing.T) {
	a := assert.New(t)
	a.True(Dark.Rank() < Bronze.Rank())
	a.True(Bronze.Rank() < Silver.Rank())
	a.True(Silver.Rank() < Gold.Rank())
	a.Equal(-1, Color("purple").Rank())
}

func TestCard_String(t *testing.T) {
	a := assert.New(t)
	a.Equal("7g", NumberCard(7, Gold).String())
	a.Equal("0d", NumberCard(0, Dark).String())
	a.Equal("10s", NumberCard(10, Silver).String())
	a.Equal("*", OperationCard(Multiply).String())
	a.Equal("sqrt", OperationCard(SquareRoot).String())
}

func TestCardFromString(t *testing.T) {
	a := assert.New(t)
	a.Equal(NumberCard(10, Bronze), CardFromString("10b"))
	a.Equal(NumberCard(3, Dark), CardFromString("3D"))
	a.Equal(OperationCard(SquareRoot), CardFromString("sqrt"))
	a.Nil(CardFromString(""))
	a.Panics(func() {
		CardFromString("11g")
	})
	a.Equal("1d,+,-,/,*,sqrt", CardsToString(CardsFromString("1d,+,-,/,*,sqrt")))
}

func TestOperationFromString(t *testing.T) {
	op, err := OperationFromString("divide")
	assert.NoError(t, err)
	assert.Equal(t, Divide, op)

	_, err = OperationFromString("modulo")
	assert.EqualError(t, err, "unknown operation: modulo")
}

func TestCard_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NumberCard(0, Dark))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"kind":"number","value":0,"color":"dark"}`, string(b))

	b, err = json.Marshal(OperationCard(SquareRoot))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"kind":"operation","operation":"squareRoot"}`, string(b))
}

func TestHand(t *testing.T) {
	a := assert.New(t)
	h := Hand(CardsFromString("5g,sqrt,2b,9d,2d,9s"))

	a.Equal(5, h.CountNumbers())
	a.Equal("5g,2b,9d,2d,9s", h.NumberCards().String())
	a.True(h.HasOperation(SquareRoot))
	a.False(h.HasOperation(Multiply))
	a.Equal("2d", h.Lowest().String())
	a.Equal("9s", h.Highest().String())

	a.Nil(Hand(CardsFromString("sqrt")).Lowest())
	a.Nil(Hand{}.Highest())

	h.AddCard(OperationCard(Multiply))
	a.True(h.HasOperation(Multiply))
}
