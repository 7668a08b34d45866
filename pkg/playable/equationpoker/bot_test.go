package equationpoker

import (
	"testing"
	"time"

	"equationpoker-server/pkg/deck"
	"equationpoker-server/pkg/equation"
	"equationpoker-server/pkg/playable/equationpoker/action"
	"github.com/stretchr/testify/assert"
)

func Test_planEquations(t *testing.T) {
	a := assert.New(t)

	plan := planEquations(deck.CardsFromString("1d,2d,3d,4d"), deck.StartingOperations, 0)
	a.Equal(action.Small, plan.betType)
	a.Equal(0.0, plan.smallDiff)
	value, err := equation.Evaluate(plan.small)
	a.NoError(err)
	a.Equal(1.0, value)

	plan = planEquations(deck.CardsFromString("5d,4d,1d,0d"), []deck.Operation{deck.Multiply, deck.Subtract, deck.Divide}, 0)
	a.Contains([]action.BetType{action.Big, action.Both}, plan.betType)
	value, err = equation.Evaluate(plan.big)
	a.NoError(err)
	a.Equal(20.0, value)

	// a square root is only used when the player holds one
	plan = planEquations(deck.CardsFromString("9d,9b"), []deck.Operation{deck.Subtract}, 0)
	a.NotContains(plan.small, "sqrt")
	plan = planEquations(deck.CardsFromString("4d,1d"), []deck.Operation{deck.Subtract}, 1)
	a.Equal("sqrt 4 - 1", plan.small)
	a.Equal(0.0, plan.smallDiff)

	// nothing evaluates, fall back to adding the numbers
	plan = planEquations(deck.CardsFromString("0d,0b"), []deck.Operation{deck.Divide}, 0)
	a.Equal("0 + 0", plan.small)
	a.Equal(action.Small, plan.betType)
}

func Test_buildExpression(t *testing.T) {
	a := assert.New(t)
	ops := []deck.Operation{deck.Add, deck.Multiply, deck.Divide}

	a.Equal("1 + 2 * 3 / 4", buildExpression([]int{1, 2, 3, 4}, ops, 0))
	a.Equal("sqrt 9 + 2 * 3 / sqrt 4", buildExpression([]int{9, 2, 3, 4}, ops, 0b1001))
}

func Test_permute(t *testing.T) {
	seen := make(map[string]bool)
	permute([]int{1, 2, 3}, func(values []int) {
		seen[buildExpression(values, []deck.Operation{deck.Add, deck.Add}, 0)] = true
	})

	assert.Len(t, seen, 6)
}

func TestGame_BotPlaysARound(t *testing.T) {
	a := assert.New(t)
	game, sink, ids := newTestGame(t, "Alice")
	alice := ids[0]
	startRigged(t, game, "1d,2d,*,3d,4d,5d,6d,7d,8d")
	bot := game.participants[1]
	execOK, _ := createExecFunctions(t, game)

	// nothing to do while waiting on a human
	_, ok := game.Delay()
	a.False(ok)

	execOK(alice, action.Bet{Amount: 40})
	delay, ok := game.Delay()
	a.True(ok)
	a.Equal(time.Millisecond, delay)

	acted, err := game.Tick()
	a.True(acted)
	a.NoError(err)

	// the bot swapped a random operator without halting the deal
	a.Equal(PhaseBetting1, game.Phase())
	a.Equal(0, sink.count(EventSwapRequired))
	a.True(bot.hasMultiply())
	a.Len(bot.swapChoices(), 2)
	handEqual(t, game, bot.PlayerID, "3d,4d")
	chipsEqual(t, game, map[string]int{alice: 960, bot.PlayerID: 960})

	for game.Phase() != PhaseEquation {
		if p := game.currentTurn(); !p.IsBot {
			execOK(p.PlayerID, action.Call{})
			continue
		}

		acted, err := game.Tick()
		a.True(acted)
		a.NoError(err)
	}

	execOK(alice, action.SelectBetType{BetType: action.Small})
	execOK(alice, action.SubmitEquation{Small: "6 - 5"})

	for i := 0; i < 2; i++ {
		_, ok := game.Delay()
		a.True(ok)
		acted, err := game.Tick()
		a.True(acted)
		a.NoError(err)
	}

	a.Equal(PhaseEnded, game.Phase())
	a.True(bot.submitted)
	a.NotEqual(action.BetTypeNone, bot.betType)

	acted, err = game.Tick()
	a.False(acted)
	a.NoError(err)
}

func TestGame_BotFoldsWhenShort(t *testing.T) {
	a := assert.New(t)
	game, _, _ := newTestGame(t, "Alice")
	a.NoError(game.Start())
	bot := game.participants[1]

	// a short stacked bot can not cover the bet
	game.currentBet = 500
	bot.chips = 100
	a.Equal(action.Fold{}, game.botAction(bot))

	bot.chips = 500
	a.Equal(action.Call{}, game.botAction(bot))
}
