package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/plus3/poseninja/ecs"
	"github.com/plus3/poseninja/sfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuHarness(t *testing.T) *harness {
	h := newHarness(t, ModeDots, func(o *Options) { o.Menu = true })
	h.tick(1)
	require.Equal(t, PhaseMenu, h.session().Phase)
	return h
}

func centre(b *Button) (float32, float32) {
	return b.Rect.X + b.Rect.W/2, b.Rect.Y + b.Rect.H/2
}

func TestMenuButtons(t *testing.T) {
	h := menuHarness(t)

	buttons := h.buttons()
	require.Len(t, buttons, 5)
	for _, action := range []Action{ActionPlayDots, ActionPlayFruit, ActionPlaySword, ActionTutorial, ActionQuit} {
		assert.Contains(t, buttons, action)
	}
	assert.Zero(t, count[Dot](h), "nothing spawns in the menu")
}

func TestHoverSelectsMode(t *testing.T) {
	h := menuHarness(t)

	x, y := centre(h.buttons()[ActionPlayFruit])
	h.wrists(x, y, false, 0, 0)

	h.tick(60)
	assert.Equal(t, PhaseMenu, h.session().Phase, "one second is not long enough")
	assert.InDelta(t, 1.0/1.5, h.buttons()[ActionPlayFruit].Progress, 0.02)

	h.tick(32)
	s := h.session()
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, ModeFruit, s.Mode)
	assert.Empty(t, h.buttons())
	assert.Contains(t, h.sounds.played, sfx.CueClick)
}

func TestButtonProgressDecaysWhenLeft(t *testing.T) {
	h := menuHarness(t)

	x, y := centre(h.buttons()[ActionPlaySword])
	h.wrists(x, y, false, 0, 0)
	h.tick(45)
	held := h.buttons()[ActionPlaySword].Progress
	assert.InDelta(t, 0.5, held, 0.02)

	h.hideWrists()
	h.tick(15)
	assert.InDelta(t, held-2*0.25/1.5, h.buttons()[ActionPlaySword].Progress, 0.02)

	h.tick(60)
	assert.Zero(t, h.buttons()[ActionPlaySword].Progress)
	assert.Equal(t, PhaseMenu, h.session().Phase)
}

func TestQuitButton(t *testing.T) {
	h := menuHarness(t)

	x, y := centre(h.buttons()[ActionQuit])
	h.wrists(x, y, false, 0, 0)
	h.tick(95)

	assert.True(t, h.session().Quit)
}

func TestRetryKeepsModeAndResets(t *testing.T) {
	h := newHarness(t, ModeSword, nil)
	h.tick(1)

	s := h.session()
	s.Score = 3
	s.Lives = 0
	h.fruit(50, 50)
	h.tick(1)
	require.Equal(t, PhaseGameOver, s.Phase)

	pending := ecs.NewSingleton[Pending](h.world.Storage).Get()
	pending.Action = ActionRetry
	h.tick(1)

	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, ModeSword, s.Mode)
	assert.Zero(t, s.Score)
	assert.Equal(t, 3, s.Lives)
	assert.Zero(t, count[Fruit](h), "the playfield is cleared")
	assert.Empty(t, h.buttons())
}

func TestMenuActionClearsPlayfield(t *testing.T) {
	h := newHarness(t, ModeFruit, nil)
	h.tick(1)
	h.fruit(50, 50)
	h.spawn(Position{}, Splash{TTL: 10})

	ecs.NewSingleton[Pending](h.world.Storage).Get().Action = ActionMenu
	h.tick(1)

	assert.Equal(t, PhaseMenu, h.session().Phase)
	assert.Zero(t, count[Fruit](h))
	assert.Zero(t, count[Splash](h))
	assert.Len(t, h.buttons(), 5)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeDots, ModeFruit, ModeSword} {
		got, ok := ParseMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParseMode("bombs")
	assert.False(t, ok)
}

func TestSessionID(t *testing.T) {
	assert.Equal(t, "test", newHarness(t, ModeFruit, nil).session().ID)

	generated := newHarness(t, ModeFruit, func(o *Options) { o.SessionID = "" }).session().ID
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
}

func TestRetryClearsPreviousRoundAtOnce(t *testing.T) {
	h := newHarness(t, ModeFruit, nil)
	h.tick(1)

	s := h.session()
	s.Lives = 0
	h.tick(1)
	require.Equal(t, PhaseGameOver, s.Phase)

	h.fruit(320, 240)
	h.wrists(320, 240, false, 0, 0)
	h.tick(1)
	require.Equal(t, 1, count[Fruit](h))

	ecs.NewSingleton[Pending](h.world.Storage).Get().Action = ActionRetry
	h.tick(1)

	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Zero(t, s.Score)
	assert.Equal(t, 3, s.Lives)
	assert.Zero(t, count[Fruit](h))
	assert.Zero(t, count[Half](h))
	assert.Zero(t, count[Splash](h))
	assert.NotContains(t, h.sounds.played, sfx.CueSlice)
}

func TestRetryDotsSpawnsFreshDot(t *testing.T) {
	h := newHarness(t, ModeDots, nil)
	h.tick(1)
	require.Equal(t, 1, count[Dot](h))

	s := h.session()
	s.RoundLeft = 0.001
	h.tick(1)
	require.Equal(t, PhaseGameOver, s.Phase)
	stale := first[Dot](h)
	stale.X, stale.Y = -1000, -1000

	ecs.NewSingleton[Pending](h.world.Storage).Get().Action = ActionRetry
	h.tick(1)

	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, 1, count[Dot](h))
	assert.NotEqual(t, float32(-1000), first[Dot](h).X)
}
