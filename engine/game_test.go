package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/konami/config"
	"github.com/lixenwraith/konami/effect"
	"github.com/lixenwraith/konami/engine/clock"
	"github.com/lixenwraith/konami/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type testGame struct {
	*Game
	screen tcell.SimulationScreen
	sched  *clock.ManualScheduler
}

func newTestGame(t *testing.T, mutate func(*config.Config)) *testGame {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	cfg := config.Default()
	cfg.Audio.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	sched := clock.NewManualScheduler(epoch)
	g, err := NewGame(cfg, Options{
		Screen:    screen,
		Scheduler: sched,
		Rand:      effect.NewRand(1, 2),
		Logger:    zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	g.Start()
	t.Cleanup(g.Stop)

	return &testGame{Game: g, screen: screen, sched: sched}
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func (tg *testGame) typeKonami(t *testing.T) {
	t.Helper()
	events := []tcell.Event{
		key(tcell.KeyUp), key(tcell.KeyUp), key(tcell.KeyDown), key(tcell.KeyDown),
		key(tcell.KeyLeft), key(tcell.KeyRight), key(tcell.KeyLeft), key(tcell.KeyRight),
		runeKey('b'), runeKey('a'),
	}
	for _, ev := range events {
		require.True(t, tg.HandleEvent(ev))
	}
}

// click presses and releases the primary button on a cell
func (tg *testGame) click(t *testing.T, x, y int) {
	t.Helper()
	require.True(t, tg.HandleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone)))
	require.True(t, tg.HandleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone)))
}

func (tg *testGame) clickLogo(t *testing.T) {
	t.Helper()
	r := tg.renderer.LogoRect()
	tg.click(t, r.X+1, r.Y+1)
}

func screenContains(screen tcell.SimulationScreen, needle string) bool {
	w, h := screen.Size()
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			mainc, _, _, _ := screen.GetContent(x, y)
			b.WriteRune(mainc)
		}
		if strings.Contains(b.String(), needle) {
			return true
		}
	}
	return false
}

func TestKonamiTriggersConfettiAndOverlay(t *testing.T) {
	tg := newTestGame(t, nil)
	secret, _ := tg.Overlays()

	tg.typeKonami(t)

	require.Equal(t, 1, tg.Effects().Len())
	batch := tg.Effects().Batches()[0]
	assert.Len(t, batch.Particles, 150)
	assert.Equal(t, epoch.Add(2500*time.Millisecond), batch.Deadline)
	assert.True(t, secret.Visible())

	tg.Draw()
	assert.True(t, screenContains(tg.screen, "You found the secret!"))
	assert.Equal(t, int64(1), tg.Stats().Counter(status.SequenceMatches).Load())
	assert.Equal(t, int64(150), tg.Stats().Counter(status.EffectParticles).Load())
	assert.Equal(t, int64(1), tg.Stats().Gauge(status.LiveBatches).Load())

	tg.sched.Advance(2500 * time.Millisecond)
	assert.Zero(t, tg.Effects().Len(), "confetti removed at its lifetime")
	assert.True(t, secret.Visible())

	tg.sched.Advance(2500 * time.Millisecond)
	assert.False(t, secret.Visible(), "overlay dismissed after 5s")

	tg.Draw()
	assert.False(t, screenContains(tg.screen, "You found the secret!"))
}

func TestKonamiRetriggerRestartsOverlay(t *testing.T) {
	tg := newTestGame(t, nil)
	secret, _ := tg.Overlays()

	tg.typeKonami(t)
	tg.sched.Advance(2 * time.Second)
	tg.typeKonami(t)

	assert.Equal(t, 2, tg.Effects().Len(), "batches are independent")
	assert.Equal(t, epoch.Add(7*time.Second), secret.Session().DismissAt)

	tg.sched.Advance(3 * time.Second)
	assert.True(t, secret.Visible(), "first dismissal was cancelled")

	tg.sched.Advance(2 * time.Second)
	assert.False(t, secret.Visible())
}

func TestUppercaseKeysMatch(t *testing.T) {
	tg := newTestGame(t, nil)
	secret, _ := tg.Overlays()

	for _, k := range []tcell.Key{tcell.KeyUp, tcell.KeyUp, tcell.KeyDown, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight, tcell.KeyLeft, tcell.KeyRight} {
		tg.HandleEvent(key(k))
	}
	tg.HandleEvent(runeKey('B'))
	tg.HandleEvent(runeKey('A'))

	assert.True(t, secret.Visible())
}

func TestLogoClicksReachThreshold(t *testing.T) {
	tg := newTestGame(t, nil)
	_, achievement := tg.Overlays()

	for i := 1; i <= 6; i++ {
		tg.clickLogo(t)
		assert.Equal(t, i, tg.Clicker().Count())
	}
	assert.Equal(t, 6, tg.Effects().Len(), "one sparkle per click")
	assert.False(t, achievement.Visible())

	tg.Draw()
	assert.True(t, screenContains(tg.screen, "●"), "progress dots visible mid-gesture")

	tg.clickLogo(t)
	assert.Zero(t, tg.Clicker().Count())
	assert.True(t, achievement.Visible())
	assert.Equal(t, 7, tg.Effects().Len())

	tg.sched.Advance(time.Second)
	assert.Zero(t, tg.Effects().Len(), "sparkles removed after one second")

	tg.sched.Advance(3 * time.Second)
	assert.False(t, achievement.Visible(), "clicker overlay dismissed after 4s")

	stats := tg.Stats()
	assert.Equal(t, int64(7), stats.Counter(status.ClickActivations).Load())
	assert.Equal(t, int64(1), stats.Counter(status.ClickUnlocks).Load())
	assert.Equal(t, int64(7), stats.Counter(status.EffectBatches).Load())
}

func TestSparkleSpawnsAtClickedCell(t *testing.T) {
	tg := newTestGame(t, nil)

	tg.clickLogo(t)

	require.Equal(t, 1, tg.Effects().Len())
	p := tg.Effects().Batches()[0].Particles[0]
	r := tg.renderer.LogoRect()
	assert.Equal(t, tg.renderer.CellToPixel(r.X+1, r.Y+1), p.Origin)
	assert.Equal(t, effect.MotionRise, tg.Effects().Batches()[0].Law.Motion)
}

func TestClicksOutsideLogoIgnored(t *testing.T) {
	tg := newTestGame(t, nil)

	tg.click(t, 40, 12)

	assert.Zero(t, tg.Clicker().Count())
	assert.Zero(t, tg.Effects().Len())
}

func TestHeldButtonCountsOnce(t *testing.T) {
	tg := newTestGame(t, nil)
	r := tg.renderer.LogoRect()

	for i := 0; i < 3; i++ {
		tg.HandleEvent(tcell.NewEventMouse(r.X+1, r.Y+1, tcell.Button1, tcell.ModNone))
	}
	tg.HandleEvent(tcell.NewEventMouse(r.X+1, r.Y+1, tcell.ButtonNone, tcell.ModNone))

	assert.Equal(t, 1, tg.Clicker().Count())
}

func TestClicksPassThroughVisibleOverlay(t *testing.T) {
	tg := newTestGame(t, nil)
	secret, _ := tg.Overlays()

	tg.typeKonami(t)
	require.True(t, secret.Visible())

	tg.clickLogo(t)
	assert.Equal(t, 1, tg.Clicker().Count())
}

func TestQuitKeys(t *testing.T) {
	tg := newTestGame(t, nil)

	assert.False(t, tg.HandleEvent(key(tcell.KeyEscape)))
	assert.False(t, tg.HandleEvent(key(tcell.KeyCtrlC)))
	assert.True(t, tg.HandleEvent(runeKey('q')))
}

func TestStopCancelsEverything(t *testing.T) {
	tg := newTestGame(t, func(c *config.Config) {
		c.Clicker.IdleReset = 3 * time.Second
	})

	tg.typeKonami(t)
	tg.clickLogo(t)
	require.NotZero(t, tg.sched.Pending())

	tg.Stop()
	assert.Zero(t, tg.sched.Pending())
	assert.Zero(t, tg.Effects().Len())
	assert.Zero(t, tg.Hub().Len(), "detector unsubscribed")

	tg.Stop()
}

func TestInputAfterStopIgnored(t *testing.T) {
	tg := newTestGame(t, nil)
	secret, _ := tg.Overlays()

	tg.Stop()
	tg.clickLogo(t)
	tg.typeKonami(t)

	assert.Zero(t, tg.Clicker().Count())
	assert.Zero(t, tg.Effects().Len())
	assert.Zero(t, tg.sched.Pending(), "nothing scheduled after teardown")
	assert.False(t, secret.Visible())
	assert.False(t, tg.HandleEvent(key(tcell.KeyEscape)), "quit still reported")
}

func TestIdleResetDecaysClicks(t *testing.T) {
	tg := newTestGame(t, func(c *config.Config) {
		c.Clicker.IdleReset = 3 * time.Second
	})

	tg.clickLogo(t)
	tg.clickLogo(t)
	tg.sched.Advance(2 * time.Second)
	tg.clickLogo(t)
	assert.Equal(t, 3, tg.Clicker().Count())

	tg.sched.Advance(3 * time.Second)
	assert.Zero(t, tg.Clicker().Count())
}

func TestApplyRebuildsDetectors(t *testing.T) {
	tg := newTestGame(t, nil)
	secret, achievement := tg.Overlays()

	cfg := config.Default()
	cfg.Audio.Enabled = false
	cfg.Sequence.Keys = []string{"x", "Y"}
	cfg.Clicker.Threshold = 3
	require.NoError(t, cfg.Validate())
	require.NoError(t, tg.Apply(cfg))

	tg.typeKonami(t)
	assert.False(t, secret.Visible(), "old sequence released")

	tg.HandleEvent(runeKey('x'))
	tg.HandleEvent(runeKey('y'))
	assert.True(t, secret.Visible())
	assert.Equal(t, 1, tg.Hub().Len())

	for i := 0; i < 3; i++ {
		tg.clickLogo(t)
	}
	assert.True(t, achievement.Visible())
}

func TestApplyKeepsProgressWhenUnchanged(t *testing.T) {
	tg := newTestGame(t, nil)

	tg.clickLogo(t)
	tg.clickLogo(t)

	cfg := config.Default()
	cfg.Audio.Enabled = false
	cfg.Confetti.Count = 10
	require.NoError(t, tg.Apply(cfg))

	assert.Equal(t, 2, tg.Clicker().Count())

	tg.typeKonami(t)
	assert.Len(t, tg.Effects().Batches()[len(tg.Effects().Batches())-1].Particles, 10)
}

func TestNewGameRequiresScreen(t *testing.T) {
	_, err := NewGame(config.Default(), Options{})
	assert.ErrorIs(t, err, ErrNoScreen)
}

func TestRunQuitsOnEscape(t *testing.T) {
	tg := newTestGame(t, nil)

	done := make(chan error, 1)
	go func() {
		done <- tg.Run(context.Background())
	}()

	require.NoError(t, tg.screen.PostEvent(runeKey('a')))
	require.NoError(t, tg.screen.PostEvent(key(tcell.KeyEscape)))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after escape")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	tg := newTestGame(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tg.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunDispatchesClockTasksAndReloads(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	defer screen.Fini()

	cfg := config.Default()
	cfg.Audio.Enabled = false
	cfg.Overlay.SequenceDuration = 50 * time.Millisecond

	reloads := make(chan *config.Config, 1)
	g, err := NewGame(cfg, Options{Screen: screen, Reloads: reloads, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	defer g.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Run(ctx)
	}()

	next := config.Default()
	next.Audio.Enabled = false
	next.Sequence.Keys = []string{"z"}
	next.Overlay.SequenceDuration = 50 * time.Millisecond
	reloads <- next

	// Give the loop a moment to apply the reload before typing
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, screen.PostEvent(runeKey('z')))

	secret, _ := g.Overlays()
	time.Sleep(500 * time.Millisecond)
	cancel()
	<-done

	assert.False(t, secret.Visible(), "dismissal dispatched on the loop")
	assert.Equal(t, 1, g.Effects().Len(), "reloaded sequence fired, confetti still alive")
	assert.Equal(t, int64(1), g.Stats().Counter(status.ConfigReloads).Load())
}
