// Package engine hosts the single-threaded loop that wires gestures to effects, overlays and audio
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/konami/audio"
	"github.com/lixenwraith/konami/config"
	"github.com/lixenwraith/konami/effect"
	"github.com/lixenwraith/konami/engine/clock"
	"github.com/lixenwraith/konami/gesture"
	"github.com/lixenwraith/konami/input"
	"github.com/lixenwraith/konami/overlay"
	"github.com/lixenwraith/konami/render"
	"github.com/lixenwraith/konami/status"
	"go.uber.org/zap"
)

// ErrNoScreen is returned when a game is built without a screen
var ErrNoScreen = errors.New("game requires a screen")

const (
	eventQueueSize       = 100
	defaultFrameInterval = 16 * time.Millisecond // ~60 FPS
)

// Options supplies the collaborators a Game does not build from config
type Options struct {
	Screen    tcell.Screen
	Scheduler clock.Scheduler // nil creates a ClockScheduler owned by the game
	Rand      effect.Rand     // nil seeds from the wall clock
	Sound     *audio.SoundManager
	Reloads   <-chan *config.Config // hot-reloaded configs, may be nil
	Logger    *zap.Logger
}

// Game holds all runtime state, every method must be called from the loop goroutine
type Game struct {
	cfg    *config.Config
	screen tcell.Screen
	sched  clock.Scheduler
	owned  *clock.ClockScheduler

	hub         *input.Hub
	sequence    *gesture.SequenceDetector
	clicker     *gesture.ClickCounter
	effects     *effect.Engine
	secret      *overlay.Presenter
	achievement *overlay.Presenter
	sound       *audio.SoundManager
	renderer    *render.Renderer
	stats       *status.Registry

	confetti effect.ConfettiPreset
	sparkle  effect.SparklePreset

	reloads   <-chan *config.Config
	mouseDown bool
	started   bool
	stopped   bool

	log *zap.Logger
}

// NewGame builds a game from a validated config
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.Screen == nil {
		return nil, ErrNoScreen
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	g := &Game{
		cfg:     cfg,
		screen:  opts.Screen,
		sched:   opts.Scheduler,
		hub:     input.NewHub(),
		stats:   status.NewRegistry(),
		sound:   opts.Sound,
		reloads: opts.Reloads,
		log:     log,
	}

	if g.sched == nil {
		g.owned = clock.NewClockScheduler()
		g.sched = g.owned
	}
	if g.sound == nil {
		g.sound = audio.NewSoundManager(cfg.Audio, log.Named("audio"))
	}

	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = effect.NewRand(seed, seed>>32|seed<<32)
	}

	var err error
	if g.sequence, err = g.newSequence(cfg); err != nil {
		g.closeScheduler()
		return nil, err
	}
	if g.clicker, err = g.newClicker(cfg); err != nil {
		g.closeScheduler()
		return nil, err
	}

	g.effects = effect.NewEngine(g.sched, rng, log.Named("effect"))
	g.secret = overlay.NewPresenter("sequence", g.sched, log.Named("overlay"))
	g.achievement = overlay.NewPresenter("clicker", g.sched, log.Named("overlay"))
	g.renderer = render.NewRenderer(g.screen, renderOptions(cfg))
	g.confetti = cfg.ConfettiPreset()
	g.sparkle = cfg.SparklePreset()

	return g, nil
}

func (g *Game) newSequence(cfg *config.Config) (*gesture.SequenceDetector, error) {
	d, err := gesture.NewSequenceDetector(cfg.SequenceTokens(), g.onSequence, g.log.Named("sequence"))
	if err != nil {
		return nil, fmt.Errorf("sequence detector: %w", err)
	}
	return d, nil
}

func (g *Game) newClicker(cfg *config.Config) (*gesture.ClickCounter, error) {
	c, err := gesture.NewClickCounter(gesture.ClickCounterConfig{
		Threshold:   cfg.Clicker.Threshold,
		Policy:      gesture.DecayPolicy{IdleReset: cfg.Clicker.IdleReset},
		Scheduler:   g.sched,
		OnThreshold: g.onClickThreshold,
		Emit:        g.onClick,
		Logger:      g.log.Named("clicker"),
	})
	if err != nil {
		return nil, fmt.Errorf("click counter: %w", err)
	}
	return c, nil
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{
		Logo:       cfg.Display.Logo,
		CellWidth:  cfg.Display.CellWidth,
		CellHeight: cfg.Display.CellHeight,
		Background: cfg.BackgroundColor(),
	}
}

// Start subscribes the sequence detector to keyboard input
func (g *Game) Start() {
	if g.started || g.stopped {
		return
	}
	g.started = true
	g.screen.EnableMouse()
	g.sequence.Start(g.hub)
	g.log.Info("easter eggs armed",
		zap.String("hint", ConsoleHint),
		zap.Int("click_threshold", g.clicker.Threshold()),
	)
}

// Stop releases subscriptions and cancels every pending task, safe to call twice
func (g *Game) Stop() {
	if g.stopped {
		return
	}
	g.stopped = true

	g.sequence.Stop()
	g.clicker.Close()
	g.effects.Close()
	g.secret.Close()
	g.achievement.Close()
	g.sound.Cleanup()
	g.closeScheduler()
	g.log.Info("stopped", g.stats.Fields()...)
}

func (g *Game) closeScheduler() {
	if g.owned != nil {
		g.owned.Close()
	}
}

// onSequence fires on a completed key sequence
func (g *Game) onSequence() {
	width, _ := g.renderer.PixelSize()
	b := g.effects.SpawnBatch(g.confetti.Spec(width))
	g.secret.Show(overlay.SequenceFound, g.cfg.Overlay.SequenceDuration)
	g.sound.Play(audio.SoundChime)
	g.stats.Counter(status.SequenceMatches).Add(1)
	g.countBatch(b)
	g.log.Info("sequence matched", zap.Stringer("batch", b.ID), zap.Int("particles", len(b.Particles)))
}

// onClick spawns the per-click sparkle
func (g *Game) onClick(x, y float64) {
	b := g.effects.SpawnBatch(g.sparkle.Spec(effect.Vec{X: x, Y: y}))
	g.sound.Play(audio.SoundSparkle)
	g.stats.Counter(status.ClickActivations).Add(1)
	g.countBatch(b)
}

func (g *Game) countBatch(b *effect.Batch) {
	g.stats.Counter(status.EffectBatches).Add(1)
	g.stats.Counter(status.EffectParticles).Add(int64(len(b.Particles)))
}

// onClickThreshold fires when the logo was clicked exactly threshold times
func (g *Game) onClickThreshold() {
	g.achievement.Show(overlay.ClickerUnlocked(g.clicker.Threshold()), g.cfg.Overlay.ClickerDuration)
	g.sound.Play(audio.SoundFanfare)
	g.stats.Counter(status.ClickUnlocks).Add(1)
}

// HandleEvent processes one terminal event and returns false when the user asked to quit
func (g *Game) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if input.IsQuit(ev) {
			return false
		}
		if tok, ok := input.KeyToken(ev); ok && !g.stopped {
			g.hub.Publish(tok)
		}

	case *tcell.EventMouse:
		g.handleMouse(ev)

	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

// handleMouse counts a press edge on the logo, overlays never intercept it
func (g *Game) handleMouse(ev *tcell.EventMouse) {
	if g.stopped {
		return
	}
	pressed := ev.Buttons()&tcell.Button1 != 0
	edge := pressed && !g.mouseDown
	g.mouseDown = pressed
	if !edge {
		return
	}

	x, y := ev.Position()
	if !g.renderer.LogoRect().Contains(x, y) {
		return
	}
	p := g.renderer.CellToPixel(x, y)
	g.clicker.OnActivate(p.X, p.Y)
}

// Apply swaps in a reloaded config, detectors are rebuilt only when their settings changed
func (g *Game) Apply(cfg *config.Config) error {
	sequence := g.sequence
	if !slices.Equal(cfg.SequenceTokens(), g.sequence.Sequence()) {
		s, err := g.newSequence(cfg)
		if err != nil {
			return err
		}
		sequence = s
	}

	clicker := g.clicker
	if cfg.Clicker != g.cfg.Clicker {
		c, err := g.newClicker(cfg)
		if err != nil {
			return err
		}
		clicker = c
	}

	if sequence != g.sequence {
		g.sequence.Stop()
		g.sequence = sequence
		if g.started && !g.stopped {
			g.sequence.Start(g.hub)
		}
	}
	if clicker != g.clicker {
		g.clicker.Close()
		g.clicker = clicker
	}

	g.cfg = cfg
	g.confetti = cfg.ConfettiPreset()
	g.sparkle = cfg.SparklePreset()
	g.renderer.SetOptions(renderOptions(cfg))
	g.sound.SetConfig(cfg.Audio)
	g.log.Info("config applied")
	return nil
}

// Scene snapshots what the next frame shows
func (g *Game) Scene() render.Scene {
	return render.Scene{
		Count:     g.clicker.Count(),
		Threshold: g.clicker.Threshold(),
		Particles: g.effects.Active(),
		Overlays:  []overlay.Session{g.secret.Session(), g.achievement.Session()},
		Hint:      statusHint,
	}
}

// Draw renders one frame
func (g *Game) Draw() {
	g.stats.Gauge(status.LiveBatches).Store(int64(g.effects.Len()))
	g.renderer.Draw(g.Scene())
}

// Run is the main loop, it returns on quit, closed screen or cancelled context
func (g *Game) Run(ctx context.Context) error {
	g.Start()

	events := make(chan tcell.Event, eventQueueSize)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	// Timer callbacks are marshalled onto this goroutine when the scheduler supports it
	var due <-chan clock.Handle
	dispatcher, ok := g.sched.(clock.Dispatcher)
	if ok {
		due = dispatcher.C()
	}

	interval := g.cfg.Display.FrameInterval
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if !g.HandleEvent(ev) {
				return nil
			}

		case h := <-due:
			dispatcher.Dispatch(h)

		case cfg := <-g.reloads:
			if err := g.Apply(cfg); err != nil {
				g.stats.Counter(status.ConfigReloadErrors).Add(1)
				g.log.Warn("config reload rejected", zap.Error(err))
				continue
			}
			g.stats.Counter(status.ConfigReloads).Add(1)

		case <-ticker.C:
			g.Draw()
		}
	}
}

// Stats returns the session metrics
func (g *Game) Stats() *status.Registry {
	return g.stats
}

// Hub returns the keyboard token source
func (g *Game) Hub() *input.Hub {
	return g.hub
}

// Clicker returns the active click counter
func (g *Game) Clicker() *gesture.ClickCounter {
	return g.clicker
}

// Effects returns the particle engine
func (g *Game) Effects() *effect.Engine {
	return g.effects
}

// Overlays returns the sequence and clicker presenters
func (g *Game) Overlays() (sequence, clicker *overlay.Presenter) {
	return g.secret, g.achievement
}
