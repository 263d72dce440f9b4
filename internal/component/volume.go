package component

import (
	"context"
	"fmt"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/event/schema"
	"github.com/dshills/lpk/internal/participant"
)

// AudioTarget is what a VolumeManager trigger role adjusts.
type AudioTarget int

const (
	AudioMaster AudioTarget = iota
	AudioMusic
	AudioSFX
	AudioVoice
)

var audioTargets = map[string]AudioTarget{
	"master": AudioMaster,
	"music":  AudioMusic,
	"sfx":    AudioSFX,
	"voice":  AudioVoice,
}

var audioChannels = map[string]schema.Channel{
	"sfx":   schema.ChannelSFX,
	"music": schema.ChannelMusic,
	"voice": schema.ChannelVoice,
}

// DefaultAudioLevels are the levels a VolumeManager starts with.
func DefaultAudioLevels() schema.AudioLevels {
	return schema.AudioLevels{Master: 0.7, Music: 0.7, SFX: 0.7, Voice: 0.7}
}

// DefaultVolumeStep is how much one trigger moves a level.
const DefaultVolumeStep = 0.1

// volumeRoles lists the trigger roles of a VolumeManager: "<target>_up"
// and "<target>_down" for every target.
var volumeRoles = func() []string {
	var roles []string
	for name := range audioTargets {
		roles = append(roles, name+"_up", name+"_down")
	}
	return roles
}()

// VolumeManager owns the audio levels and broadcasts AudioLevelsAdjusted,
// carrying every level, whenever one of them changes. Levels stay in
// [0, 1]. Its triggers also work while the game is paused.
type VolumeManager struct {
	*participant.Participant
	levels schema.AudioLevels
}

// NewVolumeManager creates a manager starting at levels.
func NewVolumeManager(bus event.Bus, cfg Config, levels schema.AudioLevels, step float32) (*VolumeManager, error) {
	if err := cfg.checkRoles(volumeRoles, nil); err != nil {
		return nil, err
	}
	if step <= 0 || step > 1 {
		return nil, &ParamError{Key: "step", Err: fmt.Errorf("%v is outside (0, 1]", step)}
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	m := &VolumeManager{Participant: p}
	m.levels = m.clamped(levels)

	for name, target := range audioTargets {
		for _, delta := range []float32{step, -step} {
			role := name + "_up"
			if delta < 0 {
				role = name + "_down"
			}
			err := p.Listen(cfg.Trigger(role), event.HandlerFunc(func(ctx context.Context, _ kind.Kind, pl *event.Payload) {
				if m.ShouldRespondWhilePaused(pl) {
					m.Adjust(ctx, target, delta)
				}
			}))
			if err != nil {
				p.Close()
				return nil, err
			}
		}
	}
	return m, nil
}

func volumeManagerFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	d := DefaultAudioLevels()
	levels := schema.AudioLevels{
		Master: float32(r.float("master", float64(d.Master))),
		Music:  float32(r.float("music", float64(d.Music))),
		SFX:    float32(r.float("sfx", float64(d.SFX))),
		Voice:  float32(r.float("voice", float64(d.Voice))),
	}
	step := float32(r.float("step", DefaultVolumeStep))
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewVolumeManager(bus, cfg, levels, step)
}

// Levels returns the current audio levels.
func (m *VolumeManager) Levels() schema.AudioLevels { return m.levels }

// Start broadcasts the initial levels so volume controls pick them up.
func (m *VolumeManager) Start(ctx context.Context) { m.broadcast(ctx) }

// Adjust moves one level by delta and broadcasts the result.
func (m *VolumeManager) Adjust(ctx context.Context, t AudioTarget, delta float32) {
	l := m.levels
	switch t {
	case AudioMaster:
		l.Master += delta
	case AudioMusic:
		l.Music += delta
	case AudioSFX:
		l.SFX += delta
	case AudioVoice:
		l.Voice += delta
	}
	m.Set(ctx, l)
}

// Set replaces the levels and broadcasts them.
func (m *VolumeManager) Set(ctx context.Context, l schema.AudioLevels) {
	m.levels = m.clamped(l)
	m.Logger().Debug().
		Float32("master", m.levels.Master).
		Float32("music", m.levels.Music).
		Float32("sfx", m.levels.SFX).
		Float32("voice", m.levels.Voice).
		Msg("audio levels adjusted")
	m.broadcast(ctx)
}

func (m *VolumeManager) broadcast(ctx context.Context) {
	m.Emit(ctx, kind.Select(kind.AudioLevelsAdjusted), event.Broadcast(), func(p *event.Payload) {
		m.levels.Encode(p)
	})
}

func (m *VolumeManager) clamped(l schema.AudioLevels) schema.AudioLevels {
	return schema.AudioLevels{
		Master: clampUnit(l.Master),
		Music:  clampUnit(l.Music),
		SFX:    clampUnit(l.SFX),
		Voice:  clampUnit(l.Voice),
	}
}

func clampUnit(v float32) float32 {
	return min(max(v, 0), 1)
}

// VolumeControlSettings configures a VolumeControl.
type VolumeControlSettings struct {
	Channel schema.Channel
	// OnChange receives every new volume.
	OnChange func(float32)
}

// VolumeControl tracks the effective volume of one audio channel from
// AudioLevelsAdjusted. It stands in for an audio source: where the
// volume is applied is the caller's business. Level changes reach it
// while the game is paused.
type VolumeControl struct {
	*participant.Participant
	settings VolumeControlSettings
	volume   float32
}

// NewVolumeControl creates a control at the default levels.
func NewVolumeControl(bus event.Bus, cfg Config, s VolumeControlSettings) (*VolumeControl, error) {
	if err := cfg.checkRoles(nil, nil); err != nil {
		return nil, err
	}
	opts := append([]participant.Option{participant.Quiet()}, cfg.Options...)
	p, err := participant.New(bus, cfg.Object, opts...)
	if err != nil {
		return nil, err
	}
	c := &VolumeControl{
		Participant: p,
		settings:    s,
		volume:      DefaultAudioLevels().Volume(s.Channel),
	}
	if err := p.Listen(kind.Select(kind.AudioLevelsAdjusted), c); err != nil {
		p.Close()
		return nil, err
	}
	return c, nil
}

func volumeControlFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	s := VolumeControlSettings{Channel: readEnum(r, "channel", schema.ChannelSFX, audioChannels)}
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewVolumeControl(bus, cfg, s)
}

// Volume returns the channel level scaled by master.
func (c *VolumeControl) Volume() float32 { return c.volume }

// HandleEvent applies new levels. Payloads without the four levels are
// ignored.
func (c *VolumeControl) HandleEvent(_ context.Context, _ kind.Kind, p *event.Payload) {
	if !c.ShouldRespondWhilePaused(p) {
		return
	}
	l, ok := schema.DecodeAudioLevels(p)
	if !ok {
		return
	}
	c.volume = l.Volume(c.settings.Channel)
	if c.settings.OnChange != nil {
		c.settings.OnChange(c.volume)
	}
}
