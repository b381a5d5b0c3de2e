package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

const maxVolume = 150

type sinkInput struct {
	ID      int
	Volume  int
	AppName string
}

type fade struct {
	id       int
	from, to int
}

// Pactl runs a pactl subcommand and returns its stdout.
type Pactl func(ctx context.Context, args ...string) ([]byte, error)

func runPactl(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "pactl", args...).Output()
}

type DuckerOptions struct {
	// Applications whose streams are never touched, by application.name.
	Keep []string
	// Factor scales the other streams' volume, floored at MinVolume percent.
	Factor    float64
	MinVolume int
	Fade      time.Duration
}

// Ducker fades PulseAudio sink inputs of other applications down while the
// assistant speaks and back up afterwards.
type Ducker struct {
	mu       sync.Mutex
	opt      DuckerOptions
	pactl    Pactl
	ducked   bool
	original map[int]int
}

func NewDucker(opt DuckerOptions) *Ducker {
	if opt.Factor <= 0 || opt.Factor > 1 {
		opt.Factor = 0.3
	}
	opt.MinVolume = max(0, min(maxVolume, opt.MinVolume))
	return &Ducker{opt: opt, pactl: runPactl, original: make(map[int]int)}
}

func (d *Ducker) Duck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ducked {
		return nil
	}

	streams, err := d.list(ctx)
	if err != nil {
		return err
	}

	d.original = make(map[int]int)
	var fades []fade
	for _, s := range streams {
		to := int(math.Round(float64(s.Volume) * d.opt.Factor))
		to = max(d.opt.MinVolume, min(maxVolume, to))
		d.original[s.ID] = s.Volume
		fades = append(fades, fade{id: s.ID, from: s.Volume, to: to})
	}

	if err := d.fade(ctx, fades); err != nil {
		return err
	}
	d.ducked = true
	return nil
}

func (d *Ducker) Restore(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ducked {
		return nil
	}

	streams, err := d.list(ctx)
	if err != nil {
		return err
	}

	var fades []fade
	for _, s := range streams {
		// Streams started after Duck are left alone.
		if orig, ok := d.original[s.ID]; ok {
			fades = append(fades, fade{id: s.ID, from: s.Volume, to: orig})
		}
	}

	if err := d.fade(ctx, fades); err != nil {
		return err
	}
	d.original = make(map[int]int)
	d.ducked = false
	return nil
}

func (d *Ducker) list(ctx context.Context) ([]sinkInput, error) {
	out, err := d.pactl(ctx, "list", "sink-inputs")
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}

	var res []sinkInput
	for _, s := range parseSinkInputs(string(out)) {
		if !d.keep(s) {
			res = append(res, s)
		}
	}
	return res, nil
}

func (d *Ducker) keep(s sinkInput) bool {
	for _, name := range d.opt.Keep {
		if s.AppName == name {
			return true
		}
	}
	return false
}

func (d *Ducker) fade(ctx context.Context, fades []fade) error {
	if len(fades) == 0 {
		return nil
	}

	const step = 10 * time.Millisecond
	steps := max(1, int(d.opt.Fade/step))
	if d.opt.Fade <= 0 {
		steps = 1
	}

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frac := float64(i) / float64(steps)
		for _, f := range fades {
			v := int(math.Round(float64(f.from) + float64(f.to-f.from)*frac))
			if err := d.setVolume(ctx, f.id, v); err != nil {
				return err
			}
		}
		if i < steps {
			time.Sleep(d.opt.Fade / time.Duration(steps))
		}
	}
	return nil
}

func (d *Ducker) setVolume(ctx context.Context, id, percent int) error {
	percent = max(0, min(maxVolume, percent))
	if _, err := d.pactl(ctx, "set-sink-input-volume", strconv.Itoa(id), fmt.Sprintf("%d%%", percent)); err != nil {
		return fmt.Errorf("set volume id=%d: %w", id, err)
	}
	return nil
}

// parseSinkInputs reads the id, first volume figure and application.name of
// each block in `pactl list sink-inputs` output.
func parseSinkInputs(text string) []sinkInput {
	blocks := strings.Split(text, "Sink Input #")
	var res []sinkInput
	for _, block := range blocks[1:] {
		header, body, ok := strings.Cut(block, "\n")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(header))
		if err != nil {
			continue
		}

		s := sinkInput{ID: id, Volume: -1}
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "Volume:") && s.Volume < 0:
				if m := percentRe.FindStringSubmatch(line); m != nil {
					s.Volume, _ = strconv.Atoi(m[1])
				}
			case strings.HasPrefix(line, "application.name =") && s.AppName == "":
				_, v, _ := strings.Cut(line, "=")
				s.AppName = strings.Trim(strings.TrimSpace(v), `"`)
			}
		}
		if s.Volume < 0 {
			continue
		}
		res = append(res, s)
	}
	return res
}
