// Command vintage-render runs speech PCM through the vintage pipeline and
// writes the result as WAV, plays it, or prints the stages it would run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/retrovoice/audio"
	"github.com/lixenwraith/retrovoice/constant"
	"github.com/lixenwraith/retrovoice/pcm"
	"github.com/lixenwraith/retrovoice/sink"
	"github.com/lixenwraith/retrovoice/vintage"
)

var errNoInput = errors.New("one of -in or -tone is required")

type options struct {
	in     string
	tone   float64
	length time.Duration
	level  vintage.Level
	seed   int64
	out    string
	play   bool
	stages bool
	rate   uint
	bits   uint
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("vintage-render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "Base64 PCM16 mono file at 24kHz (- for stdin)")
	fs.Float64Var(&o.tone, "tone", 0, "Use a sine test tone at this frequency instead of -in")
	fs.DurationVar(&o.length, "duration", time.Second, "Test tone length")
	level := fs.String("level", vintage.Authentic.String(), "Preset: modern, subtle, authentic, ultra")
	fs.Int64Var(&o.seed, "seed", 1, "Artifact RNG seed")
	fs.StringVar(&o.out, "out", "", "Write processed audio to this WAV file")
	fs.BoolVar(&o.play, "play", false, "Play the result on the sound device")
	fs.BoolVar(&o.stages, "stages", false, "Print the pipeline stages and exit")
	fs.UintVar(&o.rate, "rate", 0, "Override the target sample rate")
	fs.UintVar(&o.bits, "bits", 0, "Override quantization bit depth (1-16)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	lvl, err := vintage.ParseLevel(*level)
	if err != nil {
		return o, err
	}
	o.level = lvl
	if o.bits > 16 {
		return o, fmt.Errorf("-bits %d out of range 1-16", o.bits)
	}
	if !o.stages && o.in == "" && o.tone <= 0 {
		return o, errNoInput
	}
	return o, nil
}

// config applies flag overrides to the preset
func (o options) config() (vintage.Config, error) {
	var overrides []vintage.Override
	if o.rate > 0 {
		overrides = append(overrides, vintage.WithTargetRate(uint32(o.rate)))
	}
	if o.bits > 0 {
		overrides = append(overrides, vintage.WithQuantization(uint32(1)<<o.bits))
	}
	cfg := vintage.MustPreset(o.level).With(overrides...)
	return cfg, cfg.Validate()
}

// loadInput reads base64 PCM from a file or stdin, or renders a test tone
func loadInput(o options, stdin io.Reader) (pcm.Buffer, error) {
	if o.tone > 0 {
		return toneInput(o.tone, o.length)
	}

	var data []byte
	var err error
	if o.in == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(o.in)
	}
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("read input: %w", err)
	}
	return pcm.DecodeBase64PCM(strings.TrimSpace(string(data)), constant.TTSSampleRate, constant.TTSChannels)
}

// toneInput renders a half-scale sine at the speech rate
func toneInput(freq float64, d time.Duration) (pcm.Buffer, error) {
	sr := beep.SampleRate(constant.TTSSampleRate)
	tone, err := generators.SineTone(sr, freq)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("test tone: %w", err)
	}
	n := sr.N(d)
	buf, err := pcm.FromStreamer(beep.Take(n, &effects.Gain{Streamer: tone, Gain: -0.5}), constant.TTSSampleRate, n)
	if err != nil {
		return pcm.Buffer{}, err
	}
	return pcm.FromMono(buf.Mono(), constant.TTSSampleRate), nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := o.config()
	if err != nil {
		return err
	}

	if o.stages {
		stages := vintage.Stages(cfg, constant.TTSSampleRate)
		if len(stages) == 0 {
			fmt.Fprintf(stdout, "%s: passthrough\n", cfg.Level)
			return nil
		}
		names := make([]string, len(stages))
		for i, s := range stages {
			names[i] = string(s)
		}
		fmt.Fprintf(stdout, "%s: %s\n", cfg.Level, strings.Join(names, " -> "))
		return nil
	}

	input, err := loadInput(o, stdin)
	if err != nil {
		return err
	}
	start := time.Now()
	out, err := vintage.Process(input, cfg, rand.New(rand.NewSource(o.seed)))
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}
	log.Printf("processed %v of audio at %s in %v (%d Hz, %d frames)",
		input.Duration(), cfg.Level, time.Since(start), out.SampleRate, out.Frames)

	if o.out != "" {
		if err := writeWAV(o.out, out); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", o.out)
	}
	if o.play {
		return play(ctx, out, cfg.PlaybackRate)
	}
	return nil
}

func writeWAV(path string, buf pcm.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := pcm.WriteWAV(f, buf); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func play(ctx context.Context, buf pcm.Buffer, rate float64) error {
	sp, err := sink.NewSpeaker(beep.SampleRate(constant.OutputSampleRate), constant.SpeakerBufferDuration)
	if err != nil {
		return fmt.Errorf("open speaker: %w", err)
	}
	defer sp.Close()
	return audio.NewEffector().Play(ctx, buf, sp, 0, rate)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("vintage-render: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Printf("%v", err)
		stop()
		os.Exit(1)
	}
}
