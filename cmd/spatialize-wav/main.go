// Command spatialize-wav places a WAV file in 3D space and renders it
// to a stereo WAV file.
//
// Usage:
//
//	spatialize-wav -pos 5,0,10 input.wav output.wav
//	spatialize-wav -pos 50,1,0 -vel -10,0,0 input.wav flyby.wav
//	spatialize-wav -renderer hrtf -pos 0,0,-5 input.wav behind.wav
//	spatialize-wav -renderer hrtf -hrir measured.txt input.wav out.wav
//
// Stereo and multichannel input is downmixed to mono before encoding;
// the engine positions a single point source.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	ambisonic "github.com/tphakala/go-ambisonic"
	"github.com/tphakala/go-ambisonic/hrir"
)

const (
	minRequiredArgs = 2

	// Output format: 16-bit stereo PCM.
	outputBitDepth = 16
	outputChannels = 2
	pcmFormat      = 1
	maxInt16       = 32767.0

	// vectorComponents in a position or velocity flag.
	vectorComponents = 3
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	pos := flag.String("pos", "0,0,1", "Source position as x,y,z (x right, y up, z front, meters)")
	vel := flag.String("vel", "0,0,0", "Source velocity as x,y,z in meters per second (Doppler only)")
	gain := flag.Float64("gain", 1.0, "Source amplitude factor")
	renderer := flag.String("renderer", "stereo", "Renderer: stereo, hrtf")
	hrirPath := flag.String("hrir", "", "HRIR table file for the hrtf renderer (default: built-in)")
	attenuate := flag.Bool("attenuate", false, "Enable inverse-distance falloff")
	noDoppler := flag.Bool("no-doppler", false, "Disable the Doppler shift")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -pos 5,0,10 voice.wav placed.wav        # Ahead and to the right\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -pos 50,1,0 -vel -10,0,0 car.wav by.wav # Doppler drive-by\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -renderer hrtf -pos 0,0,-5 in.wav out.wav # Binaural, behind\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}
	inputPath := args[0]
	outputPath := args[1]

	position, err := parseVec3(*pos)
	if err != nil {
		return fmt.Errorf("invalid -pos: %w", err)
	}
	velocity, err := parseVec3(*vel)
	if err != nil {
		return fmt.Errorf("invalid -vel: %w", err)
	}

	samples, sampleRate, err := readMonoWAV(inputPath, *verbose)
	if err != nil {
		return err
	}

	config := &ambisonic.Config{SampleRate: sampleRate}
	switch strings.ToLower(*renderer) {
	case "stereo":
		config.Renderer = ambisonic.RendererStereo
	case "hrtf":
		config.Renderer = ambisonic.RendererHRTF
		if *hrirPath != "" {
			table, err := hrir.Load(*hrirPath)
			if err != nil {
				return err
			}
			config.HRIR = table
		}
	default:
		return fmt.Errorf("unknown renderer %q (want stereo or hrtf)", *renderer)
	}

	scene, err := ambisonic.New(config)
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Input: %s (%d samples @ %d Hz)", inputPath, len(samples), sampleRate)
		log.Printf("Output: %s", outputPath)
		log.Printf("Renderer: %s (latency %d samples)", *renderer, scene.Latency())
		log.Printf("Position: %v  Velocity: %v  Gain: %g", position, velocity, *gain)
	}

	start := time.Now()

	ctl := scene.PlayWith(ambisonic.NewBuffer(samples), ambisonic.SourceConfig{
		Position:  &position,
		Velocity:  velocity,
		Gain:      *gain,
		NoDoppler: *noDoppler,
		Attenuate: *attenuate,
	})

	rendered := renderScene(scene, ctl)

	if err := writeStereoWAV(outputPath, rendered, sampleRate); err != nil {
		return err
	}

	if *verbose {
		frames := len(rendered) / outputChannels
		log.Printf("Rendered %d frames (%.2fs) in %v",
			frames, float64(frames)/float64(sampleRate), time.Since(start))
	}
	return nil
}

// renderScene pulls interleaved stereo frames until the source has
// finished, then drains the renderer's constant latency so reverb-like
// convolution tails are not cut off.
func renderScene(scene *ambisonic.Scene, ctl *ambisonic.SoundController) []float64 {
	var out []float64
	for !ctl.Finished() {
		left, right := scene.NextFrame()
		out = append(out, left, right)
	}
	for range scene.Latency() {
		left, right := scene.NextFrame()
		out = append(out, left, right)
	}
	return out
}

func parseVec3(s string) ([3]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != vectorComponents {
		return [3]float64{}, fmt.Errorf("want %d comma-separated values, got %q", vectorComponents, s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [3]float64{}, fmt.Errorf("bad component %q", p)
		}
		v[i] = f
	}
	return v, nil
}

// readMonoWAV decodes a WAV file into float64 samples in [-1, 1],
// downmixing multichannel input by averaging.
func readMonoWAV(path string, verbose bool) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("%s: no audio channels", path)
	}
	scale := 1.0 / float64(uint64(1)<<(decoder.BitDepth-1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range frames {
		var sum float64
		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch]) * scale
		}
		samples[i] = sum / float64(channels)
	}

	if verbose && channels > 1 {
		log.Printf("Downmixed %d channels to mono", channels)
	}
	return samples, buf.Format.SampleRate, nil
}

// writeStereoWAV writes interleaved float64 samples as 16-bit stereo
// PCM.
func writeStereoWAV(path string, interleaved []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, outputBitDepth, outputChannels, pcmFormat)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: outputChannels, SampleRate: sampleRate},
		Data:           make([]int, len(interleaved)),
		SourceBitDepth: outputBitDepth,
	}
	for i, v := range interleaved {
		buf.Data[i] = int(math.Round(clamp(v, -1, 1) * maxInt16))
	}

	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to finalize output: %w", err)
	}
	return f.Close()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
