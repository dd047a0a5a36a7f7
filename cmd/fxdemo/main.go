// Command fxdemo builds an effects topology through the request protocol and
// renders a test tone through it on a simulated audio goroutine.
//
// Usage:
//
//	fxdemo [flags] [effect-type ...]
//
// The named effects form the post-fader chain; without arguments a gain
// effect is used. The pre-fader rack holds a unity trim gain; post-fader
// effects such as the ducker see the features measured after it.
//
// Examples:
//
//	fxdemo
//	fxdemo -blocks 32 -gain-db -12 gain mute
//	fxdemo -debug -metrics gain ducker
//	fxdemo tremolo
//	fxdemo -list
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxengine/dsp/core"
	"github.com/cwbudde/algo-fxengine/dsp/fxcontrol"
	"github.com/cwbudde/algo-fxengine/dsp/fxmanager"
	"github.com/cwbudde/algo-fxengine/dsp/fxpipe"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
	"github.com/cwbudde/algo-fxengine/dsp/fxrack"
)

var handles = fxproto.ChannelHandlePair{Input: 0, Output: 0}

type blockStats struct {
	requests int
	features fxproto.GroupFeatureState
	busPeak  float64
	err      error
}

func main() {
	blocks := flag.Int("blocks", 16, "number of blocks to render")
	blockSize := flag.Int("block-size", 1024, "frames per block")
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	channels := flag.Int("channels", 2, "interleaved channels")
	freq := flag.Float64("freq", 440, "test tone frequency in Hz")
	gainDB := flag.Float64("gain-db", -6, "gain of gain effects in dB")
	fader := flag.Float64("fader", 0.8, "fader gain reached at the end of the first block")
	debug := flag.Bool("debug", false, "log every request and response")
	metrics := flag.Bool("metrics", false, "print manager counters after rendering")
	list := flag.Bool("list", false, "list available effect types")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxdemo [flags] [effect-type ...]\n\n")
		fmt.Fprintf(os.Stderr, "Builds an effects topology and renders a test tone through it.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fxdemo -blocks 32 -gain-db -12 gain mute\n")
		fmt.Fprintf(os.Stderr, "  fxdemo -debug -metrics gain ducker\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(*rate),
		core.WithChannels(*channels),
		core.WithMaxBlockSize(*blockSize*max(*channels, 1)),
	)

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	types := flag.Args()
	if len(types) == 0 {
		types = []string{fxrack.TypeGain}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, fxrack.DefaultRegistryFor(cfg.Channels), logger, types, *blocks, *freq, *gainDB, *fader, *debug, *metrics); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printList() {
	names := []string{fxrack.TypeGain, fxrack.TypeMute, fxrack.TypeDucker, fxrack.TypeTremolo}
	sort.Strings(names)

	for _, n := range names {
		fmt.Println(n)
	}
}

func run(ctx context.Context, cfg core.ProcessorConfig, registry *fxrack.Registry, logger *logrus.Logger,
	types []string, blocks int, freq, gainDB, fader float64, debug, withMetrics bool,
) error {
	pipe, err := fxpipe.New(256)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()

	manager, err := fxmanager.New(pipe,
		fxmanager.WithMaxBlockSize(cfg.MaxBlockSize),
		fxmanager.WithChannels(cfg.Channels),
		fxmanager.WithLogger(logger),
		fxmanager.WithDebugOutput(debug),
		fxmanager.WithMetrics(fxmanager.NewMetrics(promRegistry)),
	)
	if err != nil {
		return err
	}

	client, err := fxcontrol.NewClient(pipe, fxcontrol.WithLogger(logger))
	if err != nil {
		return err
	}

	p, err := topology(registry, types, cfg.MaxBlockSize)
	if err != nil {
		return err
	}

	params, err := parameterRequests(registry, p.effects, fxrack.GainManifest.Parameters[fxrack.GainParamDB].Name, gainDB)
	if err != nil {
		return err
	}

	responses := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(responses, "Request\tType\tTarget\tStatus\n")
	fmt.Fprintf(responses, "-------\t----\t------\t------\n")
	client.OnResponse(func(req fxproto.Request, resp fxproto.Response) {
		fmt.Fprintf(responses, "%d\t%s\t%s\t%s\n", resp.RequestID, req.Type, p.describe(resp), resp.Status)
	})

	stats := make([]blockStats, blocks)

	rendered, stopRender := startRender(ctx, manager, cfg, freq, fader, stats)
	defer stopRender()

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, batch := range [][]fxproto.Request{p.requests, params} {
		for _, req := range batch {
			if _, err := client.Send(req); err != nil {
				return err
			}
		}

		if err := client.Flush(flushCtx); err != nil {
			return err
		}
	}

	select {
	case <-rendered:
	case <-ctx.Done():
	}

	stopRender()
	client.Poll()

	if err := responses.Flush(); err != nil {
		return err
	}

	fmt.Println()
	printStats(stats)

	if withMetrics {
		fmt.Println()
		return printMetrics(promRegistry)
	}

	return nil
}

// plan is the request sequence building the demo topology.
type plan struct {
	requests []fxproto.Request
	effects  map[string][]fxproto.EffectID
	chains   map[fxproto.ChainID]string
}

func (p plan) describe(resp fxproto.Response) string {
	switch {
	case resp.Effect != 0:
		return fmt.Sprintf("effect %d", resp.Effect)
	case resp.Chain != 0:
		return fmt.Sprintf("chain %q", p.chains[resp.Chain])
	default:
		return fmt.Sprintf("rack %d", resp.Rack)
	}
}

// topology returns the requests building a pre-fader rack with a trim gain
// and a post-fader rack with one chain holding the requested effects. Racks
// and chains get scratch space for blocks of maxBlockSize samples.
func topology(registry *fxrack.Registry, types []string, maxBlockSize int) (plan, error) {
	ids := fxproto.NewIDSource()
	p := plan{
		effects: make(map[string][]fxproto.EffectID),
		chains:  make(map[fxproto.ChainID]string),
	}

	newRack := func() *fxrack.Rack {
		return fxrack.NewRack(ids.NextRack(), fxrack.WithRackMaxBlockSize(maxBlockSize))
	}

	newChain := func(name string, opts ...fxrack.ChainOption) *fxrack.Chain {
		opts = append([]fxrack.ChainOption{
			fxrack.WithChainMaxBlockSize(maxBlockSize),
			fxrack.WithChainMaxChannels(int(handles.Input) + 1),
		}, opts...)

		c := fxrack.NewChain(ids.NextChain(), name, opts...)
		p.chains[c.ID()] = c.Name()

		return c
	}

	pre := newRack()
	preChain := newChain("pre")

	trim, err := registry.NewEffect(ids.NextEffect(), fxrack.TypeGain)
	if err != nil {
		return plan{}, err
	}

	post := newRack()
	postChain := newChain("post", fxrack.WithChainParameters(fxproto.ChainParameters{
		Enabled:       true,
		InsertionType: fxproto.InsertionInsert,
		Mix:           1,
	}))

	p.requests = []fxproto.Request{
		fxproto.NewAddEffectRack(pre, true),
		fxproto.NewAddChainToRack(pre.ID(), preChain, fxproto.AppendIndex),
		fxproto.NewAddEffectToChain(preChain.ID(), trim, fxproto.AppendIndex),
		fxproto.NewEnableEffectChainForInputChannel(preChain.ID(), handles.Input),
		fxproto.NewAddEffectRack(post, false),
		fxproto.NewAddChainToRack(post.ID(), postChain, fxproto.AppendIndex),
	}

	for _, typ := range types {
		typ = strings.ToLower(strings.TrimSpace(typ))

		e, err := registry.NewEffect(ids.NextEffect(), typ)
		if err != nil {
			return plan{}, err
		}

		p.effects[typ] = append(p.effects[typ], e.ID())
		p.requests = append(p.requests, fxproto.NewAddEffectToChain(postChain.ID(), e, fxproto.AppendIndex))
	}

	p.requests = append(p.requests, fxproto.NewEnableEffectChainForInputChannel(postChain.ID(), handles.Input))

	return p, nil
}

// parameterRequests sets the named parameter on every effect whose manifest
// declares it.
func parameterRequests(registry *fxrack.Registry, effects map[string][]fxproto.EffectID, name string, value float64) ([]fxproto.Request, error) {
	types := make([]string, 0, len(effects))
	for typ := range effects {
		types = append(types, typ)
	}
	sort.Strings(types)

	var requests []fxproto.Request

	for _, typ := range types {
		manifest, _, ok := registry.Lookup(typ)
		if !ok {
			return nil, fmt.Errorf("%w: %s", fxrack.ErrUnknownEffect, typ)
		}

		idx, ok := manifest.Index(name)
		if !ok {
			continue
		}

		for _, id := range effects[typ] {
			requests = append(requests, fxproto.NewSetParameterParameters(id, idx, value))
		}
	}

	return requests, nil
}

// startRender runs render on its own goroutine. stop ends the goroutine,
// rendered or not, and waits for it; it is safe to call more than once.
func startRender(ctx context.Context, manager *fxmanager.Manager, cfg core.ProcessorConfig, freq, fader float64,
	stats []blockStats,
) (rendered <-chan struct{}, stop func()) {
	done := make(chan struct{})
	quit := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		render(ctx, manager, cfg, freq, fader, stats, done, quit)
	}()

	return done, sync.OnceFunc(func() {
		close(quit)
		wg.Wait()
	})
}

// render plays the audio thread: one block per block period, each starting
// with a request drain. Once every block is rendered it closes rendered and
// keeps draining requests until stop is closed.
func render(ctx context.Context, manager *fxmanager.Manager, cfg core.ProcessorConfig, freq, fader float64,
	stats []blockStats, rendered chan<- struct{}, stop <-chan struct{},
) {
	frames := manager.MaxBlockSize() / cfg.Channels
	period := time.Duration(float64(time.Second) * float64(frames) / cfg.SampleRate)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	in := make([]float64, frames*cfg.Channels)
	bus := make([]float64, len(in))
	phase := 0.0
	step := 2 * math.Pi * freq / cfg.SampleRate
	gain := core.GainUnity

	for i := range stats {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
		}

		s := &stats[i]
		s.requests = manager.HandleRequests()

		for f := range frames {
			x := 0.5 * math.Sin(phase)
			phase += step

			for c := range cfg.Channels {
				in[f*cfg.Channels+c] = x
			}
		}

		if err := manager.ProcessPreFaderInPlace(handles, in, cfg.SampleRate, &s.features); err != nil {
			s.err = err
			continue
		}

		clear(bus)

		if err := manager.ProcessPostFaderAndMix(handles, in, bus, cfg.SampleRate, &s.features, gain, fader); err != nil {
			s.err = err
			continue
		}

		gain = fader

		for _, x := range bus {
			s.busPeak = math.Max(s.busPeak, math.Abs(x))
		}
	}

	close(rendered)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			manager.HandleRequests()
		}
	}
}

func printStats(stats []blockStats) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Block\tRequests\tRMS [dB]\tCentroid [Hz]\tBus Peak [dB]\n")
	fmt.Fprintf(tw, "-----\t--------\t--------\t-------------\t-------------\n")

	for i, s := range stats {
		if s.err != nil {
			fmt.Fprintf(tw, "%d\t%d\terror: %v\t\t\n", i, s.requests, s.err)
			continue
		}

		centroid := "-"
		if s.features.HasSpectralCentroid {
			centroid = fmt.Sprintf("%.1f", s.features.SpectralCentroidHz)
		}

		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%s\t%.2f\n",
			i,
			s.requests,
			core.LinearToDB(s.features.Gain),
			centroid,
			core.LinearToDB(s.busPeak),
		)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Metric\tLabels\tValue\n")
	fmt.Fprintf(tw, "------\t------\t-----\n")

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := m.GetCounter().GetValue()
			if v == 0 {
				continue
			}

			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}

			fmt.Fprintf(tw, "%s\t%s\t%.0f\n", mf.GetName(), strings.Join(labels, ","), v)
		}
	}

	return tw.Flush()
}
