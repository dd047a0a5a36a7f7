package fxrack

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

// ErrUnknownEffect is returned when an effect type has not been registered.
var ErrUnknownEffect = errors.New("unknown effect type")

var errDuplicateEffect = errors.New("duplicate effect type")

// Kernel is the DSP algorithm of an effect. It renders in into out (which
// may be the same slice) using the effect's current parameter values.
type Kernel interface {
	Process(handles fxproto.ChannelHandlePair, in, out []float64, params Params, sampleRate float64, features *fxproto.GroupFeatureState)
}

// KernelFunc adapts a function to the Kernel interface.
type KernelFunc func(handles fxproto.ChannelHandlePair, in, out []float64, params Params, sampleRate float64, features *fxproto.GroupFeatureState)

// Process calls f.
func (f KernelFunc) Process(handles fxproto.ChannelHandlePair, in, out []float64, params Params, sampleRate float64, features *fxproto.GroupFeatureState) {
	f(handles, in, out, params, sampleRate, features)
}

// Factory builds one Kernel instance for an effect.
type Factory func(manifest Manifest) (Kernel, error)

type registration struct {
	manifest Manifest
	factory  Factory
}

// Registry maps effect type names to their manifests and factories.
type Registry struct {
	entries map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a factory for the manifest's effect type.
func (r *Registry) Register(manifest Manifest, factory Factory) error {
	if manifest.Type == "" {
		return errors.New("empty effect type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.entries[manifest.Type]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, manifest.Type)
	}

	r.entries[manifest.Type] = registration{manifest: manifest, factory: factory}

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(manifest Manifest, factory Factory) {
	if err := r.Register(manifest, factory); err != nil {
		panic("fxrack registry: " + err.Error())
	}
}

// Lookup returns the manifest and factory for the given effect type.
func (r *Registry) Lookup(effectType string) (Manifest, Factory, bool) {
	e, ok := r.entries[effectType]
	return e.manifest, e.factory, ok
}

// NewEffect instantiates an effect of the given type with identity id.
func (r *Registry) NewEffect(id fxproto.EffectID, effectType string) (*Effect, error) {
	manifest, factory, ok := r.Lookup(effectType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, effectType)
	}

	kernel, err := factory(manifest)
	if err != nil {
		return nil, fmt.Errorf("fxrack: create %q: %w", effectType, err)
	}

	return NewEffect(id, manifest, kernel), nil
}
