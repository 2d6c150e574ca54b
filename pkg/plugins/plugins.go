// Package plugins holds the process-wide registries that map plugin names to
// factories. Plugin packages register themselves from init(); the definition
// builder resolves names through these registries. The engine never does.
package plugins

import (
	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/registry"
	"github.com/arthur-debert/sifter/pkg/types"
)

type (
	ConditionFactory func(opts Options) (types.Condition, error)
	FieldFactory     func(opts Options) (types.FieldSource, error)
	ProcessorFactory func(opts Options) (types.Processor, error)
	SourceFactory    func(opts Options) (types.FileSource, error)
)

var (
	conditions = registry.New[ConditionFactory]("condition")
	fields     = registry.New[FieldFactory]("field")
	processors = registry.New[ProcessorFactory]("processor")
	sources    = registry.New[SourceFactory]("source")
)

func Conditions() registry.Registry[ConditionFactory] { return conditions }
func Fields() registry.Registry[FieldFactory]         { return fields }
func Processors() registry.Registry[ProcessorFactory] { return processors }
func Sources() registry.Registry[SourceFactory]       { return sources }

// Caches exposes the cache factory registry alongside the plugin registries.
func Caches() registry.Registry[cache.Factory] { return cache.Factories() }

// RegisterCondition panics on a duplicate name; call it from init().
func RegisterCondition(name, description string, f ConditionFactory) {
	registry.MustRegister(conditions, name, description, f)
}

func RegisterField(name, description string, f FieldFactory) {
	registry.MustRegister(fields, name, description, f)
}

func RegisterProcessor(name, description string, f ProcessorFactory) {
	registry.MustRegister(processors, name, description, f)
}

func RegisterSource(name, description string, f SourceFactory) {
	registry.MustRegister(sources, name, description, f)
}

// NewCondition builds the named condition.
func NewCondition(name string, opts Options) (types.Condition, error) {
	f, err := conditions.Get(name)
	if err != nil {
		return nil, err
	}
	return build(name, "condition", func() (types.Condition, error) { return f(opts) })
}

func NewField(name string, opts Options) (types.FieldSource, error) {
	f, err := fields.Get(name)
	if err != nil {
		return nil, err
	}
	return build(name, "field", func() (types.FieldSource, error) { return f(opts) })
}

func NewProcessor(name string, opts Options) (types.Processor, error) {
	f, err := processors.Get(name)
	if err != nil {
		return nil, err
	}
	return build(name, "processor", func() (types.Processor, error) { return f(opts) })
}

func NewSource(name string, opts Options) (types.FileSource, error) {
	f, err := sources.Get(name)
	if err != nil {
		return nil, err
	}
	return build(name, "source", func() (types.FileSource, error) { return f(opts) })
}
