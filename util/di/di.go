package di

import (
	"go.uber.org/dig"
	"reflect"
)

type config struct {
	providers []provider
}

type provider struct {
	constructor any
	opts        []dig.ProvideOption
}

type Option interface {
	apply(*config)
}

// Container resolves launcher components from their constructors on first use.
type Container struct {
	dc *dig.Container
}

func New(opts ...Option) (*Container, error) {
	conf := config{}
	for _, opt := range opts {
		opt.apply(&conf)
	}

	dc := dig.New(dig.DeferAcyclicVerification())

	for _, p := range conf.providers {
		if err := dc.Provide(p.constructor, p.opts...); err != nil {
			return nil, err
		}
	}

	return &Container{dc: dc}, nil
}

// Get builds (or reuses) the value of type T.
func Get[T any](c *Container) (T, error) {
	var out T
	err := c.dc.Invoke(func(v T) {
		out = v
	})
	return out, err
}

type providerOpt struct {
	p provider
}

func (po providerOpt) apply(c *config) {
	c.providers = append(c.providers, po.p)
}

func Provider(constructor any, opts ...dig.ProvideOption) Option {
	return &providerOpt{
		p: provider{
			constructor: constructor,
			opts:        opts,
		},
	}
}

// Value registers an already constructed value under its dynamic type.
func Value(v any, opts ...dig.ProvideOption) Option {
	rv := reflect.ValueOf(v)
	fnType := reflect.FuncOf(nil, []reflect.Type{rv.Type()}, false)
	fn := reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{rv}
	})

	return Provider(fn.Interface(), opts...)
}
