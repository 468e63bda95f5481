package di

import (
	"github.com/matryer/is"
	"testing"
)

type greeter struct {
	name string
}

type banner struct {
	text string
}

func TestContainer_Get(t *testing.T) {
	is := is.New(t)
	calls := 0

	c, err := New(
		Value("world"),
		Provider(func(name string) *greeter {
			calls++
			return &greeter{name: name}
		}),
		Provider(func(g *greeter) *banner {
			return &banner{text: "hello " + g.name}
		}),
	)
	is.NoErr(err)

	b, err := Get[*banner](c)
	is.NoErr(err)
	is.Equal(b.text, "hello world")

	g, err := Get[*greeter](c)
	is.NoErr(err)
	is.Equal(g.name, "world")
	is.Equal(calls, 1) // constructors run once
}

func TestContainer_GetMissing(t *testing.T) {
	is := is.New(t)

	c, err := New()
	is.NoErr(err)

	_, err = Get[*banner](c)
	is.True(err != nil)
}
