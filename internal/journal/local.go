package journal

import (
	"github.com/limbo/ceoos/internal/local"
)

// NewLocal builds a journal over an opened local container.
func NewLocal(c *local.Container, opts ...Option) *Journal {
	o := buildOptions(opts)
	return assemble(sources{
		daily:      c.Daily(),
		weekly:     c.Weekly(),
		quarterly:  c.Quarterly(),
		annual:     c.Annual(),
		lifeMap:    c.LifeMap(),
		interviews: c.Interviews(),
		oneYear:    c.OneYear(),
		threeYear:  c.ThreeYear(),
		tenYear:    c.TenYear(),
		northStar:  c.NorthStar(),
		memory:     c.Memory(),
	}, o)
}
