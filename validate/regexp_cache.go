package validate

import (
	"regexp"
	"sync"
)

// regexpCache caches compiled patterns by source string. Patterns come from
// route specifications, so a cache is bounded by the registered routes.
type regexpCache struct {
	m sync.Map
}

// compile returns a cached *regexp.Regexp for pattern, compiling it on
// first use.
func (c *regexpCache) compile(pattern string) (*regexp.Regexp, error) {
	if v, ok := c.m.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	actual, _ := c.m.LoadOrStore(pattern, re)

	return actual.(*regexp.Regexp), nil
}
