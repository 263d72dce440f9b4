package component

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
)

// Params holds loosely typed component parameters as they come out of a
// scene file.
type Params map[string]any

// paramReader decodes Params and keeps the first error. Keys that are
// never read are reported by done.
type paramReader struct {
	p    Params
	used map[string]bool
	err  error
}

func (p Params) reader() *paramReader {
	return &paramReader{p: p, used: make(map[string]bool)}
}

func (r *paramReader) lookup(key string) (any, bool) {
	r.used[key] = true
	v, ok := r.p[key]
	return v, ok && v != nil
}

func (r *paramReader) fail(key string, err error) {
	if r.err == nil {
		r.err = &ParamError{Key: key, Err: err}
	}
}

func (r *paramReader) int(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return n
}

func (r *paramReader) bool(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return b
}

func (r *paramReader) float(key string, def float64) float64 {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return f
}

func (r *paramReader) string(key, def string) string {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return s
}

func (r *paramReader) uint64(key string, def uint64) uint64 {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	n, err := cast.ToUint64E(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return n
}

// duration accepts a number of seconds or a Go duration string.
func (r *paramReader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	if s, isString := v.(string); isString {
		d, err := cast.ToDurationE(s)
		if err != nil {
			r.fail(key, err)
			return def
		}
		return d
	}
	secs, err := cast.ToFloat64E(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return time.Duration(secs * float64(time.Second))
}

func (r *paramReader) kinds(key string) kind.Selection {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	names, err := cast.ToStringSliceE(v)
	if err != nil {
		r.fail(key, err)
		return nil
	}
	sel, unknown := kind.ParseSelection(names)
	if len(unknown) > 0 {
		r.fail(key, fmt.Errorf("%w: %s", event.ErrUnknownKind, strings.Join(unknown, ", ")))
	}
	return sel
}

// done returns the first decode error, or an error naming parameters
// nobody read.
func (r *paramReader) done() error {
	if r.err != nil {
		return r.err
	}
	var extra []string
	for k := range r.p {
		if !r.used[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return &ParamError{Key: extra[0], Err: errors.New("not a parameter of this component")}
}

// readEnum maps a string parameter through table. Lookup ignores case,
// underscores and dashes.
func readEnum[T any](r *paramReader, key string, def T, table map[string]T) T {
	s := r.string(key, "")
	if s == "" {
		return def
	}
	v, ok := table[enumKey(s)]
	if !ok {
		r.fail(key, fmt.Errorf("unknown value %q", s))
		return def
	}
	return v
}

func enumKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, strings.ToLower(s))
}
