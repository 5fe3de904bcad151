// Package progress reports module activation on the terminal.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/logging"
)

// Reporter prints one line per started bundle.
type Reporter struct {
	out io.Writer

	ok   *color.Color
	fail *color.Color
	dim  *color.Color

	mu    sync.Mutex
	total int
	n     int
}

// New creates a Reporter writing to out. Colour is used only when out is
// a terminal that supports it.
func New(out io.Writer) *Reporter {
	r := &Reporter{
		out:  out,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed, color.Bold),
		dim:  color.New(color.Faint),
	}
	useColor := logging.SupportsColor(out)
	for _, c := range []*color.Color{r.ok, r.fail, r.dim} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Begin sets the number of bundles to expect and subscribes to ctx.
func (r *Reporter) Begin(total int, ctx *framework.Context) {
	r.mu.Lock()
	r.total = total
	r.n = 0
	r.mu.Unlock()
	ctx.AddListener(r.observe)
}

func (r *Reporter) observe(ev framework.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Type {
	case framework.EventBundleStarted:
		r.n++
		fmt.Fprintf(r.out, "%s %s %s\n", r.counter(), r.ok.Sprint("started"), ev.Bundle.Origin())
	case framework.EventBundleFailed:
		r.n++
		fmt.Fprintf(r.out, "%s %s %s: %v\n", r.counter(), r.fail.Sprint("failed"), ev.Bundle.Origin(), ev.Err)
	case framework.EventFrameworkStarted:
		fmt.Fprintln(r.out, r.dim.Sprint("all modules started"))
	}
}

func (r *Reporter) counter() string {
	return r.dim.Sprintf("[%d/%d]", r.n, r.total)
}

// Count returns how many bundles have reported so far.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}
