package ingest

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Progress receives the number of rows consumed.
type Progress interface {
	IncrBy(n int)
	Wait()
}

type discard struct{}

func (discard) IncrBy(int) {}
func (discard) Wait() {}

// Discard is a Progress that reports nothing.
var Discard Progress = discard{}

// Bar renders row progress as a terminal progress bar.
type Bar struct {
	container *mpb.Progress
	bar       *mpb.Bar
}

// NewBar draws a bar for total rows on out.
func NewBar(out io.Writer, name string, total int64) *Bar {
	p := mpb.New(mpb.WithWidth(60), mpb.WithOutput(out))
	bar := p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name+" ", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d rows", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "done"),
		),
	)
	return &Bar{container: p, bar: bar}
}

func (b *Bar) IncrBy(n int) { b.bar.IncrBy(n) }

// Wait completes the bar, aborting it if fewer rows than expected were read,
// and waits for the final render.
func (b *Bar) Wait() {
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.container.Wait()
}
