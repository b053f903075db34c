package lanczos

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// PassOrder controls which axis is resampled first when both change.
type PassOrder int

const (
	// OrderAuto resamples the axis with the larger input extent first, so
	// the intermediate buffer is already shrunk along the long side. Ties go
	// horizontal first.
	OrderAuto PassOrder = iota
	// OrderHorizontalFirst always resamples rows first, as Pillow does.
	OrderHorizontalFirst
	// OrderVerticalFirst always resamples columns first.
	OrderVerticalFirst
)

// String implements fmt.Stringer.
func (o PassOrder) String() string {
	switch o {
	case OrderAuto:
		return "auto"
	case OrderHorizontalFirst:
		return "horizontal-first"
	case OrderVerticalFirst:
		return "vertical-first"
	default:
		return "unknown"
	}
}

// ParsePassOrder maps a name produced by String back to a PassOrder.
func ParsePassOrder(name string) (PassOrder, bool) {
	for _, o := range []PassOrder{OrderAuto, OrderHorizontalFirst, OrderVerticalFirst} {
		if o.String() == name {
			return o, true
		}
	}
	return OrderAuto, false
}

type options struct {
	strategy Strategy
	order    PassOrder
	filter   Filter
}

// Option configures Resize and NewPlan.
type Option func(*options)

// WithStrategy selects the accumulation strategy. Default: Auto.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithPassOrder selects the pass order for two-axis resizes. Default:
// OrderAuto.
func WithPassOrder(order PassOrder) Option {
	return func(o *options) { o.order = order }
}

// WithFilter replaces the kernel. Default: Lanczos3.
func WithFilter(f Filter) Option {
	return func(o *options) {
		if f != nil {
			o.filter = f
		}
	}
}

// step is one resampling pass of a Plan.
type step struct {
	axis   Axis
	coeffs *Coefficients
	// offset is the first source line (row for horizontal, column for
	// vertical) read by the pass.
	offset int
	// width and height are the dimensions of the buffer the pass writes.
	width, height int
}

// Plan is a precomputed resize from one size to another. It is immutable
// and may be applied concurrently to any number of buffers of the input
// size.
type Plan struct {
	inW, inH   int
	outW, outH int
	filter     Filter
	strategy   Strategy
	steps      []step
}

// NewPlan computes coefficients and the pass schedule for resizing
// inW x inH to outW x outH.
func NewPlan(inW, inH, outW, outH int, opts ...Option) (*Plan, error) {
	o := options{strategy: Auto, order: OrderAuto, filter: Lanczos3{}}
	for _, opt := range opts {
		opt(&o)
	}
	if outW < 1 || outH < 1 {
		return nil, fmt.Errorf("%w: requested %dx%d", ErrInvalidOutputSize, outW, outH)
	}
	if inW < 1 || inH < 1 {
		return nil, fmt.Errorf("%w: input %dx%d", ErrInvalidOutputSize, inW, inH)
	}

	p := &Plan{
		inW: inW, inH: inH,
		outW: outW, outH: outH,
		filter:   o.filter,
		strategy: o.strategy.resolve(),
	}

	needH := outW != inW
	needV := outH != inH

	var ch, cv *Coefficients
	var err error
	if needH {
		if ch, err = Precompute(inW, outW, o.filter); err != nil {
			return nil, fmt.Errorf("horizontal coefficients: %w", err)
		}
	}
	if needV {
		if cv, err = Precompute(inH, outH, o.filter); err != nil {
			return nil, fmt.Errorf("vertical coefficients: %w", err)
		}
	}

	switch {
	case needH && needV:
		horizontalFirst := o.order == OrderHorizontalFirst ||
			(o.order == OrderAuto && inW >= inH)
		if horizontalFirst {
			// Only rows referenced by the vertical pass are produced.
			start, end := cv.Window()
			p.steps = []step{
				{axis: Horizontal, coeffs: ch, offset: start, width: outW, height: end - start},
				{axis: Vertical, coeffs: cv.Shifted(start), width: outW, height: outH},
			}
		} else {
			start, end := ch.Window()
			p.steps = []step{
				{axis: Vertical, coeffs: cv, offset: start, width: end - start, height: outH},
				{axis: Horizontal, coeffs: ch.Shifted(start), width: outW, height: outH},
			}
		}
	case needH:
		p.steps = []step{{axis: Horizontal, coeffs: ch, width: outW, height: inH}}
	case needV:
		p.steps = []step{{axis: Vertical, coeffs: cv, width: inW, height: outH}}
	}

	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []any{
			slog.String("from", fmt.Sprintf("%dx%d", inW, inH)),
			slog.String("to", fmt.Sprintf("%dx%d", outW, outH)),
			slog.String("passes", p.PassNames()),
			slog.String("strategy", p.strategy.String()),
		}
		for _, s := range p.steps {
			attrs = append(attrs, slog.Group(s.axis.String(),
				slog.Int("kernel_width", s.coeffs.KernelWidth),
				slog.Int("offset", s.offset),
				slog.Int("out_w", s.width),
				slog.Int("out_h", s.height),
			))
		}
		l.Debug("lanczos plan", attrs...)
	}
	return p, nil
}

// InputSize returns the dimensions the plan accepts.
func (p *Plan) InputSize() (width, height int) { return p.inW, p.inH }

// OutputSize returns the dimensions the plan produces.
func (p *Plan) OutputSize() (width, height int) { return p.outW, p.outH }

// Strategy returns the resolved accumulation strategy.
func (p *Plan) Strategy() Strategy { return p.strategy }

// Filter returns the kernel the plan was built with.
func (p *Plan) Filter() Filter { return p.filter }

// Passes returns the axes in execution order. It is empty when the sizes
// match.
func (p *Plan) Passes() []Axis {
	axes := make([]Axis, len(p.steps))
	for i, s := range p.steps {
		axes[i] = s.axis
	}
	return axes
}

// PassNames returns Passes joined with commas, or "none".
func (p *Plan) PassNames() string {
	if len(p.steps) == 0 {
		return "none"
	}
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.axis.String()
	}
	return strings.Join(names, ",")
}

// Apply resizes src. An empty src yields an empty buffer. When the plan has
// no passes the result is a copy of src. src is never modified.
func (p *Plan) Apply(src *Buffer) (*Buffer, error) {
	if src.Empty() {
		return emptyLike(src), nil
	}
	if src.Width != p.inW || src.Height != p.inH {
		return nil, fmt.Errorf("%w: plan expects %dx%d, got %dx%d",
			ErrShapeMismatch, p.inW, p.inH, src.Width, src.Height)
	}
	if len(p.steps) == 0 {
		return src.Clone(), nil
	}

	cur := src
	for _, s := range p.steps {
		dst, err := NewBuffer(s.width, s.height, src.Channels)
		if err != nil {
			return nil, fmt.Errorf("%s pass: %w", s.axis, err)
		}
		if err := ResampleAxis(dst, cur, s.offset, s.coeffs, s.axis, p.strategy); err != nil {
			return nil, fmt.Errorf("%s pass: %w", s.axis, err)
		}
		// The previous intermediate has exactly one consumer; drop it here.
		cur = dst
	}
	return cur, nil
}

// Resize resamples src to outW x outH with the Lanczos3 kernel and returns a
// new buffer. An empty src yields an empty buffer and no error.
func Resize(src *Buffer, outW, outH int, opts ...Option) (*Buffer, error) {
	if src.Empty() {
		return emptyLike(src), nil
	}
	p, err := NewPlan(src.Width, src.Height, outW, outH, opts...)
	if err != nil {
		return nil, err
	}
	return p.Apply(src)
}

func emptyLike(src *Buffer) *Buffer {
	if src == nil {
		return &Buffer{}
	}
	return &Buffer{Channels: src.Channels}
}
