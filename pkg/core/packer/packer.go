package packer

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/circlepack/pkg/core/geom"
	"github.com/matzehuels/circlepack/pkg/errors"
)

const (
	// DefaultSeed is the shuffle seed used when no generator is supplied.
	DefaultSeed = uint64(42)

	// precisionDivisor sets the search precision to totalSurface/1000.
	precisionDivisor = 1000
)

// Attempt describes one trial of the outer surface search.
type Attempt struct {
	Index    int     // zero-based trial number
	Surface  float64 // trial rectangle surface
	Step     float64 // step applied after this trial
	Width    float64
	Height   float64
	Placed   int  // circles placed in this trial
	Accepted bool // all circles were placed
}

// Result is the outcome of a packing run.
type Result struct {
	// Circles are the placed circles in placement order.
	Circles []geom.Circle

	// Width and Height describe the rectangle the accepted placement was
	// solved for. It is centered at the origin and may be looser than the
	// tight bounds of Circles.
	Width  float64
	Height float64

	// Surface is Width * Height.
	Surface float64

	// Attempts is the number of trial placements performed.
	Attempts int

	// Complete is false when no trial placed every circle.
	Complete bool
}

// Rect returns the solved rectangle.
func (r Result) Rect() geom.Box { return geom.CenteredBox(r.Width, r.Height) }

// Bounds returns the tight bounding box of the placed circles.
func (r Result) Bounds() (geom.Box, bool) { return geom.Bounds(r.Circles) }

// Option configures a Packer.
type Option func(*Packer)

// WithSeed shuffles radii with a PCG generator seeded by seed.
func WithSeed(seed uint64) Option {
	return func(p *Packer) { p.rng = newRand(seed) }
}

// WithRand shuffles radii with rng. A nil rng is ignored.
func WithRand(rng *rand.Rand) Option {
	return func(p *Packer) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// WithObserver registers fn to receive every search attempt.
func WithObserver(fn func(Attempt)) Option {
	return func(p *Packer) { p.observe = fn }
}

// Packer solves one packing problem. It is not safe for concurrent use, but
// independent Packers share no state.
type Packer struct {
	radii   []float64 // shuffled copy of the input
	ratio   float64
	rng     *rand.Rand
	observe func(Attempt)
}

// New validates the input and returns a Packer with its radii shuffled.
// Radii must be non-empty and strictly positive; ratio is width / height and
// must be positive.
func New(radii []float64, ratio float64, opts ...Option) (*Packer, error) {
	if err := errors.ValidateRadii(radii); err != nil {
		return nil, err
	}
	if err := errors.ValidateRatio(ratio); err != nil {
		return nil, err
	}

	p := &Packer{ratio: ratio}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = newRand(DefaultSeed)
	}

	p.radii = slices.Clone(radii)
	p.rng.Shuffle(len(p.radii), func(i, j int) {
		p.radii[i], p.radii[j] = p.radii[j], p.radii[i]
	})
	return p, nil
}

// Pack is a convenience wrapper around New followed by Solve.
func Pack(radii []float64, ratio float64, opts ...Option) (Result, error) {
	return PackContext(context.Background(), radii, ratio, opts...)
}

// PackContext is like Pack but stops early when ctx is done.
func PackContext(ctx context.Context, radii []float64, ratio float64, opts ...Option) (Result, error) {
	p, err := New(radii, ratio, opts...)
	if err != nil {
		return Result{}, err
	}
	return p.SolveContext(ctx)
}

// Order returns the radii in the order they are offered to the placer.
func (p *Packer) Order() []float64 { return slices.Clone(p.radii) }

// Solve runs the surface search and returns the tightest full placement
// found. Solve is deterministic for a given Packer.
func (p *Packer) Solve() Result {
	res, _ := p.SolveContext(context.Background())
	return res
}

// SolveContext is like Solve but checks ctx between trials and between
// placements within a trial. When ctx is done it returns a CANCELED error
// wrapping ctx.Err() and no result.
func (p *Packer) SolveContext(ctx context.Context) (Result, error) {
	s := newSearch(geom.TotalSurface(p.radii))

	var best, partial Result
	for s.state == searching {
		r := rectFor(s.surface, p.ratio)
		placed, err := place(ctx, p.radii, r, s.surface)
		if err != nil {
			return Result{}, errors.Wrap(errors.ErrCodeCanceled, err, "packing stopped after %d trials", s.attempts)
		}
		fits := len(placed) == len(p.radii)

		trial := Result{
			Circles:  placed,
			Width:    r.w,
			Height:   r.h,
			Surface:  s.surface,
			Complete: fits,
		}
		switch {
		case fits:
			best = trial
		case !best.Complete && len(placed) >= len(partial.Circles):
			partial = trial
		}

		surface, step := s.surface, s.step
		s.advance(fits)

		if p.observe != nil {
			p.observe(Attempt{
				Index:    s.attempts - 1,
				Surface:  surface,
				Step:     step,
				Width:    r.w,
				Height:   r.h,
				Placed:   len(placed),
				Accepted: fits,
			})
		}
	}

	res := partial
	if best.Complete {
		res = best
	}
	res.Attempts = s.attempts
	return res, nil
}

// searchState is the phase of the outer surface search.
type searchState int

const (
	searching searchState = iota
	converged
)

// search is the outer binary search on rectangle surface.
type search struct {
	state    searchState
	surface  float64
	step     float64
	limit    float64
	attempts int
}

func newSearch(total float64) *search {
	s := &search{
		surface: total,
		step:    total / 2,
		limit:   total / precisionDivisor,
	}
	s.settle()
	return s
}

// advance records the outcome of a trial at the current surface.
func (s *search) advance(fits bool) {
	if fits {
		s.surface -= s.step
	} else {
		s.surface += s.step
	}
	s.step /= 2
	s.attempts++
	s.settle()
}

func (s *search) settle() {
	if !(s.step > s.limit) {
		s.state = converged
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
