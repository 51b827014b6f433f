package unwrap

import (
	"github.com/rs/zerolog"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
	"github.com/orizon-lang/unwrap/internal/diagnostic"
	"github.com/orizon-lang/unwrap/internal/errors"
	"github.com/orizon-lang/unwrap/internal/position"
)

// DefaultTempPrefix starts every synthesized temporary name.
const DefaultTempPrefix = "$unwrap"

// DefaultMaxSteps bounds the rewrite loop per site.
const DefaultMaxSteps = 64

// Options configures a Pass. Zero values select the defaults.
type Options struct {
	// Sentinel is the pseudo-call selector, "unwrap" by default.
	Sentinel string
	// TempPrefix starts temporary names, "$unwrap" by default.
	TempPrefix string
	// Resolver decides which receivers are containers. Defaults to the
	// static types attributed on the tree, resolved against the built-in
	// kinds.
	Resolver capability.Resolver
	// Reporter receives every diagnostic of a failed run.
	Reporter diagnostic.Reporter
	// Logger receives debug traces of classification and rewriting.
	Logger *zerolog.Logger
	// MaxSteps bounds the rewrite steps per site.
	MaxSteps int
}

// Pass runs the unwrap rewrite over compilation units. A Pass holds no
// per-run state and may be shared between goroutines.
type Pass struct {
	sentinel string
	prefix   string
	resolver capability.Resolver
	reporter diagnostic.Reporter
	log      zerolog.Logger
	maxSteps int
}

// New creates a pass with opts applied over the defaults.
func New(opts Options) *Pass {
	p := &Pass{
		sentinel: opts.Sentinel,
		prefix:   opts.TempPrefix,
		resolver: opts.Resolver,
		reporter: opts.Reporter,
		maxSteps: opts.MaxSteps,
		log:      zerolog.Nop(),
	}
	if p.sentinel == "" {
		p.sentinel = DefaultSentinel
	}
	if p.prefix == "" {
		p.prefix = DefaultTempPrefix
	}
	if p.resolver == nil {
		p.resolver = capability.NewTypeResolver(capability.DefaultRegistry())
	}
	if p.maxSteps <= 0 {
		p.maxSteps = DefaultMaxSteps
	}
	if opts.Logger != nil {
		p.log = opts.Logger.With().Str("component", "unwrap").Logger()
	}
	return p
}

// Result is the outcome of one run. Exactly one of Unit and Diagnostics is
// set.
type Result struct {
	Unit        *ast.CompilationUnit
	Diagnostics diagnostic.List
	// Sites is the number of pseudo-calls found.
	Sites int
	// Steps is the number of tree changes applied.
	Steps int
}

// Err returns the diagnostics as one error, or nil for a rewritten unit.
func (r *Result) Err() error {
	return r.Diagnostics.Err()
}

// Run rewrites a copy of unit. Every site is classified before anything
// changes: if any site is rejected, the result carries one diagnostic per
// rejected site and no unit. The error is reserved for internal defects.
func (p *Pass) Run(unit *ast.CompilationUnit) (*Result, error) {
	if unit == nil {
		return nil, errors.InconsistentTree(position.Span{}, "nil compilation unit")
	}
	log := p.log.With().Str("unit", unit.Filename).Logger()

	work := ast.Clone(unit).(*ast.CompilationUnit)
	find := &finder{sentinel: p.sentinel, resolver: p.resolver}

	idx := ast.NewParentIndex(work)
	sites := find.find(work)
	res := &Result{Sites: len(sites)}
	log.Debug().Int("sites", len(sites)).Msg("found unwrap sites")

	classifier := NewClassifier(idx)
	var diags diagnostic.List
	for _, site := range sites {
		ctx, rej, err := classifier.Classify(site)
		if err != nil {
			return nil, err
		}
		if rej != nil {
			log.Debug().
				Str("pos", site.Span().String()).
				Stringer("reason", rej.Reason).
				Msg("rejected unwrap site")
			diags = append(diags, diagnostic.Unsupported(site.Span()))
			continue
		}
		log.Debug().
			Str("pos", site.Span().String()).
			Stringer("exit", ctx.Exit).
			Int("depth", ctx.Depth).
			Msg("classified unwrap site")
	}
	if len(diags) > 0 {
		diags.Sort()
		if p.reporter != nil {
			for _, d := range diags {
				p.reporter.Report(d)
			}
		}
		res.Diagnostics = diags
		return res, nil
	}

	rewriter := NewRewriter(NewNameGen(p.prefix, work))
	limit := p.maxSteps * (len(sites) + 1)
	for {
		done, err := p.step(work, find, rewriter, log)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		res.Steps++
		if res.Steps > limit {
			return nil, errors.RewriteDiverged(position.Span{}, res.Steps)
		}
	}

	res.Unit = work
	log.Info().Int("sites", res.Sites).Int("steps", res.Steps).Msg("rewrote unit")
	return res, nil
}

// step applies one tree change: the deepest remaining site, first in
// source order, is normalized or has its anchor rewritten together with
// every other site of that anchor. It reports done when no site is left.
func (p *Pass) step(work *ast.CompilationUnit, find *finder, rewriter *Rewriter, log zerolog.Logger) (bool, error) {
	idx := ast.NewParentIndex(work)
	sites := find.find(work)
	if len(sites) == 0 {
		return true, nil
	}

	classifier := NewClassifier(idx)
	contexts := make([]*RewriteContext, 0, len(sites))
	var next *RewriteContext
	for _, site := range sites {
		ctx, rej, err := classifier.Classify(site)
		if err != nil {
			return false, err
		}
		if rej != nil {
			return false, errors.Rejected(site.Span())
		}
		contexts = append(contexts, ctx)
		// sites are in pre-order, so the first of the deepest wins ties.
		if next == nil || ctx.Depth > next.Depth {
			next = ctx
		}
	}

	switch {
	case next.LambdaBody != nil:
		l, err := rewriter.LambdaBlock(next.LambdaBody)
		if err != nil {
			return false, err
		}
		if err := ast.ReplaceChild(idx.Parent(next.LambdaBody), next.LambdaBody, l); err != nil {
			return false, errors.InconsistentTree(next.LambdaBody.Span, err.Error())
		}
		log.Debug().Str("pos", next.LambdaBody.Span.String()).Msg("wrapped lambda body")
		return false, nil

	case next.Lift != nil:
		stmts, err := rewriter.Lift(next.Anchor, next.Lift)
		if err != nil {
			return false, err
		}
		log.Debug().Str("pos", next.Lift.Span.String()).Msg("lifted conditional")
		return false, splice(idx, next.Anchor, stmts)
	}

	var group []*Site
	for _, ctx := range contexts {
		if ctx.Anchor == next.Anchor && !ctx.Structural() {
			group = append(group, ctx.Site)
		}
	}
	unit, err := rewriter.Rewrite(next, group)
	if err != nil {
		return false, err
	}
	log.Debug().
		Str("pos", next.Anchor.GetSpan().String()).
		Str("anchor", nodeName(next.Anchor)).
		Int("sites", len(group)).
		Msgf("hoisted into %d statements", len(unit.Prologue))
	return false, splice(idx, next.Anchor, unit.Statements())
}
