package ensembler

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-ensembler/ensemble"
	"github.com/aouyang1/go-ensembler/quantile"
	"github.com/aouyang1/go-ensembler/score"
	"github.com/aouyang1/go-ensembler/trajectory"
)

var (
	ErrNoModelName    = errors.New("no model name")
	ErrModelExists    = errors.New("model name already registered")
	ErrUnknownModel   = errors.New("unknown model name")
	ErrNoModels       = errors.New("no models registered")
	ErrNoObservations = errors.New("no observations set")
	ErrNoGrid         = errors.New("no probability grid in options")
)

// Evaluator collects the simulated trajectory sets of named models over one
// shared forecast horizon, scores each model's quantile forecasts against
// realized observations, and compares models through CRPS skill scores.
// Registered trajectory sets are copied in and immutable afterwards; all
// tables and scores are derived from them on demand.
type Evaluator struct {
	opt *Options

	names  []string
	models map[string]*trajectory.Set
	obs    trajectory.Observations
}

// New creates a new Evaluator with the given options. If none are provided
// a default is used.
func New(opt *Options) (*Evaluator, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if len(opt.ScoreProbabilities) == 0 || len(opt.BandProbabilities) == 0 {
		return nil, ErrNoGrid
	}

	return &Evaluator{
		opt:    opt,
		models: make(map[string]*trajectory.Set),
	}, nil
}

// AddModel registers a model's trajectory set under a unique name. Every
// registered set must share the horizon length and time labels of the first
// one. The set is copied so later caller mutations cannot leak in.
func (e *Evaluator) AddModel(name string, set *trajectory.Set) error {
	if name == "" {
		return ErrNoModelName
	}
	if _, exists := e.models[name]; exists {
		return fmt.Errorf("%q, %w", name, ErrModelExists)
	}
	if set == nil || set.NumRuns() == 0 {
		return quantile.ErrNoTrajectories
	}
	if len(e.names) > 0 {
		if err := e.models[e.names[0]].Compatible(set); err != nil {
			return fmt.Errorf("model %q, %w", name, err)
		}
	}

	e.models[name] = set.Copy()
	e.names = append(e.names, name)
	return nil
}

// AddSimulated registers a model by drawing its trajectory set from an
// external simulator.
func (e *Evaluator) AddSimulated(name string, sim trajectory.Simulator, horizon, numRuns int) error {
	set, err := sim.Simulate(horizon, numRuns)
	if err != nil {
		return fmt.Errorf("unable to simulate trajectories for %q, %w", name, err)
	}
	return e.AddModel(name, set)
}

// Ensemble pools the trajectory sets of previously registered source models
// into a new synthetic model registered under its own name. With nil
// weights all source runs pool equally, otherwise run counts are
// apportioned by weight.
func (e *Evaluator) Ensemble(name string, sources []string, weights []float64) error {
	sets := make([]*trajectory.Set, 0, len(sources))
	for _, src := range sources {
		set, exists := e.models[src]
		if !exists {
			return fmt.Errorf("%q, %w", src, ErrUnknownModel)
		}
		sets = append(sets, set)
	}

	pooled, err := ensemble.Combine(sets, weights)
	if err != nil {
		return fmt.Errorf("unable to combine %v, %w", sources, err)
	}
	return e.AddModel(name, pooled)
}

// SetObservations stores the realized series values aligned to the shared
// horizon. NaN marks steps that have not realized yet. Scores only cover
// realized steps.
func (e *Evaluator) SetObservations(obs trajectory.Observations) error {
	if len(e.names) == 0 {
		return ErrNoModels
	}
	horizon := e.models[e.names[0]].Horizon()
	validated, err := trajectory.NewObservations(obs, horizon)
	if err != nil {
		return err
	}
	e.obs = validated
	return nil
}

// SetRealized aligns realized values keyed by time label to the shared
// horizon. Horizon steps missing from the map stay unrealized.
func (e *Evaluator) SetRealized(realized map[time.Time]float64) error {
	if len(e.names) == 0 {
		return ErrNoModels
	}
	e.obs = trajectory.ObservationsAt(e.models[e.names[0]].Time(), realized)
	return nil
}

// ModelNames returns the registered model names in registration order.
func (e *Evaluator) ModelNames() []string {
	names := make([]string, len(e.names))
	copy(names, e.names)
	return names
}

// TrajectorySet returns a copy of a registered model's trajectory set.
func (e *Evaluator) TrajectorySet(name string) (*trajectory.Set, error) {
	set, exists := e.models[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownModel)
	}
	return set.Copy(), nil
}

// QuantileTable builds a model's quantile table on the requested
// probability grid.
func (e *Evaluator) QuantileTable(name string, probs []float64) (*quantile.Table, error) {
	set, exists := e.models[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownModel)
	}
	return quantile.Build(set, probs)
}

// Score evaluates one model against the realized observations, computing
// its CRPS on the score grid and a quantile score breakdown on the band
// grid.
func (e *Evaluator) Score(name string) (*ModelScore, error) {
	set, exists := e.models[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownModel)
	}
	if e.obs == nil {
		return nil, ErrNoObservations
	}

	scoreTable, err := quantile.Build(set, e.opt.ScoreProbabilities)
	if err != nil {
		return nil, fmt.Errorf("unable to build score table for %q, %w", name, err)
	}
	crps, err := score.CRPS(scoreTable, e.obs)
	if err != nil {
		return nil, fmt.Errorf("unable to compute crps for %q, %w", name, err)
	}

	bandTable, err := quantile.Build(set, e.opt.BandProbabilities)
	if err != nil {
		return nil, fmt.Errorf("unable to build band table for %q, %w", name, err)
	}
	bands := make([]ProbabilityScore, 0, len(e.opt.BandProbabilities))
	for _, p := range bandTable.Probabilities() {
		qs, err := score.AverageQuantileScore(bandTable, e.obs, p)
		if err != nil {
			return nil, fmt.Errorf("unable to compute quantile score for %q at %f, %w", name, p, err)
		}
		bands = append(bands, ProbabilityScore{Probability: p, Score: qs})
	}

	return &ModelScore{
		Model:       name,
		CRPS:        crps,
		Breakdown:   bands,
		NumObserved: e.obs.NumObserved(),
	}, nil
}

// Report scores every registered model and derives each model's skill
// against the named baseline model. The baseline's own skill is always 0.
func (e *Evaluator) Report(baseline string) (*Report, error) {
	if _, exists := e.models[baseline]; !exists {
		return nil, fmt.Errorf("baseline %q, %w", baseline, ErrUnknownModel)
	}

	baselineScore, err := e.Score(baseline)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Baseline: baseline,
		Scores:   make([]ModelScore, 0, len(e.names)),
		Skill:    make([]SkillRecord, 0, len(e.names)),
	}
	for _, name := range e.names {
		ms, err := e.Score(name)
		if err != nil {
			return nil, err
		}
		r.Scores = append(r.Scores, *ms)

		skill, err := score.SkillScore(ms.CRPS, baselineScore.CRPS)
		if err != nil {
			return nil, fmt.Errorf("skill of %q against baseline %q, %w", name, baseline, err)
		}
		r.Skill = append(r.Skill, SkillRecord{Model: name, SkillScore: skill})
	}
	return r, nil
}
