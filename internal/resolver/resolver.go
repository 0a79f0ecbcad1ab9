package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"carddex/internal/catalog"
	"carddex/internal/logging"
	"carddex/internal/normalize"
)

// Catalog is the lookup surface the resolver needs from the canonical store.
type Catalog interface {
	LookupCardAlias(ctx context.Context, alias string) (string, error)
	LookupNameAlias(ctx context.Context, alias string) (string, error)
	GetByID(ctx context.Context, id string) (*catalog.Card, error)
	FindByTriplet(ctx context.Context, name, set, number string) ([]catalog.Card, error)
	FindByNameSet(ctx context.Context, name, set string) ([]catalog.Card, error)
	FindByNameNumber(ctx context.Context, name, number string) ([]catalog.Card, error)
	FindByName(ctx context.Context, name string) ([]catalog.Card, error)
}

// Resolver answers structured and free-form exact-match queries against the
// canonical catalog.
type Resolver struct {
	store  Catalog
	logger *slog.Logger
	rules  []rule
}

// rule is one rung of the precedence ladder. eval returns handled=false to
// fall through to the next rule.
type rule struct {
	name string
	eval func(ctx context.Context, q Query) (Result, bool, error)
}

// New creates a resolver over the given catalog.
func New(store Catalog, logger *slog.Logger) *Resolver {
	r := &Resolver{
		store:  store,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
	r.rules = []rule{
		{name: "card_alias", eval: r.evalCardAlias},
		{name: "triplet", eval: r.evalTriplet},
		{name: "name_alias", eval: r.evalNameAlias},
		{name: "name_set", eval: r.evalNameSet},
		{name: "name_number", eval: r.evalNameNumber},
		{name: "name_only", eval: r.evalNameOnly},
	}
	return r
}

// Rules returns the rule names in precedence order.
func (r *Resolver) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rl := range r.rules {
		names[i] = rl.name
	}
	return names
}

// Resolve parses free-form query text and runs the exact-match ladder.
func (r *Resolver) Resolve(ctx context.Context, raw string) Result {
	return r.ExactMatch(ctx, ParseRaw(raw))
}

// ExactMatch runs the precedence ladder against a structured query, stopping
// at the first applicable rule. It never returns an error: store failures
// are logged into evidence and degrade the verdict to UNCERTAIN.
func (r *Resolver) ExactMatch(ctx context.Context, q Query) Result {
	logger := logging.WithContext(ctx, r.logger)

	q.Name = normalize.Text(q.Name)
	q.Set = normalize.Text(q.Set)
	q.Number = normalize.CardNumber(q.Number)

	if q.Name == "" && q.Set == "" && q.Number == "" && q.Raw == "" {
		return uncertain("no query input")
	}

	for _, rl := range r.rules {
		result, handled, err := rl.eval(ctx, q)
		if err != nil {
			logger.Warn("catalog lookup failed",
				logging.String("rule", rl.name),
				logging.Error(err))
			return uncertain(fmt.Sprintf("catalog error during %s lookup: %v", rl.name, err))
		}
		if handled {
			logger.Debug("resolution rule fired",
				logging.String("rule", rl.name),
				logging.String("verdict", string(result.Verdict)),
				logging.Float64("confidence", result.Confidence))
			return result
		}
	}

	return uncertain(fmt.Sprintf("no catalog match for name=%q set=%q number=%q", q.Name, q.Set, q.Number))
}

func (r *Resolver) evalCardAlias(ctx context.Context, q Query) (Result, bool, error) {
	if q.Raw == "" {
		return Result{}, false, nil
	}
	id, err := r.store.LookupCardAlias(ctx, q.Raw)
	if err != nil {
		return Result{}, false, err
	}
	if id == "" {
		return Result{}, false, nil
	}
	c, err := r.store.GetByID(ctx, id)
	if err != nil {
		return Result{}, false, err
	}
	if c == nil {
		// Alias invariant violated upstream; treat as a miss rather than
		// surfacing a phantom id.
		return Result{}, false, nil
	}
	return certain(*c, 1.0, fmt.Sprintf("card-level alias %q resolved to %s", q.Raw, c.ID)), true, nil
}

func (r *Resolver) evalTriplet(ctx context.Context, q Query) (Result, bool, error) {
	if q.Name == "" || q.Set == "" || q.Number == "" {
		return Result{}, false, nil
	}
	rows, err := r.store.FindByTriplet(ctx, q.Name, q.Set, q.Number)
	if err != nil {
		return Result{}, false, err
	}
	evidence := fmt.Sprintf("exact triplet (%s, %s, %s)", q.Name, q.Set, q.Number)
	switch {
	case len(rows) == 0:
		return Result{}, false, nil
	case len(rows) == 1:
		return certain(rows[0], 1.0, evidence+" matched one row"), true, nil
	default:
		// Two rows sharing the full triplet is a data collision, not normal
		// ambiguity.
		return multiple(rows, 0.7, evidence+fmt.Sprintf(" matched %d rows (catalog collision)", len(rows))), true, nil
	}
}

func (r *Resolver) evalNameAlias(ctx context.Context, q Query) (Result, bool, error) {
	if q.Name == "" {
		return Result{}, false, nil
	}
	canonical, err := r.store.LookupNameAlias(ctx, q.Name)
	if err != nil {
		return Result{}, false, err
	}
	if canonical == "" {
		return Result{}, false, nil
	}
	rows, err := r.store.FindByName(ctx, canonical)
	if err != nil {
		return Result{}, false, err
	}
	if len(rows) != 1 {
		return Result{}, false, nil
	}
	return certain(rows[0], 0.98,
		fmt.Sprintf("name-level alias %q resolved to canonical name %q", q.Name, canonical)), true, nil
}

func (r *Resolver) evalNameSet(ctx context.Context, q Query) (Result, bool, error) {
	if q.Name == "" || q.Set == "" {
		return Result{}, false, nil
	}
	rows, err := r.store.FindByNameSet(ctx, q.Name, q.Set)
	if err != nil {
		return Result{}, false, err
	}
	evidence := fmt.Sprintf("name+set (%s, %s)", q.Name, q.Set)
	switch {
	case len(rows) == 0:
		return Result{}, false, nil
	case len(rows) == 1:
		return likely(rows[0], 0.98, evidence+" matched one row"), true, nil
	default:
		return multiple(rows, 0.75, evidence+fmt.Sprintf(" matched %d rows", len(rows))), true, nil
	}
}

func (r *Resolver) evalNameNumber(ctx context.Context, q Query) (Result, bool, error) {
	if q.Name == "" || q.Number == "" {
		return Result{}, false, nil
	}
	rows, err := r.store.FindByNameNumber(ctx, q.Name, q.Number)
	if err != nil {
		return Result{}, false, err
	}
	evidence := fmt.Sprintf("name+number (%s, %s)", q.Name, q.Number)
	switch {
	case len(rows) == 0:
		return Result{}, false, nil
	case len(rows) == 1:
		return likely(rows[0], 0.96, evidence+" matched one row"), true, nil
	default:
		return multiple(rows, 0.72, evidence+fmt.Sprintf(" matched %d rows", len(rows))), true, nil
	}
}

func (r *Resolver) evalNameOnly(ctx context.Context, q Query) (Result, bool, error) {
	if q.Name == "" {
		return Result{}, false, nil
	}
	rows, err := r.store.FindByName(ctx, q.Name)
	if err != nil {
		return Result{}, false, err
	}
	evidence := fmt.Sprintf("name only (%s)", q.Name)
	switch {
	case len(rows) == 0:
		return Result{}, false, nil
	case len(rows) == 1:
		return likely(rows[0], 0.90, evidence+" matched one row"), true, nil
	default:
		return multiple(rows, 0.60, evidence+fmt.Sprintf(" matched %d rows", len(rows))), true, nil
	}
}
