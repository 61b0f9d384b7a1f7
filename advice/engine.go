package advice

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/cogniscreen/cogniscreen/internal/logger"
	"github.com/cogniscreen/cogniscreen/screening"
)

// MaxRecommendations caps how many recommendations a single submission
// receives. Conditional rules sort before general ones, so a submission
// tripping many conditionals deterministically drops trailing general rules.
const MaxRecommendations = 6

// Engine compiles rule trigger expressions to CEL programs and evaluates
// them against submitted answers. Thread-safe for concurrent evaluation
// and rule mutation (RWMutex over the compiled program map).
type Engine struct {
	env      *cel.Env
	store    RuleStore
	cache    RulesCache
	programs map[string]cel.Program // ruleID -> compiled trigger
	mu       sync.RWMutex
}

// NewEngine creates an engine whose expressions see the raw answer map as
// a single `answers` variable, and compiles every active rule in the store.
func NewEngine(store RuleStore) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("answers", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	en := &Engine{
		env:      env,
		store:    store,
		cache:    NewInMemoryRulesCache(DefaultCacheConfig()),
		programs: make(map[string]cel.Program),
	}

	if err := en.CompileAllRules(); err != nil {
		return nil, fmt.Errorf("failed to compile rules: %w", err)
	}

	return en, nil
}

// CompileRule compiles a single trigger expression and caches the program.
// A cost limit bounds evaluation so a bad operator-supplied expression
// cannot stall request handling.
func (en *Engine) CompileRule(ruleID, expression string) error {
	ast, issues := en.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("compile error: %w", issues.Err())
	}

	prog, err := en.env.Program(ast, cel.CostLimit(1000000))
	if err != nil {
		return fmt.Errorf("program creation error: %w", err)
	}

	en.mu.Lock()
	en.programs[ruleID] = prog
	en.mu.Unlock()

	return nil
}

// CompileAllRules compiles every active rule and primes the cache.
func (en *Engine) CompileAllRules() error {
	rules, err := en.store.ListActive()
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if err := en.CompileRule(rule.ID, rule.Expression); err != nil {
			return fmt.Errorf("failed to compile rule %s: %w", rule.ID, err)
		}
	}

	en.cache.Set(rules)
	return nil
}

// Advise evaluates the active rules against the raw answers and returns
// the recommendations of the rules that matched, in priority order,
// truncated to MaxRecommendations. A rule whose evaluation fails is
// skipped and logged; advice generation never fails a request.
func (en *Engine) Advise(answers screening.AnswerSet) []screening.Recommendation {
	rules := en.cache.Get()
	if rules == nil {
		var err error
		rules, err = en.store.ListActive()
		if err != nil {
			logger.Error("failed to load recommendation rules", "error", err)
			return []screening.Recommendation{}
		}
		en.cache.Set(rules)
	}

	facts := map[string]any{"answers": map[string]string(answers)}

	out := make([]screening.Recommendation, 0, MaxRecommendations)
	for _, rule := range rules {
		en.mu.RLock()
		prog, exists := en.programs[rule.ID]
		en.mu.RUnlock()

		if !exists {
			logger.Warn("recommendation rule is not compiled", "rule_id", rule.ID)
			continue
		}

		val, _, err := prog.Eval(facts)
		if err != nil {
			logger.Warn("recommendation rule evaluation failed", "rule_id", rule.ID, "error", err)
			continue
		}

		matched, ok := val.Value().(bool)
		if !ok || !matched {
			continue
		}

		out = append(out, screening.Recommendation{
			Icon:  rule.Icon,
			Title: rule.Title,
			Text:  rule.Text,
		})
		if len(out) == MaxRecommendations {
			break
		}
	}

	return out
}

// AddRule validates and compiles a new rule, then persists it. If the
// store rejects it the compiled program is removed again.
func (en *Engine) AddRule(r *Rule) error {
	if _, err := en.store.Get(r.ID); err == nil {
		return fmt.Errorf("rule with ID %s already exists", r.ID)
	}

	if err := en.CompileRule(r.ID, r.Expression); err != nil {
		return fmt.Errorf("rule validation failed: %w", err)
	}

	if err := en.store.Add(r); err != nil {
		en.mu.Lock()
		delete(en.programs, r.ID)
		en.mu.Unlock()
		return err
	}

	en.cache.Invalidate()
	return nil
}

// UpdateRule recompiles an existing rule's expression and persists the
// change.
func (en *Engine) UpdateRule(r *Rule) error {
	if err := en.CompileRule(r.ID, r.Expression); err != nil {
		return fmt.Errorf("rule validation failed: %w", err)
	}

	if err := en.store.Update(r); err != nil {
		return err
	}

	en.cache.Invalidate()
	return nil
}

// DeleteRule removes a rule from the store and drops its program.
func (en *Engine) DeleteRule(ruleID string) error {
	if err := en.store.Delete(ruleID); err != nil {
		return err
	}

	en.mu.Lock()
	delete(en.programs, ruleID)
	en.mu.Unlock()

	en.cache.Invalidate()
	return nil
}

// Rules lists every stored rule, active or not, in priority order.
func (en *Engine) Rules() ([]*Rule, error) {
	return en.store.List()
}

// GetRule retrieves a single rule by ID.
func (en *Engine) GetRule(id string) (*Rule, error) {
	return en.store.Get(id)
}
