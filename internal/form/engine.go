package form

// Engine evaluates a RuleTable against form state.
type Engine struct {
	rules RuleTable
	// retainOnPass keeps the previous entry of a field whose rules all pass
	// instead of clearing it.
	retainOnPass bool
}

type EngineOption func(*Engine)

// WithRules replaces the default rule table.
func WithRules(rules RuleTable) EngineOption {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithRetainOnPass keeps stale messages on a field that revalidates cleanly.
func WithRetainOnPass() EngineOption {
	return func(e *Engine) {
		e.retainOnPass = true
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{rules: DefaultRules()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate recomputes the errors of every field that is touched or covered
// by target. Fields outside that scope keep their entry from prev. The
// returned map is a fresh copy; prev is not modified.
func (e *Engine) Evaluate(values Values, touched Touched, target Target, prev Errors) Errors {
	errs := prev.Clone()
	for _, field := range Fields {
		if !touched[field] && !target.Includes(field) {
			continue
		}
		rules := e.rules[field]
		if len(rules) == 0 {
			continue
		}
		var msgs []string
		for _, rule := range rules {
			if msg := rule.Check(values[field], values); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		switch {
		case len(msgs) > 0:
			errs[field] = msgs
		case !e.retainOnPass:
			errs[field] = nil
		}
	}
	return errs
}

var defaultEngine = NewEngine()

// Evaluate runs the default engine.
func Evaluate(values Values, touched Touched, target Target, prev Errors) Errors {
	return defaultEngine.Evaluate(values, touched, target, prev)
}
