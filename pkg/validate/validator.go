package validate

// Validator runs registered rules against a context.
type Validator struct {
	config *Config
}

// Config holds configuration for the validator.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]Severity
}

// NewConfig creates a default configuration: every rule enabled at its
// default severity.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
	}
}

// NewValidator creates a new validator with optional configuration.
func NewValidator(config *Config) *Validator {
	if config == nil {
		config = NewConfig()
	}
	if config.DisabledRules == nil {
		config.DisabledRules = make(map[string]bool)
	}
	return &Validator{config: config}
}

// Result is the outcome of a validation run.
type Result struct {
	Valid    bool      `json:"valid"`
	Findings []Finding `json:"findings"`
}

// Errors returns the findings of error severity.
func (r Result) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the findings of warning severity.
func (r Result) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

func (r Result) filter(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// Validate runs every enabled rule in ID order and concatenates the
// findings. The document is valid iff no finding has error severity.
func (v *Validator) Validate(ctx *Context) Result {
	findings := []Finding{}
	if ctx == nil {
		return Result{Valid: true, Findings: findings}
	}

	for _, rule := range GetAll() {
		if v.config.DisabledRules[rule.ID] {
			continue
		}

		found := rule.Check(ctx)
		for i := range found {
			found[i].RuleID = rule.ID
			found[i].Severity = v.severity(rule)
		}
		findings = append(findings, found...)
	}

	valid := true
	for _, f := range findings {
		if f.Severity == SeverityError {
			valid = false
			break
		}
	}
	return Result{Valid: valid, Findings: findings}
}

func (v *Validator) severity(rule RuleDef) Severity {
	if sev, ok := v.config.SeverityOverrides[rule.ID]; ok {
		return sev
	}
	return rule.Severity
}

// Disable disables a rule by ID.
func (v *Validator) Disable(ruleID string) {
	v.config.DisabledRules[ruleID] = true
}

// Enable enables a previously disabled rule.
func (v *Validator) Enable(ruleID string) {
	delete(v.config.DisabledRules, ruleID)
}

// Validate runs every registered rule with the default configuration.
func Validate(ctx *Context) Result {
	return NewValidator(nil).Validate(ctx)
}
