package commands

import (
	"fmt"
	"strings"

	"github.com/oddessentials/repo-standards/internal/cli/output"
	"github.com/oddessentials/repo-standards/pkg/validate"
	_ "github.com/oddessentials/repo-standards/pkg/validate/rules" // register validation rules
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List validation rules",
		Long: `List the rules validate and build apply to the master document.

Rules are organized by group (structure, references, policy, docs).
Use --verbose to see the rationale and fix guidance.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  repo-standards rules

  # Show details for a specific rule
  repo-standards rules V03

  # List rules in the references group
  repo-standards rules --group references

  # Output as JSON
  repo-standards rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// RuleJSON is the documentation of one rule.
type RuleJSON struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Group       string            `json:"group"`
	Description string            `json:"description"`
	Severity    validate.Severity `json:"severity"`
	Rationale   string            `json:"rationale,omitempty"`
	Fix         string            `json:"fix,omitempty"`
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []RuleJSON `json:"rules"`
	Count int        `json:"count"`
}

func ruleJSON(r validate.RuleDef) RuleJSON {
	return RuleJSON{
		ID:          r.ID,
		Name:        r.Name,
		Group:       r.Group,
		Description: r.Description,
		Severity:    r.Severity,
		Rationale:   r.Rationale,
		Fix:         r.Fix,
	}
}

func rulesRenderer(cmd *cobra.Command, format string) (*output.Renderer, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = cfg.OutputFormat
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format)), nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts.Format)
	if err != nil {
		return err
	}

	var rules []validate.RuleDef
	if opts.Group != "" {
		rules = validate.GetByGroup(opts.Group)
	} else {
		rules = validate.GetAll()
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		res := RulesJSONOutput{Rules: make([]RuleJSON, 0, len(rules)), Count: len(rules)}
		for _, rule := range rules {
			res.Rules = append(res.Rules, ruleJSON(rule))
		}
		return r.JSON(res)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules, opts.Verbose)
	default:
		return listRulesText(r, rules, opts.Verbose)
	}
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts.Format)
	if err != nil {
		return err
	}

	rule, ok := validate.GetByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(ruleJSON(rule))
	case output.ModeMarkdown:
		return showRuleMarkdown(r, rule)
	default:
		return showRuleText(r, rule)
	}
}

// listRulesText outputs rules in styled text format, grouped by group.
func listRulesText(r *output.Renderer, rules []validate.RuleDef, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Validation Rules (%d)", len(rules))))
	r.Println("")

	for _, group := range groupsOf(rules) {
		r.Println(styles.Bold.Render("  " + capitalizeFirst(group)))
		for _, rule := range rules {
			if rule.Group != group {
				continue
			}
			r.Printf("    %s  %s - %s\n",
				styles.Muted.Render(rule.ID),
				rule.Name,
				severityStyle(styles, rule.Severity).Render(rule.Severity.String()),
			)
			if verbose {
				r.Println(styles.Muted.Render("        " + rule.Description))
				if rule.Rationale != "" {
					r.Println(styles.Muted.Render("        Why: " + truncateOneLine(rule.Rationale, 80)))
				}
				r.Println("")
			}
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'repo-standards rules <rule-id>' for detailed documentation"))
	r.Println("")

	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []validate.RuleDef, verbose bool) error {
	r.Println("# Validation Rules")
	r.Println("")

	for _, group := range groupsOf(rules) {
		r.Println("## " + capitalizeFirst(group))
		r.Println("")
		for _, rule := range rules {
			if rule.Group != group {
				continue
			}
			r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.Severity.String())
			if verbose {
				r.Println("  " + rule.Description)
				if rule.Rationale != "" {
					r.Println("  > " + rule.Rationale)
				}
			}
		}
		r.Println("")
	}

	return nil
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule validate.RuleDef) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.Severity.String())
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule validate.RuleDef) error {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s`\n\n", rule.Group, rule.Severity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}

	return nil
}

// groupsOf returns the groups of rules in first-seen order.
func groupsOf(rules []validate.RuleDef) []string {
	seen := make(map[string]bool)
	var groups []string
	for _, rule := range rules {
		if !seen[rule.Group] {
			seen[rule.Group] = true
			groups = append(groups, rule.Group)
		}
	}
	return groups
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
