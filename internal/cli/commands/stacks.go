package commands

import (
	"sort"
	"strconv"
	"strings"

	"github.com/oddessentials/repo-standards/internal/cli/output"
	"github.com/oddessentials/repo-standards/internal/loader"
	"github.com/oddessentials/repo-standards/pkg/standards"
	"github.com/spf13/cobra"
)

// StackJSON describes one declared stack.
type StackJSON struct {
	ID             string           `json:"id"`
	Label          string           `json:"label"`
	LanguageFamily string           `json:"languageFamily,omitempty"`
	Aliases        []string         `json:"aliases"`
	Items          CountsJSONOutput `json:"items"`
}

// StacksJSONOutput is the JSON output structure for stacks.
type StacksJSONOutput struct {
	Stacks    []StackJSON `json:"stacks"`
	CISystems []string    `json:"ciSystems"`
}

// NewStacksCommand creates the stacks command.
func NewStacksCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stacks",
		Short: "List declared stacks and CI systems",
		Long: `List the stacks and CI systems declared by the master document, with the
number of checklist items that apply to each stack and the configured aliases
that resolve to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cmdCtx.WithFormat(cmd, format)

			doc, err := loader.Load(cmdCtx.Cfg.MasterPath)
			if err != nil {
				return err
			}
			res := describeStacks(doc.Master, cmdCtx.Cfg.StackAliases)

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(res)
			}
			renderStacks(r, res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func describeStacks(m *standards.Master, aliases map[string]string) StacksJSONOutput {
	byTarget := make(map[string][]string)
	for alias, target := range aliases {
		byTarget[target] = append(byTarget[target], alias)
	}

	res := StacksJSONOutput{CISystems: append([]string{}, m.CISystems...)}
	for _, id := range m.StackIDs() {
		s := StackJSON{
			ID:             id,
			Label:          m.StackLabel(id),
			LanguageFamily: m.Stacks[id].LanguageFamily,
			Aliases:        byTarget[id],
		}
		if s.Aliases == nil {
			s.Aliases = []string{}
		}
		sort.Strings(s.Aliases)
		for _, si := range m.AllItems() {
			if !si.Item.AppliesToStack(id) {
				continue
			}
			switch si.Section {
			case standards.SectionCore:
				s.Items.Core++
			case standards.SectionRecommended:
				s.Items.Recommended++
			case standards.SectionOptional:
				s.Items.OptionalEnhancements++
			}
			s.Items.Total++
		}
		res.Stacks = append(res.Stacks, s)
	}
	return res
}

func renderStacks(r *output.Renderer, res StacksJSONOutput) {
	r.Header("Stacks")
	rows := make([][]string, 0, len(res.Stacks))
	for _, s := range res.Stacks {
		rows = append(rows, []string{
			s.ID,
			s.Label,
			strconv.Itoa(s.Items.Core),
			strconv.Itoa(s.Items.Recommended),
			strconv.Itoa(s.Items.OptionalEnhancements),
			strings.Join(s.Aliases, ", "),
		})
	}
	r.Table([]string{"ID", "Label", "Core", "Recommended", "Optional", "Aliases"}, rows)
	r.Println("")
	r.Printf("CI systems: %s\n", strings.Join(res.CISystems, ", "))
}
