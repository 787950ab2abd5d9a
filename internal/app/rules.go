package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/stripasm/internal/asm"
	"github.com/blackwell-systems/stripasm/internal/output"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the effective line classification rules",
	Long: `Rules prints the classification table in evaluation order: the built-in
discard rules followed by any rules from the config file. The first discard
rule that matches decides a line's kind; any matching keep rule retains it.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

type ruleJSON struct {
	Name    string `json:"name"`
	Action  string `json:"action"`
	Kind    string `json:"kind"`
	Pattern string `json:"pattern"`
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rs, err := cfg.RuleSet()
	if err != nil {
		return fmt.Errorf("building rules: %w", err)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		doc := struct {
			Rules       []ruleJSON `json:"rules"`
			Annotations []string   `json:"annotations"`
		}{Rules: []ruleJSON{}, Annotations: rs.Annotations}
		for _, r := range rs.Rules {
			doc.Rules = append(doc.Rules, ruleJSON{
				Name: r.Name, Action: r.Action.String(), Kind: r.Kind.String(), Pattern: r.Pattern.String(),
			})
		}
		if doc.Annotations == nil {
			doc.Annotations = []string{}
		}
		return writeJSON(w, doc)
	}

	tbl := output.NewTable("#", "Name", "Action", "Kind", "Pattern")
	for i, r := range rs.Rules {
		action := output.StyleError.Render(r.Action.String())
		if r.Action == asm.Keep {
			action = output.StyleSuccess.Render(r.Action.String())
		}
		tbl.AddRow(fmt.Sprintf("%d", i+1), r.Name, action, r.Kind.String(), r.Pattern.String())
	}
	fmt.Fprintln(w, output.Section("Classification rules"))
	fmt.Fprintln(w)
	tbl.Fprint(w)

	fmt.Fprintln(w)
	if len(rs.Annotations) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render("No annotations stripped."))
		return nil
	}
	fmt.Fprintf(w, " %s", output.StyleLabel.Render("Stripped annotations:"))
	for _, a := range rs.Annotations {
		fmt.Fprintf(w, " %s", a)
	}
	fmt.Fprintln(w)
	return nil
}
