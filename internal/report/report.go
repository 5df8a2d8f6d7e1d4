// Package report renders analysis results to the terminal. All user-facing
// text is resolved through the i18n catalog; lipgloss handles the styling
// and degrades automatically on dumb terminals and NO_COLOR.
package report

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thepoff1327/N-and-N/internal/analysis"
	"github.com/thepoff1327/N-and-N/internal/i18n"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

const (
	okMark  = "✅"
	badMark = "❌"
	branch  = "└─"
)

// Renderer writes the localized analysis report.
type Renderer struct {
	w    io.Writer
	cat  *i18n.Catalog
	lang string
}

func New(w io.Writer, cat *i18n.Catalog, lang string) *Renderer {
	return &Renderer{w: w, cat: cat, lang: lang}
}

func (r *Renderer) t(key string) string            { return r.cat.T(r.lang, key) }
func (r *Renderer) tf(key string, a ...any) string { return r.cat.Tf(r.lang, key, a...) }

func (r *Renderer) printf(format string, a ...any) {
	fmt.Fprintf(r.w, format, a...)
}

func (r *Renderer) section(key string) {
	r.printf("\n%s\n%s\n", sectionStyle.Render(r.t(key)), mutedStyle.Render(strings.Repeat("-", 30)))
}

// Banner prints the program header.
func (r *Renderer) Banner() {
	r.printf("\n%s\n%s\n%s\n",
		titleStyle.Render(r.t("welcome")),
		mutedStyle.Render(strings.Repeat("=", 50)),
		r.t("description"))
}

// Symbolic prints the original/expanded/simplified (and factored) forms.
func (r *Renderer) Symbolic(res *analysis.Result) {
	r.section("symbolic_analysis")
	r.printf("%s\n", r.tf("original", res.Original))
	r.printf("%s\n", r.tf("expanded", res.Expanded))
	r.printf("%s\n", r.tf("simplified", res.Simplified))
	if res.Factored != "" {
		r.printf("%s\n", r.tf("factored", res.Factored))
	}
}

// Membership prints the sampled set-membership evaluations.
func (r *Renderer) Membership(res *analysis.Result) {
	r.section("set_membership")
	r.printf("%s\n", r.t("sample_evaluations"))
	shown := 0
	for _, pt := range res.Samples {
		if shown >= 5 {
			break
		}
		shown++
		if pt.Err != nil {
			r.printf("  %s\n", warnStyle.Render(r.tf("could_not_evaluate", res.Variable, pt.Input)))
			continue
		}
		mark := okMark
		if !pt.Report.InSet {
			mark = badMark
		}
		r.printf("  %s = %d: %s = %s %s\n",
			res.Variable, pt.Input, res.Simplified, analysis.FormatRat(pt.Result), mark)
	}
	if len(res.Problematic) > 0 {
		r.printf("\n%s\n", badStyle.Render(r.tf("found_problems", res.Set)))
		for _, pt := range res.Problematic {
			r.printf("  %s = %d: %s\n", res.Variable, pt.Input, analysis.FormatRat(pt.Result))
		}
	} else {
		r.printf("\n%s\n", okStyle.Render(r.tf("appears_to_belong", res.Set)))
	}
}

// Parity prints the per-sample parity decomposition with prime annotations,
// then the pattern summary and the symbolic mod-2 verdict.
func (r *Renderer) Parity(res *analysis.Result) {
	r.section("parity_analysis")
	for _, pt := range res.Samples {
		if pt.Err != nil {
			continue
		}
		rep := pt.Report
		if rep.Parity == nil {
			r.printf("  %s = %d: %s %s\n", res.Variable, pt.Input, analysis.FormatRat(pt.Result), r.t("non_integer"))
			continue
		}
		parityKey := "odd"
		if rep.Parity.Even {
			parityKey = "even"
		}
		r.printf("  %s = %d: %s = %s, K = %d\n",
			res.Variable, pt.Input, analysis.FormatRat(pt.Result), r.t(parityKey), rep.Parity.K)
		for _, line := range r.primeLines(rep) {
			r.printf("    %s %s\n", mutedStyle.Render(branch), line)
		}
	}

	r.printf("\n%s\n", sectionStyle.Render(r.t("pattern_summary")))
	switch res.Pattern {
	case analysis.PatternMixed:
		r.printf("%s\n", r.t("produces_both"))
	case analysis.PatternAllEven:
		r.printf("%s\n", r.t("produces_even"))
	case analysis.PatternAllOdd:
		r.printf("%s\n", r.t("produces_odd"))
	default:
		r.printf("%s\n", r.t("pattern_unclear"))
	}
	switch res.Mod2 {
	case analysis.AlwaysEven:
		r.printf("%s\n", okStyle.Render(r.t("always_even")))
	case analysis.AlwaysOdd:
		r.printf("%s\n", okStyle.Render(r.t("always_odd")))
	case analysis.DependsOnVar:
		r.printf("%s\n", r.tf("depends_on_var", res.Variable))
	default:
		r.printf("%s\n", mutedStyle.Render(r.t("could_not_determine")))
	}
}

// Constant prints the analysis of a variable-free expression.
func (r *Renderer) Constant(res *analysis.Result) {
	rep := res.Constant
	r.section("constant_analysis")
	r.printf("%s\n", r.tf("constant_value", analysis.FormatRat(rep.Value)))

	r.printf("\n%s\n", sectionStyle.Render(r.t("set_membership")))
	r.printf("  %s %s\n", analysis.FormatRat(rep.Value), r.membershipText(rep.InSet, res.Set))

	r.printf("\n%s\n", sectionStyle.Render(r.t("parity_analysis")))
	if rep.Parity == nil {
		r.printf("  %s %s\n", analysis.FormatRat(rep.Value), r.t("non_integer"))
		r.printf("  %s\n", r.t("prime_na_non_integer"))
		return
	}
	if rep.Parity.Even {
		r.printf("  %s\n", r.tf("parity_even", rep.Parity.K))
	} else {
		r.printf("  %s\n", r.tf("parity_odd", rep.Parity.K))
	}
	for _, line := range r.primeLines(*rep) {
		r.printf("  %s %s\n", mutedStyle.Render(branch), line)
	}
}

// Value prints the report for one user-tested point.
func (r *Renderer) Value(variable string, input *big.Rat, result *big.Rat, rep analysis.ValueReport, set analysis.Set) {
	r.printf("\n%s\n", r.tf("result_for_value", variable, analysis.FormatRat(input)))
	r.printf("   = %s\n", analysis.FormatRat(result))
	r.printf("   %s\n", r.tf("set_membership_result", r.membershipText(rep.InSet, set)))
	if rep.Parity == nil {
		r.printf("   %s\n", r.t("non_integer"))
		r.printf("   %s\n", r.t("prime_na_non_integer"))
		return
	}
	if rep.Parity.Even {
		r.printf("   %s\n", r.tf("parity_even", rep.Parity.K))
	} else {
		r.printf("   %s\n", r.tf("parity_odd", rep.Parity.K))
	}
	for _, line := range r.primeLines(rep) {
		r.printf("   %s %s\n", mutedStyle.Render(branch), line)
	}
}

func (r *Renderer) membershipText(inSet bool, set analysis.Set) string {
	switch {
	case inSet && set == analysis.SetN:
		return okStyle.Render(r.t("belongs_to_n"))
	case inSet:
		return okStyle.Render(r.t("belongs_to_n_star"))
	case set == analysis.SetN:
		return badStyle.Render(r.t("not_belongs_to_n"))
	default:
		return badStyle.Render(r.t("not_belongs_to_n_star"))
	}
}

func (r *Renderer) primeLines(rep analysis.ValueReport) []string {
	v := analysis.FormatRat(rep.Value)
	switch rep.Class {
	case analysis.ClassPrime:
		return []string{r.tf("prime", v), r.tf("prime_divisors", v)}
	case analysis.ClassComposite:
		return []string{r.tf("composite", v), r.tf("all_divisors", rep.Divisors)}
	case analysis.ClassUnit:
		return []string{r.t("neither_prime"), r.t("divisors_one")}
	case analysis.ClassZero:
		return []string{r.t("zero_special")}
	case analysis.ClassNegative:
		return []string{r.t("prime_na")}
	}
	return nil
}
