package main

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strings"

	"github.com/thepoff1327/N-and-N/internal/analysis"
	"github.com/thepoff1327/N-and-N/internal/i18n"
	"github.com/thepoff1327/N-and-N/internal/report"
	"github.com/thepoff1327/N-and-N/internal/symbolic"
)

// session drives the interactive prompt loop over stdin/stdout.
type session struct {
	in       *bufio.Scanner
	out      io.Writer
	cat      *i18n.Catalog
	lang     string
	analyzer *analysis.Analyzer
	renderer *report.Renderer
}

func runSession() error {
	cat, err := i18n.Load(cfg.Translations)
	if err != nil {
		return err
	}

	s := &session{
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
		cat:      cat,
		analyzer: analysis.New(logger),
	}
	s.analyzer.Window = cfg.SampleWindow
	s.analyzer.PrimeCap = cfg.PrimeCap

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		lang := s.lang
		if lang == "" {
			lang = "en"
		}
		fmt.Fprintf(os.Stdout, "\n\n%s\n", cat.T(lang, "interrupted"))
		os.Exit(0)
	}()

	s.lang = cfg.Language
	if s.lang == "" {
		s.lang = s.chooseLanguage()
	} else if !cat.HasLang(s.lang) {
		return fmt.Errorf("translation catalog has no %q section", s.lang)
	}
	s.renderer = report.New(s.out, s.cat, s.lang)

	s.run()
	return nil
}

// readLine prints the prompt and reads one trimmed line. EOF ends the
// program gracefully.
func (s *session) readLine(prompt string) string {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		lang := s.lang
		if lang == "" {
			lang = "en"
		}
		fmt.Fprintf(s.out, "\n%s\n", s.cat.T(lang, "goodbye"))
		os.Exit(0)
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *session) t(key string) string            { return s.cat.T(s.lang, key) }
func (s *session) tf(key string, a ...any) string { return s.cat.Tf(s.lang, key, a...) }

func (s *session) chooseLanguage() string {
	fmt.Fprintln(s.out, s.cat.T("en", "choose_language"))
	for {
		switch s.readLine(s.cat.T("en", "language_prompt")) {
		case "1":
			return "en"
		case "2":
			return "fr"
		case "3":
			return "ar"
		}
		fmt.Fprintln(s.out, s.cat.T("en", "invalid_choice"))
	}
}

func (s *session) run() {
	s.renderer.Banner()

	set := s.chooseSet()
	raw, expr := s.readExpression()

	variable, bindings := s.chooseVariable(expr)

	fmt.Fprintf(s.out, "\n%s\n", s.tf("expression_parsed", symbolic.String(expr)))
	validRange := fmt.Sprintf("%s ≥ %d", variable, set.Min())
	if variable != "" {
		fmt.Fprintln(s.out, s.tf("analyzing", validRange))
	}

	res, err := s.analyzer.Analyze(raw, expr, set, variable, bindings)
	if err != nil {
		fmt.Fprintln(s.out, s.tf("error_evaluating", err))
		return
	}

	if res.Constant != nil {
		s.renderer.Constant(res)
		fmt.Fprintf(s.out, "\n%s\n", s.t("analysis_complete"))
		return
	}

	s.renderer.Symbolic(res)
	s.renderer.Membership(res)
	s.renderer.Parity(res)

	fmt.Fprintf(s.out, "\n%s\n", s.t("test_specific"))
	answer := strings.ToLower(s.readLine(s.tf("yes_no", i18n.YesToken(s.lang))))
	if answer == i18n.YesToken(s.lang) {
		s.testValues(expr, set, variable, bindings)
	}

	fmt.Fprintf(s.out, "\n%s\n", s.t("analysis_complete"))
}

func (s *session) chooseSet() analysis.Set {
	for {
		set, err := analysis.ParseSet(s.readLine(s.t("choose_set")))
		if err != nil {
			fmt.Fprintln(s.out, s.t("invalid_set"))
			continue
		}
		if set == analysis.SetN {
			fmt.Fprintf(s.out, "\n%s\n%s\n", s.t("chose_n"), s.t("n_description"))
		} else {
			fmt.Fprintf(s.out, "\n%s\n%s\n", s.t("chose_n_star"), s.t("n_star_description"))
		}
		return set
	}
}

func (s *session) readExpression() (string, symbolic.Expr) {
	for {
		raw := s.readLine("\n" + s.t("enter_expression"))
		expr, err := symbolic.Parse(raw)
		if err != nil {
			fmt.Fprintln(s.out, s.tf("invalid_expression", err))
			fmt.Fprintln(s.out, s.t("multiplication_tip"))
			continue
		}
		return raw, expr
	}
}

// chooseVariable picks the primary variable and collects fixed numeric
// bindings for any other free variables. A constant expression returns an
// empty variable name and no bindings.
func (s *session) chooseVariable(expr symbolic.Expr) (string, map[string]*big.Rat) {
	vars := symbolic.Variables(expr)
	switch len(vars) {
	case 0:
		fmt.Fprintf(s.out, "\n%s\n", s.t("no_variable"))
		return "", nil
	case 1:
		return vars[0], nil
	}

	var primary string
	for {
		primary = s.readLine("\n" + s.tf("choose_variable", strings.Join(vars, ", ")))
		if contains(vars, primary) {
			break
		}
		fmt.Fprintln(s.out, s.t("invalid_variable"))
	}

	bindings := map[string]*big.Rat{}
	for _, name := range vars {
		if name == primary {
			continue
		}
		for {
			raw := s.readLine(s.tf("enter_binding", name))
			if v, ok := new(big.Rat).SetString(raw); ok {
				bindings[name] = v
				break
			}
			fmt.Fprintln(s.out, s.t("enter_valid_number"))
		}
	}
	return primary, bindings
}

// testValues is the free-form testing loop: the user enters values for the
// primary variable until the language-specific sentinel word.
func (s *session) testValues(expr symbolic.Expr, set analysis.Set, variable string, bindings map[string]*big.Rat) {
	fmt.Fprintf(s.out, "\n%s\n", s.t("specific_testing"))
	done := i18n.DoneWord(s.lang)
	fmt.Fprintln(s.out, s.tf("note_range", set, set.Min(), done))

	for {
		raw := s.readLine("\n" + s.tf("enter_value", variable))
		if strings.EqualFold(raw, done) {
			return
		}
		value, ok := new(big.Rat).SetString(raw)
		if !ok {
			fmt.Fprintln(s.out, s.t("enter_valid_number"))
			continue
		}
		min := new(big.Rat).SetInt64(set.Min())
		if value.Cmp(min) < 0 {
			fmt.Fprintln(s.out, s.tf("warning_not_in_set", analysis.FormatRat(value), set, set.Min()))
		}
		result, err := s.analyzer.EvalAt(expr, variable, bindings, value)
		if err != nil {
			fmt.Fprintln(s.out, s.tf("error_evaluating", err))
			continue
		}
		rep := analysis.Classify(result, set, 0)
		s.renderer.Value(variable, value, result, rep, set)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
