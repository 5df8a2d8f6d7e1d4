// Package api exposes the analysis pipeline over HTTP so the checker can be
// embedded in other tooling: POST /analyze runs the same classification the
// interactive session prints, GET /healthz is a liveness check.
package api

import (
	"encoding/json"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/thepoff1327/N-and-N/internal/analysis"
	"github.com/thepoff1327/N-and-N/internal/symbolic"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// AnalyzeRequest is the JSON body of POST /analyze.
type AnalyzeRequest struct {
	Expression string            `json:"expression"`
	Set        string            `json:"set"`                // "N" or "N*"
	Variable   string            `json:"variable,omitempty"` // optional when unambiguous
	Bindings   map[string]string `json:"bindings,omitempty"` // fixed values for other variables
}

// Sample mirrors analysis.SamplePoint with JSON-friendly fields.
type Sample struct {
	Input    int64   `json:"input"`
	Result   string  `json:"result,omitempty"`
	InSet    bool    `json:"in_set"`
	Integer  bool    `json:"integer"`
	Even     *bool   `json:"even,omitempty"`
	K        *int64  `json:"k,omitempty"`
	Class    string  `json:"class,omitempty"`
	Divisors []int64 `json:"divisors,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// AnalyzeResponse is the JSON body returned by POST /analyze.
type AnalyzeResponse struct {
	Original   string   `json:"original"`
	Expanded   string   `json:"expanded"`
	Simplified string   `json:"simplified"`
	Factored   string   `json:"factored,omitempty"`
	LaTeX      string   `json:"latex"`
	Set        string   `json:"set"`
	Variable   string   `json:"variable,omitempty"`
	Variables  []string `json:"variables,omitempty"`
	Constant   *Sample  `json:"constant,omitempty"`
	Samples    []Sample `json:"samples,omitempty"`
	InSet      bool     `json:"all_in_set"`
	Pattern    string   `json:"pattern,omitempty"`
	Mod2       string   `json:"mod2,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server handles the HTTP surface over a shared Analyzer.
type Server struct {
	analyzer *analysis.Analyzer
	logger   *zap.Logger
}

// NewHandler builds the chi router with request logging.
func NewHandler(analyzer *analysis.Analyzer, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{analyzer: analyzer, logger: logger}
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/healthz", s.handleHealth)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req AnalyzeRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	set, err := analysis.ParseSet(req.Set)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	expr, err := symbolic.Parse(req.Expression)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid expression: " + err.Error()})
		return
	}

	bindings := map[string]*big.Rat{}
	for name, raw := range req.Bindings {
		v, ok := new(big.Rat).SetString(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid binding for " + name})
			return
		}
		bindings[name] = v
	}

	variable := req.Variable
	if variable == "" {
		free := []string{}
		for _, name := range symbolic.Variables(expr) {
			if _, bound := bindings[name]; !bound {
				free = append(free, name)
			}
		}
		if len(free) == 1 {
			variable = free[0]
		} else if len(free) > 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "expression has several variables; pass \"variable\""})
			return
		}
	}

	res, err := s.analyzer.Analyze(req.Expression, expr, set, variable, bindings)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res))
}

func toResponse(res *analysis.Result) AnalyzeResponse {
	out := AnalyzeResponse{
		Original:   res.Original,
		Expanded:   res.Expanded,
		Simplified: res.Simplified,
		Factored:   res.Factored,
		LaTeX:      res.LaTeX,
		Set:        res.Set.String(),
		Variable:   res.Variable,
		Variables:  res.Variables,
		InSet:      len(res.Problematic) == 0,
	}
	if res.Constant != nil {
		c := reportToSample(0, res.Constant.Value, res.Constant)
		out.Constant = &c
		return out
	}
	for _, pt := range res.Samples {
		if pt.Err != nil {
			out.Samples = append(out.Samples, Sample{Input: pt.Input, Error: pt.Err.Error()})
			continue
		}
		out.Samples = append(out.Samples, reportToSample(pt.Input, pt.Result, &pt.Report))
	}
	out.Pattern = res.Pattern.String()
	out.Mod2 = res.Mod2.String()
	return out
}

func reportToSample(input int64, value *big.Rat, rep *analysis.ValueReport) Sample {
	s := Sample{
		Input:   input,
		Result:  analysis.FormatRat(value),
		InSet:   rep.InSet,
		Integer: rep.IsInteger,
		Class:   rep.Class.String(),
	}
	if rep.Parity != nil {
		even := rep.Parity.Even
		s.Even = &even
		if rep.Parity.K.IsInt64() {
			k := rep.Parity.K.Int64()
			s.K = &k
		}
	}
	if len(rep.Divisors) > 0 {
		s.Divisors = rep.Divisors
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
