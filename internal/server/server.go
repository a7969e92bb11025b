// Package server exposes the underwriting engine over a JSON HTTP API. The
// engine stays pure; this layer only decodes inputs, invokes a run, and
// encodes the result.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/iwvelando/deal-underwriter/internal/config"
	"github.com/iwvelando/deal-underwriter/internal/engine"
	"github.com/iwvelando/deal-underwriter/internal/store"
	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/deal"
	"github.com/iwvelando/deal-underwriter/pkg/presets"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger      *zap.Logger
	engine      *engine.Engine
	scenarios   store.Store
	maxBodySize int64
}

// NewHandler constructs the HTTP handler serving the underwriting API.
func NewHandler(logger *zap.Logger, eng *engine.Engine, scenarios store.Store, maxBodySize int64) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if eng == nil {
		eng = engine.New(logger)
	}
	if scenarios == nil {
		scenarios = store.NewMemoryStore()
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	h := &handler{logger: logger, engine: eng, scenarios: scenarios, maxBodySize: maxBodySize}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/underwrite", h.handleUnderwrite)
	mux.HandleFunc("/api/brrrr", h.handleBRRRR)
	mux.HandleFunc("/api/syndication", h.handleSyndication)
	mux.HandleFunc("/api/sensitivity", h.handleSensitivity)
	mux.HandleFunc("/api/presets", h.handlePresets)
	mux.HandleFunc("/api/scenarios", h.handleScenarios)
	mux.HandleFunc("/api/scenarios/", h.handleScenarioByID)
	mux.HandleFunc("/api/export/config", h.handleConfigExport)
	mux.HandleFunc("/api/health", h.handleHealth)

	return mux
}

func (h *handler) handleUnderwrite(w http.ResponseWriter, r *http.Request) {
	var inputs deal.UnderwritingInputs
	if !h.decode(w, r, &inputs) {
		return
	}
	result, err := h.engine.RunUnderwriting(inputs)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, statusFor(result.Validation), result)
}

func (h *handler) handleBRRRR(w http.ResponseWriter, r *http.Request) {
	var inputs deal.BRRRRInputs
	if !h.decode(w, r, &inputs) {
		return
	}
	result, err := h.engine.RunBRRRR(inputs)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, statusFor(result.Validation), result)
}

func (h *handler) handleSyndication(w http.ResponseWriter, r *http.Request) {
	var inputs deal.SyndicationInputs
	if !h.decode(w, r, &inputs) {
		return
	}
	result, err := h.engine.RunSyndication(inputs)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, statusFor(result.Validation), result)
}

type sensitivityRequest struct {
	Calculator    string          `json:"calculator"`
	Field         string          `json:"field"`
	Perturbations []float64       `json:"perturbations"`
	Inputs        json.RawMessage `json:"inputs"`
}

func (h *handler) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req sensitivityRequest
	if !h.decode(w, r, &req) {
		return
	}

	switch req.Calculator {
	case config.CalculatorUnderwriting:
		var inputs deal.UnderwritingInputs
		if err := json.Unmarshal(req.Inputs, &inputs); err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid inputs: %w", err))
			return
		}
		table, err := h.engine.GenerateUnderwritingSensitivity(inputs, engine.UnderwritingField(req.Field), req.Perturbations)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		h.writeJSON(w, http.StatusOK, table)
	case config.CalculatorBRRRR:
		var inputs deal.BRRRRInputs
		if err := json.Unmarshal(req.Inputs, &inputs); err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid inputs: %w", err))
			return
		}
		table, err := h.engine.GenerateBRRRRSensitivity(inputs, engine.BRRRRField(req.Field), req.Perturbations)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		h.writeJSON(w, http.StatusOK, table)
	case config.CalculatorSyndication:
		var inputs deal.SyndicationInputs
		if err := json.Unmarshal(req.Inputs, &inputs); err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid inputs: %w", err))
			return
		}
		table, err := h.engine.GenerateSyndicationSensitivity(inputs, engine.SyndicationField(req.Field), req.Perturbations)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		h.writeJSON(w, http.StatusOK, table)
	default:
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown calculator %q", req.Calculator))
	}
}

func (h *handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	calculator := r.URL.Query().Get("calculator")
	name := r.URL.Query().Get("name")
	if calculator == "" || name == "" {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"names":       presets.Names(),
			"calculators": []string{config.CalculatorUnderwriting, config.CalculatorBRRRR, config.CalculatorSyndication},
		})
		return
	}

	var template interface{}
	var err error
	switch calculator {
	case config.CalculatorUnderwriting:
		template, err = presets.Underwriting(name)
	case config.CalculatorBRRRR:
		template, err = presets.BRRRR(name)
	case config.CalculatorSyndication:
		template, err = presets.Syndication(name)
	default:
		err = fmt.Errorf("unknown calculator %q", calculator)
	}
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	h.writeJSON(w, http.StatusOK, template)
}

func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		scenarios, err := h.scenarios.List(r.Context())
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
		h.writeJSON(w, http.StatusOK, scenarios)
	case http.MethodPost:
		var scenario store.Scenario
		if !h.decode(w, r, &scenario) {
			return
		}
		if err := h.scenarios.Save(r.Context(), &scenario); err != nil {
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, scenario)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

func (h *handler) handleScenarioByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/scenarios/")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("missing scenario id"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		scenario, err := h.scenarios.Load(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.writeError(w, http.StatusNotFound, err)
				return
			}
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
		h.writeJSON(w, http.StatusOK, scenario)
	case http.MethodDelete:
		if err := h.scenarios.Delete(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.writeError(w, http.StatusNotFound, err)
				return
			}
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

// handleConfigExport renders a preset as a ready-to-edit YAML deal file so
// API users can bootstrap a CLI config.
func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	calculator := r.URL.Query().Get("calculator")
	name := r.URL.Query().Get("name")
	if name == "" {
		name = presets.Base
	}

	conf := config.Configuration{Calculator: calculator}
	switch calculator {
	case config.CalculatorUnderwriting:
		inputs, err := presets.Underwriting(name)
		if err != nil {
			h.writeError(w, http.StatusNotFound, err)
			return
		}
		conf.Underwriting = &inputs
	case config.CalculatorBRRRR:
		inputs, err := presets.BRRRR(name)
		if err != nil {
			h.writeError(w, http.StatusNotFound, err)
			return
		}
		conf.BRRRR = &inputs
	case config.CalculatorSyndication:
		inputs, err := presets.Syndication(name)
		if err != nil {
			h.writeError(w, http.StatusNotFound, err)
			return
		}
		conf.Syndication = &inputs
	default:
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown calculator %q", calculator))
		return
	}

	// Round-trip through JSON so the YAML carries the same camelCase keys
	// the deal-file loader expects.
	jsonData, err := json.Marshal(conf)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to serialize config: %w", err))
		return
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(jsonData, &tree); err != nil {
		h.writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to serialize config: %w", err))
		return
	}
	data, err := yaml.Marshal(tree)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to serialize config: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", "attachment; filename=\"deal.yaml\"")
	_, _ = w.Write(data)
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads and parses a JSON request body, writing the error response
// itself when parsing fails.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return false
	}
	body := http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// statusFor maps a validation outcome to an HTTP status: invalid inputs are
// a 422 carrying the validation result, not a calculation failure.
func statusFor(validation deal.ValidationResult) int {
	if !validation.IsValid {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, err error) {
	h.logger.Debug("request failed",
		zap.String("op", "server.writeError"),
		zap.Int("status", status),
		zap.Error(err),
	)
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
