package inference

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/oranjParker/mlapi/internal/core"
	"github.com/oranjParker/mlapi/internal/llm_provider"
	"github.com/oranjParker/mlapi/internal/scrape"
	"github.com/oranjParker/mlapi/internal/utils"
)

const (
	StatusDone     = "done"
	SuccessMessage = "Dataset generated from ML API!"

	maxBodyBytes = 1 << 20
)

type Service struct {
	provider llm_provider.Provider
	notifier core.Sink[*core.ScrapeNotification]
}

func NewService(provider llm_provider.Provider, notifier core.Sink[*core.ScrapeNotification]) *Service {
	return &Service{
		provider: provider,
		notifier: notifier,
	}
}

// Routes returns the HTTP handler for the service with middleware applied.
func (s *Service) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /process", s.Process)
	mux.HandleFunc("GET /health", s.Health)

	return utils.RequestID(utils.AllowCORS(mux))
}

// Handle runs one inference: simulated work first, then the scrape
// notification when promptId is set, then the fixed response. Notification
// failures never reach the caller.
func (s *Service) Handle(ctx context.Context, req *core.InferenceRequest) (*core.InferenceResponse, error) {
	reqID := utils.RequestIDFromContext(ctx)

	promptID := "<none>"
	if len(req.PromptID) > 0 {
		promptID = string(req.PromptID)
	}
	log.Printf("[Inference] %s received prompt: %q", reqID, req.Prompt)
	log.Printf("[Inference] %s promptId: %s", reqID, promptID)

	result, err := s.provider.Infer(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}

	if core.IsTruthy(req.PromptID) && s.notifier != nil {
		log.Printf("[Inference] %s starting fake scraping for promptId=%s", reqID, promptID)

		notification := scrape.NewNotification(req.PromptID)
		if err := s.notifier.Write(context.WithoutCancel(ctx), notification); err != nil {
			log.Printf("[Inference] %s error sending scrape notification: %v", reqID, err)
		}
	}

	return &core.InferenceResponse{
		Status:            StatusDone,
		GeneratedKeywords: result.Keywords,
		Vector:            result.Vector,
		Message:           SuccessMessage,
	}, nil
}

func (s *Service) Process(w http.ResponseWriter, r *http.Request) {
	req := decodeRequest(w, r)

	resp, err := s.Handle(r.Context(), req)
	if err != nil {
		log.Printf("[Inference] %s inference failed: %v", utils.RequestIDFromContext(r.Context()), err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "inference failed"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "mlapi",
	})
}

// decodeRequest never fails: an empty, oversized, unreadable or non-object
// body is treated as {}.
func decodeRequest(w http.ResponseWriter, r *http.Request) *core.InferenceRequest {
	req := &core.InferenceRequest{}
	if r.Body == nil {
		return req
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Printf("[Inference] %s request body exceeds %d bytes, ignoring prompt and promptId",
				utils.RequestIDFromContext(r.Context()), tooLarge.Limit)
		}
		return req
	}
	if len(body) == 0 {
		return req
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return req
	}

	if raw, ok := fields["prompt"]; ok {
		var prompt string
		if err := json.Unmarshal(raw, &prompt); err == nil {
			req.Prompt = prompt
		} else if string(raw) != "null" {
			req.Prompt = string(raw)
		}
	}
	req.PromptID = fields["promptId"]

	return req
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Inference] failed to write response: %v", err)
	}
}
