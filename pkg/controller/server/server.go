package server

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/repository"
	"github.com/m-mizutani/pqscan/pkg/utils/errutil"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

type Server struct {
	mux *chi.Mux
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	// nosemgrep: go.lang.security.audit.xss.no-direct-write-to-responsewriter.no-direct-write-to-responsewriter
	// Why: The response data is not from user input
	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Default().Error("fail to marshal response", slog.Any("error", err))
		safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safeWrite(w, code, body)
}

type config struct {
	ghSecret    types.GitHubAppSecret
	integration *model.ScannerIntegration
}

type Option func(*config)

func WithGitHubSecret(secret types.GitHubAppSecret) Option {
	return func(cfg *config) {
		cfg.ghSecret = secret
	}
}

// WithScannerIntegration attaches a third-party scanner to every job created from a webhook.
func WithScannerIntegration(integration *model.ScannerIntegration) Option {
	return func(cfg *config) {
		cfg.integration = integration
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(preProcess)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})
	r.Route("/webhook", func(r chi.Router) {
		r.Route("/github", func(r chi.Router) {
			r.Post("/app", func(w http.ResponseWriter, r *http.Request) {
				job, err := validateGitHubAppEvent(r, cfg.ghSecret)
				if err != nil {
					errutil.HandleError(r.Context(), "fail to validate GitHub App event", err)
					safeWrite(w, http.StatusBadRequest, []byte(`{"status":"error","message":"invalid webhook event"}`))
					return
				}

				// If no scan is required, return immediately
				if job == nil {
					safeWrite(w, http.StatusOK, []byte(`{"status":"ok","message":"no scan required"}`))
					return
				}
				if cfg.integration != nil {
					integration := *cfg.integration
					job.Integration = &integration
				}

				// Submit only persists the job; the scheduler picks it up on its next tick.
				id, err := uc.Submit(r.Context(), job)
				if err != nil {
					errutil.HandleError(r.Context(), "fail to submit scan job", err)
					safeWrite(w, http.StatusInternalServerError, []byte(`{"status":"error","message":"failed to submit scan job"}`))
					return
				}

				writeJSON(w, http.StatusAccepted, map[string]string{
					"status": "accepted",
					"job_id": id.String(),
				})
			})
		})
	})
	r.Get("/job/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := types.ScanJobID(chi.URLParam(r, "id"))
		job, err := uc.Get(r.Context(), id)
		if err != nil {
			if repository.IsNotFound(err) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
				return
			}
			errutil.HandleError(r.Context(), "fail to get scan job", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get job"})
			return
		}

		writeJSON(w, http.StatusOK, job)
	})

	return &Server{
		mux: r,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}
