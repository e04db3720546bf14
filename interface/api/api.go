package api

import (
	"encoding/json"
	"log"
	"multisig/domain"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// Service is the part of the authorization interactor the HTTP layer calls.
type Service interface {
	CreateTreasury(name string, signers []string) (*domain.Treasury, error)
	ListTreasuries() ([]domain.Treasury, error)
	Deposit(treasuryID string, token string, amount decimal.Decimal) (*domain.Treasury, error)
	CreateProposal(treasuryID string, request domain.ProposalRequest) (*domain.Proposal, error)
	ListProposals(treasuryID string) ([]domain.Proposal, error)
	SignProposal(proposalID string, signer string) (*domain.Proposal, error)
	ExecuteProposal(proposalID string) (*domain.Proposal, *domain.Treasury, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Router mounts the treasury routes and the metrics endpoint.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "MultiSig Treasury Running"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/treasuries", func(r chi.Router) {
		r.Post("/", h.createTreasury)
		r.Get("/", h.listTreasuries)
		r.Post("/{id}/deposit", h.deposit)
		r.Post("/{id}/proposals", h.createProposal)
		r.Get("/{id}/proposals", h.listProposals)
	})

	r.Route("/proposals/{pid}", func(r chi.Router) {
		r.Post("/sign", h.signProposal)
		r.Post("/execute", h.executeProposal)
	})

	return r
}

func (h *Handler) createTreasury(w http.ResponseWriter, r *http.Request) {
	var request domain.TreasuryRequest
	if !decode(w, r, &request) {
		return
	}
	treasury, err := h.service.CreateTreasury(request.Name, request.Signers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "treasury": treasury})
}

func (h *Handler) listTreasuries(w http.ResponseWriter, r *http.Request) {
	treasuries, err := h.service.ListTreasuries()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "treasuries": treasuries})
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	var request domain.DepositRequest
	if !decode(w, r, &request) {
		return
	}
	treasury, err := h.service.Deposit(chi.URLParam(r, "id"), request.Token, request.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "treasury": treasury})
}

func (h *Handler) createProposal(w http.ResponseWriter, r *http.Request) {
	var request domain.ProposalRequest
	if !decode(w, r, &request) {
		return
	}
	proposal, err := h.service.CreateProposal(chi.URLParam(r, "id"), request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "proposal": proposal})
}

func (h *Handler) listProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.service.ListProposals(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "proposals": proposals})
}

func (h *Handler) signProposal(w http.ResponseWriter, r *http.Request) {
	var request domain.SignRequest
	if !decode(w, r, &request) {
		return
	}
	proposal, err := h.service.SignProposal(chi.URLParam(r, "pid"), request.Signer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "proposal": proposal})
}

func (h *Handler) executeProposal(w http.ResponseWriter, r *http.Request) {
	proposal, treasury, err := h.service.ExecuteProposal(chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "proposal": proposal, "treasury": treasury})
}

//-------------------------------------------------------------------

func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dest)
	if err != nil {
		writeError(w, domain.NewError(domain.KindValidation, "malformed request body: %v", err.Error()))
		return false
	}
	return true
}

func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorizedSigner:
		return http.StatusForbidden
	case domain.KindValidation, domain.KindInvalidCategory:
		return http.StatusBadRequest
	case domain.KindAlreadyExecuted, domain.KindQuorumNotMet, domain.KindTimeLocked,
		domain.KindEmergencyCooldownActive, domain.KindInsufficientFunds:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeJSON(w, status, map[string]interface{}{
		"ok":    false,
		"error": message,
		"kind":  domain.KindOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("🔴 writing response - %v\n", err.Error())
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
