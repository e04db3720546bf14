package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"multisig/domain"
	"multisig/infrastructure/memstore"
	"multisig/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, presign string) *httptest.Server {
	engine, err := domain.NewPolicyEngine(domain.DefaultPolicyTiers())
	require.NoError(t, err)

	store := memstore.New()
	interactor := usecase.NewAuthorizationInteractor(store.Treasuries(), store.Proposals(), nil, engine,
		domain.NewEmergencyGovernor(domain.DefaultEmergencyCooldown),
		usecase.AuthorizationSettings{Presign: presign, Precision: domain.DefaultPrecision()})

	server := httptest.NewServer(NewHandler(interactor).Router())
	t.Cleanup(server.Close)
	return server
}

type response struct {
	Ok         bool              `json:"ok"`
	Error      string            `json:"error"`
	Kind       string            `json:"kind"`
	Treasury   domain.Treasury   `json:"treasury"`
	Treasuries []domain.Treasury `json:"treasuries"`
	Proposal   domain.Proposal   `json:"proposal"`
	Proposals  []domain.Proposal `json:"proposals"`
}

func call(t *testing.T, server *httptest.Server, method string, path string, body string) (int, response) {
	request, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")

	resp, err := server.Client().Do(request)
	require.NoError(t, err)
	defer resp.Body.Close()

	var r response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return resp.StatusCode, r
}

func TestTreasuryFlow(t *testing.T) {
	server := newTestServer(t, domain.PresignNone)

	status, r := call(t, server, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, r.Ok)

	status, r = call(t, server, http.MethodPost, "/treasuries", `{"name":"T1","signers":["A","B","C"]}`)
	require.Equal(t, http.StatusOK, status)
	treasuryID := r.Treasury.ID
	require.NotEmpty(t, treasuryID)

	status, r = call(t, server, http.MethodPost, "/treasuries/"+treasuryID+"/deposit", `{"token":"USDC","amount":5000}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "5000", r.Treasury.Balance("USDC").String())

	status, r = call(t, server, http.MethodPost, "/treasuries/"+treasuryID+"/proposals", `{
		"creator":"A","category":"Operations","metadata":"infra",
		"transactions":[{"to":"X","token":"USDC","amount":"500","note":""}]
	}`)
	require.Equal(t, http.StatusOK, status)
	proposalID := r.Proposal.ID
	assert.Equal(t, "0.4", r.Proposal.RequiredSignerRatio.String())
	assert.Empty(t, r.Proposal.Signatures)

	status, r = call(t, server, http.MethodPost, "/proposals/"+proposalID+"/execute", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, r.Ok)
	assert.Equal(t, string(domain.KindQuorumNotMet), r.Kind)

	status, r = call(t, server, http.MethodPost, "/proposals/"+proposalID+"/sign", `{"signer":"Mallory"}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, string(domain.KindUnauthorizedSigner), r.Kind)

	for _, signer := range []string{"A", "B"} {
		status, _ = call(t, server, http.MethodPost, "/proposals/"+proposalID+"/sign", `{"signer":"`+signer+`"}`)
		require.Equal(t, http.StatusOK, status)
	}

	status, r = call(t, server, http.MethodPost, "/proposals/"+proposalID+"/execute", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.ProposalStatusExecuted, r.Proposal.Status)
	assert.Equal(t, "4500", r.Treasury.Balance("USDC").String())

	status, r = call(t, server, http.MethodPost, "/proposals/"+proposalID+"/execute", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, string(domain.KindAlreadyExecuted), r.Kind)

	status, r = call(t, server, http.MethodGet, "/treasuries/"+treasuryID+"/proposals", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, r.Proposals, 1)

	status, r = call(t, server, http.MethodGet, "/treasuries", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, r.Treasuries, 1)
}

func TestRejections(t *testing.T) {
	server := newTestServer(t, domain.PresignAll)

	status, r := call(t, server, http.MethodPost, "/treasuries", `{"name":"T1","signers":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, string(domain.KindValidation), r.Kind)

	status, r = call(t, server, http.MethodPost, "/treasuries/missing/deposit", `{"token":"USDC","amount":"1"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, string(domain.KindNotFound), r.Kind)

	status, r = call(t, server, http.MethodPost, "/proposals/missing/execute", "")
	assert.Equal(t, http.StatusNotFound, status)

	_, r = call(t, server, http.MethodPost, "/treasuries", `{"name":"T1","signers":["A"]}`)
	treasuryID := r.Treasury.ID

	status, r = call(t, server, http.MethodPost, "/treasuries/"+treasuryID+"/proposals", `{
		"creator":"A","category":"Payroll","metadata":"m",
		"transactions":[{"to":"X","token":"USDC","amount":"1"}]
	}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, string(domain.KindInvalidCategory), r.Kind)

	status, r = call(t, server, http.MethodPost, "/treasuries/"+treasuryID+"/proposals", `{
		"creator":"A","category":"Marketing","metadata":"m",
		"transactions":[{"to":"X","token":"USDC","amount":"100"}]
	}`)
	require.Equal(t, http.StatusOK, status)

	status, r = call(t, server, http.MethodPost, "/proposals/"+r.Proposal.ID+"/execute", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, string(domain.KindInsufficientFunds), r.Kind)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(domain.ErrorNotFound))
	assert.Equal(t, http.StatusConflict, StatusOf(domain.ErrorEmergencyCooldownActive))
	assert.Equal(t, http.StatusConflict, StatusOf(domain.ErrorTimeLocked))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestInternalErrorsAreMasked(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), `"kind":"Internal"`)
}

func TestCorsPreflight(t *testing.T) {
	server := newTestServer(t, domain.PresignAll)

	request, err := http.NewRequest(http.MethodOptions, server.URL+"/treasuries", nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(request)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
