package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	controller "github.com/safesight-lab/safesight/pkg/controller/http"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/repository/memory"
	"github.com/safesight-lab/safesight/pkg/service/index"
	"github.com/safesight-lab/safesight/pkg/usecase"
)

type stubSession struct{}

func (s *stubSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return &gollem.Response{Texts: []string{"stub answer"}}, nil
}

func (s *stubSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *stubSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *stubSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *stubSession) History() (*gollem.History, error) { return nil, nil }

func (s *stubSession) AppendHistory(*gollem.History) error { return nil }

func (s *stubSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type stubLLM struct{}

func (c *stubLLM) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return &stubSession{}, nil
}

func (c *stubLLM) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	out := make([][]float64, len(input))
	for i := range input {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

func newTestServer() *controller.Server {
	uc := usecase.New(memory.New(),
		usecase.WithLLM(&stubLLM{}),
		usecase.WithIndex(index.NewMemory()),
	)
	return controller.New(uc)
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func submitBody(title string) map[string]any {
	return map[string]any{
		"title":           title,
		"what_happened":   "Forklift reversed without spotter",
		"risk_level":      "High",
		"severity":        "Near Miss",
		"injury_category": "No Injury",
		"actions": []map[string]any{
			{"action": "Install mirrors", "owner": "Jane", "timing": "<30 days"},
		},
	}
}

func TestIncidentSubmitAndList(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/api/incidents/", submitBody("Forklift near miss"))
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var created struct {
		CaseID string `json:"case_id"`
		Title  string `json:"title"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created)).Required()
	gt.Value(t, created.CaseID).Equal("CASE-001")
	gt.Value(t, created.Title).Equal("Forklift near miss")

	rec = doJSON(t, srv, http.MethodPost, "/api/incidents/", submitBody("Second incident"))
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, srv, http.MethodGet, "/api/incidents/?limit=1", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var listed []struct {
		Title string `json:"title"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed)).Required()
	gt.Array(t, listed).Length(1)
	gt.Value(t, listed[0].Title).Equal("Second incident")
}

func TestIncidentSubmitMissingTitle(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/api/incidents/", submitBody(""))
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	var body map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
	gt.B(t, body["error"] != "").True()
}

func TestChatSessionLifecycle(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/api/incidents/", submitBody("Forklift near miss"))
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, srv, http.MethodPost, "/api/chat", map[string]any{
		"query": "What forklift incidents happened?",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		SessionID string `json:"session_id"`
		Answer    string `json:"answer"`
		Turns     []struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"turns"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.B(t, resp.SessionID != "").True()
	gt.Value(t, resp.Answer).Equal("stub answer")
	gt.Array(t, resp.Turns).Length(2)

	// The session cookie carries the ID
	cookies := rec.Result().Cookies()
	gt.Array(t, cookies).Length(1)
	gt.Value(t, cookies[0].Name).Equal("session_id")
	gt.Value(t, cookies[0].Value).Equal(resp.SessionID)

	// Follow-up with the cookie accumulates turns in the same session
	rec = doJSON(t, srv, http.MethodPost, "/api/chat", map[string]any{
		"query": "Tell me more",
	}, cookies[0])
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.SessionID).Equal(cookies[0].Value)
	gt.Array(t, resp.Turns).Length(4)

	// Clearing expires the cookie
	rec = doJSON(t, srv, http.MethodDelete, "/api/chat", nil, cookies[0])
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	cleared := rec.Result().Cookies()
	gt.Array(t, cleared).Length(1)
	gt.B(t, cleared[0].MaxAge < 0).True()
}

func TestChatEmptyQuery(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]any{"query": "  "})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestClusteringEndpoints(t *testing.T) {
	srv := newTestServer()

	for _, title := range []string{"a", "b", "c", "d"} {
		rec := doJSON(t, srv, http.MethodPost, "/api/incidents/", submitBody(title))
		gt.Value(t, rec.Code).Equal(http.StatusCreated)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/clustering/run", map[string]any{"k": 2})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var result model.ClusteringResult
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result)).Required()
	gt.Value(t, result.K).Equal(2)
	gt.Value(t, len(result.Assignments)).Equal(4)

	cookies := rec.Result().Cookies()
	gt.Array(t, cookies).Length(1)

	// The run is cached on the session
	rec = doJSON(t, srv, http.MethodGet, "/api/clustering/last", nil, cookies[0])
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	// No session, no cached result
	rec = doJSON(t, srv, http.MethodGet, "/api/clustering/last", nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestClusteringRunWithoutIncidents(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/api/clustering/run", nil)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestSeverityPredictUnconfigured(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/api/severity/predict", map[string]any{
		"description": "Worker cut hand on blade",
	})
	gt.Value(t, rec.Code).Equal(http.StatusBadGateway)
}

func TestOptions(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodGet, "/api/options", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var opts model.FormOptions
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts)).Required()
	gt.B(t, len(opts.RiskLevels) > 0).True()
	gt.Value(t, opts.MaxActionsPerSubmission).Equal(15)
}
