package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	httpserver "healthguard/internal/http"
	"healthguard/internal/llm"
	"healthguard/internal/logging"
	"healthguard/internal/refdata"
	"healthguard/pkg"
)

func TestMain(m *testing.M) {
	logging.Quiet()
	m.Run()
}

func newTestServer(mock *llm.Mock) *httptest.Server {
	srv := httpserver.NewServer(refdata.Default(), mock, nil)
	return httptest.NewServer(srv.Router())
}

func createCase(t *testing.T, ts *httptest.Server) pkg.CreateCaseResponse {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/cases", "application/json", nil)
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusCreated)

	var created pkg.CreateCaseResponse
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func postMessage(t *testing.T, ts *httptest.Server, caseID pkg.CaseID, content string) *http.Response {
	t.Helper()
	body, err := json.Marshal(pkg.ChatRequest{Content: content})
	gt.NoError(t, err)
	resp, err := http.Post(ts.URL+"/api/cases/"+caseID.String()+"/messages", "application/json", bytes.NewReader(body))
	gt.NoError(t, err)
	return resp
}

func TestCreateCase(t *testing.T) {
	ts := newTestServer(&llm.Mock{})
	defer ts.Close()

	created := createCase(t, ts)
	gt.True(t, created.CaseID != "")
	gt.Equal(t, created.Greeting.Role, pkg.RoleModel)
	gt.Equal(t, created.Greeting.Content, refdata.Greeting)
	gt.Equal(t, created.Phase, "awaiting_demographics")
	gt.Equal(t, created.Placeholder, refdata.PlaceholderIntake)
}

func TestChatTurn(t *testing.T) {
	mock := &llm.Mock{
		GenerateFunc: func(ctx context.Context, in llm.GenerateInput) (string, error) {
			return "How severe is the cough on a scale of 1-10?", nil
		},
	}
	ts := newTestServer(mock)
	defer ts.Close()

	created := createCase(t, ts)

	resp := postMessage(t, ts, created.CaseID, "25 male, severe cough for weeks")
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var chat pkg.ChatResponse
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&chat))
	gt.Equal(t, chat.RiskLevel, pkg.RiskModerate)
	gt.Equal(t, chat.Reply.Role, pkg.RoleModel)
	gt.Nil(t, chat.Warning)
	gt.Equal(t, chat.Summary.Age, "25")
	gt.Equal(t, chat.Summary.Gender, pkg.GenderMale)
	gt.Equal(t, chat.Phase, "triage")
	gt.Equal(t, chat.Placeholder, refdata.PlaceholderTriage)

	// Snapshot reflects the turn: greeting, user message, reply.
	getResp, err := http.Get(ts.URL + "/api/cases/" + created.CaseID.String())
	gt.NoError(t, err)
	defer getResp.Body.Close()
	gt.Equal(t, getResp.StatusCode, http.StatusOK)

	var snapshot pkg.CaseSnapshot
	gt.NoError(t, json.NewDecoder(getResp.Body).Decode(&snapshot))
	gt.A(t, snapshot.Transcript).Length(3)
	gt.Equal(t, snapshot.Summary.RiskLevel, pkg.RiskModerate)
}

func TestChatTurn_HighRisk(t *testing.T) {
	mock := &llm.Mock{
		GenerateFunc: func(ctx context.Context, in llm.GenerateInput) (string, error) {
			return "Call emergency services immediately.", nil
		},
	}
	ts := newTestServer(mock)
	defer ts.Close()

	created := createCase(t, ts)

	resp := postMessage(t, ts, created.CaseID, "crushing chest pain, can't breathe")
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var chat pkg.ChatResponse
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&chat))
	gt.Equal(t, chat.RiskLevel, pkg.RiskHigh)
	gt.NotNil(t, chat.Warning)
	gt.True(t, chat.Warning.SyntheticWarning)
}

func TestChatTurn_BadRequests(t *testing.T) {
	ts := newTestServer(&llm.Mock{})
	defer ts.Close()

	created := createCase(t, ts)

	resp := postMessage(t, ts, created.CaseID, "   ")
	resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusBadRequest)

	resp = postMessage(t, ts, pkg.CaseID("00000000-0000-0000-0000-000000000000"), "hello")
	resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusNotFound)
}

func TestResetCase(t *testing.T) {
	mock := &llm.Mock{
		GenerateFunc: func(ctx context.Context, in llm.GenerateInput) (string, error) {
			return "Noted.", nil
		},
	}
	ts := newTestServer(mock)
	defer ts.Close()

	created := createCase(t, ts)
	resp := postMessage(t, ts, created.CaseID, "34 female, severe migraine")
	resp.Body.Close()

	resetResp, err := http.Post(ts.URL+"/api/cases/"+created.CaseID.String()+"/reset", "application/json", nil)
	gt.NoError(t, err)
	defer resetResp.Body.Close()
	gt.Equal(t, resetResp.StatusCode, http.StatusOK)

	var reset pkg.CreateCaseResponse
	gt.NoError(t, json.NewDecoder(resetResp.Body).Decode(&reset))
	gt.Equal(t, reset.CaseID, created.CaseID)
	gt.Equal(t, reset.Phase, "awaiting_demographics")

	getResp, err := http.Get(ts.URL + "/api/cases/" + created.CaseID.String())
	gt.NoError(t, err)
	defer getResp.Body.Close()

	var snapshot pkg.CaseSnapshot
	gt.NoError(t, json.NewDecoder(getResp.Body).Decode(&snapshot))
	gt.A(t, snapshot.Transcript).Length(1)
	gt.Equal(t, snapshot.Summary.RiskLevel, pkg.RiskLow)
	gt.Equal(t, snapshot.Summary.Age, "")
}

func TestOutbreaks(t *testing.T) {
	ts := newTestServer(&llm.Mock{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/outbreaks")
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var records []pkg.OutbreakRecord
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	gt.A(t, records).Length(5)
	gt.Equal(t, records[0].City, "Delhi")
	gt.Equal(t, records[0].DiseaseName, "Dengue Fever")
}

func TestStats(t *testing.T) {
	ts := newTestServer(&llm.Mock{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stats")
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var stats map[string][]pkg.ChartDataPoint
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	gt.True(t, len(stats["queries"]) > 0)
	gt.True(t, len(stats["risk_distribution"]) > 0)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(&llm.Mock{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)
}
