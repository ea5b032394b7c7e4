package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abduldattijo/investment-data-app/internal/match"
	"github.com/abduldattijo/investment-data-app/internal/model"
)

type stubReasoner struct {
	answers map[string]string
	err     error
}

func (s *stubReasoner) Complete(_ context.Context, prompt string, _ float64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for prefix, answer := range s.answers {
		if strings.HasPrefix(prompt, prefix) {
			return answer, nil
		}
	}
	return "", errors.New("unexpected prompt")
}

func testProfiles() []model.VCProfile {
	var out []model.VCProfile
	for i, name := range []string{"Acme Ventures", "Beacon Capital", "Cedar Partners", "Dune Fund", "Elm Seed",
		"Fir Capital", "Grove VC", "Hazel Partners", "Iris Ventures", "Juniper Fund", "Kite Capital", "Larch VC"} {
		p := model.NewVCProfile(model.FirmInput{Name: name, Website: "https://example.com/" + name})
		p.Status = model.StatusActive
		if i%2 == 0 {
			p.SectorFocus = []string{"Fintech"}
			p.PreferredStage = []string{"Seed"}
		} else {
			p.SectorFocus = []string{"Health Tech"}
			p.PreferredStage = []string{"Series A"}
		}
		out = append(out, p)
	}
	return out
}

func newTestServer(t *testing.T, r match.Reasoner) (*Server, *Metrics) {
	t.Helper()
	metrics := NewMetrics()
	engine := match.New(r, match.WithObserver(metrics.ObserveMatch))
	return NewServer(testProfiles(), engine, metrics), metrics
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rr := do(t, srv.Handler(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(12), resp["profiles"])
	assert.Equal(t, false, resp["reasoner"])
}

func TestOptions(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rr := do(t, srv.Handler(), http.MethodGet, "/options", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp["sectors"], 32)
	assert.Contains(t, resp["check_ranges"], "$5M+")
}

func TestList(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	t.Run("pages to ten with note", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/vcs", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var resp listResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 12, resp.Total)
		assert.Equal(t, 10, resp.Shown)
		assert.Len(t, resp.Profiles, 10)
		assert.Equal(t, "Showing 10 of 12 results. Use more specific filters to narrow down.", resp.Note)
	})

	t.Run("filtered", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/vcs?sector=fintech&stage=Seed", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var resp listResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 6, resp.Total)
		assert.Empty(t, resp.Note)
	})

	t.Run("query and limit", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/vcs?q=capital&limit=2", nil)
		var resp listResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, 2, resp.Shown)
	})

	t.Run("bad limit", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/vcs?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetByName(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rr := do(t, h, http.MethodGet, "/vcs/acme%20ventures", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var p model.VCProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "Acme Ventures", p.Name)

	rr = do(t, h, http.MethodGet, "/vcs/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMatch_Fallback(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rr := do(t, h, http.MethodPost, "/match", matchRequest{
		Startup: "A fintech payments startup raising a seed round",
		Limit:   3,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp matchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 3)
	assert.Equal(t, "Acme Ventures", resp.Matches[0].Name)
	assert.Equal(t, 55, resp.Matches[0].Score)
	assert.Equal(t, match.FallbackCaution, resp.Matches[0].Caution)
	assert.Nil(t, resp.Attributes)

	metricsBody := do(t, h, http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, metricsBody, `vcmatch_matches_total{path="fallback"} 1`)
	assert.Contains(t, metricsBody, `vcmatch_http_requests_total{code="200",method="POST",route="/match"} 1`)
	assert.Contains(t, metricsBody, "vcmatch_profiles_loaded 12")
}

func TestMatch_WithReasoner(t *testing.T) {
	r := &stubReasoner{answers: map[string]string{
		"You are a VC matching expert": `[{"name": "Beacon Capital", "match_score": 91, "match_reason": "Health focus"}]`,
		"Extract the following":        `{"sector": "Health Tech", "stage": "Series A"}`,
	}}
	srv, _ := newTestServer(t, r)

	rr := do(t, srv.Handler(), http.MethodPost, "/match", matchRequest{
		Startup:  "Digital health platform at Series A",
		Criteria: &model.Criteria{Sector: "health tech"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp matchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "Beacon Capital", resp.Matches[0].Name)
	assert.Equal(t, 91, resp.Matches[0].Score)
	require.NotNil(t, resp.Attributes)
	assert.Equal(t, "Health Tech", resp.Attributes.Sector)
}

func TestMatch_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodPost, "/match", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/match", matchRequest{Startup: "   "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "startup description is required")
}

func TestAdvise(t *testing.T) {
	t.Run("no reasoner", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)
		rr := do(t, srv.Handler(), http.MethodPost, "/advise", adviseRequest{
			Startup: "A fintech payments startup raising a seed round",
		})
		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, match.UnavailableAdvice, resp["advice"])
		assert.NotEmpty(t, resp["matches"])
	})

	t.Run("given matches", func(t *testing.T) {
		r := &stubReasoner{answers: map[string]string{"As a VC fundraising expert": "  - Lead with traction  "}}
		srv, _ := newTestServer(t, r)
		m := model.Match{VCProfile: testProfiles()[0], Score: 80, Reason: "fit"}
		rr := do(t, srv.Handler(), http.MethodPost, "/advise", adviseRequest{
			Startup: "payments",
			Matches: []model.Match{m},
		})
		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "- Lead with traction", resp["advice"])
	})

	t.Run("empty matches", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubReasoner{})
		req := httptest.NewRequest(http.MethodPost, "/advise", strings.NewReader(`{"startup": "payments", "matches": []}`))
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, match.NoMatchesAdvice, resp["advice"])
	})
}

func TestCORS(t *testing.T) {
	metrics := NewMetrics()
	srv := NewServer(nil, match.New(nil), metrics, WithAllowedOrigins([]string{"https://app.example.com"}))

	req := httptest.NewRequest(http.MethodOptions, "/vcs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetProfiles(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.SetProfiles(nil)

	rr := do(t, srv.Handler(), http.MethodGet, "/vcs", nil)
	var resp listResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Profiles)
}
