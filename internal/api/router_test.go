package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/hourglass-gateway/internal/app"
	"github.com/nekogravitycat/hourglass-gateway/internal/pkg/response"
)

const testAPIKey = "test-key-1234567890"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// recordedRequest captures one call the fake upstream received.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// fakeUpstream is a programmable stand-in for the Hourglass API.
type fakeUpstream struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	f := &fakeUpstream{status: http.StatusOK, body: `{"ok":true}`}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		status, respBody := f.status, f.body
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

func (f *fakeUpstream) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest{}, f.requests...)
}

func newTestGateway(t *testing.T, apiKey string) (*gin.Engine, *fakeUpstream) {
	upstream := newFakeUpstream(t)

	container := app.NewContainer(app.Config{
		UpstreamBaseURL: upstream.server.URL,
		APIKey:          apiKey,
		UpstreamTimeout: 5 * time.Second,
		Logger:          zap.NewNop(),
	})
	t.Cleanup(container.Upstream.Close)

	return container.Router, upstream
}

func executeRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:5173")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorDetail(t *testing.T, w *httptest.ResponseRecorder) any {
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Detail
}

func TestListResources(t *testing.T) {
	router, upstream := newTestGateway(t, testAPIKey)

	t.Run("defaults to activeOnly=true", func(t *testing.T) {
		w := executeRequest(router, "GET", "/api/resources", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())

		reqs := upstream.recorded()
		require.Len(t, reqs, 1)
		assert.Equal(t, "/api/resources", reqs[0].Path)
		assert.Equal(t, "true", reqs[0].Query.Get("activeOnly"))
		assert.False(t, reqs[0].Query.Has("resourceType"))
		assert.False(t, reqs[0].Query.Has("serviceOffering"))
	})

	t.Run("forwards only present fields, activeOnly lowercased", func(t *testing.T) {
		w := executeRequest(router, "GET", "/api/resources?activeOnly=false&resourceType=COURT", nil)
		require.Equal(t, http.StatusOK, w.Code)

		reqs := upstream.recorded()
		last := reqs[len(reqs)-1]
		assert.Equal(t, "false", last.Query.Get("activeOnly"))
		assert.Equal(t, "COURT", last.Query.Get("resourceType"))
		assert.False(t, last.Query.Has("serviceOffering"))
	})

	t.Run("carries the API key header", func(t *testing.T) {
		executeRequest(router, "GET", "/api/resources", nil)
		reqs := upstream.recorded()
		last := reqs[len(reqs)-1]
		assert.Equal(t, testAPIKey, last.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", last.Header.Get("Content-Type"))
	})

	t.Run("identical queries build identical outbound requests", func(t *testing.T) {
		executeRequest(router, "GET", "/api/resources?serviceOffering=8&activeOnly=true", nil)
		executeRequest(router, "GET", "/api/resources?serviceOffering=8&activeOnly=true", nil)

		reqs := upstream.recorded()
		require.GreaterOrEqual(t, len(reqs), 2)
		a, b := reqs[len(reqs)-2], reqs[len(reqs)-1]
		assert.Equal(t, a.Query, b.Query)
		assert.Equal(t, a.Path, b.Path)
	})

	t.Run("rejects a malformed activeOnly", func(t *testing.T) {
		before := len(upstream.recorded())
		w := executeRequest(router, "GET", "/api/resources?activeOnly=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, upstream.recorded(), before)
	})
}

func TestCreateResource(t *testing.T) {
	router, upstream := newTestGateway(t, testAPIKey)

	t.Run("missing name is rejected before any upstream call", func(t *testing.T) {
		w := executeRequest(router, "POST", "/api/resources", gin.H{"description": "a court"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "name is required", errorDetail(t, w))
		assert.Empty(t, upstream.recorded())
	})

	t.Run("missing description is rejected before any upstream call", func(t *testing.T) {
		w := executeRequest(router, "POST", "/api/resources", gin.H{"name": "Court 1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "description is required", errorDetail(t, w))
		assert.Empty(t, upstream.recorded())
	})

	t.Run("injects the fixed category and default externalId", func(t *testing.T) {
		w := executeRequest(router, "POST", "/api/resources", gin.H{
			"name":        "Court 1",
			"description": "a court",
		})
		require.Equal(t, http.StatusOK, w.Code)

		reqs := upstream.recorded()
		require.Len(t, reqs, 1)
		assert.Equal(t, "POST", reqs[0].Method)
		assert.Equal(t, "/api/resources", reqs[0].Path)
		assert.JSONEq(t, `{
			"name": "Court 1",
			"description": "a court",
			"externalId": "9",
			"resourceType": {"id": 25},
			"serviceOffering": {"id": 8}
		}`, string(reqs[0].Body))
	})

	t.Run("keeps a client-supplied externalId", func(t *testing.T) {
		executeRequest(router, "POST", "/api/resources", gin.H{
			"name":        "Court 2",
			"description": "another court",
			"externalId":  "42",
		})

		reqs := upstream.recorded()
		last := reqs[len(reqs)-1]

		var payload map[string]any
		require.NoError(t, json.Unmarshal(last.Body, &payload))
		assert.Equal(t, "42", payload["externalId"])
	})
}

func TestCreateSchedule(t *testing.T) {
	router, upstream := newTestGateway(t, testAPIKey)

	t.Run("empty resources is rejected before any upstream call", func(t *testing.T) {
		w := executeRequest(router, "POST", "/api/schedules", gin.H{
			"resources": []gin.H{},
			"timeslot":  gin.H{"start": "a", "end": "b"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "resources must be a non-empty array", errorDetail(t, w))
		assert.Empty(t, upstream.recorded())
	})

	t.Run("missing timeslot is rejected before any upstream call", func(t *testing.T) {
		w := executeRequest(router, "POST", "/api/schedules", gin.H{
			"resources": []gin.H{{"id": 5}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "timeslot is required", errorDetail(t, w))
		assert.Empty(t, upstream.recorded())
	})

	t.Run("non-integer resource id is rejected", func(t *testing.T) {
		w := executeRequest(router, "POST", "/api/schedules", gin.H{
			"resources": []gin.H{{"id": "abc"}},
			"timeslot":  gin.H{"start": "a", "end": "b"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "resources[0].id must be an integer", errorDetail(t, w))
		assert.Empty(t, upstream.recorded())
	})

	t.Run("strips everything but the first resource id and the timeslot bounds", func(t *testing.T) {
		w := executeRequest(router, "POST", "/api/schedules", gin.H{
			"resources": []gin.H{
				{"id": 5, "name": "Court 1", "active": true},
				{"id": 6},
			},
			"timeslot": gin.H{
				"start": "2025-06-01T10:00:00Z",
				"end":   "2025-06-01T11:00:00Z",
				"label": "morning",
			},
			"notes": "dropped too",
		})
		require.Equal(t, http.StatusOK, w.Code)

		reqs := upstream.recorded()
		require.Len(t, reqs, 1)
		assert.Equal(t, "POST", reqs[0].Method)
		assert.Equal(t, "/api/schedules", reqs[0].Path)
		assert.JSONEq(t, `{
			"resources": [{"id": 5}],
			"timeslot": {"start": "2025-06-01T10:00:00Z", "end": "2025-06-01T11:00:00Z"}
		}`, string(reqs[0].Body))
	})

	t.Run("accepts a numeric string resource id", func(t *testing.T) {
		w := executeRequest(router, "POST", "/api/schedules", gin.H{
			"resources": []gin.H{{"id": "7"}},
			"timeslot":  gin.H{"start": "a", "end": "b"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		reqs := upstream.recorded()
		last := reqs[len(reqs)-1]
		assert.JSONEq(t, `{"resources":[{"id":7}],"timeslot":{"start":"a","end":"b"}}`, string(last.Body))
	})
}

func TestUpdateScheduleStatus(t *testing.T) {
	router, upstream := newTestGateway(t, testAPIKey)

	t.Run("strips the event_ prefix and forwards the numeric id", func(t *testing.T) {
		w := executeRequest(router, "PUT", "/api/schedules/event_42/status", gin.H{"status": "CANCELLED"})
		require.Equal(t, http.StatusOK, w.Code)

		reqs := upstream.recorded()
		require.Len(t, reqs, 1)
		assert.Equal(t, "PUT", reqs[0].Method)
		assert.Equal(t, "/api/schedules/42/status", reqs[0].Path)
		assert.JSONEq(t, `{"id":42,"status":"CANCELLED"}`, string(reqs[0].Body))
	})

	t.Run("accepts a bare numeric id", func(t *testing.T) {
		w := executeRequest(router, "PUT", "/api/schedules/7/status", gin.H{"status": "CANCELLED"})
		require.Equal(t, http.StatusOK, w.Code)

		reqs := upstream.recorded()
		last := reqs[len(reqs)-1]
		assert.Equal(t, "/api/schedules/7/status", last.Path)
	})

	t.Run("non-numeric id is rejected naming the raw value", func(t *testing.T) {
		before := len(upstream.recorded())
		w := executeRequest(router, "PUT", "/api/schedules/notanumber/status", gin.H{"status": "CANCELLED"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorDetail(t, w), "notanumber")
		assert.Len(t, upstream.recorded(), before)
	})

	t.Run("only CANCELLED is accepted", func(t *testing.T) {
		before := len(upstream.recorded())
		w := executeRequest(router, "PUT", "/api/schedules/event_42/status", gin.H{"status": "ACTIVE"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, `status must be "CANCELLED"`, errorDetail(t, w))
		assert.Len(t, upstream.recorded(), before)
	})

	t.Run("missing status is rejected", func(t *testing.T) {
		w := executeRequest(router, "PUT", "/api/schedules/event_42/status", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "status is required", errorDetail(t, w))
	})
}

func TestListSchedules(t *testing.T) {
	router, upstream := newTestGateway(t, testAPIKey)

	t.Run("applies page and sort defaults", func(t *testing.T) {
		w := executeRequest(router, "GET", "/api/schedules", nil)
		require.Equal(t, http.StatusOK, w.Code)

		reqs := upstream.recorded()
		require.Len(t, reqs, 1)
		assert.Equal(t, "1", reqs[0].Query.Get("page"))
		assert.Equal(t, "id,asc", reqs[0].Query.Get("sort"))
	})

	t.Run("forwards explicit page and sort", func(t *testing.T) {
		w := executeRequest(router, "GET", "/api/schedules?page=3&sort=id%2Cdesc", nil)
		require.Equal(t, http.StatusOK, w.Code)

		reqs := upstream.recorded()
		last := reqs[len(reqs)-1]
		assert.Equal(t, "3", last.Query.Get("page"))
		assert.Equal(t, "id,desc", last.Query.Get("sort"))
	})

	t.Run("rejects a non-integer page", func(t *testing.T) {
		before := len(upstream.recorded())
		w := executeRequest(router, "GET", "/api/schedules?page=x", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, upstream.recorded(), before)
	})
}

func TestUpstreamErrorTranslation(t *testing.T) {
	t.Run("non-2xx JSON body passes through as structured detail", func(t *testing.T) {
		router, upstream := newTestGateway(t, testAPIKey)
		upstream.respond(http.StatusNotFound, `{"error":"not found"}`)

		w := executeRequest(router, "GET", "/api/resources", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"detail":{"error":"not found"}}`, w.Body.String())
	})

	t.Run("non-2xx text body passes through as string detail", func(t *testing.T) {
		router, upstream := newTestGateway(t, testAPIKey)
		upstream.respond(http.StatusBadGateway, `upstream exploded`)

		w := executeRequest(router, "POST", "/api/schedules", gin.H{
			"resources": []gin.H{{"id": 1}},
			"timeslot":  gin.H{"start": "a", "end": "b"},
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"detail":"upstream exploded"}`, w.Body.String())
	})

	t.Run("unreachable upstream yields 503", func(t *testing.T) {
		router, upstream := newTestGateway(t, testAPIKey)
		upstream.server.Close() // connection refused from here on

		w := executeRequest(router, "GET", "/api/resources", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		detail, ok := errorDetail(t, w).(string)
		require.True(t, ok)
		assert.Contains(t, detail, "Service unavailable")
	})
}

func TestCORS(t *testing.T) {
	router, _ := newTestGateway(t, testAPIKey)

	t.Run("test-cors endpoint answers without upstream interaction", func(t *testing.T) {
		w := executeRequest(router, "GET", "/test-cors", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"CORS is working properly!"}`, w.Body.String())
	})

	t.Run("error responses still carry CORS headers", func(t *testing.T) {
		w := executeRequest(router, "POST", "/api/resources", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("explicit OPTIONS route returns an empty object", func(t *testing.T) {
		req, _ := http.NewRequest("OPTIONS", "/api/schedules", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{}`, w.Body.String())
	})

	t.Run("preflight with CORS headers is answered by the middleware", func(t *testing.T) {
		req, _ := http.NewRequest("OPTIONS", "/api/schedules", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCheckConnection(t *testing.T) {
	t.Run("reports success with the probed URL", func(t *testing.T) {
		router, upstream := newTestGateway(t, testAPIKey)

		w := executeRequest(router, "GET", "/api/check-connection", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Status  string `json:"status"`
			Message string `json:"message"`
			URL     string `json:"url"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, upstream.server.URL+"/api/resources", resp.URL)
	})

	t.Run("reports a missing API key without calling upstream", func(t *testing.T) {
		router, upstream := newTestGateway(t, "")

		w := executeRequest(router, "GET", "/api/check-connection", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"API key not configured"}`, w.Body.String())
		assert.Empty(t, upstream.recorded())
	})

	t.Run("stays 200 when the upstream is down", func(t *testing.T) {
		router, upstream := newTestGateway(t, testAPIKey)
		upstream.server.Close()

		w := executeRequest(router, "GET", "/api/check-connection", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Contains(t, resp.Message, "Connection failed")
	})
}
