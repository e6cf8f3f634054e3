package authoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	course "lms/models/course"
)

func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", 2*time.Second)
}

func writeEnvelope(w http.ResponseWriter, code int, ok bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  ok,
		"message": message,
		"data":    data,
	})
}

func TestClientCreateModule(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, http.StatusOK, true, "Module created successfully", map[string]any{"ID": 42})
	})

	m := &ModuleDraft{Title: "Starters", Order: 1}
	id, err := c.CreateModule(context.Background(), 5, m)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "POST /admin/course/5/module", gotPath)
	assert.Equal(t, "Starters", gotBody["title"])
	assert.Equal(t, float64(1), gotBody["order_index"])
}

func TestClientGetCourseBuildsDraft(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/admin/course/9", r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, "Course details", map[string]any{
			"course": map[string]any{
				"ID":     9,
				"title":  "Persisted course",
				"status": "ACTIVE",
			},
			"modules": []map[string]any{
				{
					"ID":          2,
					"title":       "Second",
					"order_index": 2,
					"lessons":     []map[string]any{},
				},
				{
					"ID":          1,
					"title":       "First",
					"order_index": 1,
					"lessons": []map[string]any{
						{"ID": 11, "title": "Welcome", "type": "TEXT", "content": "hi", "order_index": 1},
					},
				},
			},
		})
	})

	d, err := c.GetCourse(context.Background(), 9)
	require.NoError(t, err)
	require.NotNil(t, d.ID)
	assert.Equal(t, uint(9), *d.ID)
	assert.Equal(t, course.StatusActive, d.Status)

	// modules come back ordered by order_index regardless of wire order
	require.Len(t, d.Modules, 2)
	assert.Equal(t, "First", d.Modules[0].Title)
	require.Len(t, d.Modules[0].Lessons, 1)
	assert.Equal(t, "Welcome", d.Modules[0].Lessons[0].Title)
	require.NotNil(t, d.Modules[0].Lessons[0].ID)
	assert.Equal(t, uint(11), *d.Modules[0].Lessons[0].ID)
}

func TestClientUnauthorizedMapsToAuthExpired(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, false, "Invalid or expired JWT!", nil)
	})

	_, err := c.GetCourse(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAuthExpired)
}

func TestClientServerErrorIsRetryable(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	err := c.DeleteModule(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientConnectionRefusedIsRetryable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "tok", 500*time.Millisecond)

	err := c.UpdateStatus(context.Background(), 1, StatusChange{Status: "ACTIVE", Confirm: true})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientClientErrorCarriesMessage(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, false, "Transition not allowed!", nil)
	})

	err := c.UpdateStatus(context.Background(), 1, StatusChange{Status: "ACTIVE"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrAuthExpired)
	assert.Contains(t, err.Error(), "Transition not allowed!")
}

func TestClientStatusChangeBody(t *testing.T) {
	var got StatusChange
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "/admin/course/3/status", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
		writeEnvelope(w, http.StatusOK, true, "Status updated", nil)
	})

	err := c.UpdateStatus(context.Background(), 3, StatusChange{Status: "INACTIVE", Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", got.Status)
	assert.True(t, got.Confirm)
}
