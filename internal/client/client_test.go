package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/flowcraft/internal/roster"
	"github.com/yakoovad/flowcraft/internal/store"
)

var (
	_ roster.MembershipService = (*Client)(nil)
	_ store.Fetcher            = (*Client)(nil)
)

func TestClient_FetchWorkspace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/workspaces/ws-1", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ws-1","name":"Acme","members":[{"id":"m1","userId":"u1","role":"ADMIN","user":{"name":"Ann","email":"ann@x.com"}}],"projects":[]}`))
	}))
	defer srv.Close()

	ws, err := New(srv.URL+"/", "secret", srv.Client()).FetchWorkspace(context.Background(), "ws-1")

	require.NoError(t, err)
	assert.Equal(t, "Acme", ws.Name)
	require.Len(t, ws.Members, 1)
	assert.Equal(t, "Ann", ws.Members[0].Name())
}

func TestClient_RemoveMember(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		expectError  bool
		expectedCode string
		notFound     bool
	}{
		{
			name:   "success",
			status: http.StatusNoContent,
		},
		{
			name:         "not found",
			status:       http.StatusNotFound,
			body:         `{"error":{"code":"NOT_FOUND","message":"member not found"}}`,
			expectError:  true,
			expectedCode: "NOT_FOUND",
			notFound:     true,
		},
		{
			name:        "server error without body",
			status:      http.StatusInternalServerError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/api/team/members/m-2", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL, "secret", srv.Client()).RemoveMember(context.Background(), "m-2")

			assert.Equal(t, 1, calls)
			if !tt.expectError {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.expectedCode, se.Code)
			assert.Equal(t, tt.notFound, IsNotFound(err))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	err := New(srv.URL, "", nil).RemoveMember(context.Background(), "m-1")

	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}
