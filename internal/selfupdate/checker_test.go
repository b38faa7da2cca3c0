package selfupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/abhisek/quizgen/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheck(t *testing.T) {
	server := releaseServer(t, http.StatusOK, `{"tag_name":"v1.2.0","html_url":"https://example.com/v1.2.0"}`)
	checker := NewChecker(WithBaseURL(server.URL))

	tests := []struct {
		current string
		want    bool
	}{
		{"v1.1.9", true},
		{"1.1.9", true},
		{"v1.2.0", false},
		{"v1.10.0", false},
		{"v1.2.0-rc.1", true},
		{"(devel)", false},
	}

	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			res, err := checker.Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.UpdateAvailable)
			assert.Equal(t, "v1.2.0", res.LatestVersion)
			assert.Equal(t, "https://example.com/v1.2.0", res.ReleaseURL)
		})
	}
}

func TestCheck_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusInternalServerError, ``},
		{"bad json", http.StatusOK, `{`},
		{"bad tag", http.StatusOK, `{"tag_name":"latest"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := releaseServer(t, tt.status, tt.body)
			_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
			assert.Error(t, err)
		})
	}
}
