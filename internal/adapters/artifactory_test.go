package adapters

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"jfrog-cleaner/internal/types"
)

type requestInfo struct {
	Method string
	Path   string
	Query  string
	User   string
	Pass   string
}

const storageListing = `{
  "uri": "https://example/api/storage/docker-local/web",
  "files": [
    {"uri": "/1.0.0/manifest.json", "size": 1024, "lastModified": "2025-01-10T08:00:00.000Z", "folder": false},
    {"uri": "/1.0.0/sha256__abc", "size": 4096, "lastModified": "2025-01-10T08:00:00.000Z", "folder": false},
    {"uri": "/1.1.0/manifest.json", "size": 1024, "lastModified": "2025-02-10T08:00:00.000+01:00", "folder": false},
    {"uri": "/latest/manifest.json", "size": 1024, "folder": false},
    {"uri": "/nested/2.0/manifest.json", "size": 1024, "lastModified": "2025-02-10T08:00:00.000Z", "folder": false},
    {"uri": "/_uploads", "folder": true}
  ]
}`

func newTestAdapter(url string) ArtifactoryAdapter {
	return NewArtifactoryAdapter(types.RegistryConfig{
		URL:        url + "/",
		Username:   "robot",
		Password:   "s3cret",
		TimeoutSec: 2,
	})
}

func TestArtifactoryListImages(t *testing.T) {
	var requests []requestInfo
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		requests = append(requests, requestInfo{Method: r.Method, Path: r.URL.Path, User: user, Pass: pass})
		_, _ = w.Write([]byte(`{"repositories":["web","worker"]}`))
	}))
	defer server.Close()

	images, err := newTestAdapter(server.URL).ListImages(t.Context(), "docker-local")
	require.NoError(t, err)
	require.Equal(t, []string{"web", "worker"}, images)

	expected := []requestInfo{{Method: "GET", Path: "/api/docker/docker-local/v2/_catalog", User: "robot", Pass: "s3cret"}}
	if diff := cmp.Diff(expected, requests); diff != "" {
		t.Fatalf("unexpected requests (-want +got):\n%s", diff)
	}
}

func TestArtifactoryListTags(t *testing.T) {
	var requests []requestInfo
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, requestInfo{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery})
		_, _ = w.Write([]byte(storageListing))
	}))
	defer server.Close()

	tags, err := newTestAdapter(server.URL).ListTags(t.Context(), "docker-local", "web")
	require.NoError(t, err)

	expected := []types.Tag{
		{Identifier: "1.0.0", Path: "web/1.0.0", Modified: "2025-01-10T08:00:00.000Z"},
		{Identifier: "1.1.0", Path: "web/1.1.0", Modified: "2025-02-10T08:00:00.000+01:00"},
		{Identifier: "latest", Path: "web/latest", Modified: ""},
	}
	if diff := cmp.Diff(expected, tags); diff != "" {
		t.Fatalf("unexpected tags (-want +got):\n%s", diff)
	}
	require.Equal(t, []requestInfo{{Method: "GET", Path: "/api/storage/docker-local/web", Query: "list&deep=1"}}, requests)
}

func TestArtifactoryListTagsEmptyImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"files":[]}`))
	}))
	defer server.Close()

	tags, err := newTestAdapter(server.URL).ListTags(t.Context(), "docker-local", "web")
	require.NoError(t, err)
	require.Empty(t, tags)
	require.NotNil(t, tags)
}

func TestArtifactoryDeleteTag(t *testing.T) {
	var requests []requestInfo
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		requests = append(requests, requestInfo{Method: r.Method, Path: r.URL.Path, User: user, Pass: pass})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, newTestAdapter(server.URL).DeleteTag(t.Context(), "docker-local", "team/web/1.0.0"))
	expected := []requestInfo{{Method: "DELETE", Path: "/docker-local/team/web/1.0.0", User: "robot", Pass: "s3cret"}}
	if diff := cmp.Diff(expected, requests); diff != "" {
		t.Fatalf("unexpected requests (-want +got):\n%s", diff)
	}
}

func TestArtifactoryErrorsCarryCodes(t *testing.T) {
	failing := func(status int) ArtifactoryAdapter {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("nope"))
		}))
		t.Cleanup(server.Close)
		return newTestAdapter(server.URL)
	}

	err := failing(http.StatusNotFound).DeleteTag(t.Context(), "docker-local", "web/1.0.0")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = failing(http.StatusForbidden).ListTags(t.Context(), "docker-local", "web")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodePermissionDenied, errbuilder.CodeOf(err))

	_, err = failing(http.StatusInternalServerError).ListImages(t.Context(), "docker-local")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
	require.Contains(t, err.Error(), "artifactory list images failed")
}

func TestArtifactoryRejectsMissingEndpoint(t *testing.T) {
	adapter := NewArtifactoryAdapter(types.RegistryConfig{})
	_, err := adapter.ListImages(t.Context(), "docker-local")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
