package youtube

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient wires a client to a local server that answers both the
// search.list and videos.list endpoints.
func newTestClient(t *testing.T, searchBody, videosBody string) (*Client, *searchRecorder) {
	t.Helper()

	rec := &searchRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		switch {
		case strings.HasPrefix(r.URL.Path, "/search"):
			io.WriteString(w, searchBody)
		case strings.HasPrefix(r.URL.Path, "/videos"):
			io.WriteString(w, videosBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", testLogger())
	require.NoError(t, err)
	client.searchURL = server.URL + "/search"
	client.videosURL = server.URL + "/videos"
	client.httpClient = server.Client()
	return client, rec
}

type searchRecorder struct {
	searchQueries []string
	videoIDParams []string
}

func (r *searchRecorder) record(req *http.Request) {
	switch {
	case strings.HasPrefix(req.URL.Path, "/search"):
		r.searchQueries = append(r.searchQueries, req.URL.Query().Get("q"))
	case strings.HasPrefix(req.URL.Path, "/videos"):
		r.videoIDParams = append(r.videoIDParams, req.URL.Query().Get("id"))
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("  ", testLogger())
	require.ErrorIs(t, err, ErrSearch)
}

func TestFindCandidates_FiltersAndPreservesOrder(t *testing.T) {
	searchBody := `{"items": [
		{"id": {"videoId": "aaa"}},
		{"id": {"videoId": "bbb"}},
		{"id": {"videoId": "aaa"}},
		{"id": {"videoId": "ccc"}},
		{"id": {"videoId": "ddd"}}
	]}`
	videosBody := `{"items": [
		{"id": "aaa", "status": {"embeddable": true, "privacyStatus": "public"}},
		{"id": "bbb", "status": {"embeddable": false, "privacyStatus": "public"}},
		{"id": "ccc", "status": {"embeddable": true, "privacyStatus": "private"}},
		{"id": "ddd", "status": {"embeddable": true, "privacyStatus": "unlisted"}}
	]}`

	client, rec := newTestClient(t, searchBody, videosBody)

	ids, err := client.FindCandidates(context.Background(), "epic battle music", 10)
	require.NoError(t, err)

	// bbb is not embeddable, ccc is private, duplicate aaa collapses.
	assert.Equal(t, []string{"aaa", "ddd"}, ids)
	assert.Equal(t, []string{"epic battle music"}, rec.searchQueries)
	require.Len(t, rec.videoIDParams, 1)
	assert.Equal(t, "aaa,bbb,aaa,ccc,ddd", rec.videoIDParams[0])
}

func TestFindCandidates_TruncatesToLimit(t *testing.T) {
	searchBody := `{"items": [
		{"id": {"videoId": "v1"}},
		{"id": {"videoId": "v2"}},
		{"id": {"videoId": "v3"}}
	]}`
	videosBody := `{"items": [
		{"id": "v1", "status": {"embeddable": true}},
		{"id": "v2", "status": {"embeddable": true}},
		{"id": "v3", "status": {"embeddable": true}}
	]}`

	client, _ := newTestClient(t, searchBody, videosBody)

	ids, err := client.FindCandidates(context.Background(), "tavern ambience", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, ids)
}

func TestFindCandidates_EmptyQuerySkipsAPI(t *testing.T) {
	client, rec := newTestClient(t, `{}`, `{}`)

	ids, err := client.FindCandidates(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, rec.searchQueries)
}

func TestFindCandidates_NoCandidates(t *testing.T) {
	client, rec := newTestClient(t, `{"items": []}`, `{}`)

	ids, err := client.FindCandidates(context.Background(), "obscure query", 5)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, rec.videoIDParams, "videos.list should be skipped without candidates")
}

func TestFindCandidates_APIError(t *testing.T) {
	client, _ := newTestClient(t, `{"error": {"code": 403, "message": "quotaExceeded"}}`, `{}`)

	_, err := client.FindCandidates(context.Background(), "battle", 5)
	require.ErrorIs(t, err, ErrSearch)
	assert.Contains(t, err.Error(), "quotaExceeded")
}

func TestFindCandidates_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", testLogger())
	require.NoError(t, err)
	client.searchURL = server.URL + "/search"
	client.videosURL = server.URL + "/videos"

	_, err = client.FindCandidates(context.Background(), "battle", 5)
	require.ErrorIs(t, err, ErrSearch)
	assert.Contains(t, err.Error(), "500")
}

func TestRegionAllowed(t *testing.T) {
	tests := []struct {
		name        string
		region      string
		restriction *regionRestriction
		want        bool
	}{
		{name: "no restriction", region: "US", restriction: nil, want: true},
		{
			name:        "blocked in region",
			region:      "US",
			restriction: &regionRestriction{Blocked: []string{"us", "CA"}},
			want:        false,
		},
		{
			name:        "blocked elsewhere",
			region:      "DE",
			restriction: &regionRestriction{Blocked: []string{"US"}},
			want:        true,
		},
		{
			name:        "blocked list without configured region",
			region:      "",
			restriction: &regionRestriction{Blocked: []string{"US"}},
			want:        false,
		},
		{
			name:        "allowlist containing region",
			region:      "DE",
			restriction: &regionRestriction{Allowed: []string{"DE", "AT"}},
			want:        true,
		},
		{
			name:        "allowlist missing region",
			region:      "US",
			restriction: &regionRestriction{Allowed: []string{"DE"}},
			want:        false,
		},
		{
			name:        "allowlist without configured region",
			region:      "",
			restriction: &regionRestriction{Allowed: []string{"DE"}},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient("key", testLogger(), WithRegion(tt.region))
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.regionAllowed(tt.restriction))
		})
	}
}
