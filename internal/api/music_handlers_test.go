package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenetuneapp/scenetune-server/internal/classifier"
	"github.com/scenetuneapp/scenetune-server/internal/domain"
	apperrors "github.com/scenetuneapp/scenetune-server/internal/errors"
)

func TestSearchEndpoint(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Get("/api/v1/search?genre=Fantasy&scene=Battle")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[domain.SearchResult](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.Equal(t, "fantasy", envelope.Data.Genre)
	assert.Equal(t, "battle", envelope.Data.Scene)
	assert.Equal(t, "epic fantasy battle music", envelope.Data.Query)
	require.Len(t, envelope.Data.Playlists, 1)
	assert.Equal(t, "https://www.youtube.com/results?search_query=epic+fantasy+battle+music", envelope.Data.Playlists[0].URL)
	assert.Equal(t, 600, envelope.Data.Hysteresis.CacheTTLSec)
}

func TestSearchEndpoint_UnknownGenre(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Get("/api/v1/search?genre=western&scene=duel")
	require.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, string(apperrors.CodeGenreNotFound), envelope.Error.Code)
}

func TestSearchEndpoint_UnknownScene(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Get("/api/v1/search?genre=fantasy&scene=volcano")
	require.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, string(apperrors.CodeSceneNotFound), envelope.Error.Code)
}

func TestSearchEndpoint_MissingParams(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Get("/api/v1/search?genre=fantasy")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestRecommendEndpoint_Tags(t *testing.T) {
	stub := &stubClassifier{scene: "battle", reason: "combat tags"}
	api := setupTestServer(t, stub)

	resp := api.Post("/api/v1/recommend", map[string]any{
		"genre": "fantasy",
		"tags":  []string{"swords", "dragons"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[domain.RecommendationResult](t, resp.Body.Bytes())
	assert.Equal(t, "battle", envelope.Data.Scene)
	assert.Equal(t, []string{"dragons", "swords"}, envelope.Data.Tags)
	assert.Equal(t, "combat tags", envelope.Data.Reason)
}

func TestRecommendEndpoint_Text(t *testing.T) {
	stub := &stubClassifier{scene: "Creepy Crypt"}
	api := setupTestServer(t, stub)

	resp := api.Post("/api/v1/recommend", map[string]any{
		"genre": "fantasy",
		"text":  "the party descends into an old crypt",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[domain.RecommendationResult](t, resp.Body.Bytes())
	assert.Equal(t, "creepy_crypt", envelope.Data.Scene)
	assert.Equal(t, "Creepy Crypt", envelope.Data.Query)
	assert.Equal(t, "the party descends into an old crypt", envelope.Data.Text)
}

func TestRecommendEndpoint_TagsAndTextRejected(t *testing.T) {
	stub := &stubClassifier{scene: "battle"}
	api := setupTestServer(t, stub)

	resp := api.Post("/api/v1/recommend", map[string]any{
		"genre": "fantasy",
		"tags":  []string{"swords"},
		"text":  "a fight breaks out",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, stub.calls)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, string(apperrors.CodeValidation), envelope.Error.Code)
}

func TestRecommendEndpoint_NeitherTagsNorText(t *testing.T) {
	stub := &stubClassifier{scene: "battle"}
	api := setupTestServer(t, stub)

	resp := api.Post("/api/v1/recommend", map[string]any{"genre": "fantasy"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, stub.calls)
}

func TestRecommendEndpoint_ClassifierDown(t *testing.T) {
	stub := &stubClassifier{err: classifier.ErrPrediction}
	api := setupTestServer(t, stub)

	resp := api.Post("/api/v1/recommend", map[string]any{
		"genre": "fantasy",
		"tags":  []string{"swords"},
	})
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, string(apperrors.CodeRecommendationUnavailable), envelope.Error.Code)
}

func TestRecommendEndpoint_NoClassifier(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Post("/api/v1/recommend", map[string]any{
		"genre": "fantasy",
		"tags":  []string{"swords"},
	})
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestGenresEndpoint(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Get("/api/v1/genres")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[GenresResponse](t, resp.Body.Bytes())
	assert.Equal(t, []string{"fantasy", "grimdark"}, envelope.Data.Genres)
}

func TestScenesEndpoint_SingleGenre(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Get("/api/v1/scenes?genre=fantasy")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[ScenesResponse](t, resp.Body.Bytes())
	assert.Equal(t, "fantasy", envelope.Data.Genre)
	assert.Equal(t, []string{"battle", "tavern"}, envelope.Data.Scenes)
	assert.Empty(t, envelope.Data.ScenesByGenre)
}

func TestScenesEndpoint_AllGenres(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Get("/api/v1/scenes")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[ScenesResponse](t, resp.Body.Bytes())
	assert.Equal(t, []string{"battle", "tavern"}, envelope.Data.ScenesByGenre["fantasy"])
	assert.Equal(t, []string{"dirge"}, envelope.Data.ScenesByGenre["grimdark"])
}

func TestScenesEndpoint_UnknownGenre(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Get("/api/v1/scenes?genre=western")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSceneLibraryEndpoint(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Get("/api/v1/scenes/library")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[SceneLibraryResponse](t, resp.Body.Bytes())
	require.Contains(t, envelope.Data.Library, "fantasy")
	require.Len(t, envelope.Data.Library["fantasy"], 2)
	assert.Equal(t, "Battle", envelope.Data.Library["fantasy"][0].Name)
	assert.Equal(t, 600, envelope.Data.Hysteresis.CacheTTLSec)
}

func TestPlayerErrorEndpoint(t *testing.T) {
	api := setupTestServer(t, nil)

	resp := api.Post("/api/v1/player-errors", map[string]any{
		"errorCode": 150,
		"videoId":   "abc123",
		"lastQuery": "tavern music",
	})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())
	assert.NotEmpty(t, resp.Header().Get("X-Report-Id"))
}
