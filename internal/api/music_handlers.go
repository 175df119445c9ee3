package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/scenetuneapp/scenetune-server/internal/domain"
	apperrors "github.com/scenetuneapp/scenetune-server/internal/errors"
)

func (s *Server) registerMusicRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchScene",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search scene music",
		Description: "Returns playlist search links for a known genre/scene pair",
		Tags:        []string{"Music"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "recommendScene",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommend",
		Summary:     "Recommend scene music",
		Description: "Infers the scene from tags or free-form text and returns music links",
		Tags:        []string{"Music"},
	}, s.handleRecommend)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns all configured genre ids",
		Tags:        []string{"Music"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "listScenes",
		Method:      http.MethodGet,
		Path:        "/api/v1/scenes",
		Summary:     "List scenes",
		Description: "Returns scene ids for one genre, or for all genres when none is given",
		Tags:        []string{"Music"},
	}, s.handleListScenes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSceneLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/scenes/library",
		Summary:     "Get scene library",
		Description: "Returns full scene metadata per genre plus hysteresis settings",
		Tags:        []string{"Music"},
	}, s.handleSceneLibrary)
}

// === DTOs ===

// SearchInput contains parameters for a scene search.
type SearchInput struct {
	Genre string `query:"genre" required:"true" minLength:"1" doc:"Genre id"`
	Scene string `query:"scene" required:"true" minLength:"1" doc:"Scene id"`
}

// SearchOutput wraps a search result for Huma.
type SearchOutput struct {
	Body domain.SearchResult
}

// RecommendRequest is the recommendation request body. Exactly one of tags or
// text must be supplied.
type RecommendRequest struct {
	Genre string   `json:"genre" required:"true" minLength:"1" doc:"Genre id"`
	Tags  []string `json:"tags,omitempty" doc:"Free-form scene tags"`
	Text  string   `json:"text,omitempty" doc:"Free-form scene description"`
}

// RecommendInput wraps the recommendation request for Huma.
type RecommendInput struct {
	Body RecommendRequest
}

// RecommendOutput wraps a recommendation result for Huma.
type RecommendOutput struct {
	Body domain.RecommendationResult
}

// GenresResponse contains the configured genre ids.
type GenresResponse struct {
	Genres []string `json:"genres" doc:"Sorted genre ids"`
}

// GenresOutput wraps the genre list for Huma.
type GenresOutput struct {
	Body GenresResponse
}

// ListScenesInput contains parameters for listing scenes.
type ListScenesInput struct {
	Genre string `query:"genre" required:"false" doc:"Restrict to one genre"`
}

// ScenesResponse contains scene ids for one genre or for all of them.
type ScenesResponse struct {
	Genre         string              `json:"genre,omitempty" doc:"Genre the list belongs to"`
	Scenes        []string            `json:"scenes,omitempty" doc:"Sorted scene ids"`
	ScenesByGenre map[string][]string `json:"scenes_by_genre,omitempty" doc:"Scene ids per genre"`
}

// ScenesOutput wraps the scene list for Huma.
type ScenesOutput struct {
	Body ScenesResponse
}

// SceneLibraryResponse is the full UI library view.
type SceneLibraryResponse struct {
	Library    map[string][]domain.SceneInfo `json:"library" doc:"Scene metadata per genre"`
	Hysteresis domain.Hysteresis             `json:"hysteresis" doc:"Display/debounce settings"`
}

// SceneLibraryOutput wraps the library response for Huma.
type SceneLibraryOutput struct {
	Body SceneLibraryResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	result, err := s.music.Search(ctx, input.Genre, input.Scene)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: result}, nil
}

func (s *Server) handleRecommend(ctx context.Context, input *RecommendInput) (*RecommendOutput, error) {
	hasTags := len(input.Body.Tags) > 0
	hasText := input.Body.Text != ""
	if hasTags == hasText {
		return nil, apperrors.Validation("exactly one of tags or text must be supplied")
	}

	var (
		result domain.RecommendationResult
		err    error
	)
	if hasTags {
		result, err = s.music.Recommend(ctx, input.Body.Genre, input.Body.Tags)
	} else {
		result, err = s.music.RecommendFromText(ctx, input.Body.Genre, input.Body.Text)
	}
	if err != nil {
		return nil, err
	}
	return &RecommendOutput{Body: result}, nil
}

func (s *Server) handleListGenres(_ context.Context, _ *struct{}) (*GenresOutput, error) {
	return &GenresOutput{Body: GenresResponse{Genres: s.music.Genres()}}, nil
}

func (s *Server) handleListScenes(_ context.Context, input *ListScenesInput) (*ScenesOutput, error) {
	if input.Genre == "" {
		return &ScenesOutput{Body: ScenesResponse{ScenesByGenre: s.music.AllScenes()}}, nil
	}

	scenes, err := s.music.Scenes(input.Genre)
	if err != nil {
		return nil, err
	}
	return &ScenesOutput{Body: ScenesResponse{Genre: input.Genre, Scenes: scenes}}, nil
}

func (s *Server) handleSceneLibrary(_ context.Context, _ *struct{}) (*SceneLibraryOutput, error) {
	return &SceneLibraryOutput{
		Body: SceneLibraryResponse{
			Library:    s.music.DescribeScenes(),
			Hysteresis: s.music.HysteresisSettings(),
		},
	}, nil
}
