package youtube

import (
	"io"
	"net/http"
)

// searchResponse is the subset of a search.list payload we consume.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
}

// videosResponse is the subset of a videos.list payload we consume.
type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID     string `json:"id"`
	Status struct {
		Embeddable    bool   `json:"embeddable"`
		PrivacyStatus string `json:"privacyStatus"`
	} `json:"status"`
	ContentDetails struct {
		RegionRestriction *regionRestriction `json:"regionRestriction"`
	} `json:"contentDetails"`
}

type regionRestriction struct {
	Allowed []string `json:"allowed"`
	Blocked []string `json:"blocked"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func readAll(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
