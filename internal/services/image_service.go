package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/models"
)

// DefaultUnsplashURL is the Unsplash photo search endpoint.
const DefaultUnsplashURL = "https://api.unsplash.com/search/photos"

const imagesPerPage = 10

// Search phrases per event category.
var categoryQueries = map[string]string{
	models.CategoryBirthday:     "birthday celebration",
	models.CategoryWedding:      "romantic wedding",
	models.CategoryAnniversary:  "anniversary elegant",
	models.CategoryDinner:       "dinner party",
	models.CategoryCheckIn:      "casual meetup",
	models.CategoryGiftReminder: "gift ideas",
	models.CategoryOther:        "social event",
}

// ImageServiceProvider defines the interface for image search services.
type ImageServiceProvider interface {
	Search(ctx context.Context, category, vibe string) ([]models.Image, error)
}

// ImageService proxies image searches to Unsplash so the access key stays
// on the server.
type ImageService struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

// NewImageService creates a new ImageService. An empty baseURL means
// DefaultUnsplashURL.
func NewImageService(accessKey, baseURL string) *ImageService {
	if baseURL == "" {
		baseURL = DefaultUnsplashURL
	}
	return &ImageService{
		accessKey: accessKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SearchQuery builds the search phrase for a category plus free-form vibe
// keywords.
func SearchQuery(category, vibe string) string {
	query, ok := categoryQueries[strings.ToUpper(strings.TrimSpace(category))]
	if !ok {
		query = categoryQueries[models.CategoryOther]
	}
	if v := strings.TrimSpace(vibe); v != "" {
		query += " " + v
	}
	return query
}

type unsplashResponse struct {
	Results []struct {
		ID             string `json:"id"`
		Description    string `json:"description"`
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Thumb   string `json:"thumb"`
			Small   string `json:"small"`
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search returns up to ten images matching the category and vibe.
func (s *ImageService) Search(ctx context.Context, category, vibe string) ([]models.Image, error) {
	if s.accessKey == "" {
		return nil, fmt.Errorf("image search: %w", common.ErrNotConfigured)
	}

	q := url.Values{}
	q.Set("query", SearchQuery(category, vibe))
	q.Set("per_page", fmt.Sprint(imagesPerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unsplash returned %d", common.ErrUpstream, resp.StatusCode)
	}

	var body unsplashResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", common.ErrUpstream, err)
	}

	images := make([]models.Image, 0, len(body.Results))
	for _, r := range body.Results {
		desc := r.Description
		if desc == "" {
			desc = r.AltDescription
		}
		thumb := r.URLs.Small
		if thumb == "" {
			thumb = r.URLs.Thumb
		}
		images = append(images, models.Image{
			ID:          r.ID,
			Description: desc,
			ThumbURL:    thumb,
			URL:         r.URLs.Regular,
		})
	}
	return images, nil
}
