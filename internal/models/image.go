package models

// Image is a single image search result.
type Image struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ThumbURL    string `json:"thumbUrl"`
	URL         string `json:"url"`
}
