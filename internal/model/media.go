package model

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is one image or video attached to a motivation. SortOrder is the
// display position within the parent; the whole list is replaced on edit,
// never patched item by item.
type Media struct {
	ID           int64   `db:"id"`
	MotivationID int64   `db:"motivation_id"`
	MediaType    string  `db:"media_type"`
	URL          string  `db:"url"`
	ThumbnailURL *string `db:"thumbnail_url"`
	SortOrder    int     `db:"sort_order"`
}

// MediaItem is the wire form of an attachment, both on input (create/update
// motivation) and output (enriched lists).
type MediaItem struct {
	ID           int64   `json:"id,omitempty"`
	Type         string  `json:"type"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}
