package entity

import (
	"time"
)

type AdImage struct {
	URL  string `json:"url" firestore:"url"`
	Path string `json:"path" firestore:"path"`
}

type Ad struct {
	ID            string    `json:"id" firestore:"id"`
	Title         string    `json:"title" firestore:"title"`
	Category      string    `json:"category" firestore:"category"`
	Price         float64   `json:"price" firestore:"price"`
	Location      string    `json:"location" firestore:"location"`
	ContactNumber string    `json:"contact_number" firestore:"contactnum"`
	Description   string    `json:"description" firestore:"description"`
	Images        []AdImage `json:"images" firestore:"images"`
	IsSold        bool      `json:"is_sold" firestore:"isSold"`
	PostedBy      string    `json:"posted_by" firestore:"postedBy"`
	PublishedAt   time.Time `json:"published_at" firestore:"publishedAt"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`

	// Only meaningful in the pendingAds collection, where submitted
	// listings wait for admin review before being copied into ads.
	Status string `json:"status,omitempty" firestore:"status,omitempty"`
}
