package entity

import (
	"time"
)

type User struct {
	ID        string   `json:"id" firestore:"id"`
	Email     string   `json:"email" firestore:"email"`
	Name      string   `json:"name" firestore:"name"`
	Role      string   `json:"role" firestore:"role"` // "user", "admin"
	PhotoURL  string   `json:"photo_url,omitempty" firestore:"photoUrl,omitempty"`
	PhotoPath string   `json:"photo_path,omitempty" firestore:"photoPath,omitempty"`
	Interests []string `json:"interests,omitempty" firestore:"interests,omitempty"`

	// Presence: set true on sign-in, false on sign-out by the user's own
	// session, observed by peers through document subscriptions.
	Online bool `json:"online" firestore:"online"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
