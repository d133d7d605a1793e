package entity

// Favorite is the per-ad favorites index. The document ID equals the ad ID
// (single canonical join strategy), and Users holds everyone who saved it.
type Favorite struct {
	AdID  string   `json:"ad_id" firestore:"-"`
	Users []string `json:"users" firestore:"users"`
}
