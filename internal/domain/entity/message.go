package entity

import "time"

type Message struct {
	ID        string    `json:"id" firestore:"id"`
	Text      string    `json:"text" firestore:"text"`
	Sender    string    `json:"sender" firestore:"sender"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
