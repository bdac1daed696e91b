package models

import "time"

// Message represents an immutable chat message. The ID is server-assigned
// (monotonic ULID) so ids within a process sort in send order.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Sender snapshots the author's identity at send time. The display name is
// copied rather than referenced, so later account changes don't rewrite
// history.
type Sender struct {
	CPF  string `json:"cpf"`
	Name string `json:"nome"`
}
