package models

import "time"

// Group is a named group chat. Membership is fixed at creation: the creator
// followed by the invited CPFs, kept verbatim (no deduplication).
type Group struct {
	ID           string
	Name         string
	Creator      string
	Participants []string
	CreatedAt    time.Time
	Messages     []Message
}
