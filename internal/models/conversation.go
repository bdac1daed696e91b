package models

// Conversation is a direct conversation between exactly two accounts. Its id
// is derived from the sorted participant pair, so the same two users always
// resolve to the same conversation regardless of who initiated it.
type Conversation struct {
	ID           string
	Participants [2]string
	Messages     []Message
}
