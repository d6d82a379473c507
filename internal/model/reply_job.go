package model

// ReplyJob is the queue payload for an answer that could not be produced
// within the webhook deadline and is delivered asynchronously.
type ReplyJob struct {
	ConversationID uint   `json:"conversation_id"`
	To             string `json:"to"`
	Question       string `json:"question"`
	Language       string `json:"language"`
}
