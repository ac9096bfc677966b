package survey

// ReactionDTO is one labelled image inside a result batch.
type ReactionDTO struct {
	Image       string `json:"image" binding:"required"`
	Description string `json:"description"`
	Reaction    string `json:"reaction"`
	AIComment   string `json:"ai_comment"`
}

// RegisterResultDTO is the batch posted at the end of a session. The user
// the batch belongs to is never part of the payload.
type RegisterResultDTO struct {
	ImagesDescriptionsAndReactions []ReactionDTO `json:"images_descriptions_and_reactions" binding:"required"`
}
