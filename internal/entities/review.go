package entities

type ReviewRequest struct {
	ConsultationID string `json:"consultation_id"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment,omitempty"`
}

type ReviewResponse struct {
	ID             string `json:"id"`
	ConsultationID string `json:"consultation_id"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
