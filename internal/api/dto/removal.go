package dto

type RemovalRequest struct {
	ID string `json:"id"`
}

type RemovalResponse struct {
	Open      bool   `json:"open"`
	PendingID string `json:"pending_id,omitempty"`
}
