package domain

// SessionResponse is the JSON view of the visitor's access state.
type SessionResponse struct {
	State      string             `json:"state"`
	Message    string             `json:"message,omitempty"`
	HasAccess  bool               `json:"hasAccess"`
	ExpiryDate *string            `json:"expiryDate"`
	Countdown  *CountdownResponse `json:"countdown,omitempty"`
}

type CountdownResponse struct {
	Valid   bool   `json:"valid"`
	Days    int    `json:"days"`
	Tier    string `json:"tier"`
	Label   string `json:"label"`
	Caption string `json:"caption"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions,omitempty"`
}
