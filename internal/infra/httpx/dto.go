package httpx

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Station string `json:"station"`
}

type ActionsResponse struct {
	Actions []string `json:"actions"`
}

// ActionResponse wraps whatever an action returned together with the state
// the station is in afterwards.
type ActionResponse struct {
	Action string `json:"action"`
	Result any    `json:"result,omitempty"`
	State  any    `json:"state"`
}
