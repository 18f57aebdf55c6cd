package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type AuthResponse struct {
	User PublicUser `json:"user"`
}

type MeResponse struct {
	UserID int64 `json:"userId"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
