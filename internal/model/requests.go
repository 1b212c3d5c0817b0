package model

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type UpdateOrderRequest struct {
	CustomerName string  `json:"customerName"`
	OrderAmount  float64 `json:"orderAmount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
