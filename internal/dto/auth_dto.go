package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int              `json:"expires_in"`
	Employee     EmployeeResponse `json:"employee"`
}

type EmployeeResponse struct {
	ID       string `json:"id"` // public UUID — internal ids never leave the core
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Company  string `json:"company_id"`
}
