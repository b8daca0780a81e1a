package employee

type CreateEmployeeRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Role        string `json:"role" binding:"omitempty,oneof=staff admin"`
	Department  string `json:"department" binding:"omitempty,max=100"`
	Avatar      string `json:"avatar" binding:"omitempty,url"`
	BadgeNumber string `json:"badge_number" binding:"omitempty,max=20"`
}

type UpdateEmployeeRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Role       string `json:"role" binding:"required,oneof=staff admin"`
	Department string `json:"department" binding:"omitempty,max=100"`
	Avatar     string `json:"avatar" binding:"omitempty,url"`
}

type EmployeeResponse struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	BadgeNumber string `json:"badge_number"`
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          empl.ID.String(),
		FullName:    empl.FullName,
		Email:       empl.Email,
		Role:        empl.Role,
		Department:  empl.Department,
		Avatar:      empl.Avatar,
		BadgeNumber: empl.BadgeNumber,
	}
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		res[i] = mapToResponse(e)
	}
	return res
}
