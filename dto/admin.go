package dto

type UserQuery struct {
	PageQuery
	Q      string `form:"q" binding:"omitempty,max=64"`
	Status string `form:"status" binding:"omitempty,oneof=active suspended"`
}

type UserListResponse struct {
	Users       []UserResponse `json:"users"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

type UserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended"`
}

type RevenueQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=366"`
}

type BroadcastRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}
