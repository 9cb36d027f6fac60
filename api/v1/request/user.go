package request

// RegisterRequest carries the multipart registration form. The optional
// profile image travels as a separate file part under upload.FieldName.
type RegisterRequest struct {
	Name     string `form:"name" binding:"required,min=3,fullname"`
	Email    string `form:"email" binding:"required,email"`
	Phone    string `form:"phone" binding:"required,min=10,max=15,digits"`
	Password string `form:"password" binding:"required,min=6,hasdigit"`
	Address  string `form:"address" binding:"omitempty,max=150"`
	State    string `form:"state" binding:"required"`
	City     string `form:"city" binding:"required"`
	Country  string `form:"country" binding:"required"`
	Pincode  string `form:"pincode" binding:"required,min=4,max=10,digits"`
}

// LoginRequest accepts either email or phone as the identifier. No format
// rules on the identifier beyond presence.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RefreshRequest deliberately skips binding:"required": a missing token is a
// 401, not a validation failure.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateUserRequest is the partial-update form. Nil means "leave untouched";
// present values must satisfy the same per-field rules as registration.
type UpdateUserRequest struct {
	Name     *string `form:"name" binding:"omitempty,min=3,fullname"`
	Email    *string `form:"email" binding:"omitempty,email"`
	Phone    *string `form:"phone" binding:"omitempty,min=10,max=15,digits"`
	Password *string `form:"password" binding:"omitempty,min=6,hasdigit"`
	Address  *string `form:"address" binding:"omitempty,max=150"`
	State    *string `form:"state" binding:"omitempty,min=1"`
	City     *string `form:"city" binding:"omitempty,min=1"`
	Country  *string `form:"country" binding:"omitempty,min=1"`
	Pincode  *string `form:"pincode" binding:"omitempty,min=4,max=10,digits"`
}
