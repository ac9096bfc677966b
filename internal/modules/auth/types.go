package auth

// LoginDTO is the profilation payload posted on direct login.
type LoginDTO struct {
	Nickname    string `json:"nickname" binding:"required"`
	Email       string `json:"email"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`
}

// GoogleLoginDTO carries the Google ID token issued to the frontend.
type GoogleLoginDTO struct {
	Credential  string `json:"credential" binding:"required"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`
}

// loginResponse is the 201 body. Token fields are populated only under the
// header transport; the cookie transport delivers them as cookies instead.
type loginResponse struct {
	ID           int64    `json:"id"`
	Images       []string `json:"images"`
	AccessToken  string   `json:"accessToken,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
}
