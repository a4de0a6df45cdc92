package models

// DefaultSignUpRoleID is the role assigned to self-registered accounts.
const DefaultSignUpRoleID = 2

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body answered by POST /auth/login. AccessToken is
// only present on backends that also hand out bearer tokens.
type LoginResponse struct {
	AccessToken string `json:"accessToken,omitempty"`
	Message     string `json:"message,omitempty"`
}

// SignUpRequest is the body of POST /user.
type SignUpRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	RoleID      int    `json:"roleId"`
}

// ProfileUpdate is the body of PUT /user/profile.
type ProfileUpdate struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// PasswordUpdate is the body of PUT /user/password.
type PasswordUpdate struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// RegistrationRequest is the body of POST /events/{id}/register.
type RegistrationRequest struct {
	UserID int64 `json:"userId"`
}

// AvatarResponse is the body answered by POST /user/avatar.
type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

// Address is a ViaCEP zip code lookup result.
type Address struct {
	ZipCode      string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Erro         any    `json:"erro,omitempty"`
}

// Missing reports whether ViaCEP flagged the zip code as unknown. The flag
// arrives as a boolean or as the string "true" depending on the API version.
func (a Address) Missing() bool {
	switch v := a.Erro.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
