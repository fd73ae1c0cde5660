package ports

import "context"

// RegisterInput carries the registration payload after transport-level
// validation. FirstName and LastName are optional.
type RegisterInput struct {
	Email     string
	Password  string
	Birthdate string
	FirstName string
	LastName  string
}

// TokenPair is the result of every credential flow: a short-lived signed
// access token and a single-use opaque refresh token, plus the identity
// fields clients display without decoding the JWT.
type TokenPair struct {
	UserID       string
	Username     string
	Email        string
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*TokenPair, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	UpdateEmail(ctx context.Context, userID, newEmail, password string) (*TokenPair, error)
	UpdateUsername(ctx context.Context, userID, username string) (*TokenPair, error)
}
