package ports

import "context"

// Profile is the public view of an account.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Birthdate string `json:"birthdate,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// PatchProfileInput carries optional field updates. nil means "leave alone".
// Password is required only when Email is being changed.
type PatchProfileInput struct {
	Email     *string
	Password  *string
	Username  *string
	FirstName *string
	LastName  *string
	PhotoURL  *string
}

// PatchProfileResult returns fresh tokens when the patch touched a field that
// is baked into access-token claims; otherwise it returns the updated profile.
type PatchProfileResult struct {
	Profile *Profile
	Tokens  *TokenPair
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Patch(ctx context.Context, userID string, in PatchProfileInput) (*PatchProfileResult, error)
}
