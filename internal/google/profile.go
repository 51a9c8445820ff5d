package google

import (
	"context"
	"fmt"

	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Profile is the signed-in user shown in the header. A nil *Profile means
// nobody is signed in.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// FetchProfile loads the user's profile from the userinfo endpoint.
// Callers pass option.WithTokenSource or option.WithHTTPClient.
func FetchProfile(ctx context.Context, opts ...option.ClientOption) (*Profile, error) {
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	return &Profile{
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}
