package google

// DefaultOAuthScopes are the Google OAuth scopes calgrid requests.
//
// The scopes provide access to:
//   - the user's name, email and picture for the profile chip
//   - Google Calendar: full access
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",
}
