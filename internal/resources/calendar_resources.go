package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/server"
	"github.com/teemow/calgrid/internal/theme"
)

const (
	URIStylesheet = "calgrid://theme/stylesheet"
	URIPalette    = "calgrid://theme/palette"
	URIGrid       = "calgrid://grid/today"
	URIProfile    = "user://profile"

	mimeJSON = "application/json"
	mimeCSS  = "text/css"
)

// Resource pairs a resource definition with its handler.
type Resource struct {
	Resource mcp.Resource
	Handler  mcpserver.ResourceHandlerFunc
}

// Resources returns the calendar resources bound to sc.
func Resources(sc *server.ServerContext) []Resource {
	return []Resource{
		{
			Resource: mcp.NewResource(URIStylesheet, "Theme Stylesheet",
				mcp.WithResourceDescription("CSS custom properties of the light and dark palettes derived from the configured source color"),
				mcp.WithMIMEType(mimeCSS),
			),
			Handler: func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return text(request.Params.URI, mimeCSS, theme.Stylesheet(sc.Theme())), nil
			},
		},
		{
			Resource: mcp.NewResource(URIPalette, "Theme Palette",
				mcp.WithResourceDescription("Source color, base HSL and every color role of both modes"),
				mcp.WithMIMEType(mimeJSON),
			),
			Handler: func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return jsonContents(request.Params.URI, sc.Theme())
			},
		},
		{
			Resource: mcp.NewResource(URIGrid, "Today's Grid",
				mcp.WithResourceDescription("Grid layout of the configured default view around today"),
				mcp.WithMIMEType(mimeJSON),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				layout := sc.RenderGrid(ctx, nil, "mcp", grid.NewViewState(sc.Now(), sc.DefaultView()))
				return jsonContents(request.Params.URI, layout)
			},
		},
		{
			Resource: mcp.NewResource(URIProfile, "Current User Profile",
				mcp.WithResourceDescription("Name and email of the default Google account"),
				mcp.WithMIMEType(mimeJSON),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return handleUserProfile(ctx, request, sc)
			},
		},
	}
}

// RegisterResources adds the calendar resources to s.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc == nil {
		return fmt.Errorf("server context is required")
	}
	for _, r := range Resources(sc) {
		s.AddResource(r.Resource, r.Handler)
	}
	return nil
}

func handleUserProfile(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	account := google.DefaultAccount

	ts, err := google.TokenSource(ctx, sc.OAuthConfig(), sc.TokenProvider(), account)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, google.GetAuthenticationErrorMessage(account))
	}
	profile, err := sc.FetchProfile(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return jsonContents(request.Params.URI, map[string]string{
		"account": account,
		"name":    profile.Name,
		"email":   profile.Email,
	})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return text(uri, mimeJSON, string(data)), nil
}

func text(uri, mime, body string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mime,
			Text:     body,
		},
	}
}
