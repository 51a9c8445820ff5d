package theme

// Tone is a saturation offset and an absolute lightness applied to the
// base color.
type Tone struct {
	SatDelta  float64
	Lightness float64
}

// Role is a named color role with its light and dark tones.
type Role struct {
	Name  string
	Light Tone
	Dark  Tone
}

// Roles is the fixed role table in stylesheet order.
var Roles = []Role{
	{"primary", Tone{0, 40}, Tone{0, 80}},
	{"on-primary", Tone{0, 100}, Tone{0, 20}},
	{"primary-container", Tone{0, 90}, Tone{0, 30}},
	{"on-primary-container", Tone{0, 10}, Tone{0, 90}},
	{"secondary", Tone{-10, 40}, Tone{-10, 80}},
	{"on-secondary", Tone{0, 100}, Tone{-10, 20}},
	{"secondary-container", Tone{-10, 90}, Tone{-10, 30}},
	{"on-secondary-container", Tone{-10, 10}, Tone{-10, 90}},
	{"surface", Tone{0, 99}, Tone{0, 6}},
	{"on-surface", Tone{0, 10}, Tone{0, 90}},
	{"surface-variant", Tone{-5, 90}, Tone{-5, 30}},
	{"on-surface-variant", Tone{-5, 30}, Tone{-5, 80}},
	{"surface-container", Tone{-15, 95}, Tone{-15, 12}},
	{"surface-container-high", Tone{-15, 92}, Tone{-15, 17}},
	{"surface-container-highest", Tone{-15, 90}, Tone{-15, 22}},
	{"outline", Tone{-10, 50}, Tone{-10, 60}},
	{"outline-variant", Tone{-10, 80}, Tone{-10, 30}},
}

// Role names used directly by the presentation layers.
const (
	RolePrimary                 = "primary"
	RoleOnPrimary               = "on-primary"
	RolePrimaryContainer        = "primary-container"
	RoleOnPrimaryContainer      = "on-primary-container"
	RoleSecondary               = "secondary"
	RoleSurface                 = "surface"
	RoleOnSurface               = "on-surface"
	RoleOnSurfaceVariant        = "on-surface-variant"
	RoleSurfaceContainer        = "surface-container"
	RoleSurfaceContainerHigh    = "surface-container-high"
	RoleSurfaceContainerHighest = "surface-container-highest"
	RoleOutline                 = "outline"
	RoleOutlineVariant          = "outline-variant"
)
