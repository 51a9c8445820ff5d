package theme

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want HSL
	}{
		{"white", "#ffffff", HSL{0, 0, 100}},
		{"black", "#000000", HSL{0, 0, 0}},
		{"red", "#ff0000", HSL{0, 100, 50}},
		{"green", "#00ff00", HSL{120, 100, 50}},
		{"blue", "#0000ff", HSL{240, 100, 50}},
		{"short form", "#f00", HSL{0, 100, 50}},
		{"alpha discarded", "#2c83bdff", HSL{204, 62.2, 45.7}},
		{"source color", "#2c83bd", HSL{204, 62.2, 45.7}},
		{"uppercase", "#2C83BD", HSL{204, 62.2, 45.7}},
		{"magenta wraps hue", "#ff00ff", HSL{300, 100, 50}},
		{"grey is achromatic", "#808080", HSL{0, 0, 50.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HexToHSL(tt.hex))
		})
	}
}

func TestHexToHSL_MalformedIsBlack(t *testing.T) {
	for _, hex := range []string{"", "#", "#12", "#1234", "#12345", "#1234567", "2c83bd", "#zzzzzz", "#2c83bdf"} {
		t.Run(hex, func(t *testing.T) {
			assert.Equal(t, HSL{}, HexToHSL(hex))
		})
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#2c83bd")
	require.NoError(t, err)
	assert.Equal(t, HSL{204, 62.2, 45.7}, c)

	_, err = ParseHex("#1234")
	assert.ErrorIs(t, err, ErrMalformedHex)

	_, err = ParseHex("red")
	assert.ErrorIs(t, err, ErrMalformedHex)
}

func TestHSL_String(t *testing.T) {
	assert.Equal(t, "hsl(204, 62.2%, 40%)", HSL{204, 62.2, 40}.String())
	assert.Equal(t, "hsl(0, 0%, 100%)", HSL{0, 0, 100}.String())
	assert.Equal(t, "hsl(10, 52.2%, 6%)", HSL{10, 62.2 - 10, 6}.String())
}

func TestHSL_Hex(t *testing.T) {
	assert.Equal(t, "#ff0000", HSL{0, 100, 50}.Hex())
	assert.Equal(t, "#ffffff", HSL{0, 0, 100}.Hex())
	assert.Equal(t, "#000000", HSL{}.Hex())
}

func TestDerive(t *testing.T) {
	th := Derive(DefaultSourceColor)

	require.Len(t, th.Light, len(Roles))
	require.Len(t, th.Dark, len(Roles))

	tests := []struct {
		role      string
		wantLight string
		wantDark  string
	}{
		{RolePrimary, "hsl(204, 62.2%, 40%)", "hsl(204, 62.2%, 80%)"},
		{"on-secondary", "hsl(204, 62.2%, 100%)", "hsl(204, 52.2%, 20%)"},
		{"secondary-container", "hsl(204, 52.2%, 90%)", "hsl(204, 52.2%, 30%)"},
		{RoleSurface, "hsl(204, 62.2%, 99%)", "hsl(204, 62.2%, 6%)"},
		{"surface-variant", "hsl(204, 57.2%, 90%)", "hsl(204, 57.2%, 30%)"},
		{RoleSurfaceContainerHighest, "hsl(204, 47.2%, 90%)", "hsl(204, 47.2%, 22%)"},
		{RoleOutlineVariant, "hsl(204, 52.2%, 80%)", "hsl(204, 52.2%, 30%)"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			light, ok := th.Light.Get(tt.role)
			require.True(t, ok)
			dark, ok := th.Dark.Get(tt.role)
			require.True(t, ok)

			assert.Equal(t, tt.wantLight, light.String())
			assert.Equal(t, tt.wantDark, dark.String())
		})
	}
}

func TestDerive_RoleOrder(t *testing.T) {
	th := Derive("#336699")
	for i, r := range Roles {
		assert.Equal(t, r.Name, th.Light[i].Role)
		assert.Equal(t, r.Name, th.Dark[i].Role)
	}
}

func TestDerive_Idempotent(t *testing.T) {
	for _, hex := range []string{DefaultSourceColor, "#000", "#ff8800", "garbage"} {
		if diff := cmp.Diff(Derive(hex), Derive(hex)); diff != "" {
			t.Errorf("Derive(%q) not idempotent (-first +second):\n%s", hex, diff)
		}
	}
}

func TestDerive_SaturationClampedAtZero(t *testing.T) {
	th := Derive("#808080")
	c, ok := th.Light.Get(RoleSurfaceContainer)
	require.True(t, ok)
	assert.Equal(t, 0.0, c.S)
}

func TestStylesheet(t *testing.T) {
	css := Stylesheet(Derive(DefaultSourceColor))

	root, dark, found := strings.Cut(css, `body[data-theme="dark"]`)
	require.True(t, found)

	assert.True(t, strings.HasPrefix(root, ":root {\n"))
	assert.Contains(t, root, "  --md-sys-color-primary: hsl(204, 62.2%, 40%);\n")
	assert.Contains(t, dark, "  --md-sys-color-primary: hsl(204, 62.2%, 80%);\n")
	assert.Equal(t, len(Roles)*2, strings.Count(css, VarPrefix))
}

func TestPalette_Get(t *testing.T) {
	th := Derive(DefaultSourceColor)

	_, ok := th.Light.Get("does-not-exist")
	assert.False(t, ok)
	assert.Equal(t, "", th.Light.Hex("does-not-exist"))
	assert.Equal(t, th.Dark, th.Palette(Dark))
	assert.Equal(t, th.Light, th.Palette(Light))
}
