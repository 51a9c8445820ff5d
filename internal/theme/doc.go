// Package theme derives the calgrid color scheme from a single source color.
//
// The source hex color is converted to HSL, then a fixed table of roles
// (primary, surface, outline, ...) is applied twice: once with light mode
// tones and once with dark mode tones. Both palettes are always computed;
// the active one is chosen by a persisted dark mode flag.
package theme
