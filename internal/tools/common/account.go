package common

import (
	"github.com/teemow/calgrid/internal/google"
)

// GetAccountFromArgs returns the "account" argument of a tool request,
// or the default account when it is missing, empty or not a string.
func GetAccountFromArgs(args map[string]any) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return google.DefaultAccount
}
