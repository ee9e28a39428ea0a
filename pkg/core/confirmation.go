package core

import (
	"fmt"
	"strings"
)

// ConfirmationValue controls whether an automatic VCS action asks first.
type ConfirmationValue string

const (
	ConfirmShow     ConfirmationValue = "show"
	ConfirmSilently ConfirmationValue = "silently"
	ConfirmNothing  ConfirmationValue = "nothing"
)

// ParseConfirmationValue accepts the settings spelling of a confirmation value.
func ParseConfirmationValue(s string) (ConfirmationValue, error) {
	switch v := ConfirmationValue(strings.ToLower(strings.TrimSpace(s))); v {
	case ConfirmShow, ConfirmSilently, ConfirmNothing:
		return v, nil
	case "":
		return ConfirmShow, nil
	default:
		return "", fmt.Errorf("%w: unknown confirmation %q", ErrInvalidSettings, s)
	}
}

// Confirmer asks the user whether to apply action to paths and returns the accepted subset.
type Confirmer func(action string, paths []string) []string

// DenyAll is the Confirmer used when no interactive one is configured.
func DenyAll(string, []string) []string { return nil }

// ConfirmationOption pairs a setting with the callback used for ConfirmShow.
type ConfirmationOption struct {
	Action    string
	Value     ConfirmationValue
	Confirmer Confirmer
}

// Filter returns the paths the action should apply to.
func (o ConfirmationOption) Filter(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	switch o.Value {
	case ConfirmSilently:
		return paths
	case ConfirmNothing:
		return nil
	default:
		c := o.Confirmer
		if c == nil {
			c = DenyAll
		}
		return c(o.Action, paths)
	}
}
