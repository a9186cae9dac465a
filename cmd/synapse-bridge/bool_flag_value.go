package synapsebridge

import (
	"fmt"
	"strconv"
	"strings"
)

// optionalBoolValue is a pflag.Value that stays nil until the flag is given,
// so an omitted flag reaches the pipeline as an absent option.
type optionalBoolValue struct {
	target **bool
}

func newOptionalBoolValue(target **bool) *optionalBoolValue {
	return &optionalBoolValue{target: target}
}

func (value *optionalBoolValue) String() string {
	if value == nil || value.target == nil || *value.target == nil {
		return ""
	}
	return strconv.FormatBool(**value.target)
}

func (value *optionalBoolValue) Set(input string) error {
	boolValue, ok := parseBoolChoice(input)
	if !ok {
		return fmt.Errorf("invalid boolean value %q", input)
	}
	*value.target = &boolValue
	return nil
}

func (value *optionalBoolValue) Type() string {
	return "bool"
}

func parseBoolChoice(input string) (bool, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = "true"
	}
	normalized := strings.ToLower(trimmed)
	switch normalized {
	case "true", "t", "1", "yes", "y", "on":
		return true, true
	case "false", "f", "0", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
