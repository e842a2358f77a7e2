// Package validation holds the option checks shared by every endpoint
// wrapper. All functions are pure: they never touch the network and report
// bad input as an acsf.InvalidOptionError.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// BackupComponents are the parts of a site a backup or restore can cover.
var BackupComponents = []string{"codebase", "database", "public files", "private files", "themes"}

// CallbackMethods are the HTTP methods accepted for completion callbacks.
var CallbackMethods = []string{"GET", "POST"}

var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// LimitOptions keeps only the options whose key is allowed.
func LimitOptions(options map[string]any, allowedKeys []string) map[string]any {
	limited := make(map[string]any, len(options))

	for key, value := range options {
		if slices.Contains(allowedKeys, key) {
			limited[key] = value
		}
	}

	return limited
}

// ConstrictPaging clamps limit to [1, maxLimit], page to at least 1 and
// normalizes order. Other keys pass through. A maxLimit below 1 means
// constants.DefaultMaxLimit.
func ConstrictPaging(options map[string]any, maxLimit int) map[string]any {
	if maxLimit < 1 {
		maxLimit = constants.DefaultMaxLimit
	}

	paged := make(map[string]any, len(options))
	for key, value := range options {
		paged[key] = value
	}

	if limit, ok := paged["limit"]; ok {
		paged["limit"] = min(max(toInt(limit), 1), maxLimit)
	}

	if page, ok := paged["page"]; ok {
		paged["page"] = max(toInt(page), 1)
	}

	if order, ok := paged["order"]; ok {
		paged["order"] = EnsureSortOrder(order)
	}

	return paged
}

// EnsureSortOrder returns "asc" for any casing of "asc" and "desc" for
// everything else, garbage included.
func EnsureSortOrder(value any) string {
	if strings.EqualFold(cast.ToString(value), "asc") {
		return "asc"
	}

	return "desc"
}

// CleanIntArray keeps numeric-looking entries as integers, dropping zeros and
// duplicates. The first occurrence of each value keeps its position.
func CleanIntArray(values []any) []int {
	cleaned := make([]int, 0, len(values))
	seen := make(map[int]struct{}, len(values))

	for _, value := range values {
		n, ok := numericInt(value)
		if !ok || n == 0 {
			continue
		}

		if _, dup := seen[n]; dup {
			continue
		}

		seen[n] = struct{}{}
		cleaned = append(cleaned, n)
	}

	return cleaned
}

// EnsureBool coerces a flag leniently. Strings "1", "true", "on" and "yes"
// (any casing, surrounding whitespace ignored) are true. "0", "false", "off",
// "no", "" and every other value are false. Numbers are compared by their
// decimal string, so only 1 is true.
func EnsureBool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return truthy(v)
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return false
		}

		return truthy(s)
	}
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// ValidateBackupOptions checks the callback and component options shared by
// backup, restore and backup deletion calls.
func ValidateBackupOptions(options map[string]any) (map[string]any, error) {
	validated := make(map[string]any, len(options))
	for key, value := range options {
		validated[key] = value
	}

	if raw, ok := validated["callback_url"]; ok {
		callbackURL := cast.ToString(raw)
		if !isAbsoluteURL(callbackURL) {
			return nil, acsf.NewInvalidOption("callback_url", raw, "is not a valid URL")
		}
	}

	if raw, ok := validated["callback_method"]; ok {
		method := strings.ToUpper(cast.ToString(raw))
		if err := RequireOneOf(method, CallbackMethods, false); err != nil {
			return nil, acsf.NewInvalidOption("callback_method", raw, "must be one of GET, POST")
		}

		validated["callback_method"] = method
	}

	if raw, ok := validated["caller_data"]; ok {
		if _, isString := raw.(string); !isString {
			encoded, err := json.Marshal(raw)
			if err != nil {
				return nil, acsf.NewInvalidOption("caller_data", raw, "cannot be encoded as JSON")
			}

			validated["caller_data"] = string(encoded)
		}
	}

	if raw, ok := validated["components"]; ok {
		components, isList := toStringSlice(raw)
		if !isList {
			return nil, acsf.NewInvalidOption("components", raw, "must be a list")
		}

		filtered := FilterArrayToValues(components, BackupComponents, true)
		if len(filtered) == 0 {
			return nil, acsf.NewInvalidOption("components", raw,
				"must contain at least one of "+strings.Join(BackupComponents, ", "))
		}

		validated["components"] = filtered
	}

	return validated, nil
}

// RequirePatternMatch fails unless value matches pattern.
func RequirePatternMatch(value, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return acsf.NewInvalidOption("", pattern, fmt.Sprintf("is not a valid pattern: %v", err))
	}

	if !re.MatchString(value) {
		return acsf.NewInvalidOption("", value, "does not match pattern "+pattern)
	}

	return nil
}

// FilterArrayToValues trims and drops empty entries, intersects them with
// allowedValues and returns the unique matches sorted ascending. With
// toLowerCase the comparison ignores case and the result is lowercase.
func FilterArrayToValues(original, allowedValues []string, toLowerCase bool) []string {
	allowed := make(map[string]struct{}, len(allowedValues))
	for _, value := range allowedValues {
		if toLowerCase {
			value = strings.ToLower(value)
		}

		allowed[value] = struct{}{}
	}

	filtered := make([]string, 0, len(original))

	for _, value := range original {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if toLowerCase {
			value = strings.ToLower(value)
		}

		if _, ok := allowed[value]; ok {
			filtered = append(filtered, value)
		}
	}

	slices.Sort(filtered)

	return slices.Compact(filtered)
}

// RequireOneOf fails unless value is one of allowedValues.
func RequireOneOf(value string, allowedValues []string, toLowerCase bool) error {
	needle := value
	if toLowerCase {
		needle = strings.ToLower(needle)
	}

	for _, allowed := range allowedValues {
		if toLowerCase {
			allowed = strings.ToLower(allowed)
		}

		if needle == allowed {
			return nil
		}
	}

	return acsf.NewInvalidOption("", value, "must be one of "+strings.Join(allowedValues, ", "))
}

// RequireOption is RequireOneOf with the option name recorded on failure.
func RequireOption(option, value string, allowedValues []string, toLowerCase bool) error {
	if err := RequireOneOf(value, allowedValues, toLowerCase); err != nil {
		return acsf.NewInvalidOption(option, value, "must be one of "+strings.Join(allowedValues, ", "))
	}

	return nil
}

func isAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return parsed.Scheme != "" && parsed.Host != ""
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, cast.ToString(item))
		}

		return out, true
	default:
		return nil, false
	}
}

// numericInt converts a numeric-looking value to an int, truncating decimals.
// Values outside the int range are not numeric.
func numericInt(value any) (int, bool) {
	if n, ok := value.(int); ok {
		return n, true
	}

	if s, ok := numericString(value); ok {
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}

	f, ok := numericFloat(value)
	if !ok || f >= math.MaxInt || f < math.MinInt {
		return 0, false
	}

	return int(f), true
}

// numericString returns the trimmed form of a numeric-looking string.
func numericString(value any) (string, bool) {
	var s string

	switch v := value.(type) {
	case string:
		s = strings.TrimSpace(v)
	case json.Number:
		s = strings.TrimSpace(v.String())
	default:
		return "", false
	}

	return s, numericPattern.MatchString(s)
}

func numericFloat(value any) (float64, bool) {
	var f float64

	switch value.(type) {
	case nil, bool:
		return 0, false
	case string, json.Number:
		s, ok := numericString(value)
		if !ok {
			return 0, false
		}

		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}

		f = parsed
	default:
		parsed, err := cast.ToFloat64E(value)
		if err != nil {
			return 0, false
		}

		f = parsed
	}

	if math.IsNaN(f) {
		return 0, false
	}

	return f, true
}

// toInt is numericInt saturated to the int range, with 0 for non-numerics.
func toInt(value any) int {
	if n, ok := numericInt(value); ok {
		return n
	}

	f, ok := numericFloat(value)

	switch {
	case !ok:
		return 0
	case f > 0:
		return math.MaxInt
	default:
		return math.MinInt
	}
}
