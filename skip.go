package fuelabi

import "strings"

// DefaultSkipTypes lists compiler-internal declarations that never appear
// in a resolved graph's visible types. Generic placeholders ("generic T")
// are skipped as well.
var DefaultSkipTypes = []string{
	"()",
	"raw untyped ptr",
	"struct RawVec",
	"struct std::vec::RawVec",
	"struct RawBytes",
	"struct std::bytes::RawBytes",
}

// SkipFunc reports whether a declared type string is a compiler artifact.
type SkipFunc func(typeString string) bool

// DefaultSkipFunc matches DefaultSkipTypes and every generic placeholder.
func DefaultSkipFunc(typeString string) bool {
	return isGenericTypeString(typeString) || containsString(DefaultSkipTypes, typeString)
}

// skipTypesFunc extends a predicate with additional exact type strings.
func skipTypesFunc(base SkipFunc, extra []string) SkipFunc {
	return func(typeString string) bool {
		return base(typeString) || containsString(extra, typeString)
	}
}

func isGenericTypeString(typeString string) bool {
	return strings.HasPrefix(strings.TrimSpace(typeString), "generic ")
}

func containsString(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
