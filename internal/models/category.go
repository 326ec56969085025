package models

// Category enumerates the didactic buckets a submission is classified into.
const (
	CategoryCompile = "compile"
	CategoryRuntime = "runtime"
	CategoryLogic   = "logic"
)

// Categories lists every known category in a stable order.
var Categories = []string{CategoryCompile, CategoryRuntime, CategoryLogic}

// Disclosure level bounds for progressive hints.
const (
	MinLevel = 1
	MaxLevel = 3
)

// IsValidCategory reports whether value names a known category.
func IsValidCategory(value string) bool {
	switch value {
	case CategoryCompile, CategoryRuntime, CategoryLogic:
		return true
	}
	return false
}
