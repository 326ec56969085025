package analyzer

import "github.com/noah-isme/hint-engine-api/internal/models"

// Classification is the didactic bucket and confidence assigned to a feature set.
type Classification struct {
	Category   string
	Confidence float64
	Rule       string
}

type rule struct {
	name       string
	category   string
	confidence float64
	match      func(FeatureSet) bool
}

// Rules are evaluated top to bottom; the first match wins. Compile rules come
// before runtime rules before logic rules: a compiler diagnostic always means
// the program never ran, so any runtime-looking text alongside it is stale.
var rules = []rule{
	{"compile_undeclared", models.CategoryCompile, 0.92, func(f FeatureSet) bool {
		return f.CompilerDiagnostic && f.DiagnosticCue == "undeclared_identifier"
	}},
	{"compile_type_mismatch", models.CategoryCompile, 0.9, func(f FeatureSet) bool {
		return f.CompilerDiagnostic && f.DiagnosticCue == "type_mismatch"
	}},
	{"compile_parameter_mismatch", models.CategoryCompile, 0.9, func(f FeatureSet) bool {
		return f.CompilerDiagnostic && f.DiagnosticCue == "parameter_mismatch"
	}},
	{"compile_return_type", models.CategoryCompile, 0.86, func(f FeatureSet) bool {
		return f.CompilerDiagnostic && f.DiagnosticCue == "return_type_mismatch"
	}},
	{"compile_pointer_misuse", models.CategoryCompile, 0.88, func(f FeatureSet) bool {
		return f.CompilerDiagnostic && f.DiagnosticCue == "pointer_deref_misuse"
	}},
	{"compile_generic", models.CategoryCompile, 0.7, func(f FeatureSet) bool {
		return f.CompilerDiagnostic
	}},
	{"runtime_sanitizer", models.CategoryRuntime, 0.97, func(f FeatureSet) bool {
		return f.SanitizerFinding != ""
	}},
	{"runtime_signal", models.CategoryRuntime, 0.95, func(f FeatureSet) bool {
		return f.SignalName != ""
	}},
	{"logic_edge_case_empty", models.CategoryLogic, 0.8, func(f FeatureSet) bool {
		return f.CueEmptyCase
	}},
	{"logic_edge_case_single", models.CategoryLogic, 0.76, func(f FeatureSet) bool {
		return f.CueSingleCase
	}},
	{"logic_output_format", models.CategoryLogic, 0.75, func(f FeatureSet) bool {
		return f.CueOutputFormat
	}},
	{"logic_bounds", models.CategoryLogic, 0.79, func(f FeatureSet) bool {
		return f.CueBounds
	}},
	{"logic_test_failure", models.CategoryLogic, 0.6, func(f FeatureSet) bool {
		return f.AssertionFailure
	}},
	{"logic_unchecked_malloc", models.CategoryLogic, 0.55, func(f FeatureSet) bool {
		return f.UsesMalloc && f.UsesFree && !f.NullCheck
	}},
	{"logic_loop_bounds", models.CategoryLogic, 0.5, func(f FeatureSet) bool {
		return f.HasForLoop && f.UsesArrayIndex
	}},
}

// DefaultConfidence is the floor confidence used when no rule matches and the
// submission falls through to the generic logic bucket.
const DefaultConfidence = 0.2

// Classify maps a feature set to a category and confidence. It never fails:
// a feature set matching no rule classifies as logic at minimum confidence,
// so the engine always has a bucket to pick a hint from.
func Classify(features FeatureSet) Classification {
	for _, r := range rules {
		if r.match(features) {
			return Classification{Category: r.category, Confidence: r.confidence, Rule: r.name}
		}
	}
	return Classification{Category: models.CategoryLogic, Confidence: DefaultConfidence, Rule: "default"}
}
