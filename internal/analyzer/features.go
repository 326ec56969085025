package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// FeatureSet is the structured view of one submission extracted from raw
// source text and grader feedback. All fields are cheap token/pattern flags;
// a zero FeatureSet is the valid result for unparseable input.
type FeatureSet struct {
	CompilerDiagnostic bool   `json:"compiler_diagnostic"`
	DiagnosticCue      string `json:"diagnostic_cue"`
	SignalName         string `json:"signal_name"`
	SanitizerFinding   string `json:"sanitizer_finding"`
	AssertionFailure   bool   `json:"assertion_failure"`
	ReportedLine       int    `json:"reported_line"`
	DerefNearLine      bool   `json:"deref_near_line"`

	CueEmptyCase    bool `json:"cue_empty_case"`
	CueSingleCase   bool `json:"cue_single_case"`
	CueOutputFormat bool `json:"cue_output_format"`
	CueBounds       bool `json:"cue_bounds"`

	UsesMalloc     bool `json:"uses_malloc"`
	UsesFree       bool `json:"uses_free"`
	NullCheck      bool `json:"null_check"`
	HasForLoop     bool `json:"has_for_loop"`
	HasWhileLoop   bool `json:"has_while_loop"`
	UsesArrayIndex bool `json:"uses_array_index"`
	LineCount      int  `json:"line_count"`
}

var (
	htmlPolicy = bluemonday.StrictPolicy()

	// Compiler diagnostics worth tutoring, not pure syntax punctuation.
	diagnosticCues = []struct {
		cue     string
		pattern *regexp.Regexp
	}{
		{"undeclared_identifier", regexp.MustCompile(`undeclared(?:\s+identifier)?|was not declared|implicit declaration`)},
		{"type_mismatch", regexp.MustCompile(`conflicting types for|incompatible type|incompatible pointer type`)},
		{"parameter_mismatch", regexp.MustCompile(`too (?:few|many) arguments to function`)},
		{"return_type_mismatch", regexp.MustCompile(`return type .* is not compatible|return makes .* without a cast`)},
		{"pointer_deref_misuse", regexp.MustCompile(`subscripted value is neither array nor pointer|invalid type argument of unary \*`)},
		// Anchored to the file:line(:col): prefix so "runtime error:" style
		// grader messages never read as compiler output.
		{"generic_error", regexp.MustCompile(`(?m)\d+:(?:\d+:)?\s*error:|^error:`)},
	}

	signalPattern = regexp.MustCompile(`segmentation fault|sigsegv|sigabrt|sigfpe|sigbus|floating point exception|bus error`)
	sanitizerCues = []struct {
		cue     string
		pattern *regexp.Regexp
	}{
		{"use_after_free", regexp.MustCompile(`heap-use-after-free|use-after-free`)},
		{"double_free", regexp.MustCompile(`double-free|double free`)},
		{"invalid_free", regexp.MustCompile(`invalid free|free\(\): invalid pointer`)},
		{"out_of_bounds", regexp.MustCompile(`stack-buffer-overflow|heap-buffer-overflow|out of bounds`)},
		{"null_dereference", regexp.MustCompile(`null pointer|dereference of null`)},
	}
	assertionPattern = regexp.MustCompile(`assert(?:ion)?(?:\s+failed|\()|test(?:case)?\s+failed|expected .* (?:but )?got|fail(?:ed)?:`)
	linePattern      = regexp.MustCompile(`(?::|line\s+)(\d+)(?::|\b)`)
	nullCheckPattern = regexp.MustCompile(`if\s*\([^)]*==\s*null|if\s*\(\s*!\s*\w+\s*\)`)
)

// Extract derives a FeatureSet from raw source and feedback text. Pure and
// total: it never fails, and feedback it cannot make sense of simply leaves
// the corresponding flags unset. HTML markup is stripped from the feedback
// first since grading platforms commonly deliver it as rendered fragments.
func Extract(source, feedback string) FeatureSet {
	text := strings.ToLower(htmlPolicy.Sanitize(feedback))
	features := FeatureSet{}

	for _, dc := range diagnosticCues {
		if dc.pattern.MatchString(text) {
			features.CompilerDiagnostic = true
			features.DiagnosticCue = dc.cue
			break
		}
	}

	if m := signalPattern.FindString(text); m != "" {
		features.SignalName = normalizeSignal(m)
	}
	for _, sc := range sanitizerCues {
		if sc.pattern.MatchString(text) {
			features.SanitizerFinding = sc.cue
			break
		}
	}
	features.AssertionFailure = assertionPattern.MatchString(text)

	if m := linePattern.FindStringSubmatch(text); len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			features.ReportedLine = n
		}
	}

	features.CueEmptyCase = containsAny(text, "empty", "n=0", "zero elements", "no elements")
	features.CueSingleCase = containsAny(text, "single element", "one element", "1 element")
	features.CueOutputFormat = containsAny(text, "format", "newline", "trailing space", "whitespace", "output mismatch")
	features.CueBounds = containsAny(text, "bounds", "index", "off by one", "off-by-one", "last element", "first element")

	extractCodeFeatures(source, &features)
	return features
}

func extractCodeFeatures(source string, features *FeatureSet) {
	lower := strings.ToLower(source)
	features.UsesMalloc = strings.Contains(lower, "malloc(")
	features.UsesFree = strings.Contains(lower, "free(")
	features.NullCheck = nullCheckPattern.MatchString(lower)
	features.HasForLoop = strings.Contains(source, "for (") || strings.Contains(source, "for(")
	features.HasWhileLoop = strings.Contains(source, "while (") || strings.Contains(source, "while(")
	features.UsesArrayIndex = strings.Contains(source, "[") && strings.Contains(source, "]")

	lines := strings.Split(source, "\n")
	features.LineCount = len(lines)

	if features.ReportedLine > 0 && features.ReportedLine <= len(lines) {
		reported := lines[features.ReportedLine-1]
		features.DerefNearLine = strings.Contains(reported, "*") || strings.Contains(reported, "->")
	}
}

func normalizeSignal(match string) string {
	switch {
	case strings.Contains(match, "segmentation") || strings.Contains(match, "sigsegv"):
		return "SIGSEGV"
	case strings.Contains(match, "sigabrt"):
		return "SIGABRT"
	case strings.Contains(match, "floating point") || strings.Contains(match, "sigfpe"):
		return "SIGFPE"
	case strings.Contains(match, "bus error") || strings.Contains(match, "sigbus"):
		return "SIGBUS"
	}
	return strings.ToUpper(match)
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// Map flattens the feature set for persistence alongside the submission.
func (f FeatureSet) Map() map[string]interface{} {
	return map[string]interface{}{
		"compiler_diagnostic": f.CompilerDiagnostic,
		"diagnostic_cue":      f.DiagnosticCue,
		"signal_name":         f.SignalName,
		"sanitizer_finding":   f.SanitizerFinding,
		"assertion_failure":   f.AssertionFailure,
		"reported_line":       f.ReportedLine,
		"deref_near_line":     f.DerefNearLine,
		"cue_empty_case":      f.CueEmptyCase,
		"cue_single_case":     f.CueSingleCase,
		"cue_output_format":   f.CueOutputFormat,
		"cue_bounds":          f.CueBounds,
		"uses_malloc":         f.UsesMalloc,
		"uses_free":           f.UsesFree,
		"null_check":          f.NullCheck,
		"has_for_loop":        f.HasForLoop,
		"has_while_loop":      f.HasWhileLoop,
		"uses_array_index":    f.UsesArrayIndex,
		"line_count":          f.LineCount,
	}
}
