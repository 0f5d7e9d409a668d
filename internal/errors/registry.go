package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category:   CategoryConfig,
		Message:    "Invalid bento.json",
		Suggestion: "Check that bento.json is valid JSON",
		DocURL:     "https://bento.dev/docs/errors/E120",
	},
	"E121": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create bento.json or pass --config",
		DocURL:     "https://bento.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   "https://bento.dev/docs/errors/E122",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Cannot write output file",
		DocURL:   "https://bento.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Scenario file not found",
		DocURL:   "https://bento.dev/docs/errors/E141",
	},
	"E142": {
		Category:   CategoryCLI,
		Message:    "Invalid scenario",
		Suggestion: "Scenario files are YAML documents with a top-level 'renders' list",
		DocURL:     "https://bento.dev/docs/errors/E142",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Surface did not converge",
		DocURL:   "https://bento.dev/docs/errors/E143",
	},

	// ============================================
	// Protocol Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryProtocol,
		Message:  "Malformed script frame",
		DocURL:   "https://bento.dev/docs/errors/E160",
	},

	// ============================================
	// Identity Errors (E200-E299)
	// ============================================

	"E201": {
		Category:   CategoryIdentity,
		Message:    "Duplicate section identifier",
		Suggestion: "Section identifiers must be unique among the sections of a box",
		DocURL:     "https://bento.dev/docs/errors/E201",
	},
	"E202": {
		Category:   CategoryIdentity,
		Message:    "Duplicate row identifier",
		Suggestion: "Row identifiers must be unique within their section",
		DocURL:     "https://bento.dev/docs/errors/E202",
	},

	// ============================================
	// Surface Errors (E300-E399)
	// ============================================

	"E301": {
		Category:   CategorySurface,
		Message:    "Batch update rejected by surface",
		Suggestion: "The surface must only be mutated through the engine that owns it",
		DocURL:     "https://bento.dev/docs/errors/E301",
	},
	"E302": {
		Category: CategorySurface,
		Message:  "Index out of range",
		DocURL:   "https://bento.dev/docs/errors/E302",
	},
	"E303": {
		Category: CategorySurface,
		Message:  "Data source inconsistent with batch",
		DocURL:   "https://bento.dev/docs/errors/E303",
	},
	"E304": {
		Category: CategorySurface,
		Message:  "Conflicting operations in batch",
		DocURL:   "https://bento.dev/docs/errors/E304",
	},
	"E305": {
		Category: CategorySurface,
		Message:  "Engine closed",
		DocURL:   "https://bento.dev/docs/errors/E305",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
