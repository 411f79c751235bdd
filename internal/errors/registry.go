package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	DocURL   string
}

const docBase = "https://github.com/vango-dev/enhance/blob/main/docs/errors.md#"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (E001-E009)
	// ============================================

	"E001": {
		Category: CategoryRender,
		Message:  "Missing template function",
		DocURL:   docBase + "e001",
	},
	"E002": {
		Category: CategoryRender,
		Message:  "Malformed document",
		DocURL:   docBase + "e002",
	},
	"E003": {
		Category: CategoryRender,
		Message:  "Transform failed",
		DocURL:   docBase + "e003",
	},
	"E004": {
		Category: CategoryRender,
		Message:  "Render function failed",
		DocURL:   docBase + "e004",
	},
	"E005": {
		Category: CategoryRender,
		Message:  "Serialization failed",
		DocURL:   docBase + "e005",
	},

	// ============================================
	// Template Errors (E010-E019)
	// ============================================

	"E010": {
		Category: CategoryTemplate,
		Message:  "Element template parse failed",
		DocURL:   docBase + "e010",
	},
	"E011": {
		Category: CategoryTemplate,
		Message:  "Invalid element name",
		DocURL:   docBase + "e011",
	},
	"E012": {
		Category: CategoryTemplate,
		Message:  "Element source unavailable",
		DocURL:   docBase + "e012",
	},

	// ============================================
	// Config Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		DocURL:   docBase + "e020",
	},
	"E021": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		DocURL:   docBase + "e021",
	},
	"E022": {
		Category: CategoryConfig,
		Message:  "Conflicting output modes",
		DocURL:   docBase + "e022",
	},
	"E023": {
		Category: CategoryConfig,
		Message:  "Invalid state file",
		DocURL:   docBase + "e023",
	},

	// ============================================
	// CLI Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryCLI,
		Message:  "Input not readable",
		DocURL:   docBase + "e040",
	},
	"E041": {
		Category: CategoryCLI,
		Message:  "Server failed",
		DocURL:   docBase + "e041",
	},
	"E042": {
		Category: CategoryCLI,
		Message:  "Project directory already exists",
		DocURL:   docBase + "e042",
	},
	"E043": {
		Category: CategoryCLI,
		Message:  "Unknown project template",
		DocURL:   docBase + "e043",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
