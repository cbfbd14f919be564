package email

// PreviewData holds sample data for every template, keyed by template name.
// Tests render each template with it.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName":  "John",
		"UserEmail": "john@example.com",
	},
}
