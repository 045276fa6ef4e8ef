// Package domain holds the view models handed to templates and the JSON API.
package domain

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error      string
	Success    string
	CSRFToken  string // CSRF token for form submissions
	HasAccess  bool   // drives the navbar badge and logout button
	Pricing    Pricing
	Validation ValidationData
	Year       int
}

type Pricing struct {
	Amount string
	Period string
}

// ValidationData mirrors the form limits so inputs can carry maxlength.
type ValidationData struct {
	NameMaxLen       int
	EmailMaxLen      int
	CredentialMaxLen int
}
