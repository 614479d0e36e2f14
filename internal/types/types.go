// Package types holds the scan data model shared by the detector, the check
// modules, and the orchestrator. Everything here is an immutable value record:
// checks create Issues and PassedChecks, the orchestrator collects them, the
// renderer reads them.
package types

// Severity indicates how bad a detected issue is for the deployment.
type Severity string

const (
	// SeverityError will break the deployment.
	SeverityError Severity = "error"
	// SeverityWarning may break the deployment.
	SeverityWarning Severity = "warning"
	// SeverityInfo is advisory only.
	SeverityInfo Severity = "info"
)

// Category classifies an Issue or PassedCheck by concern.
type Category string

const (
	CategoryPort         Category = "port"
	CategoryHost         Category = "host"
	CategoryStartCommand Category = "start-command"
	CategoryEnvVars      Category = "env-vars"
	CategoryStaticFiles  Category = "static-files"
	CategoryDatabase     Category = "database"
)

// FrameworkKind is the closed set of frameworks the detector can classify.
type FrameworkKind string

const (
	FrameworkExpress FrameworkKind = "express"
	FrameworkNextJS  FrameworkKind = "nextjs"
	FrameworkNestJS  FrameworkKind = "nestjs"
	FrameworkDjango  FrameworkKind = "django"
	FrameworkFlask   FrameworkKind = "flask"
	FrameworkFastAPI FrameworkKind = "fastapi"
	FrameworkUnknown FrameworkKind = "unknown"
)

// Framework is the detection result. Immutable once detected; produced once
// per scan and consumed by every check module.
type Framework struct {
	Kind       FrameworkKind `json:"kind"`
	Version    string        `json:"version,omitempty"`
	EntryPoint string        `json:"entry_point,omitempty"`
}

// IsNode reports whether the framework is a Node.js-family framework.
func (f Framework) IsNode() bool {
	switch f.Kind {
	case FrameworkExpress, FrameworkNextJS, FrameworkNestJS:
		return true
	default:
		return false
	}
}

// IsPython reports whether the framework is a Python-family framework.
func (f Framework) IsPython() bool {
	switch f.Kind {
	case FrameworkDjango, FrameworkFlask, FrameworkFastAPI:
		return true
	default:
		return false
	}
}

// FixSuggestion describes how to remediate an Issue. Before/After are code
// snippets; Steps are ordered manual instructions. All fields optional except
// Description.
type FixSuggestion struct {
	Description string   `json:"description"`
	Before      string   `json:"before,omitempty"`
	After       string   `json:"after,omitempty"`
	Steps       []string `json:"steps,omitempty"`
}

// Issue is a single finding. ID is a stable identifier used for
// de-duplication and as a test key. Line is 1-based; zero means unknown.
type Issue struct {
	ID       string        `json:"id"`
	Severity Severity      `json:"severity"`
	Category Category      `json:"category"`
	Message  string        `json:"message"`
	File     string        `json:"file,omitempty"`
	Line     int           `json:"line,omitempty"`
	Fix      FixSuggestion `json:"fix"`
}

// PassedCheck is a positive finding: a check looked and found nothing wrong.
type PassedCheck struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Likelihood is the three-valued deployment verdict.
type Likelihood string

const (
	WillFail      Likelihood = "will-fail"
	MightFail     Likelihood = "might-fail"
	ShouldSucceed Likelihood = "should-succeed"
)

// Summary holds the aggregate counts and the verdict. Derived from the issue
// and passed-check lists, never stored independently.
type Summary struct {
	TotalIssues          int        `json:"total_issues"`
	Errors               int        `json:"errors"`
	Warnings             int        `json:"warnings"`
	Passed               int        `json:"passed"`
	DeploymentLikelihood Likelihood `json:"deployment_likelihood"`
}

// Result is the top-level scan aggregate, rendered once and discarded.
// Warnings is the warning-severity subset of Issues.
type Result struct {
	ProjectPath string        `json:"project_path"`
	Framework   *Framework    `json:"framework,omitempty"`
	Issues      []Issue       `json:"issues"`
	Warnings    []Issue       `json:"warnings"`
	Passed      []PassedCheck `json:"passed"`
	Summary     Summary       `json:"summary"`
}

// Summarize computes the Summary for a set of findings.
// The verdict is a pure function of the error and warning counts:
// any error means will-fail, otherwise any warning means might-fail.
func Summarize(issues []Issue, passed []PassedCheck) Summary {
	summary := Summary{
		TotalIssues: len(issues),
		Passed:      len(passed),
	}

	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			summary.Errors++
		case SeverityWarning:
			summary.Warnings++
		case SeverityInfo:
		}
	}

	switch {
	case summary.Errors > 0:
		summary.DeploymentLikelihood = WillFail
	case summary.Warnings > 0:
		summary.DeploymentLikelihood = MightFail
	default:
		summary.DeploymentLikelihood = ShouldSucceed
	}

	return summary
}

// NewResult assembles a Result from the orchestrator's collected findings.
func NewResult(projectPath string, framework *Framework, issues []Issue, passed []PassedCheck) *Result {
	warnings := make([]Issue, 0)

	for _, issue := range issues {
		if issue.Severity == SeverityWarning {
			warnings = append(warnings, issue)
		}
	}

	if issues == nil {
		issues = []Issue{}
	}

	if passed == nil {
		passed = []PassedCheck{}
	}

	return &Result{
		ProjectPath: projectPath,
		Framework:   framework,
		Issues:      issues,
		Warnings:    warnings,
		Passed:      passed,
		Summary:     Summarize(issues, passed),
	}
}
