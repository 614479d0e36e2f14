package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"railcheck/internal/types"
)

//nolint:gochecknoglobals // render styles, effectively const
var (
	headerStyle = color.New(color.FgCyan, color.Bold)
	errorStyle  = color.New(color.FgRed, color.Bold)
	warnStyle   = color.New(color.FgYellow, color.Bold)
	infoStyle   = color.New(color.FgBlue, color.Bold)
	passStyle   = color.New(color.FgGreen)
	faintStyle  = color.New(color.Faint)
)

// outputJSON emits the full scan result, uncolored, structurally identical
// to the in-memory Result.
func outputJSON(result *types.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(data))

	return nil
}

func outputConsole(result *types.Result, verbose bool) {
	fmt.Println()

	if result.Framework != nil {
		label := string(result.Framework.Kind)
		if result.Framework.Version != "" {
			label += " " + result.Framework.Version
		}

		headerStyle.Printf("Scanning %s project: %s\n", label, result.ProjectPath)
	} else {
		headerStyle.Printf("Scanning project: %s (framework not detected)\n", result.ProjectPath)
	}

	printIssueSection("Errors", errorStyle, "✗", filterSeverity(result.Issues, types.SeverityError))
	printIssueSection("Warnings", warnStyle, "!", filterSeverity(result.Issues, types.SeverityWarning))
	printIssueSection("Info", infoStyle, "i", filterSeverity(result.Issues, types.SeverityInfo))

	if verbose && len(result.Passed) > 0 {
		fmt.Println()
		passStyle.Println("Passed")

		for _, pass := range result.Passed {
			passStyle.Printf("  ✓ %s", pass.Message)
			faintStyle.Printf("  [%s]\n", pass.ID)
		}
	}

	summary := result.Summary

	fmt.Println()
	fmt.Printf("  %-10s %d\n", "issues", summary.TotalIssues)
	fmt.Printf("  %-10s %d\n", "errors", summary.Errors)
	fmt.Printf("  %-10s %d\n", "warnings", summary.Warnings)
	fmt.Printf("  %-10s %d\n", "passed", summary.Passed)
	fmt.Println()

	switch summary.DeploymentLikelihood {
	case types.WillFail:
		errorStyle.Println("✗ Deployment will fail")
	case types.MightFail:
		warnStyle.Println("! Deployment might fail")
	case types.ShouldSucceed:
		passStyle.Println("✓ Deployment should succeed")
	}

	fmt.Println()
}

func printIssueSection(title string, style *color.Color, marker string, issues []types.Issue) {
	if len(issues) == 0 {
		return
	}

	fmt.Println()
	style.Println(title)

	for _, issue := range issues {
		style.Printf("  %s %s\n", marker, issue.Message)

		if issue.File != "" {
			location := issue.File
			if issue.Line > 0 {
				location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
			}

			faintStyle.Printf("    at %s\n", location)
		}

		if issue.Fix.Description != "" {
			fmt.Printf("    fix: %s\n", issue.Fix.Description)
		}

		if issue.Fix.Before != "" {
			errorStyle.Printf("      - %s\n", issue.Fix.Before)
		}

		if issue.Fix.After != "" {
			passStyle.Printf("      + %s\n", issue.Fix.After)
		}

		for i, step := range issue.Fix.Steps {
			fmt.Printf("      %d. %s\n", i+1, step)
		}
	}
}

func filterSeverity(issues []types.Issue, severity types.Severity) []types.Issue {
	var filtered []types.Issue

	for _, issue := range issues {
		if issue.Severity == severity {
			filtered = append(filtered, issue)
		}
	}

	return filtered
}
