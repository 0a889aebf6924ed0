// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/autoapply/internal/autoapply"
	"github.com/jonathan/autoapply/internal/billing"
	"github.com/jonathan/autoapply/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, ending with "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// rupees formats paise as a rupee amount.
func rupees(paise int64) string {
	sign := ""
	if paise < 0 {
		sign, paise = "-", -paise
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, paise/100, paise%100)
}

// PrintProgress prints one progress line of a running auto-apply.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event autoapply.ProgressEvent) {
	fmt.Fprintf(p.out, "  → [%s] %s\n", event.Stage, event.Message)
}

// PrintOutcome summarizes a finished auto-apply run.
func (p *Printer) PrintOutcome(out autoapply.Outcome) {
	var sb strings.Builder

	status := "FAILED"
	if out.Success {
		status = "SUCCEEDED"
	}
	sb.WriteString(fmt.Sprintf("Status:   %s\n", status))
	sb.WriteString(fmt.Sprintf("Message:  %s\n", out.Message))
	if out.FailedStage != "" {
		sb.WriteString(fmt.Sprintf("Stage:    %s\n", out.FailedStage))
	}
	if out.Error != "" {
		sb.WriteString(fmt.Sprintf("Error:    %s\n", out.Error))
	}
	if out.OptimizedResumeID != nil {
		sb.WriteString(fmt.Sprintf("Resume:   %s\n", out.OptimizedResumeID))
	}
	if r := out.ApplicationResult; r != nil {
		if r.ApplicationID != "" {
			sb.WriteString(fmt.Sprintf("App ID:   %s\n", r.ApplicationID))
		}
		if r.Status != "" {
			sb.WriteString(fmt.Sprintf("Remote:   %s\n", r.Status))
		}
	}
	if out.FallbackURL != "" {
		sb.WriteString(fmt.Sprintf("Apply at: %s\n", out.FallbackURL))
	}

	if len(out.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		count := min(len(out.Warnings), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", out.Warnings[i]))
		}
		if len(out.Warnings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(out.Warnings)-maxItemsToShow))
		}
	}

	p.printBox("AUTO-APPLY RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompleteness reports which profile fields block auto-apply.
func (p *Printer) PrintCompleteness(c types.ProfileCompleteness) {
	if c.IsComplete {
		p.printBox("PROFILE COMPLETE ✓", "All required fields are present.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Missing:\n")
	for _, f := range c.MissingFields {
		sb.WriteString(fmt.Sprintf("  ✗ %s\n", f))
	}
	p.printBox("PROFILE INCOMPLETE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuote outputs a price breakdown.
func (p *Printer) PrintQuote(q *billing.Quote) {
	if q == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Plan:      %s\n", q.PlanID))
	sb.WriteString(fmt.Sprintf("Base:      %s\n", rupees(q.BasePrice)))
	if q.CouponCode != "" {
		sb.WriteString(fmt.Sprintf("Coupon:    %s (-%s)\n", q.CouponCode, rupees(q.Discount)))
	}
	if q.WalletDeduction > 0 {
		sb.WriteString(fmt.Sprintf("Wallet:    -%s\n", rupees(q.WalletDeduction)))
	}
	if q.AddOnsTotal > 0 {
		sb.WriteString(fmt.Sprintf("Add-ons:   +%s\n", rupees(q.AddOnsTotal)))
	}
	sb.WriteString(fmt.Sprintf("Total:     %s %s\n", rupees(q.FinalAmount), q.Currency))
	sb.WriteString(fmt.Sprintf("Catalog:   v%d", q.CatalogVersion))

	p.printBox("ORDER QUOTE", sb.String())
}

// PrintCatalog lists plans and add-ons. Coupons are not shown.
func (p *Printer) PrintCatalog(c *billing.Catalog) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("Plans:\n")
	for _, plan := range c.Plans {
		sb.WriteString(fmt.Sprintf("  • %-12s %10s  %s\n", plan.ID, rupees(plan.Price), plan.Name))
	}
	if len(c.AddOns) > 0 {
		sb.WriteString("\nAdd-ons:\n")
		for _, a := range c.AddOns {
			sb.WriteString(fmt.Sprintf("  • %-12s %10s  %s\n", a.ID, rupees(a.Price), a.Name))
		}
	}

	p.printBox(fmt.Sprintf("PRICING CATALOG v%d (%s)", c.Version, c.Currency), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs a condensed view of a resume document.
func (p *Printer) PrintResume(title string, r *types.ResumeDocument) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", r.Name))
	if r.TargetRole != "" {
		sb.WriteString(fmt.Sprintf("Target:   %s\n", r.TargetRole))
	}
	if r.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary:  %s\n", r.Summary))
	} else if r.CareerObjective != "" {
		sb.WriteString(fmt.Sprintf("Goal:     %s\n", r.CareerObjective))
	}

	if len(r.WorkExperience) > 0 {
		sb.WriteString("\nExperience:\n")
		for _, w := range r.WorkExperience {
			sb.WriteString(fmt.Sprintf("  • %s, %s (%d bullets)\n", w.Role, w.Company, len(w.Bullets)))
		}
	}

	if len(r.Projects) > 0 {
		sb.WriteString("\nProjects:\n")
		count := min(len(r.Projects), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", r.Projects[i].Title))
		}
	}

	if len(r.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		for _, s := range r.Skills {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", s.Category, strings.Join(s.List, ", ")))
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}
