package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/autoapply"
	"github.com/jonathan/autoapply/internal/billing"
	"github.com/jonathan/autoapply/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintOutcome_Success(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	id := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	p.PrintOutcome(autoapply.Outcome{
		Success:           true,
		Message:           "Application submitted",
		OptimizedResumeID: &id,
		ApplicationResult: &types.ApplicationResult{ApplicationID: "app-42", Status: types.ApplicationSubmitted},
		Warnings:          []string{"internships unavailable"},
	})
	output := buf.String()

	assert.Contains(t, output, "AUTO-APPLY RESULT")
	assert.Contains(t, output, "SUCCEEDED")
	assert.Contains(t, output, id.String())
	assert.Contains(t, output, "app-42")
	assert.Contains(t, output, "internships unavailable")
	assert.NotContains(t, output, "Stage:")
}

func TestPrintOutcome_Failure(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOutcome(autoapply.Outcome{
		Message:     "Complete your profile",
		FailedStage: autoapply.StateValidatingProfile,
		Error:       "missing phone",
		FallbackURL: "https://jobs.example.com/apply",
	})
	output := buf.String()

	assert.Contains(t, output, "FAILED")
	assert.Contains(t, output, "validating_profile")
	assert.Contains(t, output, "missing phone")
	assert.Contains(t, output, "https://jobs.example.com/apply")
}

func TestPrintOutcome_TruncatesWarnings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOutcome(autoapply.Outcome{Warnings: []string{"a", "b", "c", "d", "e", "f", "g"}})

	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgress(autoapply.ProgressEvent{Stage: autoapply.StateOptimizing, Message: "Tailoring resume"})
	assert.Equal(t, "  → [optimizing] Tailoring resume\n", buf.String())
}

func TestPrintCompleteness(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCompleteness(types.ProfileCompleteness{MissingFields: []string{"phone", "skills"}})
	assert.Contains(t, buf.String(), "PROFILE INCOMPLETE")
	assert.Contains(t, buf.String(), "✗ phone")

	buf.Reset()
	p.PrintCompleteness(types.ProfileCompleteness{IsComplete: true, MissingFields: []string{}})
	assert.Contains(t, buf.String(), "PROFILE COMPLETE")
}

func TestPrintQuote(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuote(&billing.Quote{
		PlanID:         "starter",
		CouponCode:     "WELCOME10",
		BasePrice:      64000,
		Discount:       6400,
		FinalAmount:    57600,
		Currency:       "INR",
		CatalogVersion: 3,
	})
	output := buf.String()

	assert.Contains(t, output, "ORDER QUOTE")
	assert.Contains(t, output, "₹640.00")
	assert.Contains(t, output, "WELCOME10 (-₹64.00)")
	assert.Contains(t, output, "₹576.00 INR")
	assert.Contains(t, output, "v3")
	assert.NotContains(t, output, "Wallet")
}

func TestPrintQuote_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintQuote(nil)
	assert.Empty(t, buf.String())
}

func TestPrintCatalog_HidesCoupons(t *testing.T) {
	catalog, err := billing.DefaultCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, catalog.Coupons)

	var buf bytes.Buffer
	NewPrinter(&buf).PrintCatalog(catalog)
	output := buf.String()

	assert.Contains(t, output, "PRICING CATALOG")
	for _, plan := range catalog.Plans {
		assert.Contains(t, output, plan.ID)
	}
	for _, c := range catalog.Coupons {
		assert.NotContains(t, output, c.Code)
	}
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume("OPTIMIZED RESUME", &types.ResumeDocument{
		Name:           "Asha Rao",
		TargetRole:     "Backend Intern",
		Summary:        "Go developer",
		WorkExperience: []types.WorkExperience{{Role: "Intern", Company: "Acme", Bullets: []string{"a", "b"}}},
		Projects:       []types.Project{{Title: "Ledger"}},
		Skills:         []types.Skill{{Category: "Languages", List: []string{"Go", "SQL"}}},
	})
	output := buf.String()

	assert.Contains(t, output, "OPTIMIZED RESUME")
	assert.Contains(t, output, "Backend Intern")
	assert.Contains(t, output, "Intern, Acme (2 bullets)")
	assert.Contains(t, output, "Ledger")
	assert.Contains(t, output, "Languages: Go, SQL")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume("RESUME", &types.ResumeDocument{
		Name:    "Asha",
		Summary: strings.Repeat("very long summary ", 10),
	})
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
}

func TestRupees(t *testing.T) {
	assert.Equal(t, "₹0.00", rupees(0))
	assert.Equal(t, "₹199.05", rupees(19905))
	assert.Equal(t, "-₹1.50", rupees(-150))
}
