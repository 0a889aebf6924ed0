//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeDocument_EnsureCollections_EncodesEmptyArrays(t *testing.T) {
	doc := &ResumeDocument{
		Name:           "Asha Rao",
		WorkExperience: []WorkExperience{{Role: "Intern", Company: "Acme"}},
		Skills:         []Skill{{Category: "Languages"}},
	}
	doc.EnsureCollections()

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"education", "work_experience", "projects", "skills", "certifications", "achievements"} {
		assert.NotNil(t, raw[key], "%s should encode as an array", key)
	}
	assert.Equal(t, []string{}, doc.WorkExperience[0].Bullets)
	assert.Equal(t, []string{}, doc.Skills[0].List)
}

func TestResumeDocument_SetHeadline(t *testing.T) {
	tests := []struct {
		userType      UserType
		wantSummary   string
		wantObjective string
	}{
		{UserTypeExperienced, "Builds payment systems", ""},
		{UserTypeFresher, "", "Builds payment systems"},
		{UserTypeStudent, "", "Builds payment systems"},
	}

	for _, tt := range tests {
		t.Run(string(tt.userType), func(t *testing.T) {
			doc := &ResumeDocument{Summary: "stale", CareerObjective: "stale"}
			doc.SetHeadline(tt.userType, "Builds payment systems")
			assert.Equal(t, tt.wantSummary, doc.Summary)
			assert.Equal(t, tt.wantObjective, doc.CareerObjective)
			assert.Equal(t, "Builds payment systems", doc.Headline())
		})
	}
}

func TestResumeDocument_Clone_IsDeep(t *testing.T) {
	doc := &ResumeDocument{
		Name:     "Asha",
		Projects: []Project{{Title: "Ledger", Bullets: []string{"a"}}},
	}
	cp := doc.Clone()
	cp.Projects[0].Bullets[0] = "changed"
	cp.Name = "Other"

	assert.Equal(t, "a", doc.Projects[0].Bullets[0])
	assert.Equal(t, "Asha", doc.Name)

	var nilDoc *ResumeDocument
	assert.Nil(t, nilDoc.Clone())
}

func TestUserType_Valid(t *testing.T) {
	assert.True(t, UserTypeFresher.Valid())
	assert.True(t, UserTypeExperienced.Valid())
	assert.False(t, UserType("intern").Valid())
}

func TestAutoApplyRequest_Validate(t *testing.T) {
	ok := AutoApplyRequest{JobID: uuid.New(), UserType: UserTypeStudent}
	assert.NoError(t, ok.Validate())

	missingJob := AutoApplyRequest{UserType: UserTypeStudent}
	assert.Error(t, missingJob.Validate())

	badType := AutoApplyRequest{JobID: uuid.New(), UserType: "intern"}
	assert.Error(t, badType.Validate())
}

func TestCreateOrderRequest_Validate(t *testing.T) {
	ok := CreateOrderRequest{PlanID: "starter_plan", Amount: 64000}
	assert.NoError(t, ok.Validate())

	negativeWallet := CreateOrderRequest{PlanID: "starter_plan", Amount: 64000, WalletDeduction: -1}
	assert.Error(t, negativeWallet.Validate())

	missingPlan := CreateOrderRequest{Amount: 100}
	assert.Error(t, missingPlan.Validate())

	badAddOn := CreateOrderRequest{PlanID: "addon_only", SelectedAddOns: []SelectedAddOn{{ID: ""}}}
	assert.Error(t, badAddOn.Validate())
}

func TestJobListingRequest_ToListing_DefaultsActive(t *testing.T) {
	req := JobListingRequest{CompanyName: "Acme", RoleTitle: "Backend Intern", FullDescription: "<p>Go</p>"}
	require.NoError(t, req.Validate())
	assert.True(t, req.ToListing().IsActive)

	inactive := false
	req.IsActive = &inactive
	assert.False(t, req.ToListing().IsActive)
}
