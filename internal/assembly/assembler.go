package assembly

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/types"
)

// storedResumeLimit bounds how many saved resumes are consulted for project reuse.
const storedResumeLimit = 5

// ProfileStore reads the records a resume is assembled from.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	ListInternships(ctx context.Context, userID uuid.UUID) ([]types.InternshipRecord, error)
	ListCompletedCourses(ctx context.Context, userID uuid.UUID) ([]types.CourseRecord, error)
	ListStoredResumes(ctx context.Context, userID uuid.UUID, limit int) ([]types.StoredResume, error)
}

// Result is an assembled resume plus the best-effort sources that failed.
type Result struct {
	Resume   *types.ResumeDocument
	Warnings []Warning
}

// Assembler builds resumes from profiles.
type Assembler struct {
	store  ProfileStore
	policy ProjectPolicy
}

// NewAssembler creates an Assembler. A nil policy uses ReuseOrPlaceholder.
func NewAssembler(store ProfileStore, policy ProjectPolicy) *Assembler {
	if policy == nil {
		policy = ReuseOrPlaceholder{}
	}
	return &Assembler{store: store, policy: policy}
}

// Assemble builds a resume for the user. Only the profile read is fatal;
// internships, courses and stored resumes degrade to empty with a warning.
func (a *Assembler) Assemble(ctx context.Context, userID uuid.UUID, userType types.UserType) (*Result, error) {
	profile, err := a.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, &AssemblyError{Message: "failed to load profile", Cause: err}
	}
	if profile == nil {
		return nil, &ProfileNotFoundError{UserID: userID}
	}

	internships := fetchBestEffort(ctx, "internships", []types.InternshipRecord{},
		func(ctx context.Context) ([]types.InternshipRecord, error) {
			return a.store.ListInternships(ctx, userID)
		})
	courses := fetchBestEffort(ctx, "completed_courses", []types.CourseRecord{},
		func(ctx context.Context) ([]types.CourseRecord, error) {
			return a.store.ListCompletedCourses(ctx, userID)
		})
	stored := fetchBestEffort(ctx, "stored_resumes", []types.StoredResume{},
		func(ctx context.Context) ([]types.StoredResume, error) {
			return a.store.ListStoredResumes(ctx, userID, storedResumeLimit)
		})

	var warnings []Warning
	for _, w := range []*Warning{internships.Warning, courses.Warning, stored.Warning} {
		if w != nil {
			warnings = append(warnings, *w)
		}
	}

	resume := Build(profile, userType, internships.Value, courses.Value, a.policy.Projects(profile, stored.Value))
	log.Printf("[assembly] built resume for %s: %d experience, %d projects, %d certifications, %d warnings",
		userID, len(resume.WorkExperience), len(resume.Projects), len(resume.Certifications), len(warnings))

	return &Result{Resume: resume, Warnings: warnings}, nil
}

// Build assembles a resume document from already-fetched records. Internships
// are expected newest first; they follow the profile's own experience.
func Build(profile *types.Profile, userType types.UserType, internships []types.InternshipRecord,
	courses []types.CourseRecord, projects []types.Project) *types.ResumeDocument {

	experience := make([]types.WorkExperience, 0, len(profile.Experience)+len(internships))
	experience = append(experience, profile.Experience...)
	for _, rec := range internships {
		experience = append(experience, MapInternship(rec))
	}

	certifications := make([]types.Certification, 0, len(profile.Certifications)+len(courses))
	certifications = append(certifications, profile.Certifications...)
	for _, c := range courses {
		certifications = append(certifications, types.Certification{Title: c.Title, Description: c.Description})
	}

	resume := &types.ResumeDocument{
		Name:           profile.FullName,
		Email:          profile.Email,
		Phone:          profile.Phone,
		LinkedIn:       profile.LinkedIn,
		GitHub:         profile.GitHub,
		Location:       profile.Location,
		Education:      append([]types.Education(nil), profile.Education...),
		WorkExperience: experience,
		Projects:       projects,
		Skills:         append([]types.Skill(nil), profile.Skills...),
		Certifications: certifications,
		Achievements:   []string{},
		Origin:         types.OriginProfileGenerated,
	}
	if profile.Headline != "" {
		resume.SetHeadline(userType, profile.Headline)
	}
	resume.EnsureCollections()
	return resume
}
