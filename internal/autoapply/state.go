package autoapply

import (
	"time"

	"github.com/jonathan/autoapply/internal/config"
)

// State is a step of an auto-apply run. Runs move strictly forward through
// the states and end in StateSucceeded or StateFailed.
type State string

const (
	StateIdle              State = "idle"
	StateValidatingProfile State = "validating_profile"
	StateFetchingJob       State = "fetching_job"
	StateAssemblingResume  State = "assembling_resume"
	StateReranking         State = "reranking"
	StateOptimizing        State = "optimizing"
	StateStoring           State = "storing"
	StateSubmitting        State = "submitting"
	StateSucceeded         State = "succeeded"
	StateFailed            State = "failed"
)

var stateMessages = map[State]string{
	StateValidatingProfile: "Checking your profile",
	StateFetchingJob:       "Loading job details",
	StateAssemblingResume:  "Building your resume",
	StateReranking:         "Choosing the most relevant projects",
	StateOptimizing:        "Tailoring your resume to the job",
	StateStoring:           "Saving your optimized resume",
	StateSubmitting:        "Submitting your application",
	StateSucceeded:         "Application submitted",
	StateFailed:            "Auto-apply failed",
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Timeouts bounds each stage's external calls. Zero means unbounded.
type Timeouts struct {
	Profile  time.Duration
	Job      time.Duration
	Assembly time.Duration
	Rerank   time.Duration
	Optimize time.Duration
	Store    time.Duration
	Submit   time.Duration
}

// TimeoutsFromConfig converts configured timeouts.
func TimeoutsFromConfig(t config.Timeouts) Timeouts {
	return Timeouts{
		Profile:  t.Profile.Std(),
		Job:      t.Job.Std(),
		Assembly: t.Assembly.Std(),
		Rerank:   t.Rerank.Std(),
		Optimize: t.Optimize.Std(),
		Store:    t.Store.Std(),
		Submit:   t.Submit.Std(),
	}
}
