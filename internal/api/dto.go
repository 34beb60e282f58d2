package api

import "github.com/starford/namesake/internal/noteservice"

// CopyRequest is the request body for a bulk copy-and-rename.
// When Targets is empty the source's similar notes are used.
type CopyRequest struct {
	Source  string   `json:"source" example:"inbox/Weekly plan.md" validate:"required"`
	Targets []string `json:"targets,omitempty" example:"archive/plan weekly.md"`
}

// SimilarResponse is the reference note and its namesakes (aliased from the domain layer).
type SimilarResponse = noteservice.SimilarResult

// FixImagesResponse describes an image-link rewrite (aliased from the domain layer).
type FixImagesResponse = noteservice.FixResult

// CopyResponse is the per-target report of a bulk copy (aliased from the domain layer).
type CopyResponse = noteservice.CopyReport
