package review

import (
	"context"
	"fmt"
	"log"

	"thinktank/internal/models"
)

// DashboardSource is the subset of the API the dashboard needs.
type DashboardSource interface {
	AllFeedback(ctx context.Context) ([]models.Feedback, error)
	AllIdeas(ctx context.Context) ([]models.Idea, error)
	PublicIdeas(ctx context.Context) ([]models.Idea, error)
}

// ApprovedFromAllFeedback groups feedback by idea, picks the canonical
// record per idea and returns the ideas whose canonical status is Approved,
// in the order of ideas. Feedback without an idea reference is ignored.
func ApprovedFromAllFeedback(ideas []models.Idea, feedback []models.Feedback) []models.Idea {
	byIdea := make(map[string][]models.Feedback)
	for _, f := range feedback {
		id := f.IdeaID()
		if id == "" {
			continue
		}
		byIdea[id] = append(byIdea[id], f)
	}

	approved := []models.Idea{}
	for _, idea := range ideas {
		canonical := CanonicalFeedback(byIdea[idea.ID])
		if canonical == nil || canonical.Status != models.FeedbackApproved {
			continue
		}
		approved = append(approved, attach(idea, canonical))
	}
	return approved
}

// Dashboard returns the approved ideas. It tries the admin listing first;
// if listing all feedback fails for any reason it substitutes the public
// feed and reports usedFallback. Failures after the admin listing
// succeeded are returned as errors.
func Dashboard(ctx context.Context, src DashboardSource) (ideas []models.Idea, usedFallback bool, err error) {
	feedback, err := src.AllFeedback(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		log.Printf("[Dashboard] Admin feedback listing unavailable, using public ideas: %v", err)
		public, err := src.PublicIdeas(ctx)
		if err != nil {
			return nil, true, fmt.Errorf("failed to load public ideas: %w", err)
		}
		if public == nil {
			public = []models.Idea{}
		}
		return public, true, nil
	}

	all, err := src.AllIdeas(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load ideas: %w", err)
	}
	return ApprovedFromAllFeedback(all, feedback), false, nil
}
