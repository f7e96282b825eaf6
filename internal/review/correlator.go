// Package review joins ideas with their admin feedback and classifies them
// by the decision of the most recent feedback record.
package review

import (
	"context"
	"log"

	"thinktank/internal/models"
)

// FeedbackFetcher loads the feedback records referencing one idea.
type FeedbackFetcher interface {
	FeedbackByIdea(ctx context.Context, ideaID int) ([]models.Feedback, error)
}

// Result holds correlated ideas, each carrying at most its canonical
// feedback, in input order.
type Result struct {
	Ideas    []models.Idea
	Approved []models.Idea
	Rejected []models.Idea
	// Pending holds ideas with no feedback or a Reviewed decision.
	Pending []models.Idea
}

// CanonicalFeedback returns the record with the greatest CreatedAt. On a
// tie the first encountered wins. It returns nil for an empty list.
func CanonicalFeedback(feedback []models.Feedback) *models.Feedback {
	var latest *models.Feedback
	for i := range feedback {
		if latest == nil || feedback[i].CreatedAt.After(latest.CreatedAt.Time) {
			latest = &feedback[i]
		}
	}
	if latest == nil {
		return nil
	}
	canonical := *latest
	return &canonical
}

// Correlate fetches feedback for every idea and classifies it. A failed
// fetch leaves that idea without feedback; only cancellation of ctx aborts.
func Correlate(ctx context.Context, ideas []models.Idea, fetcher FeedbackFetcher) (Result, error) {
	res := Result{
		Ideas:    make([]models.Idea, 0, len(ideas)),
		Approved: []models.Idea{},
		Rejected: []models.Idea{},
		Pending:  []models.Idea{},
	}

	for _, idea := range ideas {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		var canonical *models.Feedback
		if id, ok := idea.NumericID(); ok {
			feedback, err := fetcher.FeedbackByIdea(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return Result{}, ctx.Err()
				}
				log.Printf("[Correlator] Failed to load feedback for idea %s, treating as none: %v", idea.ID, err)
			} else {
				canonical = CanonicalFeedback(feedback)
			}
		} else {
			log.Printf("[Correlator] Idea id %q is not numeric, skipping feedback lookup", idea.ID)
		}

		res.add(attach(idea, canonical))
	}
	return res, nil
}

// Classify buckets ideas whose Feedback has already been loaded, using the
// canonical record of each idea's own list.
func Classify(ideas []models.Idea) Result {
	res := Result{
		Ideas:    make([]models.Idea, 0, len(ideas)),
		Approved: []models.Idea{},
		Rejected: []models.Idea{},
		Pending:  []models.Idea{},
	}
	for _, idea := range ideas {
		res.add(attach(idea, CanonicalFeedback(idea.Feedback)))
	}
	return res
}

func attach(idea models.Idea, canonical *models.Feedback) models.Idea {
	if canonical == nil {
		idea.Feedback = []models.Feedback{}
	} else {
		idea.Feedback = []models.Feedback{*canonical}
	}
	return idea
}

func (r *Result) add(idea models.Idea) {
	r.Ideas = append(r.Ideas, idea)
	latest := idea.LatestFeedback()
	switch {
	case latest == nil:
		r.Pending = append(r.Pending, idea)
	case latest.Status == models.FeedbackApproved:
		r.Approved = append(r.Approved, idea)
	case latest.Status == models.FeedbackRejected:
		r.Rejected = append(r.Rejected, idea)
	default:
		r.Pending = append(r.Pending, idea)
	}
}
