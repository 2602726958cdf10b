package vectordb

import (
	"context"
	"fmt"
	"sort"

	"github.com/qdrant/go-client/qdrant"

	"github.com/triagelab/ai-triage/pkg/models"
)

// SearchResult contains a search result with score
type SearchResult struct {
	Issue models.IssueReference
	Score float64
}

// SearchOptions controls a similarity query.
type SearchOptions struct {
	Limit     int
	Threshold float64
	OpenOnly  bool
	// ClosedWeight damps the scores of closed issues when > 0, so stale
	// matches rank below live ones without disappearing.
	ClosedWeight float64
}

// Search finds the issues most similar to the query vector.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, opts SearchOptions) ([]SearchResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = 5
	}

	var filter *qdrant.Filter
	if opts.OpenOnly {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatchKeyword("status", "open"),
			},
		}
	}

	scoreThreshold := float32(opts.Threshold)
	points, err := c.qdrant.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		// Fetch extra so closed-score damping cannot push a better-ranked
		// open result out of the window.
		Limit:          qdrant.PtrOf(uint64(opts.Limit * 2)),
		ScoreThreshold: &scoreThreshold,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         filter,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, SearchResult{
			Issue: payloadToReference(point.Payload),
			Score: float64(point.Score),
		})
	}

	return rankResults(results, opts.ClosedWeight, opts.Limit), nil
}

// rankResults applies closed-score damping, re-sorts, and trims to limit.
func rankResults(results []SearchResult, closedWeight float64, limit int) []SearchResult {
	if closedWeight > 0 {
		for i := range results {
			if !results[i].Issue.IsOpen() {
				results[i].Score *= closedWeight
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// payloadToReference converts a Qdrant payload back into an issue
// reference. Descriptions are not stored in the index.
func payloadToReference(payload map[string]*qdrant.Value) models.IssueReference {
	issue := models.IssueReference{}

	if v := payload["issue_id"]; v != nil {
		issue.IssueID = v.GetStringValue()
	}
	if v := payload["title"]; v != nil {
		issue.Title = v.GetStringValue()
	}
	if v := payload["status"]; v != nil {
		issue.Status = v.GetStringValue()
	}
	if v := payload["url"]; v != nil {
		issue.URL = v.GetStringValue()
	}
	if v := payload["created_date"]; v != nil {
		issue.CreatedDate = v.GetStringValue()
	}
	if v := payload["labels"]; v != nil {
		if list := v.GetListValue(); list != nil {
			for _, item := range list.Values {
				issue.Labels = append(issue.Labels, item.GetStringValue())
			}
		}
	}

	return issue
}
