package vectordb

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/triagelab/ai-triage/pkg/models"
)

// Upsert inserts or updates a single issue vector
func (c *Client) Upsert(ctx context.Context, collection string, issue *models.IssueReference, vector []float32) error {
	return c.UpsertBatch(ctx, collection, []*models.IssueReference{issue}, [][]float32{vector})
}

// UpsertBatch inserts or updates multiple issue vectors
func (c *Client) UpsertBatch(ctx context.Context, collection string, issues []*models.IssueReference, vectors [][]float32) error {
	if len(issues) != len(vectors) {
		return fmt.Errorf("issues and vectors length mismatch: %d vs %d", len(issues), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(issues))
	for i, issue := range issues {
		points[i] = referenceToPoint(issue, vectors[i])
	}

	_, err := c.qdrant.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}

// Delete removes points by issue id.
func (c *Client) Delete(ctx context.Context, collection string, issueIDs []string) error {
	pointIds := make([]*qdrant.PointId, len(issueIDs))
	for i, id := range issueIDs {
		pointIds[i] = qdrant.NewIDUUID(models.IssueUUID(id))
	}

	_, err := c.qdrant.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: pointIds,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// referenceToPoint converts an issue to a Qdrant point. The description is
// not stored; text_hash stands in for change detection.
func referenceToPoint(issue *models.IssueReference, vector []float32) *qdrant.PointStruct {
	labelValues := make([]*qdrant.Value, len(issue.Labels))
	for i, label := range issue.Labels {
		labelValues[i] = qdrant.NewValueString(label)
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(issue.UUID()),
		Vectors: qdrant.NewVectors(vector...),
		Payload: map[string]*qdrant.Value{
			"issue_id":     qdrant.NewValueString(issue.IssueID),
			"title":        qdrant.NewValueString(issue.Title),
			"status":       qdrant.NewValueString(issue.Status),
			"url":          qdrant.NewValueString(issue.URL),
			"created_date": qdrant.NewValueString(issue.CreatedDate),
			"text_hash":    qdrant.NewValueString(issue.TextHash()),
			"labels": &qdrant.Value{
				Kind: &qdrant.Value_ListValue{
					ListValue: &qdrant.ListValue{Values: labelValues},
				},
			},
		},
	}
}
