package vectordb

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

const defaultVectorDimensions = 768

// EnsureCollection creates the collection if it doesn't exist, with cosine
// distance and payload indexes for the filterable fields.
func (c *Client) EnsureCollection(ctx context.Context, name string, dimensions int) error {
	if dimensions <= 0 {
		dimensions = defaultVectorDimensions
	}

	exists, err := c.qdrant.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = c.qdrant.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	indexes := []struct {
		field     string
		fieldType qdrant.FieldType
	}{
		{"issue_id", qdrant.FieldType_FieldTypeKeyword},
		{"status", qdrant.FieldType_FieldTypeKeyword},
		{"labels", qdrant.FieldType_FieldTypeKeyword},
	}

	for _, idx := range indexes {
		_, err = c.qdrant.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      idx.field,
			FieldType:      qdrant.PtrOf(idx.fieldType),
		})
		if err != nil {
			// Index creation failure is not fatal; filters fall back to
			// full scans.
			c.logger.Warn().Err(err).Str("field", idx.field).Msg("failed to create payload index")
		}
	}

	return nil
}

// DeleteCollection removes a collection
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	return c.qdrant.DeleteCollection(ctx, name)
}

// CollectionExists checks if a collection exists
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	return c.qdrant.CollectionExists(ctx, name)
}
