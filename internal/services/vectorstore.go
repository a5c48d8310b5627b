package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// VectorStore keeps profile-summary embeddings for similar-profile lookups.
// Writes are keyed by audit id, so re-running persistence is idempotent.
// Every caller treats it as best-effort.
type VectorStore interface {
	InitCollection() error
	UpsertProfileEmbedding(ctx context.Context, auditID uuid.UUID, externalID, targetRole string, embedding []float32) error
	SearchSimilarProfiles(ctx context.Context, embedding []float32, limit int) ([]ProfileMatch, error)
}

type ProfileMatch struct {
	AuditID    string
	ExternalID string
	TargetRole string
	Score      float32
}

type qdrantVectorStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewVectorStore(urlStr, apiKey, collectionName string) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantVectorStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768,
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantVectorStore) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Profile embedding collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertProfileEmbedding implements VectorStore.
func (q *qdrantVectorStore) UpsertProfileEmbedding(ctx context.Context, auditID uuid.UUID, externalID, targetRole string, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("refusing to index a zero-length embedding")
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(auditID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"audit_id":    auditID.String(),
			"external_id": externalID,
			"target_role": targetRole,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert profile embedding: %w", err)
	}

	return nil
}

// SearchSimilarProfiles implements VectorStore.
func (q *qdrantVectorStore) SearchSimilarProfiles(ctx context.Context, embedding []float32, limit int) ([]ProfileMatch, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("cannot search with a zero-length embedding")
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	var matches []ProfileMatch
	for _, point := range searchResult {
		match := ProfileMatch{Score: point.Score}

		payload := point.Payload
		if v, ok := payload["audit_id"]; ok {
			if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.AuditID = s.StringValue
			}
		}
		if v, ok := payload["external_id"]; ok {
			if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.ExternalID = s.StringValue
			}
		}
		if v, ok := payload["target_role"]; ok {
			if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.TargetRole = s.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}
