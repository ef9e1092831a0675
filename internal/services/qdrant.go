package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantService maintains the vector collection of published jobs used
// to ground enrichment prompts with similar postings.
type QdrantService interface {
	InitCollection() error
	IndexJob(ctx context.Context, jobID, title, companyName, text string, embedding []float32) error
	SearchSimilarJobs(ctx context.Context, queryEmbedding []float32, limit int) ([]SimilarJob, error)
	DeleteJob(ctx context.Context, jobID string) error
}

type SimilarJob struct {
	JobID       string
	Score       float32
	Title       string
	CompanyName string
	Text        string
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (QdrantService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
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

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
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

// IndexJob implements QdrantService.
func (q *qdrantService) IndexJob(ctx context.Context, jobID, title, companyName, text string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(jobID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"job_id":       jobID,
			"title":        title,
			"company_name": companyName,
			"text":         text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilarJobs implements QdrantService.
func (q *qdrantService) SearchSimilarJobs(ctx context.Context, queryEmbedding []float32, limit int) ([]SimilarJob, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []SimilarJob
	for _, point := range searchResult {
		payload := point.Payload

		result := SimilarJob{
			Score: point.Score,
		}

		if v, ok := payload["job_id"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				result.JobID = val.StringValue
			}
		}
		if v, ok := payload["title"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				result.Title = val.StringValue
			}
		}
		if v, ok := payload["company_name"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				result.CompanyName = val.StringValue
			}
		}
		if v, ok := payload["text"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				result.Text = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// DeleteJob implements QdrantService.
func (q *qdrantService) DeleteJob(ctx context.Context, jobID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("job_id", jobID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	return nil
}
