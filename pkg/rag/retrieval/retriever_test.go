package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/contract"
	"legal-research-be/internal/repository/specification"
	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/websearch"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeSearcher struct {
	calls   int
	results []websearch.Result
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]websearch.Result, error) {
	f.calls++
	return f.results, f.err
}

type fakeChunkRepo struct {
	calls         int
	lastThreshold float64
	lastLimit     int
	lastFilters   contract.ChunkSearchFilters
	scored        []*contract.ScoredChunk
	err           error
}

func (f *fakeChunkRepo) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	return nil
}

func (f *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	return nil
}

func (f *fakeChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return nil
}

func (f *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	return nil, nil
}

func (f *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (f *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, userId uuid.UUID, filters contract.ChunkSearchFilters, threshold float64) ([]*contract.ScoredChunk, error) {
	f.calls++
	f.lastThreshold = threshold
	f.lastLimit = limit
	f.lastFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.scored, nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func scoredChunk(title string, similarity float64) *contract.ScoredChunk {
	return &contract.ScoredChunk{
		Chunk: &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: uuid.New(),
			Content:    "chunk body",
		},
		DocumentTitle:    title,
		DocumentType:     "case_law",
		DocumentCitation: "123 F.3d 456",
		Similarity:       similarity,
	}
}

func TestRetrieveWebSearchPrecedence(t *testing.T) {
	repo := &fakeChunkRepo{scored: []*contract.ScoredChunk{scoredChunk("doc", 0.9)}}
	emb := &fakeEmbedder{}
	web := &fakeSearcher{results: []websearch.Result{
		{Title: "Smith v. Jones analysis", Link: "https://example.com/a", Snippet: "The court held..."},
		{Title: "Statute overview", Link: "https://example.com/b", Snippet: "Section 12 provides..."},
	}}

	r := NewRetriever(repo, emb, web, discardLogger())
	sources := r.Retrieve(context.Background(), "negligence standard", uuid.New(), Filters{}, true)

	require.Len(t, sources, 2)
	assert.Equal(t, 1, web.calls)
	assert.Equal(t, 0, repo.calls, "document retrieval must be skipped when web results exist")
	assert.Equal(t, 0, emb.calls)
	for _, src := range sources {
		assert.Equal(t, OriginWebSearch, src.Origin)
		assert.Equal(t, WebResultScore, src.Similarity)
		assert.NotEmpty(t, src.URL)
	}
}

func TestRetrieveWebSearchEmptyFallsBack(t *testing.T) {
	repo := &fakeChunkRepo{scored: []*contract.ScoredChunk{scoredChunk("doc", 0.9)}}
	web := &fakeSearcher{results: nil}

	r := NewRetriever(repo, &fakeEmbedder{}, web, discardLogger())
	sources := r.Retrieve(context.Background(), "query", uuid.New(), Filters{}, true)

	require.Len(t, sources, 1)
	assert.Equal(t, 1, web.calls)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, OriginDocuments, sources[0].Origin)
}

func TestRetrieveWebSearchErrorFallsBack(t *testing.T) {
	repo := &fakeChunkRepo{scored: []*contract.ScoredChunk{scoredChunk("doc", 0.8)}}
	web := &fakeSearcher{err: errors.New("search api down")}

	r := NewRetriever(repo, &fakeEmbedder{}, web, discardLogger())
	sources := r.Retrieve(context.Background(), "query", uuid.New(), Filters{}, true)

	require.Len(t, sources, 1)
	assert.Equal(t, 1, repo.calls)
}

func TestRetrieveWebSearchNotRequested(t *testing.T) {
	repo := &fakeChunkRepo{scored: []*contract.ScoredChunk{scoredChunk("doc", 0.8)}}
	web := &fakeSearcher{results: []websearch.Result{{Title: "hit"}}}

	r := NewRetriever(repo, &fakeEmbedder{}, web, discardLogger())
	r.Retrieve(context.Background(), "query", uuid.New(), Filters{}, false)

	assert.Equal(t, 0, web.calls)
	assert.Equal(t, 1, repo.calls)
}

func TestRetrievePassesPolicyToStore(t *testing.T) {
	repo := &fakeChunkRepo{}

	r := NewRetriever(repo, &fakeEmbedder{}, nil, discardLogger())
	r.Retrieve(context.Background(), "query", uuid.New(), Filters{DocumentType: "statute", Year: 2019}, false)

	assert.Equal(t, SimilarityThreshold, repo.lastThreshold)
	assert.Equal(t, MaxResults, repo.lastLimit)
	assert.Equal(t, "statute", repo.lastFilters.DocumentType)
	assert.Equal(t, 2019, repo.lastFilters.Year)
}

func TestRetrieveEmbeddingFailureDegrades(t *testing.T) {
	repo := &fakeChunkRepo{scored: []*contract.ScoredChunk{scoredChunk("doc", 0.8)}}
	emb := &fakeEmbedder{err: errors.New("embedding api 500")}

	r := NewRetriever(repo, emb, nil, discardLogger())
	sources := r.Retrieve(context.Background(), "query", uuid.New(), Filters{}, false)

	assert.Empty(t, sources)
	assert.Equal(t, 0, repo.calls)
}

func TestRetrieveStoreFailureDegrades(t *testing.T) {
	repo := &fakeChunkRepo{err: errors.New("db down")}

	r := NewRetriever(repo, &fakeEmbedder{}, nil, discardLogger())
	sources := r.Retrieve(context.Background(), "query", uuid.New(), Filters{}, false)

	assert.Empty(t, sources)
}

func TestRetrieveMapsDocumentFields(t *testing.T) {
	sc := scoredChunk("Smith v. Jones", 0.72)
	repo := &fakeChunkRepo{scored: []*contract.ScoredChunk{sc}}

	r := NewRetriever(repo, &fakeEmbedder{}, nil, discardLogger())
	sources := r.Retrieve(context.Background(), "query", uuid.New(), Filters{}, false)

	require.Len(t, sources, 1)
	src := sources[0]
	assert.Equal(t, sc.Chunk.Id.String(), src.ChunkId)
	assert.Equal(t, sc.Chunk.DocumentId.String(), src.DocumentId)
	assert.Equal(t, "Smith v. Jones", src.Title)
	assert.Equal(t, "123 F.3d 456", src.Citation)
	assert.Equal(t, "case_law", src.Type)
	assert.Equal(t, "chunk body", src.Content)
	assert.Equal(t, 0.72, src.Similarity)
	assert.Equal(t, OriginDocuments, src.Origin)
}
