package retrieval

import (
	"context"
	"log"

	"legal-research-be/internal/repository/contract"
	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/websearch"

	"github.com/google/uuid"
)

// Retrieval policy constants. A chunk at exactly SimilarityThreshold is
// excluded (the comparison is strict).
const (
	SimilarityThreshold = 0.45
	MaxResults          = 10

	// WebResultScore is the synthetic similarity assigned to web hits,
	// which carry no cosine score of their own.
	WebResultScore = 0.8
)

// Source origins.
const (
	OriginDocuments = "documents"
	OriginWebSearch = "web_search"
)

// Source is the normalized unit of retrieved context, whether it came from
// the chunk store or from web search. Rank order is presentation order.
type Source struct {
	ChunkId    string
	DocumentId string
	Title      string
	Citation   string
	Type       string
	Content    string
	URL        string
	Similarity float64
	Origin     string
}

// Filters are optional equality filters on the parent document.
type Filters struct {
	DocumentType string
	Year         int
}

// Retriever produces ranked context for a chat turn: web search first when
// requested and entitled, document vector search otherwise.
type Retriever struct {
	chunkRepo contract.DocumentChunkRepository
	embedder  embedding.EmbeddingProvider
	searcher  websearch.Searcher
	logger    *log.Logger
}

func NewRetriever(
	chunkRepo contract.DocumentChunkRepository,
	embedder embedding.EmbeddingProvider,
	searcher websearch.Searcher,
	logger *log.Logger,
) *Retriever {
	return &Retriever{
		chunkRepo: chunkRepo,
		embedder:  embedder,
		searcher:  searcher,
		logger:    logger,
	}
}

// Retrieve returns ranked sources for the query. Failures degrade to an
// empty result set so the chat turn proceeds ungrounded rather than dying.
func (r *Retriever) Retrieve(ctx context.Context, query string, userId uuid.UUID, filters Filters, allowWebSearch bool) []Source {
	if allowWebSearch && r.searcher != nil {
		results, err := r.searcher.Search(ctx, query, MaxResults)
		if err != nil {
			r.logger.Printf("[WARN] Web search failed, falling back to documents: %v", err)
		} else if len(results) > 0 {
			// Web results are authoritative when present; document
			// retrieval is skipped entirely.
			sources := make([]Source, len(results))
			for i, res := range results {
				sources[i] = Source{
					Title:      res.Title,
					Content:    res.Snippet,
					URL:        res.Link,
					Type:       "web",
					Similarity: WebResultScore,
					Origin:     OriginWebSearch,
				}
			}
			return sources
		}
	}

	return r.retrieveFromDocuments(ctx, query, userId, filters)
}

func (r *Retriever) retrieveFromDocuments(ctx context.Context, query string, userId uuid.UUID, filters Filters) []Source {
	embResp, err := r.embedder.Generate(query, embedding.TaskTypeQuery)
	if err != nil {
		r.logger.Printf("[WARN] Query embedding failed, answering ungrounded: %v", err)
		return []Source{}
	}

	scored, err := r.chunkRepo.SearchSimilarWithScore(
		ctx,
		embResp.Embedding.Values,
		MaxResults,
		userId,
		contract.ChunkSearchFilters{
			DocumentType: filters.DocumentType,
			Year:         filters.Year,
		},
		SimilarityThreshold,
	)
	if err != nil {
		r.logger.Printf("[WARN] Vector search failed, answering ungrounded: %v", err)
		return []Source{}
	}

	sources := make([]Source, len(scored))
	for i, sc := range scored {
		sources[i] = Source{
			ChunkId:    sc.Chunk.Id.String(),
			DocumentId: sc.Chunk.DocumentId.String(),
			Title:      sc.DocumentTitle,
			Citation:   sc.DocumentCitation,
			Type:       sc.DocumentType,
			Content:    sc.Chunk.Content,
			Similarity: sc.Similarity,
			Origin:     OriginDocuments,
		}
	}
	return sources
}
