// Package search keeps an Elasticsearch product index in sync and queries it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/grocery_shop/internal/models"
)

type Index struct {
	ES    *elasticsearch.Client
	Index string
}

func (ix *Index) Put(ctx context.Context, p models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	res, err := ix.ES.Index(ix.Index, &buf,
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(p.ID),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product", res.Status(), res.Body)
	}
	return nil
}

func (ix *Index) Remove(ctx context.Context, id string) error {
	res, err := ix.ES.Delete(ix.Index, id, ix.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete product", res.Status(), res.Body)
	}
	return nil
}

// searchBody matches every product for a blank query, like the catalog
// filter does.
func searchBody(query string, from, size int) map[string]any {
	q := map[string]any{"match_all": map[string]any{}}
	if query = strings.TrimSpace(query); query != "" {
		q = map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "category"},
				"fuzziness": "AUTO",
			},
		}
	}
	return map[string]any{"query": q, "from": from, "size": size}
}

func (ix *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchBody(query, from, size)); err != nil {
		return 0, nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.Status(), res.Body)
	}

	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) (int64, []models.Product, error) {
	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return 0, nil, fmt.Errorf("decode search: %w", err)
	}

	prods := make([]models.Product, len(out.Hits.Hits))
	for i, hit := range out.Hits.Hits {
		prods[i] = hit.Source
	}
	return out.Hits.Total.Value, prods, nil
}

func responseError(op, status string, body io.Reader) error {
	raw, _ := io.ReadAll(body)
	return fmt.Errorf("%s: elasticsearch %s: %s", op, status, raw)
}
