// Package search mirrors the product catalog into Elasticsearch and serves
// free-text storefront search over title, description and search keywords.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/tiflun/storefront/internal/models"
)

const DefaultIndex = "products"

type Service struct {
	ES    *elasticsearch.Client
	Index string
}

func (s *Service) index() string {
	if s.Index == "" {
		return DefaultIndex
	}
	return s.Index
}

func (s *Service) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}

	res, err := s.ES.Index(
		s.index(),
		bytes.NewReader(body),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(p.ID),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index product: %s", res.Status())
	}
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.ES.Delete(s.index(), id, s.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()

	// 404 here means the product never made it into the index; nothing to do.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product: %s", res.Status())
	}
	return nil
}

func (s *Service) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description", "searchKeywords"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.index()),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}
