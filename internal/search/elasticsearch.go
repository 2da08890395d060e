// Package search indexes daily production summaries in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/config"
)

// DayDocument is the indexed summary of one planned production day
type DayDocument struct {
	DateKey      string  `json:"dateKey"`
	DisplayDate  string  `json:"displayDate"`
	Weekday      string  `json:"weekday"`
	Source       string  `json:"source"`
	Items        int     `json:"items"`
	TotalUnits   float64 `json:"totalUnits"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalCost    float64 `json:"totalCost"`
	Profit       float64 `json:"profit"`
	FryingShare  float64 `json:"fryingShare"`
	TopCategory  string  `json:"topCategory,omitempty"`
	IndexedAt    string  `json:"indexedAt"`
}

// DayIndex stores day documents
type DayIndex interface {
	IndexDay(ctx context.Context, doc DayDocument) error
	SearchDays(ctx context.Context, query map[string]interface{}) ([]DayDocument, error)
}

// ElasticClient provides integration with Elasticsearch
type ElasticClient struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticClient creates a new Elasticsearch client
func NewElasticClient(cfg config.ElasticConfig) (*ElasticClient, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Elasticsearch client")
	}
	return NewElasticClientFrom(client, config.FormatIndex(cfg, cfg.Index)), nil
}

// NewElasticClientFrom wraps an existing client writing to index
func NewElasticClientFrom(client *elasticsearch.Client, index string) *ElasticClient {
	return &ElasticClient{client: client, index: index}
}

// IndexDay upserts doc under its date key
func (c *ElasticClient) IndexDay(ctx context.Context, doc DayDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal day document")
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: doc.DateKey,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(err, "failed to execute Elasticsearch index request")
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError("index", res.Body)
	}

	log.Debug().Str("date", doc.DateKey).Str("index", c.index).Msg("Production day indexed")
	return nil
}

// SearchDays runs query against the day index and returns the matching documents
func (c *ElasticClient) SearchDays(ctx context.Context, query map[string]interface{}) ([]DayDocument, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal search query")
	}

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Elasticsearch search request")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError("search", res.Body)
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source DayDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to parse Elasticsearch search response")
	}

	docs := make([]DayDocument, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

// RangeQuery matches day documents with a date key between start and end
func RangeQuery(start, end string, size int) map[string]interface{} {
	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"dateKey": map[string]interface{}{"gte": start, "lte": end},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"dateKey": "asc"},
		},
	}
}

func responseError(op string, body io.Reader) error {
	var e map[string]interface{}
	if err := json.NewDecoder(body).Decode(&e); err != nil {
		return errors.Wrap(err, "failed to parse Elasticsearch error response")
	}
	return errors.Errorf("Elasticsearch %s error: %v", op, e)
}
