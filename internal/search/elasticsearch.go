package search

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"example.com/edueat/services/cafeteria/config"
	"example.com/edueat/services/cafeteria/internal/models"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ElasticClient provides integration with Elasticsearch
type ElasticClient struct {
	client *elasticsearch.Client
	config config.ElasticConfig
}

// NewElasticClient creates a new Elasticsearch client
func NewElasticClient(cfg config.ElasticConfig) (*ElasticClient, error) {
	esConfig := elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Elasticsearch client")
	}

	return &ElasticClient{
		client: client,
		config: cfg,
	}, nil
}

// IndexOrder indexes an order document for staff board search. The order id
// doubles as the document id so reindexing is idempotent.
func (c *ElasticClient) IndexOrder(ctx context.Context, order *models.Order) error {
	log.Info().Str("order_id", order.ID.String()).Msg("indexing order")

	lines := make([]map[string]interface{}, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, map[string]interface{}{
			"menu_item_id": line.MenuItemID.String(),
			"name":         line.Name,
			"quantity":     line.Quantity,
			"notes":        line.Notes,
		})
	}

	orderDoc := map[string]interface{}{
		"id":             order.ID.String(),
		"parent_id":      order.ParentID.String(),
		"child_name":     order.ChildName,
		"status":         order.Status,
		"total":          order.Total,
		"scheduled_date": order.ScheduledDate.Format("2006-01-02"),
		"created_at":     order.CreatedAt.Format(time.RFC3339),
		"lines":          lines,
	}

	docJSON, err := json.Marshal(orderDoc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal order document")
	}

	indexName := config.FormatIndex(c.config, c.config.Index)
	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: order.ID.String(),
		Body:       bytes.NewReader(docJSON),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(err, "failed to execute Elasticsearch index request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return errors.Errorf("Elasticsearch index error: %v", e)
	}

	log.Info().Str("order_id", order.ID.String()).Msg("order indexed successfully")
	return nil
}

// SearchOrders runs a free-text search over child names, line names and
// statuses and returns the matching documents.
func (c *ElasticClient) SearchOrders(ctx context.Context, term string) ([]map[string]interface{}, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  term,
				"fields": []string{"child_name", "lines.name", "status"},
			},
		},
	}

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal search query")
	}

	indexName := config.FormatIndex(c.config, c.config.Index)
	res, err := c.client.Search(
		c.client.Search.WithContext(ctx),
		c.client.Search.WithIndex(indexName),
		c.client.Search.WithBody(bytes.NewReader(queryJSON)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Elasticsearch search")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return nil, errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return nil, errors.Errorf("Elasticsearch search error: %v", e)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response")
	}

	results := make([]map[string]interface{}, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		results = append(results, hit.Source)
	}

	return results, nil
}
