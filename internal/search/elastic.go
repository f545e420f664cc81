// Package search keeps the storefront product index in step with synced
// products.
package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/fekuna/omnipos-catalog-sync/config"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const productMapping = `{
	"mappings": {
		"properties": {
			"remote_id": { "type": "long" },
			"sku": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"category": { "type": "keyword" },
			"storage_type": { "type": "keyword" },
			"tags": { "type": "keyword" },
			"price": { "type": "double" },
			"discount": { "type": "integer" },
			"is_active": { "type": "boolean" },
			"is_featured": { "type": "boolean" },
			"stock_quantity": { "type": "integer" },
			"updated_at": { "type": "date" }
		}
	}
}`

type productDocument struct {
	RemoteID      *int64    `json:"remote_id,omitempty"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Category      string    `json:"category"`
	StorageType   string    `json:"storage_type"`
	Tags          []string  `json:"tags"`
	Price         float64   `json:"price"`
	Discount      *int      `json:"discount,omitempty"`
	IsActive      bool      `json:"is_active"`
	IsFeatured    bool      `json:"is_featured"`
	StockQuantity int       `json:"stock_quantity"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newProductDocument(p *model.Product) productDocument {
	return productDocument{
		RemoteID:      p.RemoteID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		StorageType:   p.StorageType,
		Tags:          []string(p.Tags),
		Price:         p.Price,
		Discount:      p.Discount,
		IsActive:      p.IsActive,
		IsFeatured:    p.IsFeatured,
		StockQuantity: p.StockQuantity,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ProductIndexer writes product documents keyed by local product id.
type ProductIndexer struct {
	es     *elasticsearch.Client
	index  string
	logger logger.ZapLogger

	mu    sync.Mutex
	ready bool
}

func NewProductIndexer(cfg *config.ElasticsearchConfig, log logger.ZapLogger) (*ProductIndexer, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = "products"
	}
	return &ProductIndexer{es: es, index: index, logger: log}, nil
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (i *ProductIndexer) EnsureIndex(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ready {
		return nil
	}

	res, err := i.es.Indices.Exists([]string{i.index}, i.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	drain(res.Body)
	if res.StatusCode == 200 {
		i.ready = true
		return nil
	}

	res, err = i.es.Indices.Create(i.index,
		i.es.Indices.Create.WithBody(strings.NewReader(productMapping)),
		i.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer drain(res.Body)
	// 400 means another writer created it first.
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("create index: %s", res.String())
	}

	i.logger.Info("product search index ready", zap.String("index", i.index))
	i.ready = true
	return nil
}

func (i *ProductIndexer) IndexProduct(ctx context.Context, p *model.Product) error {
	if err := i.EnsureIndex(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(newProductDocument(p))
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	res, err := i.es.Index(i.index, bytes.NewReader(body),
		i.es.Index.WithDocumentID(p.ID),
		i.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer drain(res.Body)
	if res.IsError() {
		return fmt.Errorf("index product %s: %s", p.ID, res.String())
	}
	return nil
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
