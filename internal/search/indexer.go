package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

var ErrDisabled = errors.New("search is not configured")

type document struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	AdminRemarks string    `json:"admin_remarks,omitempty"`
	Status       string    `json:"status"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	CreatedAt    time.Time `json:"created_at"`
}

func toDocument(inc *models.Incident) document {
	d := document{
		ID:          inc.ID,
		UserID:      inc.UserID,
		Title:       inc.Title,
		Description: inc.Description,
		Status:      inc.Status,
		Latitude:    inc.Latitude,
		Longitude:   inc.Longitude,
		CreatedAt:   inc.CreatedAt,
	}
	if inc.AdminRemarks != nil {
		d.AdminRemarks = *inc.AdminRemarks
	}
	return d
}

// Indexer keeps incidents searchable in one Elasticsearch index.
// A nil *Indexer is valid and reports ErrDisabled.
type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func (ix *Indexer) Enabled() bool {
	return ix != nil && ix.ES != nil
}

func (ix *Indexer) IndexIncident(ctx context.Context, inc *models.Incident) error {
	if !ix.Enabled() {
		return ErrDisabled
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(toDocument(inc)); err != nil {
		return fmt.Errorf("index incident: %w", err)
	}

	res, err := ix.ES.Index(
		ix.Index,
		&buf,
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(inc.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index incident %d: %w", inc.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index incident %d: %s: %s", inc.ID, res.Status(), body)
	}
	return nil
}

// Search runs a fuzzy match over title, description and remarks and returns
// the total hit count and the ids of the requested page.
func (ix *Indexer) Search(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	if !ix.Enabled() {
		return 0, nil, ErrDisabled
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, []uint{}, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description", "admin_remarks"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
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
		raw, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: %s: %s", res.Status(), raw)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID uint `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return r.Hits.Total.Value, ids, nil
}
