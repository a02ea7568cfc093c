package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	repo "github.com/adiprasetyo/evently-api/internal/domain/repository"
)

// AddressService composes the session principal, the ownership guard and the
// address repository into the four CRUD operations. Every operation takes an
// explicit Principal; a nil principal fails with ErrUnauthenticated.
//
// Postgres is the source of truth. Elasticsearch carries a best-effort copy
// for the free-text search view; indexing failures are logged, never
// surfaced.
type AddressService struct {
	Repo    repo.AddressRepository
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewAddressService(r repo.AddressRepository, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *AddressService {
	return &AddressService{Repo: r, ES: es, ESIndex: esIndex, Logger: logger}
}

type AddressInput struct {
	Street  string
	City    string
	State   string
	Country string
	ZipCode string
}

func (in AddressInput) missingFields() []string {
	missing := []string{}
	if strings.TrimSpace(in.Street) == "" {
		missing = append(missing, "street")
	}
	if strings.TrimSpace(in.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(in.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(in.Country) == "" {
		missing = append(missing, "country")
	}
	if strings.TrimSpace(in.ZipCode) == "" {
		missing = append(missing, "zipCode")
	}
	return missing
}

// Create persists a new address owned by the principal. All five fields must
// be non-empty.
func (s *AddressService) Create(ctx context.Context, p *Principal, in AddressInput) (*entity.Address, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}
	if missing := in.missingFields(); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	a := &entity.Address{
		Street:  in.Street,
		City:    in.City,
		State:   in.State,
		Country: in.Country,
		ZipCode: in.ZipCode,
		UserID:  p.ID,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, upstream(err)
	}
	s.indexAddress(ctx, a)
	return a, nil
}

// List returns the principal's addresses in insertion order.
func (s *AddressService) List(ctx context.Context, p *Principal) ([]entity.Address, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}
	out, err := s.Repo.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, upstream(err)
	}
	return out, nil
}

// ownedAddress loads an address and enforces ownership. Not-found and
// wrong-owner collapse into ErrAddressNotFound so existence never leaks.
func (s *AddressService) ownedAddress(ctx context.Context, p *Principal, id string) (*entity.Address, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, upstream(err)
	}
	if err := AuthorizeOwner(p, a.UserID); err != nil {
		return nil, ErrAddressNotFound
	}
	return a, nil
}

// Update replaces all five fields of an owned address. The ownership check
// runs before field validation.
func (s *AddressService) Update(ctx context.Context, p *Principal, id string, in AddressInput) (*entity.Address, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}
	a, err := s.ownedAddress(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if missing := in.missingFields(); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	a.Street = in.Street
	a.City = in.City
	a.State = in.State
	a.Country = in.Country
	a.ZipCode = in.ZipCode
	if err := s.Repo.Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, upstream(err)
	}
	s.indexAddress(ctx, a)
	return a, nil
}

// Delete permanently removes an owned address. A second delete of the same id
// fails with ErrAddressNotFound.
func (s *AddressService) Delete(ctx context.Context, p *Principal, id string) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if _, err := s.ownedAddress(ctx, p, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAddressNotFound
		}
		return upstream(err)
	}
	s.deindexAddress(ctx, id)
	return nil
}

func (s *AddressService) indexAddress(ctx context.Context, a *entity.Address) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         a.ID,
		"street":     a.Street,
		"city":       a.City,
		"state":      a.State,
		"country":    a.Country,
		"zip_code":   a.ZipCode,
		"user_id":    a.UserID,
		"created_at": a.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": a.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: a.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("address_id", a.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("address_id", a.ID).Warn("es index response error")
	}
}

func (s *AddressService) deindexAddress(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("address_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over the principal's addresses. Results are
// the indexed projections, not repository records.
func (s *AddressService) Search(ctx context.Context, p *Principal, q string, size int) ([]map[string]any, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}

	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"street^2", "city", "state", "country", "zip_code"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": p.ID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, upstream(err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, upstream(errors.New("search: " + res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, upstream(err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
