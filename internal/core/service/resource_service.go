package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/servicedesk/admin-api/internal/core/domain"
	"github.com/servicedesk/admin-api/internal/core/ports"
	"github.com/servicedesk/admin-api/internal/core/query"
	"github.com/servicedesk/admin-api/internal/core/rbac"
)

// ResourceService implements the generated CRUD operations for every
// registered resource. One instance serves all resources; the descriptor is
// passed per call.
type ResourceService struct {
	repo   ports.ResourceRepository
	titles ports.TitleCache
	logger zerolog.Logger
}

func NewResourceService(repo ports.ResourceRepository, titles ports.TitleCache, logger zerolog.Logger) *ResourceService {
	return &ResourceService{repo: repo, titles: titles, logger: logger}
}

// Create persists a new document. The permission check runs with no instance
// since the object does not exist yet.
func (s *ResourceService) Create(ctx context.Context, res domain.Resource, sess domain.SessionData, entity any) (bson.M, error) {
	if !rbac.Allowed(res.Name, sess.Role, domain.ActionCreate, nil) {
		return nil, domain.ErrAccessDenied
	}

	doc, err := entityToDoc(entity)
	if err != nil {
		return nil, err
	}
	if doc, err = s.prepareDoc(res, doc); err != nil {
		return nil, err
	}
	if res.Timestamps {
		doc["created_at"] = time.Now().UTC()
	}

	id, err := s.repo.Insert(ctx, res.Collection, doc)
	if err != nil {
		s.logger.Error().Err(err).Str("resource", res.Name).Msg("insert failed")
		return nil, err
	}
	doc["_id"] = id

	s.logger.Info().Str("resource", res.Name).Str("id", id.Hex()).Msg("document created")
	return present(doc), nil
}

// Get fetches one document, permission-checked against the concrete instance,
// with linked references fully expanded.
func (s *ResourceService) Get(ctx context.Context, res domain.Resource, sess domain.SessionData, id primitive.ObjectID) (bson.M, error) {
	doc, err := s.repo.Get(ctx, res.Collection, id)
	if err != nil {
		return nil, err
	}
	if !rbac.Allowed(res.Name, sess.Role, domain.ActionRetrieve, doc) {
		return nil, domain.ErrAccessDenied
	}
	s.expandLinks(ctx, res, doc)
	return present(doc), nil
}

// Update applies a merge-patch: only the submitted fields are overwritten.
// Workers may only touch t_status; anything else they send is discarded.
func (s *ResourceService) Update(ctx context.Context, res domain.Resource, sess domain.SessionData, id primitive.ObjectID, patch bson.M) (bson.M, error) {
	doc, err := s.repo.Get(ctx, res.Collection, id)
	if err != nil {
		return nil, err
	}
	if !rbac.Allowed(res.Name, sess.Role, domain.ActionUpdate, doc) {
		return nil, domain.ErrAccessDenied
	}

	if sess.Role == domain.RoleWorker {
		reduced := bson.M{}
		if v, ok := patch["t_status"]; ok {
			reduced["t_status"] = v
		}
		patch = reduced
	}
	if patch, err = s.prepareDoc(res, patch); err != nil {
		return nil, err
	}

	if len(patch) > 0 {
		if err := s.repo.Set(ctx, res.Collection, id, patch); err != nil {
			s.logger.Error().Err(err).Str("resource", res.Name).Str("id", id.Hex()).Msg("update failed")
			return nil, err
		}
	}

	updated, err := s.repo.Get(ctx, res.Collection, id)
	if err != nil {
		return nil, err
	}
	s.expandLinks(ctx, res, updated)
	return present(updated), nil
}

// Delete removes one document after an instance-level permission check.
func (s *ResourceService) Delete(ctx context.Context, res domain.Resource, sess domain.SessionData, id primitive.ObjectID) error {
	doc, err := s.repo.Get(ctx, res.Collection, id)
	if err != nil {
		return err
	}
	if !rbac.Allowed(res.Name, sess.Role, domain.ActionDelete, doc) {
		return domain.ErrAccessDenied
	}
	if err := s.repo.Delete(ctx, res.Collection, id); err != nil {
		return err
	}
	s.logger.Info().Str("resource", res.Name).Str("id", id.Hex()).Msg("document deleted")
	return nil
}

// List executes a normalized list query. A filter naming a single id
// short-circuits into a permission-checked single-document retrieval.
func (s *ResourceService) List(ctx context.Context, res domain.Resource, sess domain.SessionData, rawFilter, rawSort, rawRange string) (*ports.ListResult, error) {
	if !rbac.Allowed(res.Name, sess.Role, domain.ActionList, nil) {
		return nil, domain.ErrAccessDenied
	}

	q, err := query.BuildListQuery(sess.Role, rawFilter, rawSort, rawRange)
	if err != nil {
		return nil, err
	}

	if q.SingleID != nil {
		single, err := s.Get(ctx, res, sess, *q.SingleID)
		if err != nil {
			return nil, err
		}
		return &ports.ListResult{Single: single, Resource: res.Name}, nil
	}

	total, err := s.repo.Count(ctx, res.Collection, q.Filter)
	if err != nil {
		return nil, err
	}

	// A degenerate window (inverted or empty range) is an empty page. The
	// store reads limit 0 as "no limit", so it must not be asked.
	var docs []bson.M
	if q.Limit > 0 {
		docs, err = s.repo.Find(ctx, res.Collection, q.Filter, q.Sort, q.Skip, q.Limit)
		if err != nil {
			return nil, err
		}
	}

	items := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		s.expandLinks(ctx, res, doc)
		if res.EnrichServiceTitle {
			s.enrichServiceTitle(ctx, doc)
		}
		items = append(items, present(doc))
	}

	return &ports.ListResult{
		Items:    items,
		Resource: res.Name,
		Start:    q.Start,
		End:      q.End,
		Total:    total,
	}, nil
}

// OrderStats counts ticketed orders by coarse status bucket.
func (s *ResourceService) OrderStats(ctx context.Context, sess domain.SessionData) (*ports.OrderStats, error) {
	if !rbac.Allowed("order", sess.Role, domain.ActionRetrieve, nil) {
		return nil, domain.ErrAccessDenied
	}

	orders, _ := domain.ResourceByName("order")
	accepted, err := s.repo.Count(ctx, orders.Collection, bson.M{
		"service_id": query.TicketedFilter(),
		"t_status":   bson.M{"$in": []string{domain.TStatusCreated, domain.TStatusAccepted}},
	})
	if err != nil {
		return nil, err
	}
	rejected, err := s.repo.Count(ctx, orders.Collection, bson.M{
		"service_id": query.TicketedFilter(),
		"t_status":   bson.M{"$in": []string{domain.TStatusRejected, domain.TStatusRefund}},
	})
	if err != nil {
		return nil, err
	}

	return &ports.OrderStats{Accepted: accepted, Rejected: rejected}, nil
}

// expandLinks replaces reference fields with the full linked document so the
// admin UI receives materialized objects instead of bare ids. A failed lookup
// leaves the raw reference in place.
func (s *ResourceService) expandLinks(ctx context.Context, res domain.Resource, doc bson.M) {
	for field, collection := range res.Links {
		oid, ok := doc[field].(primitive.ObjectID)
		if !ok {
			continue
		}
		linked, err := s.repo.Get(ctx, collection, oid)
		if err != nil {
			s.logger.Debug().Str("field", field).Str("id", oid.Hex()).Msg("link expansion miss")
			continue
		}
		doc[field] = present(linked)
	}
}

// enrichServiceTitle joins an order's external service code against the
// services collection and denormalizes the title into the item. No match, or
// a store error, yields an explicit null.
func (s *ResourceService) enrichServiceTitle(ctx context.Context, doc bson.M) {
	code, ok := doc["service_id"].(string)
	if !ok || code == "" {
		doc["service_title"] = nil
		return
	}

	if title, ok, err := s.titles.Get(ctx, code); err == nil && ok {
		doc["service_title"] = title
		return
	}

	services, _ := domain.ResourceByName("service")
	svc, err := s.repo.FindOne(ctx, services.Collection, bson.M{"api": code})
	if err != nil {
		doc["service_title"] = nil
		return
	}
	title, _ := svc["title"].(string)
	doc["service_title"] = title
	if err := s.titles.Set(ctx, code, title); err != nil {
		s.logger.Debug().Err(err).Str("code", code).Msg("title cache set failed")
	}
}

// prepareDoc normalizes an inbound document or patch: identifiers are never
// writable, reference fields are coerced into ObjectIDs (empty values are
// dropped rather than stored), user_id becomes an integer, and a plaintext
// password is replaced by its bcrypt hash.
func (s *ResourceService) prepareDoc(res domain.Resource, doc bson.M) (bson.M, error) {
	delete(doc, "id")
	delete(doc, "_id")

	for field := range res.Links {
		raw, ok := doc[field]
		if !ok {
			continue
		}
		str, isString := raw.(string)
		if raw == nil || (isString && (str == "" || str == primitive.NilObjectID.Hex())) {
			delete(doc, field)
			continue
		}
		if _, already := raw.(primitive.ObjectID); already {
			continue
		}
		oid, err := query.ToObjectID(raw)
		if err != nil {
			return nil, err
		}
		doc[field] = oid
	}

	if raw, ok := doc["user_id"]; ok {
		switch t := raw.(type) {
		case float64:
			doc["user_id"] = int64(t)
		case string:
			n, err := strconv.ParseInt(t, 10, 64)
			if err != nil {
				return nil, domain.ErrUnprocessable
			}
			doc["user_id"] = n
		}
	}

	if pw, ok := doc["password"].(string); ok {
		delete(doc, "password")
		if pw != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			doc[domain.StoredPasswordField] = string(hash)
		}
	}

	return doc, nil
}

// entityToDoc converts a typed create payload into a document through a JSON
// round-trip, so field names follow the payload's json tags.
func entityToDoc(entity any) (bson.M, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	doc := bson.M{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	return doc, nil
}

// present prepares a document for rendering: the store's primary key is
// exposed as id and the password hash is stripped.
func present(doc bson.M) bson.M {
	if id, ok := doc["_id"]; ok {
		doc["id"] = id
		delete(doc, "_id")
	}
	delete(doc, domain.StoredPasswordField)
	return doc
}
