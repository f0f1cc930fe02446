package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/servicedesk/admin-api/internal/core/domain"
	"github.com/servicedesk/admin-api/internal/core/query"
)

// stubRepo keeps documents in memory and records the last list query so tests
// can assert on the filters the service produced.
type stubRepo struct {
	docs map[string]map[primitive.ObjectID]bson.M

	findResult  []bson.M
	countResult map[string]int64 // keyed by t_status bucket fingerprint
	total       int64

	lastFindFilter  bson.M
	lastCountFilter bson.M
	lastSkip        int64
	lastLimit       int64
	lastPatch       bson.M
	findCalls       int
}

func newStubRepo() *stubRepo {
	return &stubRepo{docs: make(map[string]map[primitive.ObjectID]bson.M)}
}

func (r *stubRepo) put(collection string, doc bson.M) primitive.ObjectID {
	id := primitive.NewObjectID()
	doc["_id"] = id
	if r.docs[collection] == nil {
		r.docs[collection] = make(map[primitive.ObjectID]bson.M)
	}
	r.docs[collection][id] = doc
	return id
}

func (r *stubRepo) Insert(_ context.Context, collection string, doc bson.M) (primitive.ObjectID, error) {
	clone := bson.M{}
	for k, v := range doc {
		clone[k] = v
	}
	return r.put(collection, clone), nil
}

func (r *stubRepo) Get(_ context.Context, collection string, id primitive.ObjectID) (bson.M, error) {
	doc, ok := r.docs[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := bson.M{}
	for k, v := range doc {
		clone[k] = v
	}
	return clone, nil
}

func (r *stubRepo) FindOne(_ context.Context, collection string, filter bson.M) (bson.M, error) {
	for _, doc := range r.docs[collection] {
		match := true
		for k, v := range filter {
			if doc[k] != v {
				match = false
				break
			}
		}
		if match {
			clone := bson.M{}
			for k, v := range doc {
				clone[k] = v
			}
			return clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubRepo) Find(_ context.Context, _ string, filter bson.M, _ bson.D, skip, limit int64) ([]bson.M, error) {
	r.lastFindFilter = filter
	r.lastSkip = skip
	r.lastLimit = limit
	r.findCalls++
	return r.findResult, nil
}

func (r *stubRepo) Count(_ context.Context, _ string, filter bson.M) (int64, error) {
	r.lastCountFilter = filter
	if r.countResult != nil {
		if in, ok := filter["t_status"].(bson.M); ok {
			if bucket, ok := in["$in"].([]string); ok {
				return r.countResult[strings.Join(bucket, ",")], nil
			}
		}
	}
	return r.total, nil
}

func (r *stubRepo) Set(_ context.Context, collection string, id primitive.ObjectID, patch bson.M) error {
	doc, ok := r.docs[collection][id]
	if !ok {
		return domain.ErrNotFound
	}
	r.lastPatch = patch
	for k, v := range patch {
		doc[k] = v
	}
	return nil
}

func (r *stubRepo) Delete(_ context.Context, collection string, id primitive.ObjectID) error {
	if _, ok := r.docs[collection][id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.docs[collection], id)
	return nil
}

type stubTitleCache struct {
	entries map[string]string
}

func newStubTitleCache() *stubTitleCache {
	return &stubTitleCache{entries: make(map[string]string)}
}

func (c *stubTitleCache) Get(_ context.Context, code string) (string, bool, error) {
	title, ok := c.entries[code]
	return title, ok, nil
}

func (c *stubTitleCache) Set(_ context.Context, code, title string) error {
	c.entries[code] = title
	return nil
}

func newTestService(repo *stubRepo) *ResourceService {
	return NewResourceService(repo, newStubTitleCache(), zerolog.Nop())
}

func mustResource(t *testing.T, name string) domain.Resource {
	t.Helper()
	res, ok := domain.ResourceByName(name)
	if !ok {
		t.Fatalf("unknown resource %q", name)
	}
	return res
}

var (
	adminSess  = domain.SessionData{Email: "a@x.io", Role: domain.RoleAdmin, Login: "admin"}
	workerSess = domain.SessionData{Email: "w@x.io", Role: domain.RoleWorker, Login: "worker"}
)

func TestResourceService_Create_CoercesReferences(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "service")

	catID := repo.put("categories", bson.M{"title": "VPN"})
	created, err := svc.Create(context.Background(), res, adminSess, &domain.Service{
		Title:      "Monthly VPN",
		API:        "vpn_month",
		CategoryID: catID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, ok := created["id"]; !ok {
		t.Fatalf("created document must expose id, got %#v", created)
	}
	if _, ok := created["_id"]; ok {
		t.Fatalf("created document must not expose _id")
	}

	id := created["id"].(primitive.ObjectID)
	stored := repo.docs["services"][id]
	if got, ok := stored["category_id"].(primitive.ObjectID); !ok || got != catID {
		t.Fatalf("category_id must be stored as ObjectID, got %#v", stored["category_id"])
	}
}

func TestResourceService_Create_HashesPassword(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "user")

	created, err := svc.Create(context.Background(), res, adminSess, &domain.User{
		Email:    "new@x.io",
		Login:    "newbie",
		Role:     domain.RoleWorker,
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, ok := created[domain.StoredPasswordField]; ok {
		t.Fatalf("stored_password must be stripped from responses")
	}

	id := created["id"].(primitive.ObjectID)
	hash, _ := repo.docs["users"][id][domain.StoredPasswordField].(string)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if _, ok := repo.docs["users"][id]["password"]; ok {
		t.Fatalf("plaintext password must not be stored")
	}
}

func TestResourceService_Create_Denied(t *testing.T) {
	svc := newTestService(newStubRepo())
	res := mustResource(t, "order")

	_, err := svc.Create(context.Background(), res, workerSess, &domain.Order{ServiceID: "t_manual"})
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestResourceService_Update_WorkerPatchReduced(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "order")

	id := repo.put("orders", bson.M{"service_id": "t_manual", "t_status": domain.TStatusCreated, "link": "keep"})

	updated, err := svc.Update(context.Background(), res, workerSess, id, bson.M{
		"t_status": domain.TStatusDone,
		"link":     "overwritten",
		"user_id":  float64(7),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	want := bson.M{"t_status": domain.TStatusDone}
	if !reflect.DeepEqual(repo.lastPatch, want) {
		t.Fatalf("worker patch = %#v, want %#v", repo.lastPatch, want)
	}
	if updated["link"] != "keep" {
		t.Fatalf("fields outside t_status must be untouched, got %#v", updated["link"])
	}
}

func TestResourceService_Update_WorkerNonTicketedDenied(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "order")

	id := repo.put("orders", bson.M{"service_id": "api_likes", "t_status": domain.TStatusCreated})
	_, err := svc.Update(context.Background(), res, workerSess, id, bson.M{"t_status": domain.TStatusDone})
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestResourceService_Update_MergePatch(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "service")

	id := repo.put("services", bson.M{"title": "Old", "api": "code", "key": "k"})
	updated, err := svc.Update(context.Background(), res, adminSess, id, bson.M{"title": "New", "category_id": ""})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated["title"] != "New" || updated["key"] != "k" {
		t.Fatalf("merge-patch broken: %#v", updated)
	}
	if _, ok := repo.lastPatch["category_id"]; ok {
		t.Fatalf("empty reference values must be dropped from the patch")
	}
}

func TestResourceService_Delete(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "category")

	id := repo.put("categories", bson.M{"title": "gone"})
	if err := svc.Delete(context.Background(), res, adminSess, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := repo.docs["categories"][id]; ok {
		t.Fatalf("document must be removed")
	}

	if err := svc.Delete(context.Background(), res, adminSess, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestResourceService_List_WorkerScoped(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "order")

	repo.findResult = []bson.M{}
	_, err := svc.List(context.Background(), res, workerSess, `{"service_id":"api_likes"}`, "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !reflect.DeepEqual(repo.lastFindFilter["service_id"], query.TicketedFilter()) {
		t.Fatalf("worker list must be ticketed-scoped, got %#v", repo.lastFindFilter)
	}
}

func TestResourceService_List_PaginationWindow(t *testing.T) {
	repo := newStubRepo()
	repo.total = 45
	repo.findResult = []bson.M{}
	svc := newTestService(repo)
	res := mustResource(t, "service")

	result, err := svc.List(context.Background(), res, adminSess, "", "", `[10,20]`)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Start != 10 || result.End != 20 || result.Total != 45 || result.Resource != "service" {
		t.Fatalf("unexpected pagination descriptor: %+v", result)
	}
	if repo.lastSkip != 10 || repo.lastLimit != 10 {
		t.Fatalf("skip/limit = %d/%d, want 10/10", repo.lastSkip, repo.lastLimit)
	}
}

func TestResourceService_List_InvertedRangeIsEmptyPage(t *testing.T) {
	repo := newStubRepo()
	repo.total = 45
	repo.findResult = []bson.M{{"_id": primitive.NewObjectID(), "title": "must not leak"}}
	svc := newTestService(repo)
	res := mustResource(t, "service")

	result, err := svc.List(context.Background(), res, adminSess, "", "", `[20,10]`)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("inverted range must yield an empty page, got %#v", result.Items)
	}
	if repo.findCalls != 0 {
		t.Fatalf("store must not be queried for an empty window")
	}
	if result.Total != 45 {
		t.Fatalf("total must still be reported, got %d", result.Total)
	}
}

func TestResourceService_List_OrderEnrichment(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "order")

	repo.put("services", bson.M{"title": "Manual VPN", "api": "t_vpn"})
	repo.findResult = []bson.M{
		{"_id": primitive.NewObjectID(), "service_id": "t_vpn"},
		{"_id": primitive.NewObjectID(), "service_id": "t_unknown"},
	}

	result, err := svc.List(context.Background(), res, adminSess, "", "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := result.Items[0]["service_title"]; got != "Manual VPN" {
		t.Fatalf("service_title = %#v, want Manual VPN", got)
	}
	if got, ok := result.Items[1]["service_title"]; !ok || got != nil {
		t.Fatalf("missing service must yield explicit null, got %#v (present=%v)", got, ok)
	}
}

func TestResourceService_List_SingleIDShortCircuit(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "order")

	id := repo.put("orders", bson.M{"service_id": "t_manual", "t_status": domain.TStatusCreated})
	result, err := svc.List(context.Background(), res, adminSess, `{"id":"`+id.Hex()+`"}`, "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Single == nil || result.Single["id"] != id {
		t.Fatalf("expected single document, got %+v", result)
	}

	// Worker cannot reach a non-ticketed order through the id filter either.
	other := repo.put("orders", bson.M{"service_id": "api_likes"})
	if _, err := svc.List(context.Background(), res, workerSess, `{"id":"`+other.Hex()+`"}`, "", ""); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestResourceService_List_ExpandsLinks(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	res := mustResource(t, "service")

	catID := repo.put("categories", bson.M{"title": "Socials"})
	repo.findResult = []bson.M{
		{"_id": primitive.NewObjectID(), "title": "Likes", "category_id": catID},
	}

	result, err := svc.List(context.Background(), res, adminSess, "", "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	linked, ok := result.Items[0]["category_id"].(bson.M)
	if !ok {
		t.Fatalf("category_id must be expanded, got %#v", result.Items[0]["category_id"])
	}
	if linked["title"] != "Socials" || linked["id"] != catID {
		t.Fatalf("unexpected expanded link: %#v", linked)
	}
}

func TestResourceService_OrderStats(t *testing.T) {
	repo := newStubRepo()
	repo.countResult = map[string]int64{
		domain.TStatusCreated + "," + domain.TStatusAccepted: 7,
		domain.TStatusRejected + "," + domain.TStatusRefund:  3,
	}
	svc := newTestService(repo)

	stats, err := svc.OrderStats(context.Background(), workerSess)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Accepted != 7 || stats.Rejected != 3 {
		t.Fatalf("stats = %+v, want 7/3", stats)
	}
	if !reflect.DeepEqual(repo.lastCountFilter["service_id"], query.TicketedFilter()) {
		t.Fatalf("stats must count ticketed orders only, got %#v", repo.lastCountFilter)
	}

	clientSess := domain.SessionData{Role: domain.RoleClient}
	if _, err := svc.OrderStats(context.Background(), clientSess); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}
