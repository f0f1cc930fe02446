package domain

// Action enumerates the operations exposed by a generated route set.
type Action string

const (
	ActionCreate   Action = "create"
	ActionRetrieve Action = "retrieve"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionList     Action = "list"
)

// Actions lists every action in a stable order.
var Actions = []Action{ActionCreate, ActionRetrieve, ActionUpdate, ActionDelete, ActionList}

// Resource describes one registered document kind. The router mounts the five
// CRUD routes for each entry of Registry, and the generic handler set reads
// everything it needs from this struct. No reflection beyond the NewEntity
// factory is involved.
type Resource struct {
	// Name is the URL path segment and the resource label reported in
	// Content-Range headers.
	Name string
	// Collection is the MongoDB collection backing the resource.
	Collection string
	// Links maps reference fields to the collection they point at. Values of
	// these fields are stored as ObjectIDs and expanded into the full linked
	// document before a response is rendered.
	Links map[string]string
	// EnrichServiceTitle denormalizes a service_title into each listed item by
	// joining service_id against the services collection's api code.
	EnrichServiceTitle bool
	// Timestamps adds a created_at field on insert.
	Timestamps bool
	// NewEntity returns a zero value of the typed create payload, used for
	// binding and validation of POST bodies.
	NewEntity func() any
}

// TextSearchFields are the fields matched by the free-text "q" filter,
// case-insensitively, across all resources.
var TextSearchFields = []string{"email", "login", "title", "key", "link"}

// Registry returns the resources the API serves. Order is the mount order.
func Registry() []Resource {
	return []Resource{
		{
			Name:       "service",
			Collection: "services",
			Links: map[string]string{
				"category_id": "categories",
				"type_id":     "types",
			},
			NewEntity: func() any { return new(Service) },
		},
		{
			Name:       "category",
			Collection: "categories",
			NewEntity:  func() any { return new(Category) },
		},
		{
			Name:       "type",
			Collection: "types",
			NewEntity:  func() any { return new(Type) },
		},
		{
			Name:       "order",
			Collection: "orders",
			Links: map[string]string{
				"service_link": "services",
			},
			EnrichServiceTitle: true,
			Timestamps:         true,
			NewEntity:          func() any { return new(Order) },
		},
		{
			Name:       "user",
			Collection: "users",
			NewEntity:  func() any { return new(User) },
		},
	}
}

// ResourceByName looks a resource up in the registry.
func ResourceByName(name string) (Resource, bool) {
	for _, r := range Registry() {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}
