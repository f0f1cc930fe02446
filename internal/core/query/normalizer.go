// Package query translates the react-admin query-string convention (filter,
// sort and range as JSON-encoded parameters) into MongoDB filter documents
// plus a resolved skip/limit window.
package query

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

// Default window applied when no range parameter is sent.
const (
	defaultRangeStart = 0
	defaultRangeEnd   = 50
)

// ListQuery is a normalized list request, ready to execute against the store.
type ListQuery struct {
	Filter bson.M
	Sort   bson.D
	Skip   int64
	Limit  int64
	// Start and End echo the requested range and are reported in the
	// Content-Range header regardless of how many rows actually matched.
	Start int64
	End   int64
	// SingleID is set when the filter named a single id. The caller is
	// expected to short-circuit into a permission-checked single-document
	// retrieval instead of running the list.
	SingleID *primitive.ObjectID
}

// TicketedFilter matches service_id values carrying the ticketed prefix.
func TicketedFilter() primitive.Regex {
	return primitive.Regex{Pattern: "^" + domain.TicketedPrefix}
}

// BuildListQuery normalizes raw filter/sort/range parameters for one resource
// under the acting role. Malformed filter or sort JSON degrades to an empty
// filter / no sort; an id value that cannot be parsed as an ObjectID returns
// domain.ErrUnprocessable.
func BuildListQuery(role domain.Role, rawFilter, rawSort, rawRange string) (ListQuery, error) {
	q := ListQuery{Filter: bson.M{}}
	q.Start, q.End = parseRange(rawRange)
	q.Skip = q.Start
	q.Limit = q.End - q.Start
	if q.Limit < 0 {
		q.Limit = 0
	}
	q.Sort = parseSort(rawSort)

	raw := parseJSONObject(rawFilter)

	// The q key is always consumed; a cleared search box sends q as an empty
	// string and must not leak a literal "q" match into the store filter.
	text, _ := raw["q"].(string)
	delete(raw, "q")

	if text != "" {
		// Free-text search replaces every other filter key.
		or := make([]bson.M, 0, len(domain.TextSearchFields))
		for _, field := range domain.TextSearchFields {
			or = append(or, bson.M{field: containsPattern(text)})
		}
		q.Filter["$or"] = or
	} else {
		if err := normalizeFields(raw, &q); err != nil {
			return ListQuery{}, err
		}
		if q.SingleID != nil {
			return q, nil
		}
	}

	if role == domain.RoleWorker {
		// Workers only ever see the ticketed queue, whatever they asked for.
		q.Filter["service_id"] = TicketedFilter()
	}
	return q, nil
}

// normalizeFields translates the raw filter map into q.Filter, consuming the
// special keys (ids, id, manual, collection) along the way.
func normalizeFields(raw map[string]any, q *ListQuery) error {
	if ids, ok := raw["ids"]; ok {
		delete(raw, "ids")
		values, _ := ids.([]any)
		oids, err := toObjectIDs(values)
		if err != nil {
			return err
		}
		q.Filter["_id"] = bson.M{"$in": oids}
	}

	if idValue, ok := raw["id"]; ok {
		oid, err := ToObjectID(unwrapID(idValue))
		if err != nil {
			return err
		}
		q.SingleID = &oid
		return nil
	}

	manual, hasManual := raw["manual"].(bool)
	delete(raw, "manual")

	for key, value := range raw {
		if value == nil || key == "collection" {
			continue
		}
		switch {
		case key == "user_id":
			n, err := toInt64(value)
			if err != nil {
				return err
			}
			q.Filter[key] = n
		case key == "service_id":
			if values, ok := value.([]any); ok {
				q.Filter[key] = bson.M{"$in": rawValues(values)}
			} else {
				q.Filter[key] = value
			}
		case isIDKey(key):
			if values, ok := value.([]any); ok {
				oids, err := toObjectIDs(values)
				if err != nil {
					return err
				}
				q.Filter[key] = bson.M{"$in": oids}
			} else {
				oid, err := ToObjectID(unwrapID(value))
				if err != nil {
					return err
				}
				q.Filter[key] = oid
			}
		default:
			if values, ok := value.([]any); ok {
				q.Filter[key] = bson.M{"$in": values}
			} else {
				q.Filter[key] = value
			}
		}
	}

	if hasManual && manual {
		q.Filter["service_id"] = TicketedFilter()
	}
	return nil
}

func isIDKey(key string) bool {
	return key == "id" || strings.HasSuffix(key, "_id")
}

// unwrapID accepts the duck-typed id shapes the admin UI sends: a plain
// string, a one-element list, or a nested {"id": ...} object.
func unwrapID(value any) any {
	if list, ok := value.([]any); ok && len(list) == 1 {
		value = list[0]
	}
	if m, ok := value.(map[string]any); ok {
		value = m["id"]
	}
	return value
}

// ToObjectID coerces a filter value into a store reference.
func ToObjectID(value any) (primitive.ObjectID, error) {
	s, ok := value.(string)
	if !ok {
		return primitive.NilObjectID, domain.ErrUnprocessable
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, domain.ErrUnprocessable
	}
	return oid, nil
}

// rawValues cleans a list-valued filter entry that stays uncoerced: nulls are
// dropped and nested {"id": ...} objects are unwrapped to their id value.
func rawValues(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		if m, ok := v.(map[string]any); ok {
			v = m["id"]
			if v == nil {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

func toObjectIDs(values []any) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		oid, err := ToObjectID(unwrapID(v))
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

func toInt64(value any) (int64, error) {
	switch t := value.(type) {
	case float64:
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, domain.ErrUnprocessable
		}
		return n, nil
	}
	return 0, domain.ErrUnprocessable
}

// containsPattern builds a case-insensitive substring match. The input is
// quoted so metacharacters match literally.
func containsPattern(text string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
}

// parseJSONObject decodes a JSON object, treating malformed or absent input
// as an empty filter.
func parseJSONObject(raw string) map[string]any {
	m := map[string]any{}
	if raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return map[string]any{}
	}
	return m
}

// parseSort decodes a ["field", "ASC"|"DESC"] pair. Anything malformed is
// silently ignored and the query proceeds unsorted.
func parseSort(raw string) bson.D {
	if raw == "" {
		return nil
	}
	var pair []string
	if err := json.Unmarshal([]byte(raw), &pair); err != nil || len(pair) != 2 {
		return nil
	}
	field := pair[0]
	if field == "" {
		return nil
	}
	if field == "id" {
		field = "_id"
	}
	direction := 1
	if pair[1] == "DESC" {
		direction = -1
	}
	return bson.D{{Key: field, Value: direction}}
}

// parseRange decodes a [start, end] pair, falling back to the default window.
func parseRange(raw string) (start, end int64) {
	if raw == "" {
		return defaultRangeStart, defaultRangeEnd
	}
	var pair []int64
	if err := json.Unmarshal([]byte(raw), &pair); err != nil || len(pair) != 2 {
		return defaultRangeStart, defaultRangeEnd
	}
	return pair[0], pair[1]
}
