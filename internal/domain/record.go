package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Record is an entity owned by the remote service (task, user, role). The
// client never patches a record in place; it only replaces or drops whole
// records.
type Record map[string]any

func (r Record) ID() string {
	switch id := r["id"].(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return fmt.Sprint(id)
	}
}

// EntityID is a server identifier. Services key records by integers or by
// strings (UUID, ULID); both decode to their textual form.
type EntityID string

func (id *EntityID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*id = EntityID(Record{"id": raw}.ID())
	return nil
}

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			return name
		}
	}

	encoded, err := json.Marshal(r[key])
	if err != nil {
		return fmt.Sprint(r[key])
	}
	return string(encoded)
}

// Keys returns the record's field names with "id" first and the rest sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		if key == "id" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if _, ok := r["id"]; ok {
		keys = append([]string{"id"}, keys...)
	}
	return keys
}

type FieldErrors map[string][]string

func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
