package cachekey

import (
	"encoding/json"
	"fmt"
)

// StableID is implemented by entities with a durable identifier. An empty
// return value means the entity is anonymous and must be keyed structurally.
type StableID interface {
	StableID() string
}

// Checked in order on untyped payloads, mirroring the identifier fields the
// dashboard sends for customers and employees.
var idFields = []string{"id", "customer_id", "employee_id"}

// Derive turns an arbitrary customer or employee record into a stable cache
// key. Structurally equal entities always derive equal keys, regardless of
// field order in their representation. Derive never fails: entities that
// cannot be serialized fall back to a best-effort string conversion.
func Derive(entity any) string {
	if withID, ok := entity.(StableID); ok {
		if id := withID.StableID(); id != "" {
			return "id:" + id
		}
	}

	if fields, ok := entity.(map[string]any); ok {
		for _, field := range idFields {
			if value, ok := fields[field]; ok && value != nil && value != "" {
				return fmt.Sprintf("id:%v", value)
			}
		}
	}

	canonical, err := canonicalJSON(entity)
	if err != nil {
		return fmt.Sprintf("str:%+v", entity)
	}
	return "json:" + canonical
}

// canonicalJSON encodes the entity with all object keys sorted recursively.
// Round-tripping through `any` turns structs into maps, and encoding/json
// always emits map keys in sorted order.
func canonicalJSON(entity any) (string, error) {
	encoded, err := json.Marshal(entity)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entity: %w", err)
	}

	var generic any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		return "", fmt.Errorf("failed to round-trip entity: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to re-marshal entity: %w", err)
	}

	return string(canonical), nil
}

// Pair derives the pairwise cache key relating one customer to one employee.
func Pair(customer any, employee any) string {
	return Derive(customer) + "|" + Derive(employee)
}
