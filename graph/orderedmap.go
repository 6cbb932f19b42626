// ABOUTME: OrderedMap keeps registry records sorted by id for deterministic listing.
// ABOUTME: Ids are ULID strings, so key order is creation order.
package graph

import "sort"

// OrderedMap maintains keys in sorted order alongside a hash index.
type OrderedMap[K interface {
	comparable
	String() string
}, V any] struct {
	data map[K]V
	keys []K
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K interface {
	comparable
	String() string
}, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{data: make(map[K]V)}
}

// Set inserts or updates a key-value pair. New keys are placed by binary search,
// which is an append when keys arrive in increasing order.
func (m *OrderedMap[K, V]) Set(key K, val V) {
	if _, exists := m.data[key]; !exists {
		i := sort.Search(len(m.keys), func(i int) bool {
			return m.keys[i].String() >= key.String()
		})
		m.keys = append(m.keys, key)
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = key
	}
	m.data[key] = val
}

// Get retrieves a value by key.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Delete removes a key if present.
func (m *OrderedMap[K, V]) Delete(key K) {
	if _, exists := m.data[key]; !exists {
		return
	}
	delete(m.data, key)
	i := sort.Search(len(m.keys), func(i int) bool {
		return m.keys[i].String() >= key.String()
	})
	if i < len(m.keys) && m.keys[i] == key {
		m.keys = append(m.keys[:i], m.keys[i+1:]...)
	}
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.data)
}

// Keys returns all keys in sorted order.
func (m *OrderedMap[K, V]) Keys() []K {
	result := make([]K, len(m.keys))
	copy(result, m.keys)
	return result
}

// Range iterates over entries in sorted key order. Return false to stop.
func (m *OrderedMap[K, V]) Range(fn func(K, V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.data[k]) {
			break
		}
	}
}
