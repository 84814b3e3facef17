package utils

import (
	"bytes"
	"encoding/json"
	"sort"
)

type OrderedKV[T any] struct {
	Value T
	Order int64
}

// OrderedKVMap remembers the position each key was first seen at.
type OrderedKVMap[T any] map[string]OrderedKV[T]

// Set stores value under key. A key that already exists keeps its original position.
func (om OrderedKVMap[T]) Set(key string, value T) {
	if kv, ok := om[key]; ok {
		kv.Value = value
		om[key] = kv
		return
	}
	next := int64(0)
	for _, kv := range om {
		if kv.Order >= next {
			next = kv.Order + 1
		}
	}
	om[key] = OrderedKV[T]{Value: value, Order: next}
}

func (om OrderedKVMap[T]) Get(key string) (T, bool) {
	kv, ok := om[key]
	return kv.Value, ok
}

// Pop removes key and returns its value.
func (om OrderedKVMap[T]) Pop(key string) (T, bool) {
	kv, ok := om[key]
	if ok {
		delete(om, key)
	}
	return kv.Value, ok
}

// Keys returns the keys in insertion order.
func (om OrderedKVMap[T]) Keys() []string {
	keys := make([]string, 0, len(om))
	for k := range om {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, oj := om[keys[i]].Order, om[keys[j]].Order
		if oi != oj {
			return oi < oj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// SortedKeys returns the keys in byte-wise ascending order.
func (om OrderedKVMap[T]) SortedKeys() []string {
	keys := make([]string, 0, len(om))
	for k := range om {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (om OrderedKVMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range om.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valueBytes, err := json.Marshal(om[key].Value)
		if err != nil {
			return nil, err
		}
		buf.Write(valueBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
