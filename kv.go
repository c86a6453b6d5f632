package imap

// OrderedKV is an insertion-ordered string-keyed container of optional
// string values, used by ID parameters and METADATA entries. Key
// uniqueness is enforced at construction: Set rejects a key already
// present.
type OrderedKV struct {
	keys   []string
	values map[string]*string
}

// NewOrderedKV returns an empty OrderedKV.
func NewOrderedKV() *OrderedKV {
	return &OrderedKV{values: make(map[string]*string)}
}

// Set appends key/value, returning ErrDuplicateKey if key is already
// present. A nil value represents NIL on the wire (e.g. an ID parameter
// whose value is unknown, or a METADATA entry being removed).
func (kv *OrderedKV) Set(key string, value *string) error {
	if _, ok := kv.values[key]; ok {
		return ErrDuplicateKey
	}
	kv.keys = append(kv.keys, key)
	kv.values[key] = value
	return nil
}

// Get returns the value for key and whether it was present.
func (kv *OrderedKV) Get(key string) (*string, bool) {
	v, ok := kv.values[key]
	return v, ok
}

// Len returns the number of entries.
func (kv *OrderedKV) Len() int {
	if kv == nil {
		return 0
	}
	return len(kv.keys)
}

// Keys returns the keys in insertion order.
func (kv *OrderedKV) Keys() []string {
	if kv == nil {
		return nil
	}
	out := make([]string, len(kv.keys))
	copy(out, kv.keys)
	return out
}

// Range calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (kv *OrderedKV) Range(fn func(key string, value *string) bool) {
	if kv == nil {
		return
	}
	for _, k := range kv.keys {
		if !fn(k, kv.values[k]) {
			return
		}
	}
}
