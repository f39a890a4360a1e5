// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter defines methods to read kv.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Batch collects puts and deletes, applied atomically by Write.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Iterator iterates over kv pairs in key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// Store defines the full functional kv store.
type Store interface {
	Getter
	Putter

	NewBatch() Batch
	Iterate(r Range) Iterator
}

// GetFunc implements Getter.Get.
type GetFunc func(key []byte) ([]byte, error)

func (f GetFunc) Get(key []byte) ([]byte, error) { return f(key) }

// HasFunc implements Getter.Has.
type HasFunc func(key []byte) (bool, error)

func (f HasFunc) Has(key []byte) (bool, error) { return f(key) }

// IsNotFoundFunc implements Getter.IsNotFound.
type IsNotFoundFunc func(err error) bool

func (f IsNotFoundFunc) IsNotFound(err error) bool { return f(err) }

// PutFunc implements Putter.Put.
type PutFunc func(key, val []byte) error

func (f PutFunc) Put(key, val []byte) error { return f(key, val) }

// DeleteFunc implements Putter.Delete.
type DeleteFunc func(key []byte) error

func (f DeleteFunc) Delete(key []byte) error { return f(key) }
