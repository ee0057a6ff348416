package shared

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/segmentio/fasthash/fnv1a"
)

// HashFn is a function that returns the hash of a key. All map
// operations (Add, Insert, Get, TryGet, Erase, Remove and rehash) must
// be threaded through the exact same HashFn configured at construction
// time — never a hard-coded fallback for one call site and the
// configured hasher for the rest.
type HashFn[K any] func(key K) uintptr

// EqualsFn is a function that returns whether a and b are equal keys.
type EqualsFn[K any] func(a, b K) bool

// is64Bit selects the FNV-1a offset/prime pair by pointer width, as
// spec'd: 32-bit offset 0x811c9dc5/prime 0x01000193, 64-bit offset
// 0xcbf29ce484222325/prime 0x00000100000001b3. Both pairs are already
// baked into fnv1a's 32- and 64-bit entry points, so selection here is
// just a matter of calling the right one for uintptr's width.
const is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// FixedWidthHasher returns a hasher that runs FNV-1a over the raw bytes
// of a K value, for sizeof(K) bytes — the Go equivalent of the C
// library's "fixed-size FNV-1a over the key value" built-in.
func FixedWidthHasher[K comparable]() HashFn[K] {
	return func(key K) uintptr {
		b := unsafe.Slice((*byte)(unsafe.Pointer(&key)), unsafe.Sizeof(key))
		if is64Bit {
			return uintptr(fnv1a.HashBytes64(b))
		}
		return uintptr(fnv1a.HashBytes32(b))
	}
}

// StringHasher runs FNV-1a over a string's bytes. It is the Go-native
// analogue of the C library's "null-terminated FNV-1a" built-in: Go
// strings carry their own length instead of being NUL-terminated, but
// they play the identical role of "an arbitrary-length byte run supplied
// by the caller" that the C variant hashes byte-by-byte to a sentinel.
func StringHasher() HashFn[string] {
	return func(key string) uintptr {
		if is64Bit {
			return uintptr(fnv1a.HashString64(key))
		}
		return uintptr(fnv1a.HashString32(key))
	}
}

// DefaultHasher returns the built-in hasher for K, dispatching on K's
// reflect.Kind the same way the underlying reflection trick works: for
// string keys it uses StringHasher; for bool, integer, float, array and
// struct keys it uses FixedWidthHasher over K's raw bytes. Any other
// kind (pointers, interfaces, channels, complex numbers) panics. Both
// built-ins are FNV-1a; callers needing anything else (including
// structs holding strings or pointers) must supply their own HashFn.
func DefaultHasher[K comparable]() HashFn[K] {
	var zero K
	kind := reflect.TypeOf(&zero).Elem().Kind()

	if kind == reflect.String {
		strHash := StringHasher()
		return func(key K) uintptr {
			return strHash(any(key).(string))
		}
	}

	switch kind {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Array, reflect.Struct:
		return FixedWidthHasher[K]()
	default:
		panic(fmt.Sprintf("shared: no default hasher for key kind %v, supply one via NewWithHasher or Options.Hasher", kind))
	}
}

// DefaultEquals returns the builtin equality operator for a comparable
// key type.
func DefaultEquals[K comparable]() EqualsFn[K] {
	return func(a, b K) bool { return a == b }
}
