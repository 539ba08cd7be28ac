// Package position implements the reading-position store: a mapping from
// book filename to last-read page index, persisted under a deterministic
// hashed key in a non-volatile key-value namespace (spec.md §4.5).
package position

import "github.com/SimonWaldherr/xtcreader/internal/sdk"

// Namespace is the fixed NVS namespace the reading-position store lives in.
const Namespace = "xtc_reader"

// KeySize is the length of a built key, including its NUL terminator: one
// byte prefix ('p'), eight lowercase hex digits of the 32-bit Jenkins hash,
// and a trailing NUL at index 9.
const KeySize = 10

// BuildKey derives the fixed-length store key for a book's filename:
// "p" + lowercase-hex(JenkinsOneAtATime(name)) + NUL. It is deterministic
// and changes whenever name changes (modulo 32-bit hash collisions).
func BuildKey(name string) [KeySize]byte {
	var key [KeySize]byte
	key[0] = 'p'
	h := JenkinsOneAtATime([]byte(name))
	const hexDigits = "0123456789abcdef"
	for i := 0; i < 8; i++ {
		shift := uint(28 - 4*i)
		key[1+i] = hexDigits[(h>>shift)&0xF]
	}
	key[9] = 0
	return key
}

// Store reads and writes last-read page indices keyed by filename.
type Store struct {
	nvs sdk.NVS
}

// NewStore returns a Store over nvs. The namespace is opened by each Load
// (read-only) and Store (read/write) call, not here.
func NewStore(nvs sdk.NVS) *Store {
	return &Store{nvs: nvs}
}

// Load returns the persisted page index for name, or (0, false) if name is
// empty, the namespace cannot be opened, or no value is stored.
func (s *Store) Load(name string) (uint32, bool) {
	if name == "" {
		return 0, false
	}
	ns, err := s.nvs.Open(Namespace, sdk.NVSReadOnly)
	if err != nil {
		return 0, false
	}
	defer ns.Close()

	key := BuildKey(name)
	v, ok := ns.GetUint32(string(key[:]))
	if !ok {
		return 0, false
	}
	return v, true
}

// Store persists page as name's last-read index. Failures are swallowed:
// a missing value is tolerated at the next load (spec.md §4.5, §7).
func (s *Store) Store(name string, page uint32) {
	if name == "" {
		return
	}
	ns, err := s.nvs.Open(Namespace, sdk.NVSReadWrite)
	if err != nil {
		return
	}
	defer ns.Close()

	key := BuildKey(name)
	if err := ns.SetUint32(string(key[:]), page); err != nil {
		return
	}
	_ = ns.Commit()
}
