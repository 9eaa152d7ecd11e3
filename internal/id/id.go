// Package id mints the prefixed identifiers used across the module.
//
// Identifiers are ULIDs carrying a short type prefix (env_*, mnt_*, stub_*)
// so a value in a log line says what it names, and the distinct string
// types keep an environment id from being passed where a mount id belongs.
package id

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EnvID identifies a simulated environment instance.
type EnvID string

// MountID identifies a mounted document fragment.
type MountID string

// StubID identifies a stand-in function.
type StubID string

func (id EnvID) String() string   { return string(id) }
func (id MountID) String() string { return string(id) }
func (id StubID) String() string  { return string(id) }

// Monotonic entropy keeps ids minted within the same millisecond sortable.
var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

func mint(prefix string) string {
	mu.Lock()
	defer mu.Unlock()
	return prefix + "_" + ulid.MustNew(ulid.Now(), entropy).String()
}

// NewEnvID mints an environment id.
func NewEnvID() EnvID { return EnvID(mint("env")) }

// NewMountID mints a mount id.
func NewMountID() MountID { return MountID(mint("mnt")) }

// NewStubID mints a stand-in function id.
func NewStubID() StubID { return StubID(mint("stub")) }

// Parse returns the ULID inside an id, stripping the type prefix if present.
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}

// IsValid reports whether id holds a well-formed ULID, prefixed or bare.
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// Timestamp extracts the mint time from an id.
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
