// Package plugin holds plugin metadata shared by the engine and its hosts.
package plugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyID is returned when a plugin has no identifier
var ErrEmptyID = errors.New("plugin ID must not be empty")

// uidNamespace scopes name-based plugin UIDs so they cannot collide with
// UUIDs derived from the same string in other namespaces.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("mbsync.plugins"))

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Fx|Dynamics")
}

// UID derives a stable 16-byte class ID from the string ID using a
// name-based (SHA-1) UUID.
func (i Info) UID() [16]byte {
	return [16]byte(uuid.NewSHA1(uidNamespace, []byte(i.ID)))
}

// UIDString returns the UID in canonical UUID text form
func (i Info) UIDString() string {
	return uuid.UUID(i.UID()).String()
}

// ValidateUID checks that the ID can produce a usable class ID
func (i Info) ValidateUID() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyID
	}
	if strings.ContainsAny(i.ID, " \t\n") {
		return fmt.Errorf("plugin ID %q must not contain whitespace", i.ID)
	}
	return nil
}

// Title returns the display title, e.g. "GM MultiBand Comp 1.0.0"
func (i Info) Title() string {
	if i.Version == "" {
		return i.Name
	}
	return i.Name + " " + i.Version
}
