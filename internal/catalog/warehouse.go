package catalog

import (
	"context"
	"strings"
)

// Capability names a configuration category a driver expects the host to supply.
type Capability int

const (
	CapabilityCredentials Capability = iota + 100
	CapabilityFilters
	CapabilityServerSettings
	CapabilityAddPart
)

func (c Capability) String() string {
	switch c {
	case CapabilityCredentials:
		return "credentials"
	case CapabilityFilters:
		return "filters"
	case CapabilityServerSettings:
		return "server-settings"
	case CapabilityAddPart:
		return "add-part"
	default:
		return "unknown"
	}
}

// Credentials is the free-form login mapping a host hands to Connect.
type Credentials map[string]string

// Username returns the trimmed "username" entry.
func (c Credentials) Username() string {
	return strings.TrimSpace(c["username"])
}

// Password returns the "password" entry as given.
func (c Credentials) Password() string {
	return c["password"]
}

// NewPart describes a part a host wants to create in the warehouse.
type NewPart struct {
	Name        string
	Description string
	Fields      map[string]string
}

// Warehouse is the contract every inventory backend implements. Methods are
// not safe for concurrent use; hosts serialize calls.
type Warehouse interface {
	Connect(ctx context.Context, creds Credentials, driverID int) error
	ConnectionInfo() map[string]string
	Search(ctx context.Context, term string) ([]string, error)
	SelectPart(ctx context.Context, position int) (PartDetail, error)
	AvailableFilters() (map[string][]string, error)
	Capabilities() []Capability
	AddPart(ctx context.Context, part NewPart) error
}
