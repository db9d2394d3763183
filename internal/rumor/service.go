package rumor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidServiceGroup is returned when a service group identifier does not
// have the "service.group[@organization]" shape.
var ErrInvalidServiceGroup = errors.New("invalid service group")

// ServiceGroup identifies a set of members running the same service.
type ServiceGroup struct {
	Service      string
	Group        string
	Organization string
}

// ParseServiceGroup parses "service.group" or "service.group@organization".
func ParseServiceGroup(s string) (ServiceGroup, error) {
	var sg ServiceGroup
	rest := s
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		sg.Organization = rest[i+1:]
		rest = rest[:i]
		if sg.Organization == "" {
			return ServiceGroup{}, fmt.Errorf("%w: %q: empty organization", ErrInvalidServiceGroup, s)
		}
	}
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ServiceGroup{}, fmt.Errorf("%w: %q (expected service.group[@org])", ErrInvalidServiceGroup, s)
	}
	sg.Service, sg.Group = parts[0], parts[1]
	return sg, nil
}

// String returns the canonical form.
func (sg ServiceGroup) String() string {
	if sg.Organization == "" {
		return sg.Service + "." + sg.Group
	}
	return sg.Service + "." + sg.Group + "@" + sg.Organization
}

// SysInfo carries where a service is reachable.
type SysInfo struct {
	IP       string
	Hostname string
}

// Service announces that a member runs a service in a group.
type Service struct {
	MemberID     string
	ServiceGroup string
	Incarnation  uint64
	Initialized  bool
	Pkg          string
	Cfg          []byte
	SysInfo      SysInfo
}

func (s *Service) Kind() Kind  { return KindService }
func (s *Service) Key() string { return s.ServiceGroup }
func (s *Service) ID() string  { return s.MemberID }

// Clone returns a deep copy of the service.
func (s *Service) Clone() *Service {
	c := *s
	c.Cfg = cloneBytes(s.Cfg)
	return &c
}

// Merge replaces s with other when other has a higher incarnation.
func (s *Service) Merge(other *Service) bool {
	if other.Incarnation <= s.Incarnation {
		return false
	}
	*s = *other.Clone()
	return true
}

// ServiceConfig is a configuration blob shared by a whole service group.
type ServiceConfig struct {
	ServiceGroup string
	Incarnation  uint64
	Encrypted    bool
	Config       []byte
}

func (c *ServiceConfig) Kind() Kind  { return KindServiceConfig }
func (c *ServiceConfig) Key() string { return c.ServiceGroup }
func (c *ServiceConfig) ID() string  { return ServiceConfigID }

// Clone returns a deep copy of the config.
func (c *ServiceConfig) Clone() *ServiceConfig {
	cp := *c
	cp.Config = cloneBytes(c.Config)
	return &cp
}

// Merge replaces c with other when other has a higher incarnation.
func (c *ServiceConfig) Merge(other *ServiceConfig) bool {
	if other.Incarnation <= c.Incarnation {
		return false
	}
	*c = *other.Clone()
	return true
}

// ServiceFile is a named file shared by a whole service group.
type ServiceFile struct {
	ServiceGroup string
	Incarnation  uint64
	Encrypted    bool
	Filename     string
	Body         []byte
}

func (f *ServiceFile) Kind() Kind  { return KindServiceFile }
func (f *ServiceFile) Key() string { return f.ServiceGroup }
func (f *ServiceFile) ID() string  { return f.Filename }

// Clone returns a deep copy of the file.
func (f *ServiceFile) Clone() *ServiceFile {
	cp := *f
	cp.Body = cloneBytes(f.Body)
	return &cp
}

// Merge replaces f with other when other has a higher incarnation.
func (f *ServiceFile) Merge(other *ServiceFile) bool {
	if other.Incarnation <= f.Incarnation {
		return false
	}
	*f = *other.Clone()
	return true
}

// Equal reports whether two files carry the same content.
func (f *ServiceFile) Equal(other *ServiceFile) bool {
	return f.ServiceGroup == other.ServiceGroup &&
		f.Incarnation == other.Incarnation &&
		f.Encrypted == other.Encrypted &&
		f.Filename == other.Filename &&
		bytes.Equal(f.Body, other.Body)
}

// Departure marks a member as having left the cluster for good.
type Departure struct {
	MemberID string
}

func (d *Departure) Kind() Kind  { return KindDeparture }
func (d *Departure) Key() string { return DepartureKey }
func (d *Departure) ID() string  { return d.MemberID }

// Clone returns a copy of the departure.
func (d *Departure) Clone() *Departure {
	c := *d
	return &c
}

// Merge never changes a departure; it is a pure marker.
func (d *Departure) Merge(*Departure) bool { return false }

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
