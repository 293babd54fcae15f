// Package site resolves video URLs to a hosting site and a content identifier.
//
// A Registry maps site names to descriptors. Each descriptor lists the hosts
// it recognizes, the extractor that pulls the identifier out of a parsed URL,
// and the exact identifier length the site uses.
package site

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

var (
	ErrDuplicateSite = errors.New("site already registered")
	ErrDuplicateHost = errors.New("host already registered")
)

// Extractor pulls a content identifier and an optional sub-part out of a URL
type Extractor func(u *url.URL) (id string, part mo.Option[string])

// Descriptor describes one hosting site
type Descriptor struct {
	Hosts    map[string]Extractor
	IDLength int
}

// Identity is a resolved URL
type Identity struct {
	Site      string
	ContentID string
	Part      mo.Option[string]
}

// Dir returns root/<site>/<content id>[/<part>]
func (i Identity) Dir(root string) string {
	if part, ok := i.Part.Get(); ok {
		return filepath.Join(root, i.Site, i.ContentID, part)
	}
	return filepath.Join(root, i.Site, i.ContentID)
}

// String renders the identity as site/id[/part]
func (i Identity) String() string {
	return filepath.ToSlash(i.Dir(""))
}

// Registry is a dispatch table from host to site extractor
type Registry struct {
	sites map[string]Descriptor
	hosts map[string]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		sites: make(map[string]Descriptor),
		hosts: make(map[string]string),
	}
}

// DefaultRegistry returns a registry with every built-in site
func DefaultRegistry() *Registry {
	r := NewRegistry()
	lo.Must0(r.Register(Bilibili, BilibiliDescriptor()))
	lo.Must0(r.Register(YouTube, YouTubeDescriptor()))
	return r
}

// Register adds a site. Names and hosts must not already be claimed.
func (r *Registry) Register(name string, d Descriptor) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("site name is required")
	}
	if d.IDLength <= 0 {
		return fmt.Errorf("site %q: identifier length must be positive", name)
	}
	if len(d.Hosts) == 0 {
		return fmt.Errorf("site %q: at least one host is required", name)
	}
	if _, exists := r.sites[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSite, name)
	}
	for host := range d.Hosts {
		if owner, exists := r.hosts[host]; exists {
			return fmt.Errorf("%w: %q is handled by %q", ErrDuplicateHost, host, owner)
		}
	}

	r.sites[name] = d
	for host := range d.Hosts {
		r.hosts[host] = name
	}
	return nil
}

// Sites returns the registered site names in sorted order
func (r *Registry) Sites() []string {
	names := lo.Keys(r.sites)
	sort.Strings(names)
	return names
}

// Resolve matches rawURL against the registry. A URL whose host is unknown,
// whose identifier has the wrong length, or whose components cannot be used
// as directory names resolves to nothing at all.
func (r *Registry) Resolve(rawURL string) mo.Option[Identity] {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return mo.None[Identity]()
	}

	name, ok := r.hosts[u.Host]
	if !ok {
		return mo.None[Identity]()
	}
	descriptor := r.sites[name]

	id, part := descriptor.Hosts[u.Host](u)
	if len(id) != descriptor.IDLength || !isPathElement(id) {
		return mo.None[Identity]()
	}
	if p, ok := part.Get(); ok && !isPathElement(p) {
		return mo.None[Identity]()
	}

	return mo.Some(Identity{
		Site:      name,
		ContentID: id,
		Part:      part,
	})
}

func isPathElement(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
