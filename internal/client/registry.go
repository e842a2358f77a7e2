package client

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// Kind separates collection-level actions from single-resource entities.
type Kind int

const (
	KindAction Kind = iota
	KindEntity
)

func (k Kind) String() string {
	if k == KindEntity {
		return "entity"
	}

	return "action"
}

type actionFactory func(c *Client) acsf.Endpoint

type entityFactory func(c *Client, id int, parent acsf.Endpoint) (acsf.Endpoint, error)

// Descriptor describes a registered endpoint wrapper.
type Descriptor struct {
	Name string
	Kind Kind

	newAction actionFactory
	newEntity entityFactory
}

// Registry maps endpoint names to their constructors.
type Registry struct {
	descriptors map[string]Descriptor
}

// NewRegistry builds a registry from descriptors. Names are case-insensitive.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{descriptors: make(map[string]Descriptor, len(descriptors))}

	for _, d := range descriptors {
		r.descriptors[strings.ToLower(d.Name)] = d
	}

	return r
}

// Get reports whether name is registered without constructing anything.
func (r *Registry) Get(name string) (Descriptor, bool) {
	d, ok := r.descriptors[strings.ToLower(name)]

	return d, ok
}

// Names returns the registered names of the given kind, sorted.
func (r *Registry) Names(kind Kind) []string {
	var names []string

	for _, d := range r.descriptors {
		if d.Kind == kind {
			names = append(names, d.Name)
		}
	}

	slices.Sort(names)

	return names
}

// CreateAction constructs the named action.
func (r *Registry) CreateAction(c *Client, name string) (acsf.Endpoint, error) {
	d, ok := r.Get(name)
	if !ok || d.Kind != KindAction || d.newAction == nil {
		return nil, fmt.Errorf("%w: %s", acsf.ErrMissingAction, name)
	}

	return d.newAction(c), nil
}

// CreateEntity constructs the named entity for id, owned by parent.
func (r *Registry) CreateEntity(c *Client, name string, id int, parent acsf.Endpoint) (acsf.Endpoint, error) {
	d, ok := r.Get(name)
	if !ok || d.Kind != KindEntity || d.newEntity == nil {
		return nil, fmt.Errorf("%w: %s", acsf.ErrMissingEntity, name)
	}

	return d.newEntity(c, id, parent)
}

func action(name string, factory actionFactory) Descriptor {
	return Descriptor{Name: name, Kind: KindAction, newAction: factory}
}

func entity(name string, factory entityFactory) Descriptor {
	return Descriptor{Name: name, Kind: KindEntity, newEntity: factory}
}

var defaultRegistry = NewRegistry(
	action("Sites", func(c *Client) acsf.Endpoint { return c.Sites() }),
	action("Tasks", func(c *Client) acsf.Endpoint { return c.Tasks() }),
	action("Stage", func(c *Client) acsf.Endpoint { return c.Stage() }),
	action("Updates", func(c *Client) acsf.Endpoint { return c.Updates() }),
	action("Vcs", func(c *Client) acsf.Endpoint { return c.Vcs() }),
	action("Stacks", func(c *Client) acsf.Endpoint { return c.Stacks() }),
	entity("Task", func(c *Client, id int, parent acsf.Endpoint) (acsf.Endpoint, error) {
		if parent == nil {
			return NewTask(c, id, nil), nil
		}

		owner, ok := parent.(*Task)
		if !ok {
			return nil, acsf.NewInvalidOption("parent", parent.EndpointName(), "must be a Task")
		}

		return NewTask(c, id, owner), nil
	}),
	entity("Update", func(c *Client, id int, _ acsf.Endpoint) (acsf.Endpoint, error) {
		return c.Update(id), nil
	}),
	entity("Site", func(c *Client, id int, _ acsf.Endpoint) (acsf.Endpoint, error) {
		return c.Site(id), nil
	}),
	entity("Backup", func(c *Client, id int, parent acsf.Endpoint) (acsf.Endpoint, error) {
		site, ok := parent.(*Site)
		if !ok {
			return nil, acsf.NewInvalidOption("parent", parent, "must be a Site")
		}

		return site.GetBackup(id), nil
	}),
)

// DefaultRegistry returns the registry of built-in endpoint wrappers.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
