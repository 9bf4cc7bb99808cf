package cfbf

import "fmt"

// object is a writer-side directory entry before rendering: its sector
// allocation and sibling links aren't assigned until Render.
type object struct {
	id        uint32
	name      string
	isStorage bool
	parent    uint32
	children  []uint32 // child object IDs, in insertion order
	data      []byte   // stream payload; unused for storages
}

// Document is an in-memory container being built up for Render. It is
// not safe for concurrent mutation, mirroring the reader's non-reentrant
// Allocator.
type Document struct {
	objects []*object // index 0 is always the Root Entry
}

// New returns an empty Document containing only the Root Entry.
func New() *Document {
	return &Document{
		objects: []*object{
			{id: RootStorage, name: RootEntryName, isStorage: true},
		},
	}
}

// AddStorage creates a new empty storage under parent and returns its
// object ID.
func (d *Document) AddStorage(parent uint32, name string) (uint32, error) {
	return d.add(parent, name, true, nil)
}

// AddStream creates a new stream under parent holding data and returns
// its object ID.
func (d *Document) AddStream(parent uint32, name string, data []byte) (uint32, error) {
	return d.add(parent, name, false, data)
}

func (d *Document) add(parent uint32, name string, isStorage bool, data []byte) (uint32, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}

	p, err := d.checkParent(parent)
	if err != nil {
		return 0, err
	}

	if d.childNamed(p, name) != nil {
		return 0, fmt.Errorf("%q already exists under %q: %w", name, p.name, ErrDuplicateName)
	}

	obj := &object{
		id:        uint32(len(d.objects)),
		name:      name,
		isStorage: isStorage,
		parent:    parent,
		data:      data,
	}
	d.objects = append(d.objects, obj)
	p.children = append(p.children, obj.id)
	return obj.id, nil
}

// AddFile creates the stream at slashPath, creating any intermediate
// storages that don't already exist.
func (d *Document) AddFile(slashPath string, data []byte) (uint32, error) {
	names := splitSlashPath(slashPath)
	if len(names) == 0 {
		return 0, fmt.Errorf("empty path: %w", ErrInvalidName)
	}

	parent := RootStorage
	for _, name := range names[:len(names)-1] {
		p, err := d.checkParent(parent)
		if err != nil {
			return 0, err
		}
		if existing := d.childNamed(p, name); existing != nil {
			if !existing.isStorage {
				return 0, fmt.Errorf("%q is a stream, not a storage: %w", name, ErrNotAStorage)
			}
			parent = existing.id
			continue
		}
		id, err := d.AddStorage(parent, name)
		if err != nil {
			return 0, err
		}
		parent = id
	}

	return d.AddStream(parent, names[len(names)-1], data)
}

func (d *Document) checkParent(parent uint32) (*object, error) {
	if parent >= uint32(len(d.objects)) {
		return nil, fmt.Errorf("no such object %d: %w", parent, ErrNotFound)
	}
	p := d.objects[parent]
	if !p.isStorage {
		return nil, fmt.Errorf("%q is not a storage: %w", p.name, ErrNotAStorage)
	}
	return p, nil
}

func (d *Document) childNamed(p *object, name string) *object {
	for _, id := range p.children {
		child := d.objects[id]
		if CompareNames(child.name, name) == OrderEqual {
			return child
		}
	}
	return nil
}

func splitSlashPath(s string) []string {
	chain := NameChainFromPath(s)
	out := make([]string, 0, len(chain))
	for _, n := range chain {
		if n != "" && n != "." {
			out = append(out, n)
		}
	}
	return out
}
