package gamedata

// ClassDef defines a playable class loaded from data.
type ClassDef struct {
	ID      string   `json:"id" yaml:"id"`           // Unique identifier (e.g., "warrior")
	Name    string   `json:"name" yaml:"name"`       // Display name (e.g., "Warrior")
	Symbol  string   `json:"symbol" yaml:"symbol"`   // Single character for rendering (e.g., "W")
	HP      int      `json:"hp" yaml:"hp"`           // Base hit points
	Actions []string `json:"actions" yaml:"actions"` // Ordered battle menu entries
}

// SymbolRune returns the symbol as a rune for rendering.
func (c *ClassDef) SymbolRune() rune {
	if len(c.Symbol) == 0 {
		return '?'
	}
	return rune(c.Symbol[0])
}

// ClassRegistry provides lookup of class definitions by ID.
type ClassRegistry struct {
	classes map[string]*ClassDef
	all     []ClassDef
}

// NewClassRegistry creates a registry from loaded class definitions.
func NewClassRegistry(classes []ClassDef) *ClassRegistry {
	registry := &ClassRegistry{
		classes: make(map[string]*ClassDef),
		all:     classes,
	}
	for i := range classes {
		registry.classes[classes[i].ID] = &classes[i]
	}
	return registry
}

// GetByID returns the class definition with the given ID, or nil if not found.
func (r *ClassRegistry) GetByID(id string) *ClassDef {
	return r.classes[id]
}

// All returns all class definitions.
func (r *ClassRegistry) All() []ClassDef {
	return r.all
}

// Count returns the number of classes in the registry.
func (r *ClassRegistry) Count() int {
	return len(r.all)
}
