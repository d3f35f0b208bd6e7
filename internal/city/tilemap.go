package city

// Render layers, drawn in ascending order within each z slice.
const (
	LayerGround = iota
	LayerScenery
	LayerVehicles
	LayerCount
)

// Tile is one cell of the world grid. Drawn holds, per layer, the objects
// whose centre lies in this cell, in draw order.
type Tile struct {
	Pos   Vec3i
	Drawn [][]TileObject
	// DebugFlag marks the tile for the debug tile-marker overlay.
	DebugFlag bool
}

// TileMap is the 3D grid of tiles. It references objects but never owns the
// entities behind them.
type TileMap struct {
	Size   Vec3i
	layers int
	tiles  []Tile
}

// NewTileMap allocates an empty x×y×z grid with the given layer count.
func NewTileMap(size Vec3i, layers int) *TileMap {
	if layers < 1 {
		layers = 1
	}
	m := &TileMap{Size: size, layers: layers}
	n := size.X * size.Y * size.Z
	if n < 0 {
		n = 0
	}
	m.tiles = make([]Tile, n)
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				t := &m.tiles[m.index(x, y, z)]
				t.Pos = Vec3i{x, y, z}
				t.Drawn = make([][]TileObject, layers)
			}
		}
	}
	return m
}

// LayerCount returns the number of render layers.
func (m *TileMap) LayerCount() int { return m.layers }

func (m *TileMap) index(x, y, z int) int {
	return (z*m.Size.Y+y)*m.Size.X + x
}

// InBounds reports whether (x, y, z) is a valid tile index.
func (m *TileMap) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < m.Size.X && y < m.Size.Y && z < m.Size.Z
}

// Tile returns the tile at (x, y, z), or nil when out of bounds.
func (m *TileMap) Tile(x, y, z int) *Tile {
	if !m.InBounds(x, y, z) {
		return nil
	}
	return &m.tiles[m.index(x, y, z)]
}

// TileAt returns the tile containing p, or nil.
func (m *TileMap) TileAt(p Vec3) *Tile {
	i := p.Floor()
	return m.Tile(i.X, i.Y, i.Z)
}

// Insert adds obj to the tile containing its centre. Objects within a layer
// stay ordered by centre z; equal z keeps insertion order. It reports false
// when the centre lies outside the map.
func (m *TileMap) Insert(layer int, obj TileObject) bool {
	if layer < 0 || layer >= m.layers {
		return false
	}
	t := m.TileAt(obj.Center())
	if t == nil {
		return false
	}
	list := t.Drawn[layer]
	z := obj.Center().Z
	at := len(list)
	for i, o := range list {
		if o.Center().Z > z {
			at = i
			break
		}
	}
	list = append(list, nil)
	copy(list[at+1:], list[at:])
	list[at] = obj
	t.Drawn[layer] = list
	return true
}

// Remove drops every handle referring to ref from the tile at p.
// The referenced entity is not touched.
func (m *TileMap) Remove(p Vec3, ref ObjectRef) {
	t := m.TileAt(p)
	if t == nil {
		return
	}
	for l, list := range t.Drawn {
		kept := list[:0]
		for _, o := range list {
			if o.Ref() != ref {
				kept = append(kept, o)
			}
		}
		for i := len(kept); i < len(list); i++ {
			list[i] = nil
		}
		t.Drawn[l] = kept
	}
}

// ObjectCount returns the number of drawn handles in the whole map.
func (m *TileMap) ObjectCount() int {
	n := 0
	for i := range m.tiles {
		for _, list := range m.tiles[i].Drawn {
			n += len(list)
		}
	}
	return n
}
