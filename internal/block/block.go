package block

// ID identifies the material of a voxel.
type ID uint8

const (
	Empty ID = iota
	Bedrock
	Grass
	GrassVariation
	Dirt
	Sand
	Tree
	Leaves
	Cloud
	Stone
	CoalOre
	IronOre
	GoldOre

	numKinds
)

// Face identifies a face of a block
type Face int

const (
	FaceFront Face = iota
	FaceBack
	FaceLeft
	FaceRight
	FaceTop
	FaceBottom

	NumFaces
)

// Kind defines the immutable properties of a block type
type Kind struct {
	ID             ID
	Name           string
	TextureTop     string
	TextureSide    string
	TextureBot     string
	IsSolid        bool
	Indestructible bool
	IsResource     bool
}

// Texture returns the texture name used for the given face.
func (k *Kind) Texture(f Face) string {
	switch f {
	case FaceTop:
		return k.TextureTop
	case FaceBottom:
		return k.TextureBot
	default:
		return k.TextureSide
	}
}

func uniform(id ID, name string) Kind {
	return Kind{ID: id, Name: name, TextureTop: name, TextureSide: name, TextureBot: name, IsSolid: true}
}

var kinds = [numKinds]Kind{
	Empty:          {ID: Empty, Name: "empty"},
	Bedrock:        {ID: Bedrock, Name: "bedrock", TextureTop: "bedrock", TextureSide: "bedrock", TextureBot: "bedrock", IsSolid: true, Indestructible: true},
	Grass:          {ID: Grass, Name: "grass", TextureTop: "grassTop", TextureSide: "grassSide", TextureBot: "dirt", IsSolid: true},
	GrassVariation: {ID: GrassVariation, Name: "grassVariation", TextureTop: "grassVariation", TextureSide: "grassSide", TextureBot: "dirt", IsSolid: true},
	Dirt:           uniform(Dirt, "dirt"),
	Sand:           uniform(Sand, "sand"),
	Tree:           {ID: Tree, Name: "tree", TextureTop: "treeTop", TextureSide: "treeSide", TextureBot: "treeTop", IsSolid: true},
	Leaves:         uniform(Leaves, "leaves"),
	Cloud:          uniform(Cloud, "cloud"),
	Stone:          withResource(uniform(Stone, "stone")),
	CoalOre:        withResource(uniform(CoalOre, "coalOre")),
	IronOre:        withResource(uniform(IronOre, "ironOre")),
	GoldOre:        withResource(uniform(GoldOre, "goldOre")),
}

func withResource(k Kind) Kind {
	k.IsResource = true
	return k
}

// Valid reports whether id names a known block kind.
func (id ID) Valid() bool {
	return id < numKinds
}

// IsEmpty reports whether id is the empty sentinel.
func (id ID) IsEmpty() bool {
	return id == Empty
}

func (id ID) String() string {
	if !id.Valid() {
		return "unknown"
	}
	return kinds[id].Name
}

// Lookup returns the kind registered for id.
func Lookup(id ID) (*Kind, bool) {
	if !id.Valid() {
		return nil, false
	}
	return &kinds[id], true
}

// ByName resolves a kind by its name.
func ByName(name string) (ID, bool) {
	for i := range kinds {
		if kinds[i].Name == name {
			return kinds[i].ID, true
		}
	}
	return Empty, false
}

// All returns every non-empty block id in registration order.
func All() []ID {
	out := make([]ID, 0, numKinds-1)
	for id := Empty + 1; id < numKinds; id++ {
		out = append(out, id)
	}
	return out
}

// Count is the number of known kinds, the empty sentinel included.
func Count() int {
	return int(numKinds)
}

// Resources returns the resource kinds in vein-placement order.
func Resources() []ID {
	return []ID{Stone, CoalOre, IronOre, GoldOre}
}

// IsSolid reports whether the kind blocks movement.
func (id ID) IsSolid() bool {
	return id.Valid() && kinds[id].IsSolid
}
