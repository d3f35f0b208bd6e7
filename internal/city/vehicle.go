package city

// Facing is one of eight compass headings.
type Facing uint8

const (
	FacingN Facing = iota
	FacingNE
	FacingE
	FacingSE
	FacingS
	FacingSW
	FacingW
	FacingNW
)

// Voxel map facings. Vehicle extents are only stored for these four.
const (
	VoxelNorth = iota
	VoxelEast
	VoxelSouth
	VoxelWest
	VoxelFacingCount
)

// VoxelMapFacing maps a heading to the voxel map used for its extent.
// Diagonals round clockwise.
func (f Facing) VoxelMapFacing() int {
	return int((f%8)/2) % VoxelFacingCount
}

// VehicleType is the read-only rule data a tile view needs about a vehicle.
type VehicleType struct {
	Name string
	// Size is the full bounding box in tiles for each voxel map facing.
	Size        [VoxelFacingCount]Vec3
	IsoSprites  [VoxelFacingCount]Sprite
	StratSprite Sprite
}

// HalfExtent returns half the bounding box for heading f.
func (t *VehicleType) HalfExtent(f Facing) Vec3 {
	return t.Size[f.VoxelMapFacing()].Scale(0.5)
}

// VehicleID is the entity key of a vehicle.
type VehicleID int

// MissionKind identifies what a vehicle mission does.
type MissionKind uint8

const (
	MissionPatrol MissionKind = iota
	MissionGotoLocation
	MissionAttackVehicle
	MissionFollowVehicle
)

// Mission is one queued order of a vehicle.
type Mission struct {
	Kind          MissionKind
	TargetVehicle VehicleID
	TargetTile    Vec3i
}

// Vehicle is an entity owned by the City.
type Vehicle struct {
	ID       VehicleID
	Name     string
	Type     *VehicleType
	Position Vec3
	Facing   Facing
	Missions []Mission
}

// AttackTargets returns the distinct targets of the vehicle's attack
// missions, in mission order.
func (v *Vehicle) AttackTargets() []VehicleID {
	var out []VehicleID
	seen := make(map[VehicleID]bool)
	for _, m := range v.Missions {
		if m.Kind != MissionAttackVehicle || seen[m.TargetVehicle] {
			continue
		}
		seen[m.TargetVehicle] = true
		out = append(out, m.TargetVehicle)
	}
	return out
}
