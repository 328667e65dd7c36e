package main

const (
	TreeSpawnChance   = 0.05
	WeaponSpawnChance = 0.002 // per weapon type
	ZombieSpawnChance = 0.001 // per grass tile, multiplied by the day number
)

// MapManager owns the tile grid and populates the entity manager from it
type MapManager struct {
	em    *EntityManager
	tiles [][]int
}

func NewMapManager(em *EntityManager) *MapManager {
	return &MapManager{em: em}
}

// Map returns the current tile grid
func (mm *MapManager) Map() [][]int { return mm.tiles }

// Center returns the world-space midpoint of the map
func (mm *MapManager) Center() Vector2 {
	if len(mm.tiles) == 0 {
		return Vector2{}
	}
	return Vector2{float64(len(mm.tiles[0])) * TileSize / 2, float64(len(mm.tiles)) * TileSize / 2}
}

// GenerateMap clears the world and rebuilds tiles, boundaries and resources from scratch
func (mm *MapManager) GenerateMap() {
	total := BiomeSize * MapSize
	mm.em.Clear()
	mm.em.SetMapSize(float64(total)*TileSize, float64(total)*TileSize)

	mm.tiles = make([][]int, total)
	for y := range mm.tiles {
		mm.tiles[y] = make([]int, total)
	}
	for by := 0; by < MapSize; by++ {
		for bx := 0; bx < MapSize; bx++ {
			mm.placeBiome(bx, by)
		}
	}
	mm.em.SetNavGrid(NewNavGrid(mm.tiles, TileSize))

	for y := 0; y < total; y++ {
		for x := 0; x < total; x++ {
			if mm.tiles[y][x] == TileForest {
				mm.em.AddEntity(NewBoundary(tilePos(x, y)))
			}
		}
	}

	rng := mm.em.Rand()
	for y := 0; y < total; y++ {
		for x := 0; x < total; x++ {
			if id := mm.tiles[y][x]; id != TileGrass1 && id != TileGrass2 {
				continue
			}
			pos := tilePos(x, y)
			switch {
			case rng.Float64() < TreeSpawnChance:
				mm.em.AddEntity(NewTree(mm.em, pos))
			case rng.Float64() < WeaponSpawnChance:
				mm.em.AddEntity(NewWeapon(mm.em, ItemPistol, pos))
			case rng.Float64() < WeaponSpawnChance:
				mm.em.AddEntity(NewWeapon(mm.em, ItemShotgun, pos))
			case rng.Float64() < WeaponSpawnChance:
				mm.em.AddEntity(NewWeapon(mm.em, ItemKnife, pos))
			}
		}
	}
}

func (mm *MapManager) placeBiome(bx, by int) {
	border := bx == 0 || by == 0 || bx == MapSize-1 || by == MapSize-1
	pattern := &forestBiome
	if bx == MapSize/2 && by == MapSize/2 {
		pattern = &campsiteBiome
	}
	for y := 0; y < BiomeSize; y++ {
		for x := 0; x < BiomeSize; x++ {
			id := pattern[y][x]
			if border {
				id = TileForest
			}
			mm.tiles[by*BiomeSize+y][bx*BiomeSize+x] = id
		}
	}
}

// SpawnZombies rolls a spawn on every plain grass tile with probability scaled by day
// and returns the number of enemies added
func (mm *MapManager) SpawnZombies(day int) int {
	rng := mm.em.Rand()
	chance := ZombieSpawnChance * float64(day)
	spawned := 0
	for y, row := range mm.tiles {
		for x, id := range row {
			if id != TileGrass1 || rng.Float64() >= chance {
				continue
			}
			typ := pickArchetype(rng)
			if archetypes[typ].PackSize > 1 {
				spawned += len(SpawnPack(mm.em, typ, tilePos(x, y)))
				continue
			}
			mm.em.AddEntity(NewEnemy(mm.em, typ, tilePos(x, y)))
			spawned++
		}
	}
	return spawned
}

func tilePos(x, y int) Vector2 {
	return Vector2{float64(x) * TileSize, float64(y) * TileSize}
}
