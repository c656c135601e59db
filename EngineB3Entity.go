package box3d

import (
	"fmt"
)

const b3EntityIndexBits = 32
const b3EntityIndexMask = (uint64(1) << b3EntityIndexBits) - 1

/// An entity identifies a body or a proxy shape. The low bits hold an index
/// that is recycled, the high bits a generation bumped on each recycling.
type B3Entity uint64

func MakeB3Entity(index uint32, generation uint32) B3Entity {
	return B3Entity(uint64(generation)<<b3EntityIndexBits | uint64(index))
}

func (e B3Entity) GetIndex() uint32 {
	return uint32(uint64(e) & b3EntityIndexMask)
}

func (e B3Entity) GetGeneration() uint32 {
	return uint32(uint64(e) >> b3EntityIndexBits)
}

func (e B3Entity) String() string {
	return fmt.Sprintf("E%d.%d", e.GetIndex(), e.GetGeneration())
}

/// Hands out entities and tracks which ones are alive.
type B3EntityManager struct {
	m_generations []uint32
	m_alive       []bool
	m_freeIndices []uint32
	m_nbAlive     int
}

func MakeB3EntityManager() B3EntityManager {
	return B3EntityManager{
		m_generations: make([]uint32, 0, 64),
		m_alive:       make([]bool, 0, 64),
		m_freeIndices: make([]uint32, 0, 64),
	}
}

func (manager *B3EntityManager) CreateEntity() B3Entity {
	var index uint32

	if n := len(manager.m_freeIndices); n > 0 {
		index = manager.m_freeIndices[n-1]
		manager.m_freeIndices = manager.m_freeIndices[:n-1]
	} else {
		index = uint32(len(manager.m_generations))
		manager.m_generations = append(manager.m_generations, 0)
		manager.m_alive = append(manager.m_alive, false)
	}

	manager.m_alive[index] = true
	manager.m_nbAlive++

	return MakeB3Entity(index, manager.m_generations[index])
}

func (manager B3EntityManager) IsValid(e B3Entity) bool {
	index := e.GetIndex()
	if int(index) >= len(manager.m_generations) {
		return false
	}
	return manager.m_alive[index] && manager.m_generations[index] == e.GetGeneration()
}

func (manager *B3EntityManager) DestroyEntity(e B3Entity) {
	B3Assert(manager.IsValid(e))

	index := e.GetIndex()
	manager.m_alive[index] = false
	manager.m_generations[index]++
	manager.m_freeIndices = append(manager.m_freeIndices, index)
	manager.m_nbAlive--
}

func (manager B3EntityManager) GetNbEntities() int {
	return manager.m_nbAlive
}
