package box3d

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

/// Receives the proxy-shape entities of each new overlapping pair.
type B3BroadPhaseAddPairCallback func(proxyShapeA B3Entity, proxyShapeB B3Entity)

type B3Pair struct {
	ProxyIdA int
	ProxyIdB int
}

const E_nullProxy = -1

/// The broad-phase is used for computing pairs and performing volume queries and ray casts.
/// This broad-phase does not persist pairs. Instead, this reports potentially new pairs.
/// It is up to the client to consume the new pairs and to track subsequent overlap.
/// The ids it hands out are the broad-phase ids stored in the proxy-shape components.
type B3BroadPhase struct {
	M_tree B3DynamicTree

	M_proxyCount int

	M_moveBuffer []int
	M_pairBuffer []B3Pair

	M_queryProxyId int
}

type PairByLessThan []B3Pair

func (a PairByLessThan) Len() int      { return len(a) }
func (a PairByLessThan) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a PairByLessThan) Less(i, j int) bool {
	return B3PairLessThan(a[i], a[j])
}

/// This is used to sort pairs.
func B3PairLessThan(pair1 B3Pair, pair2 B3Pair) bool {
	if pair1.ProxyIdA < pair2.ProxyIdA {
		return true
	}

	if pair1.ProxyIdA == pair2.ProxyIdA {
		return pair1.ProxyIdB < pair2.ProxyIdB
	}

	return false
}

func MakeB3BroadPhase(settings B3Settings) B3BroadPhase {
	return B3BroadPhase{
		M_tree:       MakeB3DynamicTree(settings),
		M_proxyCount: 0,
		M_moveBuffer: make([]int, 0, 16),
		M_pairBuffer: make([]B3Pair, 0, 16),
	}
}

func NewB3BroadPhase(settings B3Settings) *B3BroadPhase {
	res := MakeB3BroadPhase(settings)
	return &res
}

func (bp B3BroadPhase) GetUserData(proxyId int) B3Entity {
	return bp.M_tree.GetUserData(proxyId)
}

func (bp B3BroadPhase) TestOverlap(proxyIdA int, proxyIdB int) bool {
	return B3TestOverlapBoundingBoxes(
		bp.M_tree.GetFatAABB(proxyIdA),
		bp.M_tree.GetFatAABB(proxyIdB),
	)
}

func (bp B3BroadPhase) GetFatAABB(proxyId int) B3AABB {
	return bp.M_tree.GetFatAABB(proxyId)
}

func (bp B3BroadPhase) GetProxyCount() int {
	return bp.M_proxyCount
}

func (bp B3BroadPhase) GetMoveCount() int {
	return len(bp.M_moveBuffer)
}

func (bp B3BroadPhase) GetTreeHeight() int {
	return bp.M_tree.GetHeight()
}

func (bp B3BroadPhase) GetTreeBalance() int {
	return bp.M_tree.GetMaxBalance()
}

func (bp B3BroadPhase) GetTreeQuality() float64 {
	return bp.M_tree.GetAreaRatio()
}

/// Create a proxy with an initial AABB. Pairs are not reported until
/// UpdatePairs is called.
func (bp *B3BroadPhase) CreateProxy(aabb B3AABB, proxyShape B3Entity) int {
	proxyId := bp.M_tree.CreateProxy(aabb, proxyShape)
	bp.M_proxyCount++
	bp.BufferMove(proxyId)
	return proxyId
}

func (bp *B3BroadPhase) DestroyProxy(proxyId int) {
	bp.UnBufferMove(proxyId)
	bp.M_proxyCount--
	bp.M_tree.DestroyProxy(proxyId)
}

/// Call MoveProxy as many times as you like, then when you are done
/// call UpdatePairs to finalize the proxy pairs.
func (bp *B3BroadPhase) MoveProxy(proxyId int, aabb B3AABB, displacement mgl64.Vec3) {
	buffer := bp.M_tree.MoveProxy(proxyId, aabb, displacement)
	if buffer {
		bp.BufferMove(proxyId)
	}
}

/// Call to trigger a re-processing of its pairs on the next call to UpdatePairs.
func (bp *B3BroadPhase) TouchProxy(proxyId int) {
	bp.BufferMove(proxyId)
}

func (bp *B3BroadPhase) BufferMove(proxyId int) {
	bp.M_moveBuffer = append(bp.M_moveBuffer, proxyId)
}

func (bp *B3BroadPhase) UnBufferMove(proxyId int) {
	for i := range bp.M_moveBuffer {
		if bp.M_moveBuffer[i] == proxyId {
			bp.M_moveBuffer[i] = E_nullProxy
		}
	}
}

/// Update the pairs. This results in pair callbacks. This can only add pairs.
func (bp *B3BroadPhase) UpdatePairs(addPairCallback B3BroadPhaseAddPairCallback) {
	// Reset pair buffer
	bp.M_pairBuffer = bp.M_pairBuffer[:0]

	// Perform tree queries for all moving proxies.
	for _, proxyId := range bp.M_moveBuffer {
		bp.M_queryProxyId = proxyId
		if bp.M_queryProxyId == E_nullProxy {
			continue
		}

		// We have to query the tree with the fat AABB so that
		// we don't fail to create a pair that may touch later.
		fatAABB := bp.M_tree.GetFatAABB(bp.M_queryProxyId)

		// Query tree, create pairs and add them pair buffer.
		bp.M_tree.Query(bp.QueryCallback, fatAABB)
	}

	// Reset move buffer
	bp.M_moveBuffer = bp.M_moveBuffer[:0]

	// Sort the pair buffer to expose duplicates.
	sort.Sort(PairByLessThan(bp.M_pairBuffer))

	// Send the pairs back to the client.
	i := 0
	for i < len(bp.M_pairBuffer) {
		primaryPair := bp.M_pairBuffer[i]
		userDataA := bp.M_tree.GetUserData(primaryPair.ProxyIdA)
		userDataB := bp.M_tree.GetUserData(primaryPair.ProxyIdB)

		addPairCallback(userDataA, userDataB)
		i++

		// Skip any duplicate pairs.
		for i < len(bp.M_pairBuffer) {
			pair := bp.M_pairBuffer[i]
			if pair != primaryPair {
				break
			}
			i++
		}
	}
}

// This is called from B3DynamicTree.Query when we are gathering pairs.
func (bp *B3BroadPhase) QueryCallback(proxyId int) bool {

	// A proxy cannot form a pair with itself.
	if proxyId == bp.M_queryProxyId {
		return true
	}

	bp.M_pairBuffer = append(bp.M_pairBuffer, B3Pair{
		ProxyIdA: MinInt(proxyId, bp.M_queryProxyId),
		ProxyIdB: MaxInt(proxyId, bp.M_queryProxyId),
	})

	return true
}

func (bp *B3BroadPhase) Query(callback B3TreeQueryCallback, aabb B3AABB) {
	bp.M_tree.Query(callback, aabb)
}

func (bp *B3BroadPhase) RayCast(callback B3TreeRayCastCallback, ray B3Ray, maxDistance float64) {
	bp.M_tree.RayCast(callback, ray, maxDistance)
}

func (bp *B3BroadPhase) ShiftOrigin(newOrigin mgl64.Vec3) {
	bp.M_tree.ShiftOrigin(newOrigin)
}
