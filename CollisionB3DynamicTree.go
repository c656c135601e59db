package box3d

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
)

type B3TreeQueryCallback func(nodeId int) bool

/// Called for each leaf whose fat AABB the ray overlaps. The returned value
/// controls the cast: 0 terminates it, a positive value becomes the new
/// maximum distance, a negative value leaves it unchanged.
type B3TreeRayCastCallback func(ray B3Ray, maxDistance float64, nodeId int) float64

const B3_nullNode = -1

type B3TreeNode struct {

	/// Enlarged AABB
	Aabb B3AABB

	/// Proxy-shape entity of a leaf.
	UserData B3Entity

	// union
	// {
	Parent int
	Next   int
	//};

	Child1 int
	Child2 int

	// leaf = 0, free node = -1
	Height int
}

func (node B3TreeNode) IsLeaf() bool {
	return node.Child1 == B3_nullNode
}

/// A dynamic AABB tree broad-phase, inspired by Nathanael Presson's btDbvt.
/// A dynamic tree arranges data in a binary tree to accelerate
/// queries such as volume queries and ray casts. Leafs are proxies
/// with an AABB. In the tree we expand the proxy AABB by the AABB extension
/// so that the proxy AABB is bigger than the client object. This allows the client
/// object to move by small amounts without triggering a tree update.
///
/// Nodes are pooled and relocatable, so we use node indices rather than pointers.
type B3DynamicTree struct {
	M_root int

	M_nodes        []B3TreeNode
	M_nodeCount    int
	M_nodeCapacity int

	M_freeList int

	M_insertionCount int

	/// Fattening of the leaf AABBs and displacement prediction factor.
	M_aabbExtension  float64
	M_aabbMultiplier float64
}

func MakeB3DynamicTree(settings B3Settings) B3DynamicTree {

	tree := B3DynamicTree{}
	tree.M_root = B3_nullNode

	tree.M_nodeCapacity = 16
	tree.M_nodeCount = 0
	tree.M_nodes = make([]B3TreeNode, tree.M_nodeCapacity)

	// Build a linked list for the free list.
	for i := 0; i < tree.M_nodeCapacity-1; i++ {
		tree.M_nodes[i].Next = i + 1
		tree.M_nodes[i].Height = -1
	}

	tree.M_nodes[tree.M_nodeCapacity-1].Next = B3_nullNode
	tree.M_nodes[tree.M_nodeCapacity-1].Height = -1
	tree.M_freeList = 0

	tree.M_insertionCount = 0

	tree.M_aabbExtension = settings.AABBExtension
	tree.M_aabbMultiplier = settings.AABBMultiplier

	return tree
}

func NewB3DynamicTree(settings B3Settings) *B3DynamicTree {
	res := MakeB3DynamicTree(settings)
	return &res
}

func (tree B3DynamicTree) GetUserData(proxyId int) B3Entity {
	B3Assert(0 <= proxyId && proxyId < tree.M_nodeCapacity)
	return tree.M_nodes[proxyId].UserData
}

func (tree B3DynamicTree) GetFatAABB(proxyId int) B3AABB {
	B3Assert(0 <= proxyId && proxyId < tree.M_nodeCapacity)
	return tree.M_nodes[proxyId].Aabb
}

func (tree B3DynamicTree) GetNodeCount() int {
	return tree.M_nodeCount
}

func (tree *B3DynamicTree) Query(queryCallback B3TreeQueryCallback, aabb B3AABB) {
	stack := NewB3GrowableStack[int]()
	stack.Push(tree.M_root)

	for stack.GetCount() > 0 {
		nodeId, _ := stack.Pop()
		if nodeId == B3_nullNode {
			continue
		}

		node := &tree.M_nodes[nodeId]

		if B3TestOverlapBoundingBoxes(node.Aabb, aabb) {
			if node.IsLeaf() {
				proceed := queryCallback(nodeId)
				if !proceed {
					return
				}
			} else {
				stack.Push(node.Child1)
				stack.Push(node.Child2)
			}
		}
	}
}

func (tree B3DynamicTree) RayCast(rayCastCallback B3TreeRayCastCallback, ray B3Ray, maxDistance float64) {
	B3Assert(ray.Direction.LenSqr() > 0.0)

	stack := NewB3GrowableStack[int]()
	stack.Push(tree.M_root)

	for stack.GetCount() > 0 {
		nodeId, _ := stack.Pop()
		if nodeId == B3_nullNode {
			continue
		}

		node := &tree.M_nodes[nodeId]

		if !node.Aabb.TestRayOverlap(ray, maxDistance) {
			continue
		}

		if node.IsLeaf() {
			value := rayCastCallback(ray, maxDistance, nodeId)

			if value == 0.0 {
				// The client has terminated the ray cast.
				return
			}

			if value > 0.0 {
				// Shorten the ray.
				maxDistance = value
			}
		} else {
			stack.Push(node.Child1)
			stack.Push(node.Child2)
		}
	}
}

// Allocate a node from the pool. Grow the pool if necessary.
func (tree *B3DynamicTree) AllocateNode() int {

	// Expand the node pool as needed.
	if tree.M_freeList == B3_nullNode {
		B3Assert(tree.M_nodeCount == tree.M_nodeCapacity)

		// The free list is empty. Rebuild a bigger pool.
		tree.M_nodes = append(tree.M_nodes, make([]B3TreeNode, tree.M_nodeCapacity)...)
		tree.M_nodeCapacity *= 2

		// Build a linked list for the free list. The parent
		// pointer becomes the "next" pointer.
		for i := tree.M_nodeCount; i < tree.M_nodeCapacity-1; i++ {
			tree.M_nodes[i].Next = i + 1
			tree.M_nodes[i].Height = -1
		}

		tree.M_nodes[tree.M_nodeCapacity-1].Next = B3_nullNode
		tree.M_nodes[tree.M_nodeCapacity-1].Height = -1
		tree.M_freeList = tree.M_nodeCount
	}

	// Peel a node off the free list.
	nodeId := tree.M_freeList
	tree.M_freeList = tree.M_nodes[nodeId].Next
	tree.M_nodes[nodeId].Parent = B3_nullNode
	tree.M_nodes[nodeId].Child1 = B3_nullNode
	tree.M_nodes[nodeId].Child2 = B3_nullNode
	tree.M_nodes[nodeId].Height = 0
	tree.M_nodes[nodeId].UserData = 0
	tree.M_nodeCount++

	return nodeId
}

// Return a node to the pool.
func (tree *B3DynamicTree) FreeNode(nodeId int) {
	B3Assert(0 <= nodeId && nodeId < tree.M_nodeCapacity)
	B3Assert(0 < tree.M_nodeCount)
	tree.M_nodes[nodeId].Next = tree.M_freeList
	tree.M_nodes[nodeId].Height = -1
	tree.M_freeList = nodeId
	tree.M_nodeCount--
}

// Create a proxy in the tree as a leaf node. We return the index
// of the node instead of a pointer so that we can grow
// the node pool.
func (tree *B3DynamicTree) CreateProxy(aabb B3AABB, userData B3Entity) int {

	proxyId := tree.AllocateNode()

	// Fatten the aabb.
	fat := aabb
	fat.Inflate(tree.M_aabbExtension)
	tree.M_nodes[proxyId].Aabb = fat
	tree.M_nodes[proxyId].UserData = userData
	tree.M_nodes[proxyId].Height = 0

	tree.InsertLeaf(proxyId)

	return proxyId
}

func (tree *B3DynamicTree) DestroyProxy(proxyId int) {
	B3Assert(0 <= proxyId && proxyId < tree.M_nodeCapacity)
	B3Assert(tree.M_nodes[proxyId].IsLeaf())

	tree.RemoveLeaf(proxyId)
	tree.FreeNode(proxyId)
}

// Returns true if the proxy was re-inserted.
func (tree *B3DynamicTree) MoveProxy(proxyId int, aabb B3AABB, displacement mgl64.Vec3) bool {

	B3Assert(0 <= proxyId && proxyId < tree.M_nodeCapacity)

	B3Assert(tree.M_nodes[proxyId].IsLeaf())

	if tree.M_nodes[proxyId].Aabb.Contains(aabb) {
		return false
	}

	tree.RemoveLeaf(proxyId)

	// Extend AABB.
	b := aabb
	b.Inflate(tree.M_aabbExtension)

	// Predict AABB displacement.
	d := displacement.Mul(tree.M_aabbMultiplier)

	for i := 0; i < 3; i++ {
		if d[i] < 0.0 {
			b.LowerBound[i] += d[i]
		} else {
			b.UpperBound[i] += d[i]
		}
	}

	tree.M_nodes[proxyId].Aabb = b

	tree.InsertLeaf(proxyId)

	return true
}

func (tree *B3DynamicTree) InsertLeaf(leaf int) {
	tree.M_insertionCount++

	if tree.M_root == B3_nullNode {
		tree.M_root = leaf
		tree.M_nodes[tree.M_root].Parent = B3_nullNode
		return
	}

	// Find the best sibling for this node
	leafAABB := tree.M_nodes[leaf].Aabb
	index := tree.M_root
	for !tree.M_nodes[index].IsLeaf() {
		child1 := tree.M_nodes[index].Child1
		child2 := tree.M_nodes[index].Child2

		area := tree.M_nodes[index].Aabb.GetSurfaceArea()

		combinedAABB := NewB3AABB()
		combinedAABB.CombineTwoInPlace(tree.M_nodes[index].Aabb, leafAABB)
		combinedArea := combinedAABB.GetSurfaceArea()

		// Cost of creating a new parent for this node and the new leaf
		cost := 2.0 * combinedArea

		// Minimum cost of pushing the leaf further down the tree
		inheritanceCost := 2.0 * (combinedArea - area)

		// Cost of descending into each child
		cost1 := tree.descendCost(child1, leafAABB) + inheritanceCost
		cost2 := tree.descendCost(child2, leafAABB) + inheritanceCost

		// Descend according to the minimum cost.
		if cost < cost1 && cost < cost2 {
			break
		}

		// Descend
		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index

	// Create a new parent.
	oldParent := tree.M_nodes[sibling].Parent
	newParent := tree.AllocateNode()
	tree.M_nodes[newParent].Parent = oldParent
	tree.M_nodes[newParent].Aabb.CombineTwoInPlace(leafAABB, tree.M_nodes[sibling].Aabb)
	tree.M_nodes[newParent].Height = tree.M_nodes[sibling].Height + 1

	if oldParent != B3_nullNode {
		// The sibling was not the root.
		if tree.M_nodes[oldParent].Child1 == sibling {
			tree.M_nodes[oldParent].Child1 = newParent
		} else {
			tree.M_nodes[oldParent].Child2 = newParent
		}
	} else {
		// The sibling was the root.
		tree.M_root = newParent
	}

	tree.M_nodes[newParent].Child1 = sibling
	tree.M_nodes[newParent].Child2 = leaf
	tree.M_nodes[sibling].Parent = newParent
	tree.M_nodes[leaf].Parent = newParent

	// Walk back up the tree fixing heights and AABBs
	tree.refitAncestors(tree.M_nodes[leaf].Parent)
}

// Surface area increase of a child when the leaf is pushed into it. A leaf
// child would be replaced by a new parent, so its full area counts.
func (tree B3DynamicTree) descendCost(child int, leafAABB B3AABB) float64 {
	aabb := NewB3AABB()
	aabb.CombineTwoInPlace(leafAABB, tree.M_nodes[child].Aabb)

	if tree.M_nodes[child].IsLeaf() {
		return aabb.GetSurfaceArea()
	}

	oldArea := tree.M_nodes[child].Aabb.GetSurfaceArea()
	newArea := aabb.GetSurfaceArea()
	return newArea - oldArea
}

func (tree *B3DynamicTree) refitAncestors(index int) {
	for index != B3_nullNode {
		index = tree.Balance(index)

		child1 := tree.M_nodes[index].Child1
		child2 := tree.M_nodes[index].Child2

		B3Assert(child1 != B3_nullNode)
		B3Assert(child2 != B3_nullNode)

		tree.M_nodes[index].Height = 1 + MaxInt(tree.M_nodes[child1].Height, tree.M_nodes[child2].Height)
		tree.M_nodes[index].Aabb.CombineTwoInPlace(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)

		index = tree.M_nodes[index].Parent
	}
}

func (tree *B3DynamicTree) RemoveLeaf(leaf int) {
	if leaf == tree.M_root {
		tree.M_root = B3_nullNode
		return
	}

	parent := tree.M_nodes[leaf].Parent
	grandParent := tree.M_nodes[parent].Parent
	sibling := tree.M_nodes[parent].Child1
	if sibling == leaf {
		sibling = tree.M_nodes[parent].Child2
	}

	if grandParent != B3_nullNode {
		// Destroy parent and connect sibling to grandParent.
		if tree.M_nodes[grandParent].Child1 == parent {
			tree.M_nodes[grandParent].Child1 = sibling
		} else {
			tree.M_nodes[grandParent].Child2 = sibling
		}
		tree.M_nodes[sibling].Parent = grandParent
		tree.FreeNode(parent)

		// Adjust ancestor bounds.
		tree.refitAncestors(grandParent)
	} else {
		tree.M_root = sibling
		tree.M_nodes[sibling].Parent = B3_nullNode
		tree.FreeNode(parent)
	}
}

// Perform a left or right rotation if node A is imbalanced.
// Returns the new root index.
func (tree *B3DynamicTree) Balance(iA int) int {
	B3Assert(iA != B3_nullNode)

	A := &tree.M_nodes[iA]
	if A.IsLeaf() || A.Height < 2 {
		return iA
	}

	iB := A.Child1
	iC := A.Child2
	B3Assert(0 <= iB && iB < tree.M_nodeCapacity)
	B3Assert(0 <= iC && iC < tree.M_nodeCapacity)

	B := &tree.M_nodes[iB]
	C := &tree.M_nodes[iC]

	balance := C.Height - B.Height

	// Rotate C up
	if balance > 1 {
		iF := C.Child1
		iG := C.Child2
		B3Assert(0 <= iF && iF < tree.M_nodeCapacity)
		B3Assert(0 <= iG && iG < tree.M_nodeCapacity)
		F := &tree.M_nodes[iF]
		G := &tree.M_nodes[iG]

		// Swap A and C
		C.Child1 = iA
		C.Parent = A.Parent
		A.Parent = iC

		// A's old parent should point to C
		tree.replaceChild(C.Parent, iA, iC)

		// Rotate
		if F.Height > G.Height {
			C.Child2 = iF
			A.Child2 = iG
			G.Parent = iA
			A.Aabb.CombineTwoInPlace(B.Aabb, G.Aabb)
			C.Aabb.CombineTwoInPlace(A.Aabb, F.Aabb)

			A.Height = 1 + MaxInt(B.Height, G.Height)
			C.Height = 1 + MaxInt(A.Height, F.Height)
		} else {
			C.Child2 = iG
			A.Child2 = iF
			F.Parent = iA
			A.Aabb.CombineTwoInPlace(B.Aabb, F.Aabb)
			C.Aabb.CombineTwoInPlace(A.Aabb, G.Aabb)

			A.Height = 1 + MaxInt(B.Height, F.Height)
			C.Height = 1 + MaxInt(A.Height, G.Height)
		}

		return iC
	}

	// Rotate B up
	if balance < -1 {
		iD := B.Child1
		iE := B.Child2
		B3Assert(0 <= iD && iD < tree.M_nodeCapacity)
		B3Assert(0 <= iE && iE < tree.M_nodeCapacity)

		D := &tree.M_nodes[iD]
		E := &tree.M_nodes[iE]

		// Swap A and B
		B.Child1 = iA
		B.Parent = A.Parent
		A.Parent = iB

		// A's old parent should point to B
		tree.replaceChild(B.Parent, iA, iB)

		// Rotate
		if D.Height > E.Height {
			B.Child2 = iD
			A.Child1 = iE
			E.Parent = iA
			A.Aabb.CombineTwoInPlace(C.Aabb, E.Aabb)
			B.Aabb.CombineTwoInPlace(A.Aabb, D.Aabb)

			A.Height = 1 + MaxInt(C.Height, E.Height)
			B.Height = 1 + MaxInt(A.Height, D.Height)
		} else {
			B.Child2 = iE
			A.Child1 = iD
			D.Parent = iA
			A.Aabb.CombineTwoInPlace(C.Aabb, D.Aabb)
			B.Aabb.CombineTwoInPlace(A.Aabb, E.Aabb)

			A.Height = 1 + MaxInt(C.Height, D.Height)
			B.Height = 1 + MaxInt(A.Height, E.Height)
		}

		return iB
	}

	return iA
}

// Point parent (or the root when parent is null) at newChild instead of oldChild.
func (tree *B3DynamicTree) replaceChild(parent, oldChild, newChild int) {
	if parent == B3_nullNode {
		tree.M_root = newChild
		return
	}

	if tree.M_nodes[parent].Child1 == oldChild {
		tree.M_nodes[parent].Child1 = newChild
	} else {
		B3Assert(tree.M_nodes[parent].Child2 == oldChild)
		tree.M_nodes[parent].Child2 = newChild
	}
}

func (tree B3DynamicTree) GetHeight() int {
	if tree.M_root == B3_nullNode {
		return 0
	}

	return tree.M_nodes[tree.M_root].Height
}

// Ratio of the sum of the node surface areas to the root surface area.
func (tree B3DynamicTree) GetAreaRatio() float64 {
	if tree.M_root == B3_nullNode {
		return 0.0
	}

	root := &tree.M_nodes[tree.M_root]
	rootArea := root.Aabb.GetSurfaceArea()

	totalArea := 0.0
	for i := 0; i < tree.M_nodeCapacity; i++ {
		node := &tree.M_nodes[i]
		if node.Height < 0 {
			// Free node in pool
			continue
		}

		totalArea += node.Aabb.GetSurfaceArea()
	}

	return totalArea / rootArea
}

// Compute the height of a sub-tree.
func (tree B3DynamicTree) ComputeHeight(nodeId int) int {
	B3Assert(0 <= nodeId && nodeId < tree.M_nodeCapacity)
	node := &tree.M_nodes[nodeId]

	if node.IsLeaf() {
		return 0
	}

	height1 := tree.ComputeHeight(node.Child1)
	height2 := tree.ComputeHeight(node.Child2)
	return 1 + MaxInt(height1, height2)
}

func (tree B3DynamicTree) ComputeTotalHeight() int {
	if tree.M_root == B3_nullNode {
		return 0
	}
	return tree.ComputeHeight(tree.M_root)
}

func (tree B3DynamicTree) ValidateStructure(index int) {
	if index == B3_nullNode {
		return
	}

	if index == tree.M_root {
		B3Assert(tree.M_nodes[index].Parent == B3_nullNode)
	}

	node := &tree.M_nodes[index]

	child1 := node.Child1
	child2 := node.Child2

	if node.IsLeaf() {
		B3Assert(child1 == B3_nullNode)
		B3Assert(child2 == B3_nullNode)
		B3Assert(node.Height == 0)
		return
	}

	B3Assert(0 <= child1 && child1 < tree.M_nodeCapacity)
	B3Assert(0 <= child2 && child2 < tree.M_nodeCapacity)

	B3Assert(tree.M_nodes[child1].Parent == index)
	B3Assert(tree.M_nodes[child2].Parent == index)

	tree.ValidateStructure(child1)
	tree.ValidateStructure(child2)
}

func (tree B3DynamicTree) ValidateMetrics(index int) {
	if index == B3_nullNode {
		return
	}

	node := &tree.M_nodes[index]

	child1 := node.Child1
	child2 := node.Child2

	if node.IsLeaf() {
		B3Assert(child1 == B3_nullNode)
		B3Assert(child2 == B3_nullNode)
		B3Assert(node.Height == 0)
		return
	}

	B3Assert(0 <= child1 && child1 < tree.M_nodeCapacity)
	B3Assert(0 <= child2 && child2 < tree.M_nodeCapacity)

	height1 := tree.M_nodes[child1].Height
	height2 := tree.M_nodes[child2].Height
	height := 1 + MaxInt(height1, height2)
	B3Assert(node.Height == height)

	aabb := NewB3AABB()
	aabb.CombineTwoInPlace(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)

	B3Assert(aabb.LowerBound == node.Aabb.LowerBound)
	B3Assert(aabb.UpperBound == node.Aabb.UpperBound)

	tree.ValidateMetrics(child1)
	tree.ValidateMetrics(child2)
}

// Validate this tree. For testing.
func (tree B3DynamicTree) Validate() {
	tree.ValidateStructure(tree.M_root)
	tree.ValidateMetrics(tree.M_root)

	freeCount := 0
	freeIndex := tree.M_freeList
	for freeIndex != B3_nullNode {
		B3Assert(0 <= freeIndex && freeIndex < tree.M_nodeCapacity)
		freeIndex = tree.M_nodes[freeIndex].Next
		freeCount++
	}

	B3Assert(tree.GetHeight() == tree.ComputeTotalHeight())
	B3Assert(tree.M_nodeCount+freeCount == tree.M_nodeCapacity)
}

func (tree B3DynamicTree) GetMaxBalance() int {
	maxBalance := 0
	for i := 0; i < tree.M_nodeCapacity; i++ {
		node := &tree.M_nodes[i]
		if node.Height <= 1 {
			continue
		}

		B3Assert(!node.IsLeaf())

		child1 := node.Child1
		child2 := node.Child2
		balance := AbsInt(tree.M_nodes[child2].Height - tree.M_nodes[child1].Height)
		maxBalance = MaxInt(maxBalance, balance)
	}

	return maxBalance
}

/// Build an optimal tree. Very expensive. For testing.
func (tree *B3DynamicTree) RebuildBottomUp() {
	nodes := make([]int, tree.M_nodeCount)
	count := 0

	// Build array of leaves. Free the rest.
	for i := 0; i < tree.M_nodeCapacity; i++ {
		if tree.M_nodes[i].Height < 0 {
			// free node in pool
			continue
		}

		if tree.M_nodes[i].IsLeaf() {
			tree.M_nodes[i].Parent = B3_nullNode
			nodes[count] = i
			count++
		} else {
			tree.FreeNode(i)
		}
	}

	if count == 0 {
		tree.M_root = B3_nullNode
		return
	}

	for count > 1 {
		minCost := B3_maxFloat
		iMin := -1
		jMin := -1

		for i := 0; i < count; i++ {
			aabbi := tree.M_nodes[nodes[i]].Aabb

			for j := i + 1; j < count; j++ {
				aabbj := tree.M_nodes[nodes[j]].Aabb
				b := NewB3AABB()
				b.CombineTwoInPlace(aabbi, aabbj)
				cost := b.GetSurfaceArea()
				if cost < minCost {
					iMin = i
					jMin = j
					minCost = cost
				}
			}
		}

		index1 := nodes[iMin]
		index2 := nodes[jMin]

		// Allocate first, the node pool may move.
		parentIndex := tree.AllocateNode()
		child1 := &tree.M_nodes[index1]
		child2 := &tree.M_nodes[index2]
		parent := &tree.M_nodes[parentIndex]
		parent.Child1 = index1
		parent.Child2 = index2
		parent.Height = 1 + MaxInt(child1.Height, child2.Height)
		parent.Aabb.CombineTwoInPlace(child1.Aabb, child2.Aabb)
		parent.Parent = B3_nullNode

		child1.Parent = parentIndex
		child2.Parent = parentIndex

		nodes[jMin] = nodes[count-1]
		nodes[iMin] = parentIndex
		count--
	}

	tree.M_root = nodes[0]

	tree.Validate()
}

/// Shift the world origin. Useful for large worlds.
/// The shift formula is: position -= newOrigin
func (tree *B3DynamicTree) ShiftOrigin(newOrigin mgl64.Vec3) {
	for i := 0; i < tree.M_nodeCapacity; i++ {
		tree.M_nodes[i].Aabb.LowerBound = tree.M_nodes[i].Aabb.LowerBound.Sub(newOrigin)
		tree.M_nodes[i].Aabb.UpperBound = tree.M_nodes[i].Aabb.UpperBound.Sub(newOrigin)
	}
}

/// Write the live nodes in pool order.
func (tree B3DynamicTree) Dump(w io.Writer) {
	fmt.Fprintf(w, "tree root=%d nodes=%d height=%d\n", tree.M_root, tree.M_nodeCount, tree.GetHeight())
	for i := 0; i < tree.M_nodeCapacity; i++ {
		node := &tree.M_nodes[i]
		if node.Height < 0 {
			continue
		}

		lo := node.Aabb.LowerBound
		hi := node.Aabb.UpperBound
		if node.IsLeaf() {
			fmt.Fprintf(w, "  node %d leaf %s parent=%d aabb=(%.3f, %.3f, %.3f)-(%.3f, %.3f, %.3f)\n",
				i, node.UserData, node.Parent, lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
		} else {
			fmt.Fprintf(w, "  node %d children=%d,%d parent=%d height=%d\n",
				i, node.Child1, node.Child2, node.Parent, node.Height)
		}
	}
}
