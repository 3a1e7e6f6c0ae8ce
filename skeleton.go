package tempo

import "fmt"

// Bone is one joint of a Skeleton. Parent is the index of the parent bone,
// or -1 for a root bone, and must precede the bone in the Skeleton's list.
// The transform is relative to the parent bone (or the owner node for roots).
// A zero scale is read as 1.
type Bone struct {
	Name     string
	Parent   int
	X, Y     float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
}

// Skeleton is a minimal 2D bone hierarchy posed relative to its Owner node.
// It is the BoneSource for its own BoneAttachments.
type Skeleton struct {
	Owner *Node
	Bones []Bone

	world       [][6]float64
	attachments *BoneAttachments
}

// NewSkeleton creates a skeleton owned by owner.
// Panics if owner is nil or a bone's parent does not precede it.
func NewSkeleton(owner *Node, bones []Bone) *Skeleton {
	if owner == nil {
		panic("tempo: skeleton needs an owner node")
	}
	bones = append([]Bone(nil), bones...)
	for i := range bones {
		b := &bones[i]
		if b.Parent >= i || b.Parent < -1 {
			panic(fmt.Sprintf("tempo: bone %d (%q) has parent %d; parents must precede children", i, b.Name, b.Parent))
		}
		if b.ScaleX == 0 {
			b.ScaleX = 1
		}
		if b.ScaleY == 0 {
			b.ScaleY = 1
		}
	}
	s := &Skeleton{
		Owner: owner,
		Bones: bones,
		world: make([][6]float64, len(bones)),
	}
	s.attachments = NewBoneAttachments(s)
	return s
}

// BoneIndex returns the index of the named bone, or -1.
func (s *Skeleton) BoneIndex(name string) int {
	for i := range s.Bones {
		if s.Bones[i].Name == name {
			return i
		}
	}
	return -1
}

// Pose recomputes every bone's world matrix from the owner's world matrix.
func (s *Skeleton) Pose() {
	for i := range s.Bones {
		b := &s.Bones[i]
		local := composeAffine(b.X, b.Y, b.Rotation, b.ScaleX, b.ScaleY)
		parent := s.Owner.worldTransform
		if b.Parent >= 0 {
			parent = s.world[b.Parent]
		}
		s.world[i] = multiplyAffine(parent, local)
	}
}

// BoneWorldTransform returns the bone's world matrix from the last Pose.
func (s *Skeleton) BoneWorldTransform(bone int) [6]float64 {
	return s.world[bone]
}

// Attach binds node to bone. Panics if bone is out of range.
func (s *Skeleton) Attach(bone int, node *Node) {
	if bone < 0 || bone >= len(s.Bones) {
		panic("tempo: bone index out of range")
	}
	s.attachments.Attach(bone, node)
}

// Attachments returns the skeleton's attachment tracker.
func (s *Skeleton) Attachments() *BoneAttachments {
	return s.attachments
}

// Tick poses the skeleton and moves attached nodes onto their bones.
func (s *Skeleton) Tick() {
	s.Pose()
	s.attachments.Update()
}
