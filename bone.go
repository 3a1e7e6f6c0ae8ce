package tempo

// BoneSource resolves the current world-space matrix of a skeleton bone.
type BoneSource interface {
	BoneWorldTransform(bone int) [6]float64
}

// BoneAttachment binds a node's world transform to a bone.
type BoneAttachment struct {
	Bone int
	Node *Node
}

// BoneAttachments copies bone world transforms onto attached nodes once per
// Update. There is no Detach: an attachment is dropped the first time its
// node is seen without a parent, so removing the node from the scene graph
// is how callers end the binding.
type BoneAttachments struct {
	source  BoneSource
	entries []BoneAttachment
}

// NewBoneAttachments creates an empty tracker reading bones from source.
func NewBoneAttachments(source BoneSource) *BoneAttachments {
	return &BoneAttachments{source: source}
}

// Attach binds node to bone. Panics if node is nil.
func (b *BoneAttachments) Attach(bone int, node *Node) {
	if node == nil {
		panic("tempo: cannot attach nil node")
	}
	b.entries = append(b.entries, BoneAttachment{Bone: bone, Node: node})
}

// Update writes each bone's world transform to its attached node and prunes
// attachments whose node has lost its parent. Order is not preserved.
func (b *BoneAttachments) Update() {
	for i := 0; i < len(b.entries); {
		e := b.entries[i]
		if e.Node.Parent == nil {
			last := len(b.entries) - 1
			b.entries[i] = b.entries[last]
			b.entries[last] = BoneAttachment{}
			b.entries = b.entries[:last]
			continue
		}
		e.Node.SetWorldTransform(b.source.BoneWorldTransform(e.Bone))
		i++
	}
}

// Len returns the number of live attachments.
func (b *BoneAttachments) Len() int {
	return len(b.entries)
}

// Attachments returns the live attachments. The returned slice MUST NOT be
// mutated by the caller.
func (b *BoneAttachments) Attachments() []BoneAttachment {
	return b.entries
}
