package sgf

import "katasuji/types"

// GameNode is a single position in the move tree.
type GameNode struct {
	Move     types.Move
	Parent   *GameNode
	Children []*GameNode // First child = main line
}

// MoveTree is the tree of moves of one record. Only the main line is
// loaded from SGF text; further branches appear when moves are added off
// the main line.
type MoveTree struct {
	Root    *GameNode
	Current *GameNode
	Info    GameInfo
}

// NewMoveTree creates a tree holding only the root.
func NewMoveTree() *MoveTree {
	root := &GameNode{}
	return &MoveTree{Root: root, Current: root, Info: GameInfo{Width: 19, Height: 19}}
}

// ParseMoveTree loads the main line of an SGF string. Malformed move nodes
// are skipped. Current is left at the root.
func ParseMoveTree(content string) *MoveTree {
	t := NewMoveTree()
	t.Info = ParseInfo(content)
	for _, node := range parseNodes(content) {
		if m, ok := parseMoveNode(node, t.Info.Width, t.Info.Height); ok {
			t.AddMove(m)
		}
	}
	t.Current = t.Root
	return t
}

// AddMove adds a child move to the current node and advances to it.
// If a child with the same move already exists, navigates to it instead of creating a duplicate.
func (t *MoveTree) AddMove(m types.Move) *GameNode {
	for _, child := range t.Current.Children {
		if child.Move == m {
			t.Current = child
			return child
		}
	}
	node := &GameNode{
		Move:   m,
		Parent: t.Current,
	}
	t.Current.Children = append(t.Current.Children, node)
	t.Current = node
	return node
}

// MoveCount returns the length of the main line.
func (t *MoveTree) MoveCount() int {
	n := 0
	for node := t.Root; len(node.Children) > 0; node = node.Children[0] {
		n++
	}
	return n
}

// MoveAt returns the i-th main-line move, zero-based, or false past the end.
func (t *MoveTree) MoveAt(i int) (types.Move, bool) {
	if i < 0 {
		return types.Move{}, false
	}
	node := t.Root
	for step := 0; step <= i; step++ {
		if len(node.Children) == 0 {
			return types.Move{}, false
		}
		node = node.Children[0]
	}
	return node.Move, true
}

// MainLine returns the main-line moves in order.
func (t *MoveTree) MainLine() []types.Move {
	var moves []types.Move
	for node := t.Root; len(node.Children) > 0; node = node.Children[0] {
		moves = append(moves, node.Children[0].Move)
	}
	return moves
}
