package tree

import (
	"fmt"

	"hashbisect/internal/hash"
)

type Kind int

const (
	File Kind = iota
	Directory
	// Unreadable content is not text; it hashes as hash.Sentinel and cannot
	// be entered.
	Unreadable
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "directory"
	case Unreadable:
		return "unreadable"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is one hashed filesystem entry. Children are sorted by name.
type Node struct {
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Digest   string  `json:"digest"`
	Children []*Node `json:"children,omitempty"`
}

// Traversable reports whether the navigator may enter the node.
func (n *Node) Traversable() bool {
	return n.Kind != Unreadable
}

func newUnreadable(name string) *Node {
	return &Node{Name: name, Kind: Unreadable, Digest: hash.Sentinel}
}

// Entry is a first-level child of a built directory, numbered from 1.
type Entry struct {
	Index int
	Path  string
	Node  *Node
}
