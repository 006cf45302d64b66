package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"hashbisect/internal/hash"
)

type SerializedTree struct {
	Generator string         `json:"generator"`
	Created   time.Time      `json:"created"`
	Root      string         `json:"root"`
	Algorithm hash.Algorithm `json:"algorithm"`
	Files     int            `json:"files"`
	Tree      *Node          `json:"tree"`
}

// CountFiles returns how many file and unreadable leaves sit under n.
func CountFiles(n *Node) int {
	if n.Kind != Directory {
		return 1
	}
	count := 0
	for _, child := range n.Children {
		count += CountFiles(child)
	}
	return count
}

// Write encodes the tree rooted at node as indented JSON.
func Write(w io.Writer, root string, algo hash.Algorithm, node *Node) error {
	serialized := SerializedTree{
		Generator: "hashbisect",
		Created:   time.Now(),
		Root:      root,
		Algorithm: algo,
		Files:     CountFiles(node),
		Tree:      node,
	}

	data, err := json.MarshalIndent(serialized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write tree: %w", err)
	}

	return nil
}
