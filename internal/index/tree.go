package index

import (
	"fmt"
	"sort"
)

// TreeNode is one level of the curriculum tree. Kind is "vault", "program",
// "course", "class" or "module". Path and Title point at the level's index
// note when one exists. Notes counts content notes sitting directly at this
// level.
type TreeNode struct {
	Name     string      `json:"name,omitempty"`
	Kind     string      `json:"kind"`
	Path     string      `json:"path,omitempty"`
	Title    string      `json:"title,omitempty"`
	Notes    int         `json:"notes,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

var treeKinds = [...]string{"program", "course", "class", "module"}

// Tree assembles the curriculum tree from the hierarchy columns. Index
// notes become the Path/Title of their level's node; content notes are
// counted on the deepest level their fields name.
func (db *DB) Tree() (*TreeNode, error) {
	rows, err := db.conn.Query(`
		SELECT path, title, program, course, class, module, index_type
		FROM notes ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: tree: %w", err)
	}
	defer rows.Close()

	root := &TreeNode{Kind: "vault"}
	for rows.Next() {
		var path, title, indexType string
		levels := make([]string, len(treeKinds))
		if err := rows.Scan(&path, &title, &levels[0], &levels[1], &levels[2], &levels[3], &indexType); err != nil {
			return nil, err
		}

		node := root
		for i, name := range levels {
			if name == "" {
				break
			}
			node = childNode(node, name, treeKinds[i])
		}
		if indexType != "" {
			node.Path = path
			node.Title = title
		} else {
			node.Notes++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortTree(root)
	return root, nil
}

func childNode(parent *TreeNode, name, kind string) *TreeNode {
	for _, c := range parent.Children {
		if c.Name == name {
			return c
		}
	}
	c := &TreeNode{Name: name, Kind: kind}
	parent.Children = append(parent.Children, c)
	return c
}

func sortTree(n *TreeNode) {
	sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].Name < n.Children[j].Name })
	for _, c := range n.Children {
		sortTree(c)
	}
}
