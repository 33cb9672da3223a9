package services

import (
	"sort"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
)

const otherGroup = "Other"

// CategoryTree is an in-memory index over a flat category list. Categories
// whose parent is missing are treated as roots. Every walk keeps a visited
// set so a cycle in stored data cannot loop forever.
type CategoryTree struct {
	byID     map[uint]models.Category
	bySlug   map[string]uint
	children map[uint][]uint
	roots    []uint
}

type CategoryNode struct {
	Category models.Category
	FullSlug string
	Children []CategoryNode
}

// MenuGroup is one group_name column of a root's mega menu.
type MenuGroup struct {
	Name  string
	Items []CategoryNode
}

type MenuEntry struct {
	Category models.Category
	FullSlug string
	Groups   []MenuGroup
}

func NewCategoryTree(categories []models.Category) *CategoryTree {
	t := &CategoryTree{
		byID:     make(map[uint]models.Category, len(categories)),
		bySlug:   make(map[string]uint, len(categories)),
		children: make(map[uint][]uint),
	}
	for _, c := range categories {
		t.byID[c.ID] = c
		t.bySlug[c.Slug] = c.ID
	}

	for _, c := range categories {
		if c.ParentID != nil && *c.ParentID != c.ID {
			if _, ok := t.byID[*c.ParentID]; ok {
				t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
				continue
			}
		}
		t.roots = append(t.roots, c.ID)
	}

	t.sortIDs(t.roots)
	for _, ids := range t.children {
		t.sortIDs(ids)
	}
	return t
}

func (t *CategoryTree) sortIDs(ids []uint) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := t.byID[ids[i]], t.byID[ids[j]]
		if a.DisplayName() != b.DisplayName() {
			return a.DisplayName() < b.DisplayName()
		}
		return a.ID < b.ID
	})
}

func (t *CategoryTree) Len() int { return len(t.byID) }

func (t *CategoryTree) Get(id uint) (models.Category, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// Resolve looks up a category by a slug path, using its last segment.
func (t *CategoryTree) Resolve(path string) (models.Category, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	slug := segments[len(segments)-1]
	if slug == "" {
		return models.Category{}, false
	}
	id, ok := t.bySlug[slug]
	if !ok {
		return models.Category{}, false
	}
	return t.byID[id], true
}

// FullSlug joins the slugs from the root down to id with "/".
func (t *CategoryTree) FullSlug(id uint) string {
	var slugs []string
	seen := make(map[uint]bool)
	for cur, ok := t.byID[id]; ok && !seen[cur.ID]; {
		seen[cur.ID] = true
		if cur.Slug != "" {
			slugs = append(slugs, cur.Slug)
		}
		if cur.ParentID == nil {
			break
		}
		cur, ok = t.byID[*cur.ParentID]
	}

	for i, j := 0, len(slugs)-1; i < j; i, j = i+1, j-1 {
		slugs[i], slugs[j] = slugs[j], slugs[i]
	}
	return strings.Join(slugs, "/")
}

// Descendants returns every category below id, breadth first.
func (t *CategoryTree) Descendants(id uint) []models.Category {
	seen := map[uint]bool{id: true}
	queue := append([]uint(nil), t.children[id]...)
	var out []models.Category
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, t.byID[cur])
		queue = append(queue, t.children[cur]...)
	}
	return out
}

// Scope returns id plus all its descendant ids.
func (t *CategoryTree) Scope(id uint) map[uint]struct{} {
	set := map[uint]struct{}{id: {}}
	for _, c := range t.Descendants(id) {
		set[c.ID] = struct{}{}
	}
	return set
}

// IsAncestor reports whether ancestor sits on the parent chain of id.
func (t *CategoryTree) IsAncestor(ancestor, id uint) bool {
	for _, c := range t.Descendants(ancestor) {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (t *CategoryTree) Children(id uint) []models.Category {
	out := make([]models.Category, 0, len(t.children[id]))
	for _, cid := range t.children[id] {
		out = append(out, t.byID[cid])
	}
	return out
}

func (t *CategoryTree) Roots() []models.Category {
	out := make([]models.Category, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.byID[id])
	}
	return out
}

// Forest returns the roots with their subtrees nested.
func (t *CategoryTree) Forest() []CategoryNode {
	seen := make(map[uint]bool)
	out := make([]CategoryNode, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.node(id, seen))
	}
	return out
}

func (t *CategoryTree) node(id uint, seen map[uint]bool) CategoryNode {
	seen[id] = true
	n := CategoryNode{Category: t.byID[id], FullSlug: t.FullSlug(id)}
	for _, cid := range t.children[id] {
		if !seen[cid] {
			n.Children = append(n.Children, t.node(cid, seen))
		}
	}
	return n
}

// Menu builds the mega menu: each root with its children grouped by
// group_name ("Other" when blank) and grandchildren nested below them.
// Groups are ordered by name with "Other" last.
func (t *CategoryTree) Menu() []MenuEntry {
	out := make([]MenuEntry, 0, len(t.roots))
	for _, rootID := range t.roots {
		entry := MenuEntry{Category: t.byID[rootID], FullSlug: t.FullSlug(rootID)}

		groups := make(map[string][]CategoryNode)
		for _, childID := range t.children[rootID] {
			child := t.byID[childID]
			name := strings.TrimSpace(child.GroupName)
			if name == "" {
				name = otherGroup
			}
			node := CategoryNode{Category: child, FullSlug: t.FullSlug(childID)}
			for _, gcID := range t.children[childID] {
				if gcID == rootID {
					continue
				}
				node.Children = append(node.Children, CategoryNode{Category: t.byID[gcID], FullSlug: t.FullSlug(gcID)})
			}
			groups[name] = append(groups[name], node)
		}

		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if (names[i] == otherGroup) != (names[j] == otherGroup) {
				return names[j] == otherGroup
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			entry.Groups = append(entry.Groups, MenuGroup{Name: name, Items: groups[name]})
		}
		out = append(out, entry)
	}
	return out
}
