package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Page is the content of a page file.
//
//	root: page
//	language: en
//	cells:
//	  - id: page
//	    children: [intro]
//	    plugin: {name: text, body: Hello}
type Page struct {
	Root     string        `mapstructure:"root"`
	Mode     string        `mapstructure:"mode"`
	Language string        `mapstructure:"language"`
	Cells    []domain.Node `mapstructure:"cells"`
}

// Tree builds the tree of the page. Parents left out in the file are taken
// from the children lists.
func (p *Page) Tree() domain.Tree {
	tree := make(domain.Tree, len(p.Cells))
	for i := range p.Cells {
		n := p.Cells[i]
		tree[n.ID] = &n
	}
	for _, n := range tree {
		for _, childID := range n.ChildIDs {
			if child, ok := tree[childID]; ok && child.ParentID == "" {
				child.ParentID = n.ID
			}
		}
	}
	return tree
}

// RootID returns the declared root, or the only root of the tree.
func (p *Page) RootID() (string, error) {
	if p.Root != "" {
		return p.Root, nil
	}
	roots := p.Tree().Roots()
	if len(roots) != 1 {
		return "", fmt.Errorf("page declares no root and has %d candidates", len(roots))
	}
	return roots[0], nil
}

// Loader reads a page from a single YAML or JSON file.
type Loader struct {
	Path string
}

// New creates a loader for the page file at path.
func New(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads and decodes the page file.
func (l *Loader) Load(ctx context.Context) (*Page, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page file: %w", err)
	}
	return Decode(data, filepath.Ext(l.Path))
}

// LoadTree implements ports.TreeLoader.
func (l *Loader) LoadTree(ctx context.Context) (domain.Tree, error) {
	page, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return page.Tree(), nil
}

// Decode parses a page document. ext selects JSON (".json"); anything else is
// read as YAML, which also accepts JSON.
func Decode(data []byte, ext string) (*Page, error) {
	var raw map[string]any
	var err error
	if strings.EqualFold(ext, ".json") {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var page Page
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &page,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}

	seen := make(map[string]bool, len(page.Cells))
	for i, c := range page.Cells {
		if c.ID == "" {
			return nil, fmt.Errorf("cell #%d has no id", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("cell %q is defined twice", c.ID)
		}
		seen[c.ID] = true
	}
	return &page, nil
}
