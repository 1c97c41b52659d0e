package todo

import (
	"fmt"
	"strings"
)

// CategoryUpdate configures fields to update on a category.
// Nil pointers mean "don't update this field".
type CategoryUpdate struct {
	Name  *string
	Color *string
}

// ListCategories returns every category in stored order.
func (s *Store) ListCategories() ([]Category, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

// GetCategory returns the category with the exact id.
func (s *Store) GetCategory(id string) (*Category, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	i := namedIndex(doc.Categories, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	category := doc.Categories[i]
	return &category, nil
}

// ResolveCategory finds a category by exact name, exact id or unique id prefix.
func (s *Store) ResolveCategory(ref string) (*Category, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	i, err := resolveNamed(doc.Categories, ref, ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}
	category := doc.Categories[i]
	return &category, nil
}

// CreateCategory adds a category. Names must be unique; a color is required.
func (s *Store) CreateCategory(name, color string) (*Category, error) {
	name = strings.TrimSpace(name)
	color = strings.TrimSpace(color)

	var created Category
	err := s.update("categories", "create", func(doc *Document) error {
		if err := ValidateNamedEntity(KindCategory, name, "", doc.Categories); err != nil {
			return err
		}
		if color == "" {
			return ErrColorRequired
		}
		created = Category{
			ID:        s.newID(),
			Name:      name,
			Color:     color,
			CreatedAt: s.timestamp(),
		}
		doc.Categories = append(doc.Categories, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory renames or recolors the category with the exact id.
func (s *Store) UpdateCategory(id string, opts CategoryUpdate) (*Category, error) {
	var updated Category
	err := s.update("categories", "update", func(doc *Document) error {
		i := namedIndex(doc.Categories, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		category := &doc.Categories[i]

		if opts.Name != nil {
			name := strings.TrimSpace(*opts.Name)
			if err := ValidateNamedEntity(KindCategory, name, category.ID, doc.Categories); err != nil {
				return err
			}
			category.Name = name
		}
		if opts.Color != nil {
			color := strings.TrimSpace(*opts.Color)
			if color == "" {
				return ErrColorRequired
			}
			category.Color = color
		}

		updated = *category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes the category with the exact id and clears it from
// every task that referenced it. It returns the deleted category and the
// number of tasks that were changed.
func (s *Store) DeleteCategory(id string) (*Category, int, error) {
	var deleted Category
	affected := 0
	err := s.update("categories", "delete", func(doc *Document) error {
		i := namedIndex(doc.Categories, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		deleted = doc.Categories[i]
		doc.Categories = append(doc.Categories[:i], doc.Categories[i+1:]...)

		for j := range doc.Todos {
			if doc.Todos[j].CategoryID != id {
				continue
			}
			doc.Todos[j].CategoryID = ""
			s.touch(&doc.Todos[j])
			affected++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &deleted, affected, nil
}

// ListTags returns every tag in stored order.
func (s *Store) ListTags() ([]Tag, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return doc.Tags, nil
}

// GetTag returns the tag with the exact id.
func (s *Store) GetTag(id string) (*Tag, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	i := namedIndex(doc.Tags, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTagNotFound, id)
	}
	tag := doc.Tags[i]
	return &tag, nil
}

// ResolveTag finds a tag by exact name, exact id or unique id prefix.
func (s *Store) ResolveTag(ref string) (*Tag, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	i, err := resolveNamed(doc.Tags, ref, ErrTagNotFound)
	if err != nil {
		return nil, err
	}
	tag := doc.Tags[i]
	return &tag, nil
}

// CreateTag adds a tag with a unique name.
func (s *Store) CreateTag(name string) (*Tag, error) {
	name = strings.TrimSpace(name)

	var created Tag
	err := s.update("tags", "create", func(doc *Document) error {
		if err := ValidateNamedEntity(KindTag, name, "", doc.Tags); err != nil {
			return err
		}
		created = Tag{
			ID:        s.newID(),
			Name:      name,
			CreatedAt: s.timestamp(),
		}
		doc.Tags = append(doc.Tags, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RenameTag renames the tag with the exact id.
func (s *Store) RenameTag(id, name string) (*Tag, error) {
	name = strings.TrimSpace(name)

	var updated Tag
	err := s.update("tags", "update", func(doc *Document) error {
		i := namedIndex(doc.Tags, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTagNotFound, id)
		}
		if err := ValidateNamedEntity(KindTag, name, id, doc.Tags); err != nil {
			return err
		}
		doc.Tags[i].Name = name
		updated = doc.Tags[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTag removes the tag with the exact id and strips it from every
// task's tag set. It returns the deleted tag and the number of tasks that
// were changed.
func (s *Store) DeleteTag(id string) (*Tag, int, error) {
	var deleted Tag
	affected := 0
	err := s.update("tags", "delete", func(doc *Document) error {
		i := namedIndex(doc.Tags, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTagNotFound, id)
		}
		deleted = doc.Tags[i]
		doc.Tags = append(doc.Tags[:i], doc.Tags[i+1:]...)

		for j := range doc.Todos {
			task := &doc.Todos[j]
			if !task.HasTag(id) {
				continue
			}
			kept := make([]string, 0, len(task.Tags)-1)
			for _, tagID := range task.Tags {
				if tagID != id {
					kept = append(kept, tagID)
				}
			}
			task.Tags = kept
			s.touch(task)
			affected++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &deleted, affected, nil
}

func namedIndex[T Named](items []T, id string) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

// resolveNamed prefers an exact name match, then an id or id prefix.
func resolveNamed[T Named](items []T, ref string, notFound error) (int, error) {
	trimmed := strings.TrimSpace(ref)
	for i, item := range items {
		if item.EntityName() == trimmed {
			return i, nil
		}
	}
	id, err := NewNamedIndex(items).Resolve(trimmed, notFound)
	if err != nil {
		return -1, err
	}
	return namedIndex(items, id), nil
}
