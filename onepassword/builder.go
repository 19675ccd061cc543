package onepassword

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

// SectionHandle identifies a section previously added to an
// ItemBuilder. Handles are positional: they index the builder's section
// list and stay valid for the builder's lifetime.
type SectionHandle int

// ItemBuilder accumulates sections, fields and tags and snapshots them
// into an Item. The zero value is not usable; call NewItemBuilder.
//
// A builder stays usable after Build. Snapshots are deep copies, so
// later mutations never show up in items already built.
type ItemBuilder struct {
	category ItemCategory
	title    string
	sections []ItemSection
	fields   []ItemField
	tags     mapset.Set[string]
	favorite bool
}

func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{tags: mapset.NewSet[string]()}
}

// SetCategory records the item category. Calling it again replaces the
// previous value.
func (b *ItemBuilder) SetCategory(category ItemCategory) *ItemBuilder {
	b.category = category
	return b
}

// SetTitle records the item title. Untitled items are built with an
// empty title.
func (b *ItemBuilder) SetTitle(title string) *ItemBuilder {
	b.title = title
	return b
}

func (b *ItemBuilder) SetFavorite(favorite bool) *ItemBuilder {
	b.favorite = favorite
	return b
}

// AddTag adds a tag to the item's tag set. Duplicates collapse.
func (b *ItemBuilder) AddTag(tag string) *ItemBuilder {
	b.tags.Add(tag)
	return b
}

// AddSection appends a section with a fresh ID and returns a handle for
// attaching fields to it.
func (b *ItemBuilder) AddSection(label string) SectionHandle {
	b.sections = append(b.sections, ItemSection{ID: uuid.NewString(), Label: label})
	return SectionHandle(len(b.sections) - 1)
}

// AddField appends a field that belongs to no section. Any section
// reference already on the field is cleared.
func (b *ItemBuilder) AddField(field ItemField) *ItemBuilder {
	field.Section = nil
	b.fields = append(b.fields, field)
	return b
}

// AddFieldToSection appends a field attached to a section previously
// created with AddSection on this builder. A handle that names no such
// section fails; fields must never reference sections the item does
// not contain.
func (b *ItemBuilder) AddFieldToSection(field ItemField, section SectionHandle) error {
	if section < 0 || int(section) >= len(b.sections) {
		return &Error{StatusCode: 400, Message: "field references a section not present in the item"}
	}
	field.Section = &SectionRef{ID: b.sections[section].ID}
	b.fields = append(b.fields, field)
	return nil
}

// Build snapshots the accumulated state into an Item. The category is
// the only hard requirement; everything network-dependent (vault
// existence, field-type compatibility) is left to the server.
func (b *ItemBuilder) Build() (*Item, error) {
	if b.category == "" {
		return nil, &Error{StatusCode: 400, Message: "item category is required"}
	}

	item := &Item{
		Title:    b.title,
		Category: b.category,
		Favorite: b.favorite,
	}
	item.Sections = append([]ItemSection(nil), b.sections...)
	item.Fields = make([]ItemField, len(b.fields))
	for i, field := range b.fields {
		item.Fields[i] = copyField(field)
	}
	if b.tags.Cardinality() > 0 {
		item.Tags = b.tags.ToSlice()
		sort.Strings(item.Tags)
	}
	return item, nil
}

func copyField(field ItemField) ItemField {
	if field.Section != nil {
		ref := *field.Section
		field.Section = &ref
	}
	if field.Recipe != nil {
		recipe := *field.Recipe
		recipe.CharacterSets = append([]string(nil), recipe.CharacterSets...)
		field.Recipe = &recipe
	}
	return field
}

// FieldBuilder assembles a single ItemField. Fields default to the
// STRING type.
type FieldBuilder struct {
	field ItemField
}

func NewFieldBuilder(label string) *FieldBuilder {
	return &FieldBuilder{field: ItemField{Label: label, Type: FieldTypeString}}
}

func (b *FieldBuilder) Value(value string) *FieldBuilder {
	b.field.Value = value
	return b
}

func (b *FieldBuilder) Type(fieldType ItemFieldType) *FieldBuilder {
	b.field.Type = fieldType
	return b
}

func (b *FieldBuilder) Purpose(purpose ItemFieldPurpose) *FieldBuilder {
	b.field.Purpose = purpose
	return b
}

// Generate requests server-side value generation with the given recipe.
func (b *FieldBuilder) Generate(recipe GeneratorRecipe) *FieldBuilder {
	b.field.Generate = true
	b.field.Recipe = &recipe
	return b
}

// Build validates the generator recipe, if any, and returns the field.
func (b *FieldBuilder) Build() (ItemField, error) {
	if b.field.Recipe != nil {
		if err := b.field.Recipe.validate(); err != nil {
			return ItemField{}, err
		}
	}
	return copyField(b.field), nil
}
