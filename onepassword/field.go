package onepassword

import "fmt"

// ItemFieldType describes how a field value is rendered and stored.
type ItemFieldType string

const (
	FieldTypeString    ItemFieldType = "STRING"
	FieldTypeConcealed ItemFieldType = "CONCEALED"
	FieldTypeURL       ItemFieldType = "URL"
	FieldTypeEmail     ItemFieldType = "EMAIL"
	FieldTypeOTP       ItemFieldType = "OTP"
	FieldTypeDate      ItemFieldType = "DATE"
	FieldTypeMonthYear ItemFieldType = "MONTH_YEAR"
	FieldTypePhone     ItemFieldType = "PHONE"
	FieldTypeMenu      ItemFieldType = "MENU"
)

// ItemFieldPurpose tags the well-known fields of an item. The empty
// string means the field has no special purpose.
type ItemFieldPurpose string

const (
	PurposeUsername ItemFieldPurpose = "USERNAME"
	PurposePassword ItemFieldPurpose = "PASSWORD"
	PurposeNotes    ItemFieldPurpose = "NOTES"
)

// ItemField is a single named value, optionally attached to one of the
// item's sections.
type ItemField struct {
	ID       string           `json:"id,omitempty"`
	Section  *SectionRef      `json:"section,omitempty"`
	Type     ItemFieldType    `json:"type,omitempty"`
	Purpose  ItemFieldPurpose `json:"purpose,omitempty"`
	Label    string           `json:"label,omitempty"`
	Value    string           `json:"value,omitempty"`
	Generate bool             `json:"generate,omitempty"`
	Recipe   *GeneratorRecipe `json:"recipe,omitempty"`
}

// SectionRef points a field at a section of the same item.
type SectionRef struct {
	ID string `json:"id"`
}

// GeneratorRecipe asks the server to generate the field value on
// create. On a password-purpose field a recipe wins over any supplied
// value; the generated secret is what gets persisted.
type GeneratorRecipe struct {
	Length        int      `json:"length,omitempty"`
	CharacterSets []string `json:"characterSets,omitempty"`
}

// Character classes accepted in a GeneratorRecipe.
const (
	CharactersLetters = "LETTERS"
	CharactersDigits  = "DIGITS"
	CharactersSymbols = "SYMBOLS"
)

func (r *GeneratorRecipe) validate() error {
	if r.Length <= 0 {
		return &Error{StatusCode: 400, Message: "generator recipe length must be positive"}
	}
	if len(r.CharacterSets) == 0 {
		return &Error{StatusCode: 400, Message: "generator recipe needs at least one character set"}
	}
	for _, set := range r.CharacterSets {
		switch set {
		case CharactersLetters, CharactersDigits, CharactersSymbols:
		default:
			return &Error{StatusCode: 400, Message: fmt.Sprintf("unknown character set %q in generator recipe", set)}
		}
	}
	return nil
}
