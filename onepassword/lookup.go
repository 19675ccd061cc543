package onepassword

import (
	"fmt"
	"net/http"
	"strings"
)

// FieldValue resolves a field value inside the item. An empty selector
// returns the item's password. "notes" returns the notes field. A
// "Section / Label" selector restricts the match to fields of that
// section; a bare label matches fields anywhere in the item. Matching
// is case-insensitive and fields with empty values are skipped.
func (item *Item) FieldValue(selector string) (string, error) {
	if selector == "" {
		return item.PasswordValue()
	}
	if strings.EqualFold(selector, "notes") || strings.EqualFold(selector, "notesPlain") {
		return item.notesValue()
	}
	sectionLabel, fieldLabel := splitQualifiedLabel(selector)
	if sectionLabel != "" {
		return item.fieldValueInSection(sectionLabel, fieldLabel)
	}
	return item.fieldValueByLabel(fieldLabel)
}

// PasswordValue returns the value of the item's password field: the
// single non-empty PASSWORD-purpose field, or failing that, the field
// labelled "password".
func (item *Item) PasswordValue() (string, error) {
	var matches []string
	for i := range item.Fields {
		field := item.Fields[i]
		if field.Purpose != PurposePassword || field.Value == "" {
			continue
		}
		matches = append(matches, field.Value)
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return item.fieldValueByLabel("password")
	default:
		return "", &Error{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("item %q defines multiple password fields; specify the desired field label", item.Title),
		}
	}
}

func (item *Item) notesValue() (string, error) {
	for i := range item.Fields {
		field := item.Fields[i]
		if field.Purpose == PurposeNotes && field.Value != "" {
			return field.Value, nil
		}
	}
	return "", &Error{
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("item %q does not contain notes", item.Title),
	}
}

func (item *Item) fieldValueByLabel(label string) (string, error) {
	fieldLabel := strings.TrimSpace(label)
	var matches []ItemField
	for i := range item.Fields {
		field := item.Fields[i]
		if !strings.EqualFold(field.Label, fieldLabel) || field.Value == "" {
			continue
		}
		matches = append(matches, field)
	}
	switch len(matches) {
	case 0:
		return "", &Error{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("field %q not found in item %q", fieldLabel, item.Title),
		}
	case 1:
		return matches[0].Value, nil
	default:
		return "", &Error{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("field label %q is ambiguous in item %q; use a section-qualified label", fieldLabel, item.Title),
		}
	}
}

func (item *Item) fieldValueInSection(sectionLabel, fieldLabel string) (string, error) {
	sectionIDs := make(map[string]struct{})
	for i := range item.Sections {
		section := item.Sections[i]
		if strings.EqualFold(section.Label, sectionLabel) {
			sectionIDs[section.ID] = struct{}{}
		}
	}
	if len(sectionIDs) == 0 {
		return "", &Error{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("section %q not found in item %q", sectionLabel, item.Title),
		}
	}
	var matches []ItemField
	for i := range item.Fields {
		field := item.Fields[i]
		if field.Section == nil {
			continue
		}
		if _, ok := sectionIDs[field.Section.ID]; !ok {
			continue
		}
		if !strings.EqualFold(field.Label, fieldLabel) || field.Value == "" {
			continue
		}
		matches = append(matches, field)
	}
	switch len(matches) {
	case 0:
		return "", &Error{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("field %q not found in section %q", fieldLabel, sectionLabel),
		}
	case 1:
		return matches[0].Value, nil
	default:
		return "", &Error{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("field %q is duplicated in section %q", fieldLabel, sectionLabel),
		}
	}
}

func splitQualifiedLabel(label string) (section, field string) {
	parts := strings.SplitN(label, "/", 2)
	if len(parts) == 1 {
		return "", strings.TrimSpace(parts[0])
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
