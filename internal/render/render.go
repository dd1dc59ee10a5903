// Package render performs placeholder substitution for template subjects
// and bodies. Tokens are exact, case-sensitive, brace-delimited literals;
// replacement is plain text with no HTML escaping, so callers own any
// escaping policy.
package render

import (
	"strings"

	"github.com/Celestebz/sendemail/pkg/models"
)

// Fields are the per-recipient values a template can reference. An absent
// field renders as the empty string.
type Fields struct {
	Name      string // combined display name
	FirstName string
	LastName  string
	Company   string
	Email     string
	Phone     string
}

// ContactFields extracts the renderable fields from a contact.
func ContactFields(c *models.Contact) Fields {
	return Fields{
		Name:      c.Name,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Company:   c.Company,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}

// Render replaces every recognized token in s with the matching field
// value. Every occurrence is replaced in a single pass; unrecognized text,
// including unknown {{...}} markers, is left untouched. There is no error
// case.
func Render(s string, f Fields) string {
	r := strings.NewReplacer(
		"{{联系人姓名}}", f.Name,
		"{{联系人名字}}", f.FirstName,
		"{{联系人姓氏}}", f.LastName,
		"{{客户姓名}}", f.Name, // legacy alias for the full name
		"{{公司名称}}", f.Company,
		"{{邮箱}}", f.Email,
		"{{电话}}", f.Phone,
	)
	return r.Replace(s)
}
