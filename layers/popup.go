package layers

import "strings"

// Popup is static text shown next to a marker or feature. Lines are
// separated by "\n".
type Popup struct {
	Content string
}

func (p *Popup) Lines() []string {
	return strings.Split(p.Content, "\n")
}
