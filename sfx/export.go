package sfx

import (
	"slices"
	"strings"
	"unicode"
)

// Ids returns the loaded sound effect ids in sorted order.
func (l *Library) Ids() []Id {
	l.lock.Lock()
	defer l.lock.Unlock()
	ids := make([]Id, 0, len(l.effects))
	for id := range l.effects {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ExportConstants is used to export all currently loaded SFX,
// in a format that can be used to generate go constants.
// "ui.button-click" becomes "UiButtonClick".
func (l *Library) ExportConstants() map[string]string {
	export := make(map[string]string)
	for _, id := range l.Ids() {
		export[constantName(string(id))] = string(id)
	}
	return export
}

func constantName(id string) string {
	var b strings.Builder
	capsNext := true
	for _, c := range id {
		if c == '-' || c == '_' || c == '.' || c == ' ' {
			capsNext = true
			continue
		}
		if capsNext {
			c = unicode.ToUpper(c)
			capsNext = false
		}
		b.WriteRune(c)
	}
	return b.String()
}
