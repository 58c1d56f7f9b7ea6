package market

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a listing as message text. A listing without an id is
// rendered as a draft preview.
func Format(l Listing) string {
	var b strings.Builder
	if l.ID > 0 {
		fmt.Fprintf(&b, "#%d", l.ID)
	} else {
		b.WriteString("New listing")
	}
	fmt.Fprintf(&b, " • %s • %s", l.Server, l.Category)
	if l.VIP {
		b.WriteString(" • VIP")
	}
	if l.Pinned {
		b.WriteString(" 📌")
	}
	fmt.Fprintf(&b, "\nAction: %s", l.Action.Label())
	fmt.Fprintf(&b, "\nType: %s", l.Type.Label())
	for _, f := range l.Fields {
		fmt.Fprintf(&b, "\n%s: %s", f.Question, f.Answer)
	}
	fmt.Fprintf(&b, "\nAuthor: %s", author(l))
	return b.String()
}

// FormatSummary renders a listing on one line for the profile screen.
func FormatSummary(l Listing) string {
	return fmt.Sprintf("#%d • %s • %s • %s • %s", l.ID, l.Server, l.Category, l.Type.Label(), l.Action.Label())
}

func author(l Listing) string {
	if h := strings.TrimPrefix(l.Handle, "@"); h != "" {
		return "@" + h
	}
	return strconv.FormatInt(l.Owner, 10)
}
