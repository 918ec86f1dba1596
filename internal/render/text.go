// Package render formats a resolved route forest as an indented text tree.
package render

import (
	"strings"

	"github.com/dejo1307/routetree/internal/routes"
)

// Text renders nodes one per line with `├─`/`└─` connectors, e.g.
//
//	└─ /home HomeComponent [eager] (title=Home)
//
// Lazy modules carry no title annotation.
func Text(nodes []*routes.Node) string {
	var sb strings.Builder
	writeNodes(&sb, nodes, "")
	return sb.String()
}

func writeNodes(sb *strings.Builder, nodes []*routes.Node, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		ptr, next := "├─ ", "│  "
		if last {
			ptr, next = "└─ ", "   "
		}

		sb.WriteString(prefix)
		sb.WriteString(ptr)
		sb.WriteString("/")
		sb.WriteString(n.Path)
		sb.WriteString(" ")
		sb.WriteString(n.Name)
		sb.WriteString(" [")
		sb.WriteString(string(n.Kind))
		sb.WriteString("]")
		if n.Kind.HasTitle() {
			sb.WriteString(" (title=")
			sb.WriteString(n.TitleOrNotFound())
			sb.WriteString(")")
		}
		sb.WriteString("\n")

		if len(n.Children) > 0 {
			writeNodes(sb, n.Children, prefix+next)
		}
	}
}
