package formatter

import (
	"strings"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// DAONode is a DAO with its registered sub-DAOs.
type DAONode struct {
	DAO      *domain.DAO
	Children []DAONode
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

type treeLine struct {
	content string
	badge   string
}

// FormatDAOTree renders the DAO hierarchy with box-drawing connectors and a
// right-aligned treasury badge per line.
func FormatDAOTree(roots []DAONode) string {
	if len(roots) == 0 {
		return Dim("No DAOs found.")
	}

	var lines []treeLine
	var walk func(n DAONode, prefix string, last, root bool)
	walk = func(n DAONode, prefix string, last, root bool) {
		connector, childPrefix := "", ""
		if !root {
			connector, childPrefix = treeBranch, prefix+treePipe
			if last {
				connector, childPrefix = treeCorner, prefix+treeBlank
			}
		}

		title := Bold(n.DAO.Name)
		if n.DAO.IsScoped() {
			title += " " + StylePurple.Render("@"+*n.DAO.Origin)
		}
		lines = append(lines, treeLine{
			content: prefix + connector + title,
			badge:   StyleBlue.Render("[ " + n.DAO.Treasury.Balance.String() + " ]"),
		})
		for i, c := range n.Children {
			walk(c, childPrefix, i == len(n.Children)-1, false)
		}
	}
	for _, r := range roots {
		walk(r, "", true, true)
	}

	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l.content))
	}
	var b strings.Builder
	for _, l := range lines {
		pad := width - lipgloss.Width(l.content)
		b.WriteString(l.content + strings.Repeat(" ", pad) + "  " + l.badge + "\n")
	}
	return b.String()
}
