package cli

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/harborweb/discontent/internal/core/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// printJSON writes a value as indented JSON.
func printJSON(cmd *cobra.Command, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

// printDoc writes a one-line document summary.
func printDoc(cmd *cobra.Command, doc domain.ParsedDocument) {
	cmd.Printf("%s  %s\n", titleStyle.Render(doc.Title), pathStyle.Render(doc.TopicPath))
	if doc.Updated != "" {
		cmd.Printf("  %s\n", dimStyle.Render("updated "+doc.Updated))
	}
}

// printNav writes a navigation tree with indentation, marking the
// active node.
func printNav(cmd *cobra.Command, node *domain.NavigationNode, depth int) {
	if node == nil {
		return
	}
	if node.NavlinkText != "" && !node.Hidden {
		indent := strings.Repeat("  ", depth)
		line := node.NavlinkText
		if node.NavlinkHref != "" {
			line += "  " + pathStyle.Render(node.NavlinkHref)
		}
		if node.IsActive {
			line += " " + warnStyle.Render("*")
		}
		cmd.Println(indent + line)
		depth++
	}
	for _, child := range node.Children {
		printNav(cmd, child, depth)
	}
}
