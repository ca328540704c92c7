package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/md2ifdam/pkg/fonts"
)

// fontsCommand creates the fonts command listing resolvable faces.
func (c *CLI) fontsCommand() *cobra.Command {
	var (
		q       fonts.Query
		dirs    []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the font faces available for rendering",
		Long: `List the font faces available for rendering.

Faces come from the platform font directories, the configured and --font-dir
directories and the embedded Go fonts. The filters match the font-family,
font-style and font-weight style properties exactly; omitted filters match
anything. The first listed face is the one a style resolves to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Config.Font.Dirs = append(c.Config.Font.Dirs, dirs...)
			if noCache {
				c.Config.Cache.Disabled = true
			}
			return c.runFonts(cmd.Context(), cmd.OutOrStdout(), q)
		},
	}

	cmd.Flags().StringVar(&q.Family, "family", "", "filter by font family")
	cmd.Flags().StringVar(&q.Style, "style", "", "filter by font style")
	cmd.Flags().IntVar(&q.Weight, "weight", 0, "filter by font weight")
	cmd.Flags().StringSliceVar(&dirs, "font-dir", nil, "extra font directory (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "rebuild the font index")

	return cmd
}

func (c *CLI) runFonts(ctx context.Context, w io.Writer, q fonts.Query) error {
	store, err := c.newCache(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	catalog, err := c.loadCatalog(ctx, store)
	if err != nil {
		return err
	}

	faces := catalog.Find(q)
	if len(faces) == 0 {
		printWarning("No font matches %s", q)
		printDetail("Families: %s", strings.Join(catalog.Families(), ", "))
		return nil
	}
	fmt.Fprintln(w, facesTable(faces))
	printKeyValue("Base font", c.Config.Font.Query().String())
	printDetail("%d of %d faces", len(faces), catalog.Len())
	return nil
}

// facesTable renders faces as a bordered table, dimming embedded fonts.
func facesTable(faces []fonts.Face) string {
	rows := make([][]string, len(faces))
	for i, f := range faces {
		rows[i] = []string{f.Family, f.Style, strconv.Itoa(f.Weight), f.Src}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Family", "Style", "Weight", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if fonts.IsEmbedded(faces[row].Src) {
				return cell.Foreground(colorDim)
			}
			if col == 0 {
				return cell.Foreground(colorCyan)
			}
			return cell
		}).
		String()
}
