package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/de-tools/finops-agent/pkg/services/config"
	"github.com/dustin/go-humanize"
)

type TableConfig struct {
	MaxCellWidth int
	Padding      int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MaxCellWidth: 48,
		Padding:      2,
	}
}

// Reporter prints results, reports and profiles as plain text.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// Result prints the empty-result message, or the rows as an aligned table
// followed by a row count.
func (c *Reporter) Result(title string, result domain.Result) error {
	if result.IsEmpty() {
		_, err := fmt.Fprintf(c.writer, "%s: %s\n", title, result.Message)
		return err
	}

	if _, err := fmt.Fprintf(c.writer, "%s\n\n", title); err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.writer, 0, 8, c.config.Padding, ' ', 0)

	header := make([]string, len(result.Table.Columns))
	for i, col := range result.Table.Columns {
		header[i] = strings.ToUpper(col)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, row := range result.Table.Rows {
		cells := make([]string, len(result.Table.Columns))
		for i, col := range result.Table.Columns {
			cells[i] = c.truncate(FormatValue(row[col]))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.writer, "\n%s\n", pluralize(result.Table.Len(), "row"))
	return err
}

func (c *Reporter) Report(report *domain.Report) error {
	_, err := fmt.Fprintf(c.writer, "%s\n\n---\nRun %s finished in %s after %s.\n",
		strings.TrimSpace(report.Markdown),
		report.RunID,
		report.Duration().Round(time.Millisecond),
		pluralize(report.Steps, "step"))
	return err
}

func (c *Reporter) Profiles(profiles []config.Profile) error {
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(c.writer, "No AWS profiles found.")
		return err
	}

	w := tabwriter.NewWriter(c.writer, 0, 8, c.config.Padding, ' ', 0)
	fmt.Fprintln(w, "NAME\tREGION\tSOURCES")
	for _, p := range profiles {
		region := p.Region
		if region == "" {
			region = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, region, strings.Join(p.Sources, ","))
	}
	return w.Flush()
}

// FormatValue renders a table cell. Numbers get thousands separators and
// two decimals; nulls are blank.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return humanize.FormatFloat("#,###.##", val)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func (c *Reporter) truncate(s string) string {
	if c.config.MaxCellWidth <= 0 || utf8.RuneCountInString(s) <= c.config.MaxCellWidth {
		return s
	}
	runes := []rune(s)
	return string(runes[:c.config.MaxCellWidth-2]) + ".."
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
