package submissions

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/armon/circbuf"
	"github.com/wafir-dev/wafir-bridge/internal/datetoken"
	"github.com/wafir-dev/wafir-bridge/internal/wafir"
)

// maxConsoleLogSize bounds how much of a console log is copied into an issue.
// GitHub rejects issue bodies over 65536 characters, and the most recent output
// is the most useful, so only the tail is kept.
const maxConsoleLogSize = 32 << 10

// renderBody produces the markdown body of the issue or draft item recorded for
// a submission.
func renderBody(
	sub Submission,
	config wafir.Config,
	screenshotURL string,
) string {
	sb := &strings.Builder{}
	if body := strings.TrimSpace(sub.Body); body != "" {
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}

	if rows := fieldRows(sub.Fields, config); len(rows) > 0 {
		sb.WriteString("### Details\n\n")
		writeTable(sb, "Field", rows)
	}

	if config.Issue.BrowserInfo && len(sub.BrowserInfo) > 0 {
		sb.WriteString("### Browser info\n\n")
		writeTable(sb, "Property", browserInfoRows(sub.BrowserInfo))
	}

	if config.Issue.ConsoleLog && sub.ConsoleLog != "" {
		consoleLog, truncated := tail(sub.ConsoleLog, maxConsoleLogSize)
		fence := codeFence(consoleLog)
		sb.WriteString("<details>\n<summary>Console log</summary>\n\n")
		if truncated {
			sb.WriteString("_Only the most recent output is shown._\n\n")
		}
		fmt.Fprintf(sb, "%s\n%s\n%s\n\n</details>\n\n", fence, strings.TrimRight(consoleLog, "\n"), fence)
	}

	if screenshotURL != "" {
		fmt.Fprintf(sb, "### Screenshot\n\n![Screenshot](%s)\n\n", screenshotURL)
	}

	fmt.Fprintf(sb, "<sub>Submitted via Wafir (%s)</sub>\n", sub.Kind)
	return sb.String()
}

type row struct {
	key   string
	value string
}

// fieldRows lists submitted field values, in the order the config defines the
// fields, followed by any undefined fields in name order.
func fieldRows(fields map[string]interface{}, config wafir.Config) []row {
	rows := []row{}
	seen := map[string]struct{}{}
	for _, field := range config.Fields {
		val, ok := fields[field.Name]
		if !ok {
			continue
		}
		seen[field.Name] = struct{}{}
		rows = append(rows, row{key: field.Label, value: formatValue(val)})
	}
	extra := []string{}
	for name := range fields {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		rows = append(rows, row{key: name, value: formatValue(fields[name])})
	}
	return rows
}

func browserInfoRows(info map[string]interface{}) []row {
	keys := make([]string, 0, len(info))
	for key := range info {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	rows := make([]row, len(keys))
	for i, key := range keys {
		rows[i] = row{key: key, value: formatValue(info[key])}
	}
	return rows
}

func formatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return datetoken.Resolve(v)
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return fmt.Sprintf("%g", v)
	case []interface{}:
		vals := make([]string, len(v))
		for i, item := range v {
			vals[i] = formatValue(item)
		}
		return strings.Join(vals, ", ")
	default:
		valJSON, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(valJSON)
	}
}

var cellEscaper = strings.NewReplacer(
	"|", `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
)

func writeTable(sb *strings.Builder, keyHeader string, rows []row) {
	fmt.Fprintf(sb, "| %s | Value |\n| --- | --- |\n", keyHeader)
	for _, r := range rows {
		fmt.Fprintf(
			sb,
			"| %s | %s |\n",
			cellEscaper.Replace(r.key),
			cellEscaper.Replace(r.value),
		)
	}
	sb.WriteString("\n")
}

// codeFence returns a backtick fence longer than any run of backticks in s,
// so nothing in s can close it.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r != '`' {
			run = 0
			continue
		}
		if run++; run > longest {
			longest = run
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// tail returns at most the last size bytes of s, and whether anything was cut.
func tail(s string, size int64) (string, bool) {
	buf, err := circbuf.NewBuffer(size)
	if err != nil {
		return s, false
	}
	buf.Write([]byte(s)) // nolint: errcheck
	return strings.ToValidUTF8(string(buf.Bytes()), ""),
		buf.TotalWritten() > buf.Size()
}
