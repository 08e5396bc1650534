package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/testgen/tgv/pkg/config"
	"github.com/testgen/tgv/pkg/events"
	"github.com/testgen/tgv/pkg/ui"
)

const testCatalog = `- id: g1
  label: Sales
  children:
    - id: t1
      label: orders
      children:
        - {id: c1, label: order_id, general_type: "N"}
        - {id: c2, label: customer, general_type: A}
    - id: t2
      label: refunds
      children:
        - {id: c3, label: amount, general_type: "N"}
- id: g2
  label: HR
  children:
    - id: t3
      label: staff
      children:
        - {id: c4, label: hired, general_type: D}
`

// writeProject creates a project with a catalog and a config file and
// returns the config path.
func writeProject(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfgPath := filepath.Join(dir, config.Dir, config.File)
	if err := config.Save(cfgPath, config.Default()); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return cfgPath, catalogPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func testCLI() *cli {
	cfg := config.Default()
	return &cli{cfg: &cfg, logger: zap.NewNop()}
}

func TestTreePrint(t *testing.T) {
	cfgPath, catalogPath := writeProject(t)

	out, err := execute(t, "--config", cfgPath, "tree", "--data", catalogPath, "--print")
	if err != nil {
		t.Fatalf("tree failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Sales") || !strings.Contains(out, "HR") {
		t.Errorf("expected both groups:\n%s", out)
	}
	if strings.Contains(out, "amount") {
		t.Errorf("collapsed columns should not be printed:\n%s", out)
	}

	out, err = execute(t, "--config", cfgPath, "tree", "--data", catalogPath, "--print", "--selected", "c3")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if !strings.Contains(out, "amount") {
		t.Errorf("selected column should be expanded into view:\n%s", out)
	}
}

func TestTreePrintSearch(t *testing.T) {
	cfgPath, catalogPath := writeProject(t)

	out, err := execute(t, "--config", cfgPath, "tree", "--data", catalogPath, "--print", "--search", "hired")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	for _, want := range []string{"HR", "staff", "hired"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sales") {
		t.Errorf("non-matching group printed:\n%s", out)
	}

	out, _ = execute(t, "--config", cfgPath, "tree", "--data", catalogPath, "--print", "--search", "zzz")
	if !strings.Contains(out, "No matches") {
		t.Errorf("expected no-matches state:\n%s", out)
	}
}

func TestTreeRejectsTwoSources(t *testing.T) {
	cfgPath, catalogPath := writeProject(t)
	_, err := execute(t, "--config", cfgPath, "tree", "--data", catalogPath, "--db", "x.db", "--print")
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("expected mutually exclusive error, got %v", err)
	}
}

func TestTreeTheme(t *testing.T) {
	cfgPath, catalogPath := writeProject(t)

	if _, err := execute(t, "--config", cfgPath, "tree", "--data", catalogPath, "--print", "--theme", "high-contrast"); err != nil {
		t.Fatalf("tree with high-contrast theme failed: %v", err)
	}
	_, err := execute(t, "--config", cfgPath, "tree", "--data", catalogPath, "--print", "--theme", "solarized")
	if err == nil || !strings.Contains(err.Error(), "available: default, high-contrast") {
		t.Errorf("expected unknown theme error, got %v", err)
	}
}

func TestResolveTheme(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)

	reg, theme, err := resolveTheme("", r)
	if err != nil {
		t.Fatalf("resolveTheme: %v", err)
	}
	if theme.Primary != ui.DefaultTheme(r).Primary {
		t.Error("empty name should pick the default theme")
	}
	if got := strings.Join(reg.ThemeNames(), ","); got != "default,high-contrast" {
		t.Errorf("registered themes = %s", got)
	}

	_, theme, err = resolveTheme("high-contrast", r)
	if err != nil || theme.Primary != ui.HighContrastTheme(r).Primary {
		t.Errorf("high-contrast not resolved: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	cfgPath, catalogPath := writeProject(t)

	out, err := execute(t, "--config", cfgPath, "export", "--data", catalogPath, "--select", "t1,c3")
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}

	var selection []struct {
		ID       string `json:"id"`
		All      *bool  `json:"all"`
		Children []struct {
			ID  string `json:"id"`
			All *bool  `json:"all"`
		} `json:"children"`
	}
	if err := json.Unmarshal([]byte(out), &selection); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(selection) != 1 || selection[0].ID != "g1" {
		t.Fatalf("selection = %+v", selection)
	}
	// Every table under Sales is fully covered
	if selection[0].All == nil || !*selection[0].All {
		t.Errorf("g1 should be fully covered: %s", out)
	}
	if len(selection[0].Children) != 2 {
		t.Errorf("expected t1 and t2 entries: %s", out)
	}
}

func TestExportMarkdownWithEvents(t *testing.T) {
	cfgPath, catalogPath := writeProject(t)
	eventsPath := filepath.Join(t.TempDir(), "events.jsonl")
	outPath := filepath.Join(t.TempDir(), "selection.md")

	_, err := execute(t, "--config", cfgPath, "--events", eventsPath,
		"export", "--data", catalogPath, "--select", "c1", "--format", "md", "-o", outPath)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	md, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{"# Catalog selection", "Sales", "orders", "order_id", "(partial)"} {
		if !strings.Contains(string(md), want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	data, err := os.ReadFile(eventsPath)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	var ev struct {
		Name    string `json:"name"`
		Payload struct {
			Multi     bool `json:"multi"`
			Selection []struct {
				ID string `json:"id"`
			} `json:"selection"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &ev); err != nil {
		t.Fatalf("bad event line: %v\n%s", err, data)
	}
	if ev.Name != events.ExportClicked || !ev.Payload.Multi || len(ev.Payload.Selection) != 1 {
		t.Errorf("event = %+v", ev)
	}
}

func TestExportUnknownNode(t *testing.T) {
	cfgPath, catalogPath := writeProject(t)
	_, err := execute(t, "--config", cfgPath, "export", "--data", catalogPath, "--select", "nope")
	if err == nil || !strings.Contains(err.Error(), `unknown node "nope"`) {
		t.Errorf("expected unknown node error, got %v", err)
	}
}

func TestExportBadFormat(t *testing.T) {
	cfgPath, catalogPath := writeProject(t)
	_, err := execute(t, "--config", cfgPath, "export", "--data", catalogPath, "--format", "xml")
	if err == nil {
		t.Error("expected format error")
	}
}

func TestRunCron(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	err := runCron(testCLI(), &cronOptions{expr: "15 */3 * * *", samples: 2}, &out, now)
	if err != nil {
		t.Fatalf("runCron failed: %v", err)
	}
	for _, want := range []string{
		"Mode:       Every x hours",
		"Expression: 15 */3 * * *",
		"Means:      Every 3 hours at minute 15",
		"2024-01-01 00:15 UTC",
		"2024-01-01 03:15 UTC",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "06:15") {
		t.Error("expected only two samples")
	}
}

func TestRunCronDefaultsAndJSON(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	if err := runCron(testCLI(), &cronOptions{json: true, samples: 1}, &out, now); err != nil {
		t.Fatalf("runCron failed: %v", err)
	}
	var sample struct {
		Samples      []string `json:"samples"`
		ReadableExpr string   `json:"readable_expr"`
	}
	if err := json.Unmarshal(out.Bytes(), &sample); err != nil {
		t.Fatalf("bad JSON: %v\n%s", err, out.String())
	}
	if sample.ReadableExpr != "Every day at 00:00" {
		t.Errorf("readable = %q", sample.ReadableExpr)
	}
	if len(sample.Samples) != 1 || sample.Samples[0] != "2024-01-02 00:00 UTC" {
		t.Errorf("samples = %v", sample.Samples)
	}
}

func TestRunCronInvalid(t *testing.T) {
	var out bytes.Buffer
	err := runCron(testCLI(), &cronOptions{expr: "61 * * * *"}, &out, time.Now())
	if err == nil {
		t.Fatal("expected invalid schedule error")
	}
}

func TestScoreCommand(t *testing.T) {
	cfgPath, _ := writeProject(t)
	svgPath := filepath.Join(t.TempDir(), "scores.svg")

	out, err := execute(t, "--config", cfgPath, "score", "orders=97.5", "refunds=88", ">99", "--svg", svgPath)
	if err != nil {
		t.Fatalf("score failed: %v\n%s", err, out)
	}
	for _, want := range []string{"orders", "refunds", "#3", "green", "orange", "3 scores"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("chart is not SVG")
	}
}

func TestScoreJSON(t *testing.T) {
	var out bytes.Buffer
	err := runScore(testCLI(), &scoreOptions{json: true}, []string{"a=95", "b=<1", "c=n/a"}, &out)
	if err != nil {
		t.Fatalf("runScore failed: %v", err)
	}
	var report scoreReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("bad JSON: %v\n%s", err, out.String())
	}
	if len(report.Scores) != 3 {
		t.Fatalf("scores = %+v", report.Scores)
	}
	wantTiers := []string{"yellow", "red", "unknown"}
	for i, want := range wantTiers {
		if report.Scores[i].Tier != want {
			t.Errorf("score %d tier = %s, want %s", i, report.Scores[i].Tier, want)
		}
	}
	if report.Summary.Numeric != 1 || report.Tiers["red"] != 1 {
		t.Errorf("summary = %+v tiers = %v", report.Summary, report.Tiers)
	}
}

func TestParseScoreArgs(t *testing.T) {
	rows := parseScoreArgs([]string{"x=1", "2", "a=b=c"})
	if rows[0].Label != "x" || rows[0].Value != "1" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Label != "#2" || rows[1].Value != "2" {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[2].Label != "a" || rows[2].Value != "b=c" {
		t.Errorf("row 2 = %+v", rows[2])
	}
}

func TestEmitterSelection(t *testing.T) {
	c := testCLI()
	em, err := c.emitter(nil, true)
	if err != nil {
		t.Fatalf("emitter: %v", err)
	}
	if _, ok := em.(events.Nop); !ok {
		t.Errorf("unset output should discard events, got %T", em)
	}

	c.cfg.Events.Output = "-"
	if _, err := c.emitter(nil, true); err == nil {
		t.Error("stdout events should be rejected in interactive mode")
	}
	var buf bytes.Buffer
	em, err = c.emitter(&buf, false)
	if err != nil {
		t.Fatalf("emitter: %v", err)
	}
	if err := em.Emit(events.TagsChanged, events.TagsPayload{NodeID: "c1", Tags: []string{"pii"}}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !strings.Contains(buf.String(), `"name":"TagsChanged"`) {
		t.Errorf("event line = %s", buf.String())
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data", "catalog.yaml"), []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "init", dir)
	if err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Added .testgen/*.log, .testgen/*.jsonl to .gitignore") {
		t.Errorf("expected gitignore notice:\n%s", out)
	}

	cfg, err := config.Load(filepath.Join(dir, config.Dir, config.File))
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if want := filepath.Join(dir, "data", "catalog.yaml"); cfg.Catalog.Path != want {
		t.Errorf("catalog path = %q, want %q", cfg.Catalog.Path, want)
	}

	if _, err := execute(t, "init", dir); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected refusal to overwrite, got %v", err)
	}
	if out, err := execute(t, "init", "--force", dir); err != nil {
		t.Errorf("init --force failed: %v\n%s", err, out)
	}
}
