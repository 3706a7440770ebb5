// Package report renders the Markdown document describing one Azure VM image
// and writes it to disk.
package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/rshade/azimage/internal/catalog"
)

// DefaultPrefix is the file name prefix used when none is configured.
const DefaultPrefix = "azure-vm-image"

const (
	dateLayout     = "2006-01-02"
	reportFileMode = 0o644
	reportDirMode  = 0o755
)

//go:embed templates/report.md.tmpl
var templateFS embed.FS

//nolint:gochecknoglobals // parsed once at init from the embedded template
var reportTemplate = template.Must(
	template.New("report.md.tmpl").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templateFS, "templates/report.md.tmpl"),
)

// Data is everything the report shows about one image.
type Data struct {
	GeneratedAt time.Time
	Region      string
	Publisher   string
	Offer       string
	Sku         string
	// Version is the version the detail was fetched for. It is
	// catalog.LatestToken when no versions were listed.
	Version string
	// LatestVersion is the newest listed version, empty when none were listed.
	LatestVersion  string
	RecentVersions []string
	TotalVersions  int
	// Detail is nil when the image detail could not be fetched.
	Detail *catalog.ImageDetail
}

// DetailAvailable reports whether image detail was fetched.
func (d Data) DetailAvailable() bool {
	return d.Detail != nil
}

// QuickURN is the URN that always resolves to the newest version.
func (d Data) QuickURN() string {
	return urn(d.Publisher, d.Offer, d.Sku, catalog.LatestToken)
}

// PinnedURN is the URN of the resolved version.
func (d Data) PinnedURN() string {
	return urn(d.Publisher, d.Offer, d.Sku, d.Version)
}

// Rows returns the image reference table as field/value pairs.
func (d Data) Rows() [][2]string {
	latest := d.LatestVersion
	if latest == "" {
		latest = catalog.NotAvailable
	}
	return [][2]string{
		{"Publisher", orNA(d.Publisher)},
		{"Offer", orNA(d.Offer)},
		{"SKU", orNA(d.Sku)},
		{"Version", orNA(d.Version)},
		{"Latest Version", latest},
		{"OS Type", d.Detail.OSType()},
		{"Architecture", d.Detail.Arch()},
		{"Hyper-V Generation", d.Detail.Generation()},
		{"OS Disk Size", d.Detail.OSDiskSize()},
		{"Data Disks", d.Detail.DataDisks()},
		{"Security Type", d.Detail.FeatureValue("SecurityType")},
		{"Automatic OS Upgrade", d.Detail.AutoOSUpgrade()},
		{"Plan", d.Detail.PlanSummary()},
	}
}

// Metadata returns the decoded az detail output, or a placeholder object
// when the detail is unavailable or not valid JSON.
func (d Data) Metadata() any {
	if d.Detail != nil && len(d.Detail.Raw) > 0 {
		var raw any
		if err := json.Unmarshal(d.Detail.Raw, &raw); err == nil {
			return raw
		}
	}
	return map[string]string{
		"publisher": orNA(d.Publisher),
		"offer":     orNA(d.Offer),
		"sku":       orNA(d.Sku),
		"version":   orNA(d.Version),
		"status":    "detail unavailable",
	}
}

// FileName returns <prefix>-<publisher>-<offer>-<sku>-<YYYY-MM-DD>.md with
// every segment lowercased. The date is taken in UTC, the zone the report
// header uses.
func FileName(prefix, publisher, offer, sku string, date time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	segments := []string{prefix, publisher, offer, sku, date.UTC().Format(dateLayout)}
	for i, s := range segments {
		segments[i] = strings.ToLower(s)
	}
	return strings.Join(segments, "-") + ".md"
}

// Render writes the Markdown report to w.
func Render(w io.Writer, data Data) error {
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// Write renders the report into dir and returns the written path. The file
// is replaced atomically so an interrupted run never leaves a partial report.
func Write(dir, prefix string, data Data) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, reportDirMode); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, data); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(prefix, data.Publisher, data.Offer, data.Sku, data.GeneratedAt))
	if err := writeFileAtomic(path, buf.Bytes(), reportFileMode); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	return path, nil
}

func urn(publisher, offer, sku, version string) string {
	return strings.Join([]string{publisher, offer, sku, version}, ":")
}

func orNA(s string) string {
	if s == "" {
		return catalog.NotAvailable
	}
	return s
}
