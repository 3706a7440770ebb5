package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/azimage/internal/azure"
	"github.com/rshade/azimage/internal/catalog"
	"github.com/rshade/azimage/internal/selector"
)

// fakeCatalog is an in-memory Catalog.
type fakeCatalog struct {
	prereqErr  error
	publishers []string
	offers     []string
	skus       []string
	versions   []string
	detail     *catalog.ImageDetail

	listErr   map[string]error
	detailErr error

	detailVersion string
	calls         []string
}

func (f *fakeCatalog) CheckPrerequisites(context.Context) error {
	f.calls = append(f.calls, "prereq")
	return f.prereqErr
}

func (f *fakeCatalog) ListPublishers(_ context.Context, _ string) ([]catalog.Item, error) {
	return f.list("publishers", catalog.KindPublisher, f.publishers)
}

func (f *fakeCatalog) ListOffers(_ context.Context, _, _ string) ([]catalog.Item, error) {
	return f.list("offers", catalog.KindOffer, f.offers)
}

func (f *fakeCatalog) ListSkus(_ context.Context, _, _, _ string) ([]catalog.Item, error) {
	return f.list("skus", catalog.KindSku, f.skus)
}

func (f *fakeCatalog) ListVersions(_ context.Context, _, _, _, _ string) ([]catalog.Item, error) {
	return f.list("versions", catalog.KindVersion, f.versions)
}

func (f *fakeCatalog) GetImageDetail(_ context.Context, _, _, _, _, version string) (*catalog.ImageDetail, error) {
	f.calls = append(f.calls, "detail")
	f.detailVersion = version
	return f.detail, f.detailErr
}

func (f *fakeCatalog) list(name string, kind catalog.Kind, names []string) ([]catalog.Item, error) {
	f.calls = append(f.calls, name)
	if err := f.listErr[name]; err != nil {
		return nil, err
	}
	items := make([]catalog.Item, 0, len(names))
	for _, n := range names {
		items = append(items, catalog.Item{Kind: kind, Name: n})
	}
	return items, nil
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		publishers: []string{"Canonical", "MicrosoftWindowsServer", "RedHat"},
		offers:     []string{"ubuntu-24_04-lts"},
		skus:       []string{"server", "server-arm64"},
		versions:   []string{"24.04.202409120", "24.04.202410170", "24.04.202408010"},
		detail: &catalog.ImageDetail{
			Architecture: "x64",
			Raw:          []byte(`{"architecture": "x64"}`),
		},
	}
}

type harness struct {
	driver *Driver
	out    *bytes.Buffer
	dir    string
}

func newHarness(t *testing.T, c Catalog, input string, mutate ...func(*Options)) harness {
	t.Helper()
	out := &bytes.Buffer{}
	dir := t.TempDir()
	opts := Options{
		Region:    "eastus",
		PageSize:  20,
		OutputDir: dir,
		Now:       func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) },
	}
	for _, m := range mutate {
		m(&opts)
	}
	sel := selector.New(strings.NewReader(input), out)
	return harness{driver: NewDriver(c, sel, out, opts), out: out, dir: dir}
}

func reportFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_HappyPath(t *testing.T) {
	fake := newFakeCatalog()
	h := newHarness(t, fake, "1\n1\n1\n")

	res, err := h.driver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, h.driver.State())
	assert.Equal(t, "Canonical", res.Publisher.Name)
	assert.Equal(t, "ubuntu-24_04-lts", res.Offer.Name)
	assert.Equal(t, "server", res.Sku.Name)
	assert.Equal(t, "24.04.202410170", fake.detailVersion)
	assert.Equal(t, "24.04.202410170", res.Report.LatestVersion)
	assert.Equal(t,
		[]string{"24.04.202410170", "24.04.202409120", "24.04.202408010"},
		res.Report.RecentVersions)

	assert.Equal(t, filepath.Join(h.dir, "azure-vm-image-canonical-ubuntu-24_04-lts-server-2026-02-01.md"), res.ReportPath)
	assert.Equal(t, []string{"azure-vm-image-canonical-ubuntu-24_04-lts-server-2026-02-01.md"}, reportFiles(t, h.dir))
	assert.Equal(t, []string{"prereq", "publishers", "offers", "skus", "versions", "detail"}, fake.calls)
	assert.Contains(t, h.out.String(), "Report written to")
	assert.Equal(t, ExitOK, ExitCode(err))
}

func TestRun_ZeroOffers(t *testing.T) {
	fake := newFakeCatalog()
	fake.offers = nil
	h := newHarness(t, fake, "1\n")

	res, err := h.driver.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Equal(t, StateAborted, h.driver.State())
	assert.Empty(t, reportFiles(t, h.dir))
	assert.Contains(t, err.Error(), "no offers for publisher Canonical")
}

func TestRun_EmptyStages(t *testing.T) {
	tests := []struct {
		name  string
		clear func(*fakeCatalog)
		input string
		want  string
	}{
		{"no publishers", func(f *fakeCatalog) { f.publishers = nil }, "", "no publishers in region eastus"},
		{"no skus", func(f *fakeCatalog) { f.skus = nil }, "1\n1\n", "no SKUs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeCatalog()
			tt.clear(fake)
			h := newHarness(t, fake, tt.input)

			_, err := h.driver.Run(context.Background())
			require.ErrorIs(t, err, ErrEmptyResult)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, reportFiles(t, h.dir))
		})
	}
}

func TestRun_PrerequisiteMissing(t *testing.T) {
	fake := newFakeCatalog()
	fake.prereqErr = fmt.Errorf("checking: %w", azure.ErrNotLoggedIn)
	h := newHarness(t, fake, "")

	_, err := h.driver.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrerequisiteMissing)
	assert.ErrorIs(t, err, azure.ErrNotLoggedIn)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Equal(t, []string{"prereq"}, fake.calls)
}

func TestRun_FetchFailed(t *testing.T) {
	for _, stage := range []string{"publishers", "offers", "skus", "versions"} {
		t.Run(stage, func(t *testing.T) {
			fake := newFakeCatalog()
			fake.listErr = map[string]error{stage: azure.CommandError("vm image", "throttled")}
			h := newHarness(t, fake, "1\n1\n1\n")

			_, err := h.driver.Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetchFailed)
			assert.ErrorIs(t, err, azure.ErrCommandFailed)
			assert.Equal(t, ExitFailure, ExitCode(err))
			assert.Empty(t, reportFiles(t, h.dir))
		})
	}
}

func TestRun_UserQuits(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"quit at publisher", "q\n"},
		{"quit at offer", "1\nq\n"},
		{"quit at sku", "1\n1\nq\n"},
		{"end of input", "1\n"},
		{"filter matches nothing", "f\nzzz\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, newFakeCatalog(), tt.input)

			_, err := h.driver.Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUserCancelled)
			assert.Equal(t, ExitOK, ExitCode(err))
			assert.Equal(t, StateAborted, h.driver.State())
			assert.Empty(t, reportFiles(t, h.dir))
		})
	}
}

func TestRun_PublisherPreFilters(t *testing.T) {
	t.Run("microsoft only", func(t *testing.T) {
		h := newHarness(t, newFakeCatalog(), "1\n1\n1\n", func(o *Options) { o.MicrosoftOnly = true })

		res, err := h.driver.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "MicrosoftWindowsServer", res.Publisher.Name)
	})

	t.Run("publisher search", func(t *testing.T) {
		h := newHarness(t, newFakeCatalog(), "1\n1\n1\n", func(o *Options) { o.PublisherSearch = "HAT" })

		res, err := h.driver.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "RedHat", res.Publisher.Name)
	})

	t.Run("clearing the search shows every publisher", func(t *testing.T) {
		h := newHarness(t, newFakeCatalog(), "f\n\n1\n1\n1\n", func(o *Options) { o.PublisherSearch = "hat" })

		res, err := h.driver.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Canonical", res.Publisher.Name)
		assert.Contains(t, h.out.String(), `filter: "hat"`)
	})

	t.Run("microsoft only survives clearing the search", func(t *testing.T) {
		h := newHarness(t, newFakeCatalog(), "f\n\nq\n", func(o *Options) {
			o.MicrosoftOnly = true
			o.PublisherSearch = "windows"
		})

		_, err := h.driver.Run(context.Background())
		require.ErrorIs(t, err, ErrUserCancelled)
		assert.Contains(t, h.out.String(), "1. MicrosoftWindowsServer")
		assert.NotContains(t, h.out.String(), "Canonical")
		assert.NotContains(t, h.out.String(), "RedHat")
	})

	t.Run("filters combine to nothing", func(t *testing.T) {
		h := newHarness(t, newFakeCatalog(), "", func(o *Options) {
			o.MicrosoftOnly = true
			o.PublisherSearch = "canonical"
		})

		_, err := h.driver.Run(context.Background())
		require.ErrorIs(t, err, ErrEmptyResult)
		assert.Equal(t, ExitFailure, ExitCode(err))
		assert.Contains(t, err.Error(), "match the publisher filters")
	})
}

func TestRun_NoVersionsFallsBackToLatest(t *testing.T) {
	fake := newFakeCatalog()
	fake.versions = nil
	h := newHarness(t, fake, "1\n1\n1\n")

	res, err := h.driver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.LatestToken, fake.detailVersion)
	assert.Equal(t, catalog.LatestToken, res.Report.Version)
	assert.Empty(t, res.Report.LatestVersion)
	assert.Empty(t, res.Report.RecentVersions)
}

func TestRun_DetailUnavailable(t *testing.T) {
	fake := newFakeCatalog()
	fake.detail = nil
	fake.detailErr = fmt.Errorf("%w: Canonical:ubuntu-24_04-lts:server:24.04.202410170", azure.ErrImageNotFound)
	h := newHarness(t, fake, "1\n1\n1\n")

	res, err := h.driver.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Report.DetailAvailable())

	content, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "| OS Type | N/A |")
	assert.Contains(t, h.out.String(), "N/A placeholders")
}

func TestRun_DetailFetchFailed(t *testing.T) {
	fake := newFakeCatalog()
	fake.detailErr = azure.CommandError("vm image show", "internal error")
	h := newHarness(t, fake, "1\n1\n1\n")

	_, err := h.driver.Run(context.Background())
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Empty(t, reportFiles(t, h.dir))
}

func TestRun_SelectionOnLaterPage(t *testing.T) {
	fake := newFakeCatalog()
	fake.publishers = make([]string, 45)
	for i := range fake.publishers {
		fake.publishers[i] = fmt.Sprintf("Publisher%02d", i+1)
	}
	h := newHarness(t, fake, "25\n1\n2\n")

	res, err := h.driver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Publisher25", res.Publisher.Name)
	assert.Equal(t, "server-arm64", res.Sku.Name)
	assert.Contains(t, h.out.String(), "Page 1 of 3")
}

func TestRun_Interrupted(t *testing.T) {
	fake := newFakeCatalog()
	fake.listErr = map[string]error{"publishers": context.Canceled}
	h := newHarness(t, fake, "")

	_, err := h.driver.Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrFetchFailed))
	assert.Equal(t, ExitInterrupted, ExitCode(err))
}

func TestRun_CancelledContextAtPrompt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := newHarness(t, newFakeCatalog(), "1\n")

	_, err := h.driver.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ExitInterrupted, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"cancelled", fmt.Errorf("%w: quit", ErrUserCancelled), ExitOK},
		{"prerequisite", fmt.Errorf("%w: az", ErrPrerequisiteMissing), ExitFailure},
		{"fetch", fmt.Errorf("%w: offers", ErrFetchFailed), ExitFailure},
		{"empty", ErrEmptyResult, ExitFailure},
		{"interrupt", fmt.Errorf("selecting: %w", context.Canceled), ExitInterrupted},
		{"other", errors.New("disk full"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "select_publisher", StateSelectPublisher.String())
	assert.Equal(t, "render_report", StateRenderReport.String())
	assert.Equal(t, "unknown", State(99).String())
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateAborted.Terminal())
	assert.False(t, StateSelectSku.Terminal())
}
