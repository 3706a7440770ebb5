// Package workflow drives the publisher, offer, SKU and version walk through
// the Azure VM image catalog and produces the Markdown report.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rshade/azimage/internal/azure"
	"github.com/rshade/azimage/internal/catalog"
	"github.com/rshade/azimage/internal/logging"
	"github.com/rshade/azimage/internal/report"
	"github.com/rshade/azimage/internal/selector"
)

const (
	// microsoftFilter is the publisher substring kept by Options.MicrosoftOnly.
	microsoftFilter    = "microsoft"
	defaultMaxVersions = 10
)

// Catalog lists the Azure VM image catalog. It is implemented by
// *azure.Client.
type Catalog interface {
	CheckPrerequisites(ctx context.Context) error
	ListPublishers(ctx context.Context, region string) ([]catalog.Item, error)
	ListOffers(ctx context.Context, region, publisher string) ([]catalog.Item, error)
	ListSkus(ctx context.Context, region, publisher, offer string) ([]catalog.Item, error)
	ListVersions(ctx context.Context, region, publisher, offer, sku string) ([]catalog.Item, error)
	GetImageDetail(ctx context.Context, region, publisher, offer, sku, version string) (*catalog.ImageDetail, error)
}

// Options configures a Driver.
type Options struct {
	Region          string
	PageSize        int
	MicrosoftOnly   bool
	PublisherSearch string

	OutputDir   string
	Prefix      string
	MaxVersions int

	// Now returns the report timestamp; defaults to time.Now.
	Now func() time.Time
}

// Result describes a completed run.
type Result struct {
	Publisher  catalog.Item
	Offer      catalog.Item
	Sku        catalog.Item
	Report     report.Data
	ReportPath string
}

// Driver runs the browse workflow once. It is not safe for concurrent use.
type Driver struct {
	catalog  Catalog
	selector *selector.Selector
	out      io.Writer
	opts     Options
	state    State
}

// NewDriver returns a Driver that fetches from c, prompts with sel and
// prints progress to out.
func NewDriver(c Catalog, sel *selector.Selector, out io.Writer, opts Options) *Driver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxVersions < 1 {
		opts.MaxVersions = defaultMaxVersions
	}
	if opts.Prefix == "" {
		opts.Prefix = report.DefaultPrefix
	}
	return &Driver{catalog: c, selector: sel, out: out, opts: opts}
}

// State returns the current workflow state.
func (d *Driver) State() State {
	return d.state
}

// Run checks prerequisites, walks the catalog and writes the report. The
// returned error wraps one of the package sentinels; use ExitCode to map it.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	log := logging.FromContext(ctx)
	d.state = StateSelectPublisher

	if err := d.catalog.CheckPrerequisites(ctx); err != nil {
		return nil, d.abort(ctx, fmt.Errorf("%w: %w", ErrPrerequisiteMissing, err))
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "workflow").
		Str("region", d.opts.Region).
		Int("page_size", d.opts.PageSize).
		Bool("microsoft_only", d.opts.MicrosoftOnly).
		Str("publisher_search", d.opts.PublisherSearch).
		Msg("starting image browse")

	var res Result
	var err error

	if res.Publisher, err = d.selectPublisher(ctx); err != nil {
		return nil, d.abort(ctx, err)
	}
	d.transition(ctx, StateSelectOffer)

	if res.Offer, err = d.selectOffer(ctx, res.Publisher.Name); err != nil {
		return nil, d.abort(ctx, err)
	}
	d.transition(ctx, StateSelectSku)

	if res.Sku, err = d.selectSku(ctx, res.Publisher.Name, res.Offer.Name); err != nil {
		return nil, d.abort(ctx, err)
	}
	d.transition(ctx, StateResolveVersions)

	data, err := d.resolve(ctx, res.Publisher.Name, res.Offer.Name, res.Sku.Name)
	if err != nil {
		return nil, d.abort(ctx, err)
	}
	res.Report = data
	d.transition(ctx, StateRenderReport)

	path, err := report.Write(d.opts.OutputDir, d.opts.Prefix, data)
	if err != nil {
		return nil, d.abort(ctx, err)
	}
	res.ReportPath = path
	report.PrintSummary(d.out, data, path)
	d.transition(ctx, StateDone)

	return &res, nil
}

func (d *Driver) selectPublisher(ctx context.Context) (catalog.Item, error) {
	d.progressf("Fetching publishers in %s...", d.opts.Region)
	items, err := d.catalog.ListPublishers(ctx, d.opts.Region)
	if err != nil {
		return catalog.Item{}, fetchError("publishers", err)
	}
	if len(items) == 0 {
		return catalog.Item{}, fmt.Errorf("%w: no publishers in region %s", ErrEmptyResult, d.opts.Region)
	}

	// MicrosoftOnly narrows the list for the whole session. PublisherSearch
	// only seeds the selector filter, so clearing it shows every publisher.
	fetched := len(items)
	if d.opts.MicrosoftOnly {
		items = catalog.FilterByKey(items, microsoftFilter)
	}
	search := strings.TrimSpace(d.opts.PublisherSearch)
	matching := len(catalog.FilterByKey(items, search))
	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "workflow").
		Int("fetched", fetched).
		Int("kept", len(items)).
		Int("matching", matching).
		Msg("applied publisher pre-filters")
	if matching == 0 {
		return catalog.Item{}, fmt.Errorf("%w: no publishers in region %s match the publisher filters",
			ErrEmptyResult, d.opts.Region)
	}

	return d.choose(ctx, "publisher", "Publishers in "+d.opts.Region, search, items)
}

func (d *Driver) selectOffer(ctx context.Context, publisher string) (catalog.Item, error) {
	d.progressf("Fetching offers for %s...", publisher)
	items, err := d.catalog.ListOffers(ctx, d.opts.Region, publisher)
	if err != nil {
		return catalog.Item{}, fetchError("offers", err)
	}
	if len(items) == 0 {
		return catalog.Item{}, fmt.Errorf("%w: no offers for publisher %s in region %s",
			ErrEmptyResult, publisher, d.opts.Region)
	}
	return d.choose(ctx, "offer", "Offers from "+publisher, "", items)
}

func (d *Driver) selectSku(ctx context.Context, publisher, offer string) (catalog.Item, error) {
	d.progressf("Fetching SKUs for %s/%s...", publisher, offer)
	items, err := d.catalog.ListSkus(ctx, d.opts.Region, publisher, offer)
	if err != nil {
		return catalog.Item{}, fetchError("SKUs", err)
	}
	if len(items) == 0 {
		return catalog.Item{}, fmt.Errorf("%w: no SKUs for %s/%s in region %s",
			ErrEmptyResult, publisher, offer, d.opts.Region)
	}
	return d.choose(ctx, "SKU", "SKUs of "+publisher+"/"+offer, "", items)
}

// resolve lists every version of the SKU, picks the newest and fetches its
// detail. Without listed versions the detail is fetched for "latest". A
// missing image is not fatal: the report is rendered with N/A fields.
func (d *Driver) resolve(ctx context.Context, publisher, offer, sku string) (report.Data, error) {
	log := logging.FromContext(ctx)

	d.progressf("Fetching versions for %s/%s/%s (this may take a moment)...", publisher, offer, sku)
	items, err := d.catalog.ListVersions(ctx, d.opts.Region, publisher, offer, sku)
	if err != nil {
		return report.Data{}, fetchError("versions", err)
	}

	versions := catalog.Names(items)
	target := catalog.LatestToken
	latest, found := catalog.LatestVersion(versions)
	if found {
		target = latest
	} else {
		log.Warn().
			Ctx(ctx).
			Str("component", "workflow").
			Str("sku", sku).
			Msg("no versions listed; fetching detail for latest")
	}

	data := report.Data{
		GeneratedAt:    d.opts.Now(),
		Region:         d.opts.Region,
		Publisher:      publisher,
		Offer:          offer,
		Sku:            sku,
		Version:        target,
		LatestVersion:  latest,
		RecentVersions: catalog.RecentVersions(versions, d.opts.MaxVersions),
		TotalVersions:  len(catalog.SortVersions(versions)),
	}

	detail, err := d.catalog.GetImageDetail(ctx, d.opts.Region, publisher, offer, sku, target)
	switch {
	case err == nil:
		data.Detail = detail
	case azure.IsNotFound(err):
		log.Warn().
			Ctx(ctx).
			Str("component", "workflow").
			Str("version", target).
			Err(err).
			Msg("image detail unavailable; rendering report with placeholders")
	default:
		return report.Data{}, fetchError("image detail", err)
	}
	return data, nil
}

// choose runs the selector over items. Quitting, or filtering down to
// nothing, cancels the run.
func (d *Driver) choose(
	ctx context.Context, kind, title, filter string, items []catalog.Item,
) (catalog.Item, error) {
	res, err := selector.Run(ctx, d.selector, items, selector.Options{
		Title:    title,
		PageSize: d.opts.PageSize,
		Filter:   filter,
	})
	if err != nil {
		return catalog.Item{}, fmt.Errorf("selecting %s: %w", kind, err)
	}
	if !res.OK() {
		return catalog.Item{}, fmt.Errorf("%w: no %s selected (%s)", ErrUserCancelled, kind, res.Outcome)
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "workflow").
		Str("kind", kind).
		Str("selected", res.Item.Name).
		Msg("item selected")
	return res.Item, nil
}

func (d *Driver) transition(ctx context.Context, next State) {
	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "workflow").
		Str("from", d.state.String()).
		Str("to", next.String()).
		Msg("state transition")
	d.state = next
}

// abort moves to StateAborted and returns err unchanged.
func (d *Driver) abort(ctx context.Context, err error) error {
	event := logging.FromContext(ctx).Debug()
	if !errors.Is(err, ErrUserCancelled) {
		event = logging.FromContext(ctx).Error()
	}
	event.
		Ctx(ctx).
		Str("component", "workflow").
		Str("state", d.state.String()).
		Err(err).
		Msg("workflow aborted")
	d.state = StateAborted
	return err
}

func (d *Driver) progressf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.out, format+"\n", args...)
}

// fetchError wraps an az failure. Context cancellation is passed through so
// that an interrupt is not reported as a failed fetch.
func fetchError(what string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("fetching %s: %w", what, err)
	}
	return fmt.Errorf("%w: fetching %s: %w", ErrFetchFailed, what, err)
}
