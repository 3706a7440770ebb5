package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/rshade/azimage/internal/catalog"
	"github.com/rshade/azimage/internal/logging"
)

// namedRecord is one entry of az vm image list-publishers, list-offers or
// list-skus.
type namedRecord struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	ID       string `json:"id"`
}

// imageRecord is one entry of az vm image list.
type imageRecord struct {
	Architecture string `json:"architecture"`
	Offer        string `json:"offer"`
	Publisher    string `json:"publisher"`
	Sku          string `json:"sku"`
	URN          string `json:"urn"`
	Version      string `json:"version"`
}

// ListPublishers runs az vm image list-publishers for the region.
func (c *Client) ListPublishers(ctx context.Context, region string) ([]catalog.Item, error) {
	return c.listNamed(ctx, catalog.KindPublisher, azCmdConfig{
		args:       []string{"vm", "image", "list-publishers", "--location", region},
		operation:  "vm image list-publishers",
		logMessage: "listing image publishers",
	})
}

// ListOffers runs az vm image list-offers for the publisher.
func (c *Client) ListOffers(ctx context.Context, region, publisher string) ([]catalog.Item, error) {
	return c.listNamed(ctx, catalog.KindOffer, azCmdConfig{
		args: []string{
			"vm", "image", "list-offers",
			"--location", region,
			"--publisher", publisher,
		},
		operation:  "vm image list-offers",
		logMessage: "listing image offers",
	})
}

// ListSkus runs az vm image list-skus for the publisher and offer.
func (c *Client) ListSkus(ctx context.Context, region, publisher, offer string) ([]catalog.Item, error) {
	return c.listNamed(ctx, catalog.KindSku, azCmdConfig{
		args: []string{
			"vm", "image", "list-skus",
			"--location", region,
			"--publisher", publisher,
			"--offer", offer,
		},
		operation:  "vm image list-skus",
		logMessage: "listing image SKUs",
	})
}

// ListVersions runs az vm image list --all for one SKU. az matches the
// publisher, offer and SKU arguments as substrings, so entries belonging to
// other SKUs (e.g. "22_04-lts-gen2" for "22_04-lts") are dropped here.
func (c *Client) ListVersions(ctx context.Context, region, publisher, offer, sku string) ([]catalog.Item, error) {
	out, err := c.run(ctx, azCmdConfig{
		args: []string{
			"vm", "image", "list",
			"--location", region,
			"--publisher", publisher,
			"--offer", offer,
			"--sku", sku,
			"--all",
		},
		operation:  "vm image list",
		logMessage: "listing image versions (this may take a moment)...",
		wrapErr:    commandErrorFor("vm image list"),
	})
	if err != nil {
		return nil, err
	}

	var records []imageRecord
	if unmarshalErr := json.Unmarshal(out, &records); unmarshalErr != nil {
		return nil, fmt.Errorf("parsing az vm image list output: %w", unmarshalErr)
	}

	matching := lo.Filter(records, func(r imageRecord, _ int) bool {
		return strings.EqualFold(r.Publisher, publisher) &&
			strings.EqualFold(r.Offer, offer) &&
			strings.EqualFold(r.Sku, sku) &&
			r.Version != ""
	})
	matching = lo.UniqBy(matching, func(r imageRecord) string { return r.Version })

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "azure").
		Int("returned", len(records)).
		Int("matching", len(matching)).
		Msg("filtered image versions to exact SKU")

	return lo.Map(matching, func(r imageRecord, _ int) catalog.Item {
		return catalog.Item{
			Kind:         catalog.KindVersion,
			Name:         r.Version,
			Location:     region,
			URN:          r.URN,
			Architecture: r.Architecture,
		}
	}), nil
}

// GetImageDetail runs az vm image show for one version. The version may be
// catalog.LatestToken, which az resolves itself. A missing image returns
// ErrImageNotFound.
func (c *Client) GetImageDetail(
	ctx context.Context,
	region, publisher, offer, sku, version string,
) (*catalog.ImageDetail, error) {
	urn := strings.Join([]string{publisher, offer, sku, version}, ":")
	out, err := c.run(ctx, azCmdConfig{
		args:       []string{"vm", "image", "show", "--location", region, "--urn", urn},
		operation:  "vm image show",
		logMessage: "fetching image detail",
		wrapErr: func(stderr string) error {
			if isNotFound(stderr) {
				return fmt.Errorf("%w: %s in %s: %s", ErrImageNotFound, urn, region, stderr)
			}
			return CommandError("vm image show", stderr)
		},
	})
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("%w: %s in %s", ErrImageNotFound, urn, region)
	}

	detail, err := catalog.ParseImageDetail(out)
	if err != nil {
		return nil, fmt.Errorf("parsing az vm image show output: %w", err)
	}
	detail.Publisher = publisher
	detail.Offer = offer
	detail.Sku = sku
	return detail, nil
}

// listNamed runs a list command whose entries carry a "name" key.
func (c *Client) listNamed(ctx context.Context, kind catalog.Kind, cfg azCmdConfig) ([]catalog.Item, error) {
	cfg.wrapErr = commandErrorFor(cfg.operation)
	out, err := c.run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var records []namedRecord
	if unmarshalErr := json.Unmarshal(out, &records); unmarshalErr != nil {
		return nil, fmt.Errorf("parsing az %s output: %w", cfg.operation, unmarshalErr)
	}

	items := make([]catalog.Item, 0, len(records))
	for _, r := range records {
		if r.Name == "" {
			continue
		}
		items = append(items, catalog.Item{Kind: kind, Name: r.Name, Location: r.Location, ID: r.ID})
	}
	return items, nil
}

// IsNotFound reports whether err means the image does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrImageNotFound)
}
