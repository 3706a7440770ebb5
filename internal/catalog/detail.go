package catalog

import (
	"encoding/json"
	"strconv"
)

// NotAvailable is rendered for detail fields that are missing.
const NotAvailable = "N/A"

// ImageDetail is the record returned by `az vm image show`. Publisher, Offer
// and Sku are not part of the az output and are filled in by the client.
type ImageDetail struct {
	Name               string              `json:"name"`
	Location           string              `json:"location"`
	ID                 string              `json:"id"`
	Architecture       string              `json:"architecture"`
	HyperVGeneration   string              `json:"hyperVGeneration"`
	OSDiskImage        *OSDiskImage        `json:"osDiskImage"`
	DataDiskImages     []json.RawMessage   `json:"dataDiskImages"`
	Plan               *Plan               `json:"plan"`
	AutomaticOSUpgrade *AutomaticOSUpgrade `json:"automaticOsUpgradeProperties"`
	Features           []Feature           `json:"features"`

	Publisher string `json:"-"`
	Offer     string `json:"-"`
	Sku       string `json:"-"`

	// Raw is the unmodified az output, used for the metadata dump.
	Raw json.RawMessage `json:"-"`
}

// OSDiskImage describes the OS disk of an image version.
type OSDiskImage struct {
	OperatingSystem string `json:"operatingSystem"`
	SizeInGB        int    `json:"sizeInGb"`
}

// AutomaticOSUpgrade reports whether the image supports automatic OS upgrades.
type AutomaticOSUpgrade struct {
	Supported bool `json:"automaticOsUpgradeSupported"`
}

// Plan is the marketplace purchase plan attached to some images.
type Plan struct {
	Name      string `json:"name"`
	Product   string `json:"product"`
	Publisher string `json:"publisher"`
}

// Feature is a name/value capability flag such as SecurityType.
type Feature struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParseImageDetail decodes az output into an ImageDetail and keeps the raw bytes.
func ParseImageDetail(data []byte) (*ImageDetail, error) {
	var d ImageDetail
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	d.Raw = append(json.RawMessage(nil), data...)
	return &d, nil
}

// OSType returns the operating system or N/A.
func (d *ImageDetail) OSType() string {
	if d == nil || d.OSDiskImage == nil || d.OSDiskImage.OperatingSystem == "" {
		return NotAvailable
	}
	return d.OSDiskImage.OperatingSystem
}

// OSDiskSize returns the OS disk size as "<n> GB" or N/A.
func (d *ImageDetail) OSDiskSize() string {
	if d == nil || d.OSDiskImage == nil || d.OSDiskImage.SizeInGB == 0 {
		return NotAvailable
	}
	return strconv.Itoa(d.OSDiskImage.SizeInGB) + " GB"
}

// Arch returns the architecture or N/A.
func (d *ImageDetail) Arch() string {
	if d == nil || d.Architecture == "" {
		return NotAvailable
	}
	return d.Architecture
}

// Generation returns the Hyper-V generation or N/A.
func (d *ImageDetail) Generation() string {
	if d == nil || d.HyperVGeneration == "" {
		return NotAvailable
	}
	return d.HyperVGeneration
}

// PlanSummary returns "name / product / publisher" or N/A when the image
// has no purchase plan.
func (d *ImageDetail) PlanSummary() string {
	if d == nil || d.Plan == nil || d.Plan.Name == "" {
		return NotAvailable
	}
	return d.Plan.Name + " / " + d.Plan.Product + " / " + d.Plan.Publisher
}

// AutoOSUpgrade returns "Yes", "No" or N/A.
func (d *ImageDetail) AutoOSUpgrade() string {
	if d == nil || d.AutomaticOSUpgrade == nil {
		return NotAvailable
	}
	if d.AutomaticOSUpgrade.Supported {
		return "Yes"
	}
	return "No"
}

// FeatureValue returns the value of the named feature or N/A.
func (d *ImageDetail) FeatureValue(name string) string {
	if d == nil {
		return NotAvailable
	}
	for _, f := range d.Features {
		if f.Name == name {
			return f.Value
		}
	}
	return NotAvailable
}

// DataDisks returns the number of data disk images, or N/A when the detail
// is unavailable.
func (d *ImageDetail) DataDisks() string {
	if d == nil {
		return NotAvailable
	}
	return strconv.Itoa(len(d.DataDiskImages))
}
