package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/rshade/azimage/internal/logging"
)

// Account is the subset of az account show used for logging.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TenantID string `json:"tenantId"`
	User     struct {
		Name string `json:"name"`
	} `json:"user"`
}

// Version returns the installed Azure CLI version from az version.
func (c *Client) Version(ctx context.Context) (*semver.Version, error) {
	out, err := c.run(ctx, azCmdConfig{
		args:       []string{"version"},
		operation:  "version",
		logMessage: "checking Azure CLI version",
		wrapErr:    commandErrorFor("version"),
	})
	if err != nil {
		return nil, err
	}

	var versions map[string]json.RawMessage
	if unmarshalErr := json.Unmarshal(out, &versions); unmarshalErr != nil {
		return nil, fmt.Errorf("parsing az version output: %w", unmarshalErr)
	}

	var raw string
	if cliVersion, ok := versions["azure-cli"]; ok {
		_ = json.Unmarshal(cliVersion, &raw)
	}
	if raw == "" {
		return nil, errors.New("az version output has no azure-cli entry")
	}

	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing Azure CLI version %q: %w", raw, err)
	}
	return v, nil
}

// Account returns the signed-in account, or ErrNotLoggedIn.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	out, err := c.run(ctx, azCmdConfig{
		args:       []string{"account", "show"},
		operation:  "account show",
		logMessage: "checking Azure login",
		wrapErr: func(stderr string) error {
			return fmt.Errorf("%w: %s", ErrNotLoggedIn, stderr)
		},
	})
	if err != nil {
		return nil, err
	}

	var acct Account
	if unmarshalErr := json.Unmarshal(out, &acct); unmarshalErr != nil {
		return nil, fmt.Errorf("parsing az account show output: %w", unmarshalErr)
	}
	return &acct, nil
}

// CheckPrerequisites verifies that az is installed, recent enough, and
// signed in. The returned error wraps ErrAzNotFound, ErrAzTooOld or
// ErrNotLoggedIn.
func (c *Client) CheckPrerequisites(ctx context.Context) error {
	log := logging.FromContext(ctx)

	path, err := c.FindBinary()
	if err != nil {
		return err
	}

	installed, err := c.Version(ctx)
	if err != nil {
		return err
	}
	minimum := semver.MustParse(MinAzVersion)
	if installed.LessThan(minimum) {
		return TooOldError(installed.String())
	}

	acct, err := c.Account(ctx)
	if err != nil {
		return err
	}

	log.Info().
		Ctx(ctx).
		Str("component", "azure").
		Str("az_path", path).
		Str("az_version", installed.String()).
		Str("subscription", acct.Name).
		Str("user", acct.User.Name).
		Msg("Azure CLI prerequisites satisfied")
	return nil
}
