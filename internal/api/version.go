package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// DefaultCompatibility is the backend version range this client is built against.
const DefaultCompatibility = ">=1.0.0, <2.0.0"

// ErrIncompatibleServer is returned when the backend version is outside the supported range.
var ErrIncompatibleServer = errors.New("incompatible backend version")

type versionResponse struct {
	Version string `json:"version"`
}

// ServerVersion reads the backend version from GET {BaseURL}/version.
func (c *Client) ServerVersion(ctx context.Context) (*semver.Version, error) {
	body, err := c.get(ctx, "version", nil)
	if err != nil {
		return nil, err
	}

	var resp versionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding version: %w", ErrMalformedResponse, err)
	}
	v, err := semver.NewVersion(resp.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: backend version %q: %w", ErrMalformedResponse, resp.Version, err)
	}
	return v, nil
}

// CheckCompatibility returns the backend version and ErrIncompatibleServer when it does
// not satisfy constraint. An empty constraint means DefaultCompatibility.
func (c *Client) CheckCompatibility(ctx context.Context, constraint string) (*semver.Version, error) {
	if constraint == "" {
		constraint = DefaultCompatibility
	}
	cons, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}

	v, err := c.ServerVersion(ctx)
	if err != nil {
		return nil, err
	}
	if !cons.Check(v) {
		return v, fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleServer, v, constraint)
	}
	return v, nil
}
