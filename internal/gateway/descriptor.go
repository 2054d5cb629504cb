package gateway

import (
	"crypto/sha256"
	"fmt"
	"net/url"
)

// Provider identifies an upstream catalog service.
type Provider string

const (
	// ProviderAnitabi is the anime location/scene-point catalog.
	ProviderAnitabi Provider = "anitabi"

	// ProviderBangumi is the anime metadata catalog.
	ProviderBangumi Provider = "bangumi"
)

// Descriptor is the canonical identity of one logical upstream request.
//
// Provider selects the rate-limit bucket; the full descriptor selects the
// cache entry. Resource names what a 404 means for this request ("station",
// "bangumi", ...) and is carried on NotFound errors.
type Descriptor struct {
	Provider Provider
	Endpoint string
	Params   url.Values
	Resource string
}

// Fingerprint returns a stable cache key for the descriptor. Params are
// serialized with sorted keys, so two descriptors differing in any parameter
// never share a fingerprint.
func (d Descriptor) Fingerprint() string {
	canonical := string(d.Provider) + "|" + d.Endpoint + "|" + d.Params.Encode()
	sum := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("%s|%s|%x", d.Provider, d.Endpoint, sum[:8])
}
