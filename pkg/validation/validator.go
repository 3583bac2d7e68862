// Package validation rejects malformed engine inputs before any
// computation runs. Struct-tag validation is delegated to
// go-playground/validator; the semantic checks the tags cannot express
// (coordinate ranges, tier/rate consistency) are applied on top. Every
// failure wraps network.ErrInvalidInput so callers can classify it.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/freshnet/coldchain/pkg/cost"
	"github.com/freshnet/coldchain/pkg/decay"
	"github.com/freshnet/coldchain/pkg/network"
)

// validate is a singleton validator instance
var validate = validator.New()

// ValidateNode checks a single facility node.
func ValidateNode(n network.Node) error {
	if err := validate.Struct(n); err != nil {
		return invalid("node", n.ID, err)
	}
	if !n.Tier.Valid() {
		return fmt.Errorf("%w: node %q: unknown tier %d", network.ErrInvalidInput, n.ID, int(n.Tier))
	}
	if n.Position.Lat < -90 || n.Position.Lat > 90 {
		return fmt.Errorf("%w: node %q: latitude %.4f out of range [-90, 90]",
			network.ErrInvalidInput, n.ID, n.Position.Lat)
	}
	if n.Position.Lon < -180 || n.Position.Lon > 180 {
		return fmt.Errorf("%w: node %q: longitude %.4f out of range [-180, 180]",
			network.ErrInvalidInput, n.ID, n.Position.Lon)
	}
	if n.ProductionRate > 0 && n.Tier != network.TierProducer {
		return fmt.Errorf("%w: node %q: production rate on non-producer tier %s",
			network.ErrInvalidInput, n.ID, n.Tier)
	}
	if n.DemandRate > 0 && n.Tier != network.TierRetail {
		return fmt.Errorf("%w: node %q: demand rate on non-retail tier %s",
			network.ErrInvalidInput, n.ID, n.Tier)
	}
	return nil
}

// ValidateNodes checks every node in a snapshot.
func ValidateNodes(nodes []network.Node) error {
	for _, n := range nodes {
		if err := ValidateNode(n); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProduct checks a product profile.
func ValidateProduct(p decay.ProductProfile) error {
	if err := validate.Struct(p); err != nil {
		return invalid("product", p.ID, err)
	}
	if p.OptimalTempC < p.SafeTempMinC || p.OptimalTempC > p.SafeTempMaxC {
		return fmt.Errorf("%w: product %q: optimal temp %.1f outside safe range",
			network.ErrInvalidInput, p.ID, p.OptimalTempC)
	}
	return nil
}

// ValidateVehicle checks a vehicle profile.
func ValidateVehicle(v cost.VehicleProfile) error {
	if err := validate.Struct(v); err != nil {
		return invalid("vehicle", v.ID, err)
	}
	return nil
}

// ValidateConstraints checks an optimization-constraints record.
func ValidateConstraints(c cost.Constraints) error {
	if err := validate.Struct(c); err != nil {
		return invalid("constraints", "", err)
	}
	return nil
}

// invalid converts a validator error into an ErrInvalidInput chain,
// keeping only the first offending field for the message.
func invalid(kind, id string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		if id != "" {
			return fmt.Errorf("%w: %s %q: field %s fails %q", network.ErrInvalidInput, kind, id, f.Field(), f.Tag())
		}
		return fmt.Errorf("%w: %s: field %s fails %q", network.ErrInvalidInput, kind, f.Field(), f.Tag())
	}
	return fmt.Errorf("%w: %s: %v", network.ErrInvalidInput, kind, err)
}
