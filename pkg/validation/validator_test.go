package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshnet/coldchain/pkg/cost"
	"github.com/freshnet/coldchain/pkg/decay"
	"github.com/freshnet/coldchain/pkg/geo"
	"github.com/freshnet/coldchain/pkg/network"
)

func validNode() network.Node {
	return network.Node{
		ID:            "farm-nashik",
		Name:          "Nashik Farm Cluster",
		Tier:          network.TierProducer,
		Position:      geo.Coordinate{Lat: 19.9975, Lon: 73.7898},
		CapacityUnits: 800,
		Visible:       true,
	}
}

func TestValidateNode(t *testing.T) {
	require.NoError(t, ValidateNode(validNode()))

	tests := []struct {
		name   string
		mutate func(*network.Node)
	}{
		{"empty id", func(n *network.Node) { n.ID = "" }},
		{"unknown tier", func(n *network.Node) { n.Tier = network.Tier(42) }},
		{"latitude out of range", func(n *network.Node) { n.Position.Lat = 91 }},
		{"longitude out of range", func(n *network.Node) { n.Position.Lon = -181 }},
		{"negative capacity", func(n *network.Node) { n.CapacityUnits = -1 }},
		{"production rate on non-producer", func(n *network.Node) {
			n.Tier = network.TierRetail
			n.ProductionRate = 10
		}},
		{"demand rate on non-retail", func(n *network.Node) { n.DemandRate = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNode()
			tt.mutate(&n)

			err := ValidateNode(n)
			require.Error(t, err)
			assert.ErrorIs(t, err, network.ErrInvalidInput)
		})
	}
}

func TestValidateNodes_ReportsFirstOffender(t *testing.T) {
	bad := validNode()
	bad.ID = "farm-bad"
	bad.CapacityUnits = -5

	err := ValidateNodes([]network.Node{validNode(), bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, network.ErrInvalidInput)
	assert.Contains(t, err.Error(), "farm-bad")
}

func TestValidateProduct(t *testing.T) {
	valid := decay.ProductProfile{
		ID:                      "leafy-greens",
		SafeTempMinC:            0,
		SafeTempMaxC:            8,
		OptimalTempC:            4,
		RefrigeratedRatePerHour: 0.5,
		AmbientRatePerHour:      4.0,
	}
	require.NoError(t, ValidateProduct(valid))

	inverted := valid
	inverted.SafeTempMinC = 10
	assert.ErrorIs(t, ValidateProduct(inverted), network.ErrInvalidInput)

	badOptimal := valid
	badOptimal.OptimalTempC = 20
	assert.ErrorIs(t, ValidateProduct(badOptimal), network.ErrInvalidInput)

	negativeRate := valid
	negativeRate.AmbientRatePerHour = -1
	assert.ErrorIs(t, ValidateProduct(negativeRate), network.ErrInvalidInput)
}

func TestValidateVehicle(t *testing.T) {
	valid := cost.VehicleProfile{
		ID:            "reefer-lcv",
		CostPerKm:     15,
		AvgSpeedKmh:   40,
		CapacityUnits: 1200,
	}
	require.NoError(t, ValidateVehicle(valid))

	stopped := valid
	stopped.AvgSpeedKmh = 0
	assert.ErrorIs(t, ValidateVehicle(stopped), network.ErrInvalidInput)

	negativeCost := valid
	negativeCost.CostPerKm = -2
	assert.ErrorIs(t, ValidateVehicle(negativeCost), network.ErrInvalidInput)
}

func TestValidateConstraints(t *testing.T) {
	require.NoError(t, ValidateConstraints(cost.Constraints{AmbientTempC: 25}))

	assert.ErrorIs(t,
		ValidateConstraints(cost.Constraints{AmbientTempC: 120}),
		network.ErrInvalidInput)
	assert.ErrorIs(t,
		ValidateConstraints(cost.Constraints{MaxSpoilagePercent: 150}),
		network.ErrInvalidInput)
	assert.ErrorIs(t,
		ValidateConstraints(cost.Constraints{MaxDistanceKm: -10}),
		network.ErrInvalidInput)
}
