package routing

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/freshnet/coldchain/pkg/config"
	"github.com/freshnet/coldchain/pkg/cost"
	"github.com/freshnet/coldchain/pkg/geo"
	"github.com/freshnet/coldchain/pkg/network"
)

// TestEngineInvariants verifies engine-wide properties over randomized
// valid networks
func TestEngineInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	// A randomized snapshot: node positions inside one region, random
	// capacities and rates, random ambient temperature.
	type snapshot struct {
		nodes    []network.Node
		ambientC float64
	}

	genSnapshot := gopter.CombineGens(
		gen.IntRange(1, 4),            // producers
		gen.IntRange(0, 3),            // aggregators
		gen.IntRange(1, 4),            // retail
		gen.Float64Range(-20, 45),     // ambient temperature
		gen.Float64Range(0, 2),        // position spread in degrees
		gen.Float64Range(1, 5000),     // capacity scale
	).Map(func(vals []any) snapshot {
		producers := vals[0].(int)
		aggregators := vals[1].(int)
		retails := vals[2].(int)
		spread := vals[4].(float64)
		capScale := vals[5].(float64)

		var nodes []network.Node
		add := func(prefix string, count int, tier network.Tier, latBase float64) {
			for i := 0; i < count; i++ {
				n := network.Node{
					ID:            fmt.Sprintf("%s-%d", prefix, i),
					Tier:          tier,
					Position:      geo.Coordinate{Lat: latBase + spread*float64(i)/10, Lon: 73 + spread*float64(i)/7},
					CapacityUnits: capScale * float64(i+1),
					Visible:       true,
				}
				switch tier {
				case network.TierProducer:
					n.ProductionRate = capScale / 2 * float64(i+1)
				case network.TierRetail:
					n.DemandRate = capScale / 3 * float64(i+1)
				}
				nodes = append(nodes, n)
			}
		}
		add("farm", producers, network.TierProducer, 18)
		add("mandi", aggregators, network.TierAggregator, 18.5)
		add("store", retails, network.TierRetail, 19)

		return snapshot{nodes: nodes, ambientC: vals[3].(float64)}
	})

	buildEngine := func(s snapshot) *Engine {
		constraints := cost.Constraints{AmbientTempC: s.ambientC}
		e, err := New(s.nodes, testProduct(), testVehicle(), constraints, config.DefaultEngine())
		if err != nil {
			return nil
		}
		return e
	}

	properties.Property("efficiency score stays within [0, 100]", prop.ForAll(
		func(s snapshot) bool {
			e := buildEngine(s)
			if e == nil {
				return false
			}
			flow, err := e.AggregateFlow(context.Background())
			if err != nil {
				return false
			}
			return flow.EfficiencyScore >= 0 && flow.EfficiencyScore <= 100
		},
		genSnapshot,
	))

	properties.Property("aggregate scalars are non-negative", prop.ForAll(
		func(s snapshot) bool {
			e := buildEngine(s)
			if e == nil {
				return false
			}
			flow, err := e.AggregateFlow(context.Background())
			if err != nil {
				return false
			}
			if flow.TotalCost < 0 || flow.TotalTimeHours < 0 {
				return false
			}
			return flow.MeanSpoilageRisk >= 0 && flow.MeanSpoilageRisk <= 100
		},
		genSnapshot,
	))

	properties.Property("every aggregated path runs producer to retail", prop.ForAll(
		func(s snapshot) bool {
			e := buildEngine(s)
			if e == nil {
				return false
			}
			flow, err := e.AggregateFlow(context.Background())
			if err != nil {
				return false
			}
			for _, p := range flow.Paths {
				src, _ := e.Graph().Node(p.Source())
				dst, _ := e.Graph().Node(p.Destination())
				if src.Tier != network.TierProducer || dst.Tier != network.TierRetail {
					return false
				}
			}
			return true
		},
		genSnapshot,
	))

	properties.TestingRun(t)
}
