// Package main runs the route optimization engine over a small sample
// network and prints the results. It stands in for the dashboard
// collaborator that normally supplies node records and renders output.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/freshnet/coldchain/pkg/config"
	"github.com/freshnet/coldchain/pkg/cost"
	"github.com/freshnet/coldchain/pkg/decay"
	"github.com/freshnet/coldchain/pkg/geo"
	"github.com/freshnet/coldchain/pkg/logging"
	"github.com/freshnet/coldchain/pkg/metrics"
	"github.com/freshnet/coldchain/pkg/network"
	"github.com/freshnet/coldchain/pkg/routing"
)

func main() {
	var (
		ambientTemp = flag.Float64("ambient", 25.0, "ambient temperature in °C")
		maxSpoilage = flag.Float64("max-spoilage", 100.0, "max spoilage percent per leg")
		configPath  = flag.String("config", "", "optional engine config YAML")
		timeout     = flag.Duration("timeout", 30*time.Second, "computation timeout")
	)
	flag.Parse()

	cfg := config.DefaultEngine()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	nodes := sampleNetwork()

	product := decay.ProductProfile{
		ID:                         "leafy-greens",
		Name:                       "Leafy Greens",
		SafeTempMinC:               0,
		SafeTempMaxC:               8,
		OptimalTempC:               4,
		RefrigeratedRatePerHour:    0.5,
		AmbientRatePerHour:         4.0,
		ShelfLifeRefrigeratedHours: 168,
		ShelfLifeAmbientHours:      48,
	}
	vehicle := cost.VehicleProfile{
		ID:            "reefer-lcv",
		CostPerKm:     15,
		AvgSpeedKmh:   40,
		Refrigerated:  false,
		CapacityUnits: 1200,
	}
	constraints := cost.Constraints{
		MaxDistanceKm:        400,
		MaxDeliveryTimeHours: 12,
		MaxSpoilagePercent:   *maxSpoilage,
		TemperaturePriority:  true,
		AmbientTempC:         *ambientTemp,
	}

	logger := logging.NewDefaultLogger()
	registry := metrics.NewRegistry()

	engine, err := routing.New(nodes, product, vehicle, constraints, cfg,
		routing.WithLogger(logger),
		routing.WithMetrics(registry),
	)
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Println("=== Shortest producer -> retail path ===")
	path, err := engine.ShortestPath(ctx, "farm-nashik", "store-pune-east")
	if err != nil {
		log.Fatalf("shortest path: %v", err)
	}
	printPath(path)

	fmt.Println()
	fmt.Println("=== Greedy collection tour ===")
	tour, err := engine.SequenceRoute(ctx, engine.Graph().VisibleIDs())
	if err != nil {
		log.Fatalf("sequence route: %v", err)
	}
	fmt.Printf("  %s\n", strings.Join(tour.NodeIDs, " -> "))
	fmt.Printf("  %.1f km, %.1f h, cost %.0f, worst leg risk %.1f%%\n",
		tour.TotalDistanceKm, tour.TotalTimeHours, tour.TotalCost, tour.MaxSpoilageRisk)

	fmt.Println()
	fmt.Println("=== Network flow ===")
	flow, err := engine.AggregateFlow(ctx)
	if err != nil {
		log.Fatalf("aggregate flow: %v", err)
	}
	for _, p := range flow.Paths {
		printPath(p)
	}
	fmt.Printf("\n  pairs %d/%d connected | total cost %.0f | total time %.1f h\n",
		flow.PairsConnected, flow.PairsEvaluated, flow.TotalCost, flow.TotalTimeHours)
	fmt.Printf("  mean spoilage risk %.1f%% | efficiency %.1f/100\n",
		flow.MeanSpoilageRisk, flow.EfficiencyScore)

	if flow.EfficiencyScore < 40 {
		fmt.Fprintln(os.Stderr, "warning: network efficiency below 40, review constraints")
	}
}

func printPath(p routing.PathResult) {
	marker := "suboptimal"
	if p.Optimal {
		marker = "optimal"
	}
	fmt.Printf("  [%s] %s: %.1f km, %.2f h, cost %.0f, max leg risk %.1f%%\n",
		marker, strings.Join(p.NodeIDs, " -> "),
		p.TotalDistanceKm, p.TotalTimeHours, p.TotalCost, p.MaxSpoilageRisk)
}

// sampleNetwork is a small Maharashtra-flavored supply chain: two farms,
// an aggregation mandi, a processing unit, a distribution hub and two
// retail stores.
func sampleNetwork() []network.Node {
	return []network.Node{
		{ID: "farm-nashik", Name: "Nashik Farm Cluster", Tier: network.TierProducer,
			Position: geo.Coordinate{Lat: 19.9975, Lon: 73.7898}, CapacityUnits: 800, ProductionRate: 500, Visible: true},
		{ID: "farm-sangli", Name: "Sangli Farm Cluster", Tier: network.TierProducer,
			Position: geo.Coordinate{Lat: 16.8524, Lon: 74.5815}, CapacityUnits: 600, ProductionRate: 350, Visible: true},
		{ID: "mandi-nashik", Name: "Nashik APMC Mandi", Tier: network.TierAggregator,
			Position: geo.Coordinate{Lat: 19.9615, Lon: 73.8087}, CapacityUnits: 1500, Visible: true},
		{ID: "proc-pune", Name: "Pune Processing Unit", Tier: network.TierProcessor,
			Position: geo.Coordinate{Lat: 18.5913, Lon: 73.7389}, CapacityUnits: 2000, Visible: true},
		{ID: "hub-pune", Name: "Pune Distribution Hub", Tier: network.TierDistributor,
			Position: geo.Coordinate{Lat: 18.5204, Lon: 73.8567}, CapacityUnits: 2500, Visible: true},
		{ID: "store-pune-east", Name: "Pune East Store", Tier: network.TierRetail,
			Position: geo.Coordinate{Lat: 18.5620, Lon: 73.9430}, CapacityUnits: 300, DemandRate: 280, Visible: true},
		{ID: "store-mumbai", Name: "Mumbai Store", Tier: network.TierRetail,
			Position: geo.Coordinate{Lat: 19.0760, Lon: 72.8777}, CapacityUnits: 450, DemandRate: 400, Visible: true},
	}
}
