package hardware

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Thermal thresholds (°C) for the status line and advisory suggestions.
const (
	tempWarm     = 70.0
	tempCritical = 85.0
)

// SensorProber reads temperature sensors via gopsutil. Power telemetry has
// no portable source, so the power section only reports availability.
type SensorProber struct {
	// sensors is a test seam over host.SensorsTemperaturesWithContext.
	sensors func(ctx context.Context) ([]host.TemperatureStat, error)
}

func NewSensorProber() *SensorProber {
	return &SensorProber{sensors: host.SensorsTemperaturesWithContext}
}

func (p *SensorProber) Probe(ctx context.Context) (Reading, error) {
	stats, err := p.sensors(ctx)
	if err != nil {
		return Reading{}, fmt.Errorf("reading temperature sensors: %w", err)
	}

	r := Reading{
		PowerSummary: "Power information not available\n",
	}

	var maxTemp float64
	var maxKey string
	for _, s := range stats {
		if s.Temperature > maxTemp {
			maxTemp = s.Temperature
			maxKey = s.SensorKey
		}
	}

	if maxKey == "" {
		r.ThermalSummary = "Thermal information not available\n"
		return r, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Max Temperature: %.1f°C (%s)\n", maxTemp, maxKey)
	fmt.Fprintf(&b, "Thermal Status: %s\n", thermalStatus(maxTemp))
	r.ThermalSummary = b.String()

	switch {
	case maxTemp >= tempCritical:
		r.Suggestions = append(r.Suggestions,
			fmt.Sprintf("Thermal alert: %s at %.1f°C, reduce load or improve cooling", maxKey, maxTemp))
	case maxTemp >= tempWarm:
		r.Suggestions = append(r.Suggestions,
			fmt.Sprintf("%s is running warm (%.1f°C), check airflow", maxKey, maxTemp))
	}

	return r, nil
}

func thermalStatus(temp float64) string {
	switch {
	case temp >= tempCritical:
		return "Critical"
	case temp >= tempWarm:
		return "Warm"
	default:
		return "Normal"
	}
}
