// Package sysinfo gathers local system telemetry (host, memory, CPU,
// network, disks, temperature sensors) for the status report. Each
// collector is independent: one failing source never poisons the others.
package sysinfo

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
)

const (
	mib = 1024 * 1024
	gib = 1024 * 1024 * 1024
)

// Collector reads system telemetry through gopsutil. The function fields
// are test seams; production code uses NewCollector.
type Collector struct {
	hostInfo   func(ctx context.Context) (*host.InfoStat, error)
	virtualMem func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	cpuPercent func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	ioCounters func(ctx context.Context, pernic bool) ([]gnet.IOCountersStat, error)
	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	sensors    func(ctx context.Context) ([]host.TemperatureStat, error)

	// trafficWindow is the interval between the two samples used to derive
	// the current transfer rate.
	trafficWindow time.Duration
}

func NewCollector() *Collector {
	return &Collector{
		hostInfo:      host.InfoWithContext,
		virtualMem:    mem.VirtualMemoryWithContext,
		cpuPercent:    cpu.PercentWithContext,
		ioCounters:    gnet.IOCountersWithContext,
		partitions:    disk.PartitionsWithContext,
		usage:         disk.UsageWithContext,
		sensors:       host.SensorsTemperaturesWithContext,
		trafficWindow: time.Second,
	}
}

// Overview returns the report header: system name, memory in use and
// global CPU usage.
func (c *Collector) Overview(ctx context.Context) (string, error) {
	info, err := c.hostInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("host info: %w", err)
	}

	vm, err := c.virtualMem(ctx)
	if err != nil {
		return "", fmt.Errorf("memory info: %w", err)
	}

	// A short sampling interval keeps the handler responsive while still
	// measuring actual usage rather than the since-boot average.
	pcts, err := c.cpuPercent(ctx, 200*time.Millisecond, false)
	if err != nil {
		return "", fmt.Errorf("cpu usage: %w", err)
	}
	var cpuPct float64
	if len(pcts) > 0 {
		cpuPct = pcts[0]
	}

	out := fmt.Sprintf("System name: %s (%s %s)\n", info.Hostname, info.Platform, info.PlatformVersion)
	out += fmt.Sprintf("Memory in Use: %d MB\n", vm.Used/mib)
	out += fmt.Sprintf("CPU usage: %.1f%%\n", cpuPct)

	return out, nil
}

// NetworkTotals reports cumulative per-interface transfer since boot.
func (c *Collector) NetworkTotals(ctx context.Context) ([]string, error) {
	counters, err := c.ioCounters(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("network counters: %w", err)
	}

	out := make([]string, 0, len(counters))
	for _, nic := range counters {
		out = append(out, fmt.Sprintf("%s: %d MB (down) / %d MB (up)",
			nic.Name, nic.BytesRecv/mib, nic.BytesSent/mib))
	}
	return out, nil
}

// NetworkTraffic measures the current transfer rate per interface with two
// samples spaced trafficWindow apart.
func (c *Collector) NetworkTraffic(ctx context.Context) ([]string, error) {
	before, err := c.ioCounters(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("network counters: %w", err)
	}

	prev := make(map[string]gnet.IOCountersStat, len(before))
	for _, nic := range before {
		prev[nic.Name] = nic
	}

	select {
	case <-time.After(c.trafficWindow):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	after, err := c.ioCounters(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("network counters: %w", err)
	}

	secs := c.trafficWindow.Seconds()
	out := make([]string, 0, len(after))
	for _, nic := range after {
		p, ok := prev[nic.Name]
		if !ok {
			continue
		}
		down := float64(nic.BytesRecv-p.BytesRecv) / 1024.0 / secs
		up := float64(nic.BytesSent-p.BytesSent) / 1024.0 / secs
		out = append(out, fmt.Sprintf("%s: %.1f kB/s (down) / %.1f kB/s (up)", nic.Name, down, up))
	}
	return out, nil
}

// Components lists temperature sensors with their current readings.
func (c *Collector) Components(ctx context.Context) ([]string, error) {
	stats, err := c.sensors(ctx)
	if err != nil {
		return nil, fmt.Errorf("temperature sensors: %w", err)
	}

	out := make([]string, 0, len(stats))
	for _, s := range stats {
		if s.Temperature == 0 {
			out = append(out, fmt.Sprintf("%s: Temperature Unavailable", s.SensorKey))
			continue
		}
		out = append(out, fmt.Sprintf("%s: %.1f°C", s.SensorKey, s.Temperature))
	}
	return out, nil
}

// Disks lists mounted physical partitions with usage.
func (c *Collector) Disks(ctx context.Context) ([]string, error) {
	parts, err := c.partitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("disk partitions: %w", err)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		u, err := c.usage(ctx, p.Mountpoint)
		if err != nil {
			out = append(out, fmt.Sprintf("%s (%s): usage unavailable: %v", p.Device, p.Mountpoint, err))
			continue
		}
		out = append(out, fmt.Sprintf("%s (%s): %.1f/%.1f GB used (%.0f%%)",
			p.Device, p.Mountpoint,
			float64(u.Used)/gib, float64(u.Total)/gib, u.UsedPercent))
	}
	return out, nil
}
